// Package format rewrites a .flags file into its canonical layout: one flag
// per line with a trailing comma, single spaces around binary operators, a
// blank line between declarations. Comments and doc lines are kept where
// they were written; at most one blank line survives between entries.
package format
