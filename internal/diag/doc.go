// Package diag defines the diagnostic model shared by the lexer, parser and
// the definition-time checker.
//
// Every problem with a flag declaration is a Diagnostic: a severity, a stable
// Code (LEX1xxx lexical, SYN2xxx syntax, DEF4xxx definition, GEN5xxx
// generation), a short message, the primary source.Span and optional Notes
// and Fixes. Producers emit through a Reporter, usually a BagReporter that
// stores into a Bag; the Bag supports sorting, deduplication and filtering.
//
// Package diag performs no IO and no formatting beyond the single-line short
// form used in golden tests. Rendering lives in internal/diagfmt.
//
// A declaration with any SevError diagnostic must never reach the generator:
// all checks happen before code is emitted, none are deferred to run time.
package diag
