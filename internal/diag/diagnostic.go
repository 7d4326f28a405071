package diag

import (
	"bitflags/internal/source"
)

// Note is secondary context attached to a diagnostic ("first declared here").
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces the text covered by Span with NewText.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a suggested, mechanically applicable correction.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
