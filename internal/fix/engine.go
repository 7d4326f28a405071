// Package fix applies the mechanical corrections attached to diagnostics
// back to the .flags files they came from.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"bitflags/internal/diag"
	"bitflags/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes the new contents without writing them.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// Candidate is one fix offered by one diagnostic.
type Candidate struct {
	ID   string
	Diag diag.Diagnostic
	Fix  diag.Fix
}

// Candidates lists every fix in diagnostics in source order with a stable ID
// of the form CODE-line:col or CODE-line:col-N for a diagnostic's Nth
// alternative.
func Candidates(fs *source.FileSet, diagnostics []diag.Diagnostic) []Candidate {
	cands := make([]Candidate, 0)
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			cands = append(cands, Candidate{ID: fixID(fs, d, idx), Diag: d, Fix: f})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := cands[i].Diag, cands[j].Diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		return di.Primary.End < dj.Primary.End
	})
	return cands
}

func fixID(fs *source.FileSet, d diag.Diagnostic, idx int) string {
	start, _ := fs.Resolve(d.Primary)
	id := fmt.Sprintf("%s-%d:%d", d.Code.ID(), start.Line, start.Col)
	if idx > 0 {
		id = fmt.Sprintf("%s-%d", id, idx+1)
	}
	return id
}

// Apply selects fixes from diagnostics according to opts and rewrites the
// affected files.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, errors.New("fix: FileSet is nil")
	}

	candidates := Candidates(fs, diagnostics)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	selected, skipped := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skipped...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skipped, changes := applyCandidates(fs, selected)
	result.Applied = applied
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = changes
	if len(applied) == 0 {
		return result, ErrNoFixes
	}

	if !opts.DryRun {
		for _, ch := range changes {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(ch.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(ch.Path, ch.Content, mode); err != nil {
				return result, fmt.Errorf("write %s: %w", ch.Path, err)
			}
		}
	}
	return result, nil
}

func selectCandidates(candidates []Candidate, opts ApplyOptions) ([]Candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.ID == opts.TargetID {
				return []Candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		// Alternatives for one diagnostic are mutually exclusive; take the first.
		selected := make([]Candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		var prev *diag.Diagnostic
		for i := range candidates {
			cand := candidates[i]
			if prev != nil && sameDiagnostic(*prev, cand.Diag) {
				skipped = append(skipped, SkippedFix{ID: cand.ID, Title: cand.Fix.Title, Reason: "alternative fix"})
				continue
			}
			selected = append(selected, cand)
			prev = &candidates[i].Diag
		}
		return selected, skipped
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

func sameDiagnostic(a, b diag.Diagnostic) bool {
	return a.Code == b.Code && a.Primary == b.Primary && a.Message == b.Message
}

func applyCandidates(fs *source.FileSet, selected []Candidate) ([]AppliedFix, []SkippedFix, []FileChange) {
	accepted := make(map[source.FileID][]diag.FixEdit)
	editCount := make(map[source.FileID]int)

	applied := make([]AppliedFix, 0, len(selected))
	skipped := make([]SkippedFix, 0)

	for _, cand := range selected {
		reason := ""
		for _, edit := range cand.Fix.Edits {
			file := fs.Get(edit.Span.File)
			switch {
			case file.Flags&source.FileVirtual != 0:
				reason = "target file is virtual"
			case edit.Span.Start > edit.Span.End || int(edit.Span.End) > len(file.Content):
				reason = "edit span out of range"
			case conflictsWithExisting(accepted[edit.Span.File], edit):
				reason = "conflicts with a previously applied edit"
			}
			if reason != "" {
				break
			}
		}
		if reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.ID, Title: cand.Fix.Title, Reason: reason})
			continue
		}
		for _, edit := range cand.Fix.Edits {
			accepted[edit.Span.File] = append(accepted[edit.Span.File], edit)
			editCount[edit.Span.File]++
		}
		applied = append(applied, AppliedFix{
			ID:          cand.ID,
			Title:       cand.Fix.Title,
			Code:        cand.Diag.Code,
			Message:     cand.Diag.Message,
			PrimaryPath: fs.Get(cand.Diag.Primary.File).FormatPath("auto", fs.BaseDir()),
			EditCount:   len(cand.Fix.Edits),
		})
	}

	changes := make([]FileChange, 0, len(accepted))
	for fileID, edits := range accepted {
		file := fs.Get(fileID)
		changes = append(changes, FileChange{
			Path:      file.Path,
			EditCount: editCount[fileID],
			Content:   rewrite(file.Content, edits),
		})
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	return applied, skipped, changes
}

// rewrite applies non-overlapping edits to content back to front so earlier
// offsets stay valid.
func rewrite(content []byte, edits []diag.FixEdit) []byte {
	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start > sorted[j].Span.Start
	})
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		tail := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), tail...)
	}
	return out
}

func conflictsWithExisting(existing []diag.FixEdit, edit diag.FixEdit) bool {
	for _, prev := range existing {
		if spansConflict(prev.Span, edit.Span) {
			return true
		}
	}
	return false
}

// spansConflict reports whether two half-open spans overlap. Two insertions
// at the same offset conflict because their order would be ambiguous.
func spansConflict(a, b source.Span) bool {
	if a.Start == a.End && b.Start == b.End {
		return a.Start == b.Start
	}
	if a.Start == a.End {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}
