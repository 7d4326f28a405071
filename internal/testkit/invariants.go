// Package testkit holds structural checks shared by parser tests and fuzz
// harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"bitflags/internal/ast"
	"bitflags/internal/source"
)

// CheckSpanInvariants verifies the span nesting of a cleanly parsed file:
//  1. the file span lies within the content
//  2. declarations are non-empty, ordered, disjoint and inside the file span
//  3. every flag sits inside its declaration, and its name inside the flag
//  4. every expression node lies inside its parent
func CheckSpanInvariants(b *ast.Builder, f *ast.File, sf *source.File) error {
	if b == nil || f == nil || sf == nil {
		return fmt.Errorf("nil builder, file or source")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End < f.Span.Start || f.Span.End > lenContent {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}

	var prevEnd uint32
	for i := range f.Decls {
		decl := &f.Decls[i]
		sp := decl.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty span for flag set %s: %v", decl.Name.Name, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("flag set %s span file mismatch: got=%d want=%d", decl.Name.Name, sp.File, sf.ID)
		}
		if !within(sp, f.Span) {
			return fmt.Errorf("flag set %s span %v is outside file span %v", decl.Name.Name, sp, f.Span)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("flag set %s overlaps the previous declaration", decl.Name.Name)
		}
		prevEnd = sp.End
		if !within(decl.Name.Span, sp) {
			return fmt.Errorf("name of %s is outside its declaration", decl.Name.Name)
		}

		for j := range decl.Flags {
			flag := &decl.Flags[j]
			if !within(flag.Span, sp) {
				return fmt.Errorf("flag %s.%s span %v is outside %v", decl.Name.Name, flag.Name.Name, flag.Span, sp)
			}
			if !within(flag.Name.Span, flag.Span) {
				return fmt.Errorf("name of flag %s.%s is outside the flag", decl.Name.Name, flag.Name.Name)
			}
			if err := checkExpr(b.Exprs, flag.Value, flag.Span); err != nil {
				return fmt.Errorf("flag %s.%s: %w", decl.Name.Name, flag.Name.Name, err)
			}
		}
	}
	return nil
}

func checkExpr(exprs *ast.Exprs, id ast.ExprID, parent source.Span) error {
	if !id.IsValid() {
		return nil
	}
	expr := exprs.Get(id)
	if expr == nil {
		return fmt.Errorf("missing expression %d", id)
	}
	if !within(expr.Span, parent) {
		return fmt.Errorf("expression span %v is outside %v", expr.Span, parent)
	}
	var children []ast.ExprID
	switch expr.Kind {
	case ast.ExprBinary:
		if bin, ok := exprs.Binary(id); ok {
			if !within(bin.OpSpan, expr.Span) {
				return fmt.Errorf("operator span %v is outside %v", bin.OpSpan, expr.Span)
			}
			children = append(children, bin.Left, bin.Right)
		}
	case ast.ExprUnary:
		if un, ok := exprs.Unary(id); ok {
			children = append(children, un.Operand)
		}
	case ast.ExprGroup:
		if g, ok := exprs.Group(id); ok {
			children = append(children, g.Inner)
		}
	case ast.ExprSelector:
		if sel, ok := exprs.Selector(id); ok {
			children = append(children, sel.Target)
		}
	case ast.ExprCall:
		if call, ok := exprs.Call(id); ok {
			children = append(children, call.Callee)
			children = append(children, call.Args...)
		}
	}
	for _, child := range children {
		if err := checkExpr(exprs, child, expr.Span); err != nil {
			return err
		}
	}
	return nil
}

func within(inner, outer source.Span) bool {
	return inner.File == outer.File && inner.Start >= outer.Start && inner.End <= outer.End
}
