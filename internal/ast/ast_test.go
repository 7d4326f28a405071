package ast

import (
	"testing"

	"bitflags/internal/source"
)

func TestArenaZeroIndexIsNone(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatal("index 0 must be nil")
	}
	id := a.Allocate(42)
	if id != 1 || *a.Get(id) != 42 {
		t.Fatalf("Allocate returned %d -> %v", id, a.Get(id))
	}
	if a.Get(2) != nil {
		t.Error("out of range index must be nil")
	}
}

func TestExprAccessorsCheckKind(t *testing.T) {
	e := NewExprs(0)
	sp := source.Span{File: 1, Start: 0, End: 3}

	lit := e.NewLiteral(sp, ExprIntLit, "0x1")
	ref := e.NewRef(sp, Ident{Name: "Read"}, true)
	bin := e.NewBinary(sp, sp, BinaryOr, lit, ref)

	if _, ok := e.Ref(lit); ok {
		t.Error("Ref accepted a literal")
	}
	if d, ok := e.Literal(lit); !ok || d.Text != "0x1" {
		t.Errorf("Literal = %+v, %v", d, ok)
	}
	if d, ok := e.Ref(ref); !ok || !d.Bits || d.Name.Name != "Read" {
		t.Errorf("Ref = %+v, %v", d, ok)
	}
	if d, ok := e.Binary(bin); !ok || d.Left != lit || d.Right != ref {
		t.Errorf("Binary = %+v, %v", d, ok)
	}
	if e.Get(NoExprID) != nil {
		t.Error("NoExprID resolved to a node")
	}
}

func TestBinaryPrecedenceMatchesGo(t *testing.T) {
	if BinaryShl.Precedence() <= BinaryOr.Precedence() {
		t.Error("<< must bind tighter than |")
	}
	if BinaryAnd.Precedence() <= BinaryXor.Precedence() {
		t.Error("& must bind tighter than ^")
	}
	if BinaryOr.Precedence() != BinaryXor.Precedence() {
		t.Error("| and ^ share a level")
	}
}
