package ast

import (
	"bitflags/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena     *Arena[Expr]
	Literals  *Arena[ExprLitData]
	Refs      *Arena[ExprRefData]
	Selectors *Arena[ExprSelectorData]
	Calls     *Arena[ExprCallData]
	Binaries  *Arena[ExprBinaryData]
	Unaries   *Arena[ExprUnaryData]
	Groups    *Arena[ExprGroupData]
}

// NewExprs creates the per-kind arenas. A zero capHint means 64.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Exprs{
		Arena:     NewArena[Expr](capHint),
		Literals:  NewArena[ExprLitData](capHint),
		Refs:      NewArena[ExprRefData](capHint),
		Selectors: NewArena[ExprSelectorData](capHint / 4),
		Calls:     NewArena[ExprCallData](capHint / 4),
		Binaries:  NewArena[ExprBinaryData](capHint),
		Unaries:   NewArena[ExprUnaryData](capHint / 4),
		Groups:    NewArena[ExprGroupData](capHint / 4),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID, or nil.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewBad records a placeholder for an expression that failed to parse.
func (e *Exprs) NewBad(span source.Span) ExprID {
	return e.new(ExprBad, span, NoPayloadID)
}

// NewLiteral creates an integer, float or string literal. kind must be one
// of the literal kinds.
func (e *Exprs) NewLiteral(span source.Span, kind ExprKind, text string) ExprID {
	payload := e.Literals.Allocate(ExprLitData{Text: text})
	return e.new(kind, span, PayloadID(payload))
}

// Literal returns the literal text for any literal kind.
func (e *Exprs) Literal(id ExprID) (*ExprLitData, bool) {
	expr := e.Get(id)
	if expr == nil {
		return nil, false
	}
	switch expr.Kind {
	case ExprIntLit, ExprFloatLit, ExprStringLit:
		return e.Literals.Get(uint32(expr.Payload)), true
	}
	return nil, false
}

func (e *Exprs) NewRef(span source.Span, name Ident, bits bool) ExprID {
	payload := e.Refs.Allocate(ExprRefData{Name: name, Bits: bits})
	return e.new(ExprRef, span, PayloadID(payload))
}

func (e *Exprs) Ref(id ExprID) (*ExprRefData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprRef {
		return nil, false
	}
	return e.Refs.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewSelector(span source.Span, target ExprID, field Ident) ExprID {
	payload := e.Selectors.Allocate(ExprSelectorData{Target: target, Field: field})
	return e.new(ExprSelector, span, PayloadID(payload))
}

func (e *Exprs) Selector(id ExprID) (*ExprSelectorData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprSelector {
		return nil, false
	}
	return e.Selectors.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, Args: args})
	return e.new(ExprCall, span, PayloadID(payload))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewBinary creates a binary expression spanning both operands.
func (e *Exprs) NewBinary(span, opSpan source.Span, op BinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, OpSpan: opSpan, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(payload))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(payload))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	payload := e.Groups.Allocate(ExprGroupData{Inner: inner})
	return e.new(ExprGroup, span, PayloadID(payload))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprGroup {
		return nil, false
	}
	return e.Groups.Get(uint32(expr.Payload)), true
}
