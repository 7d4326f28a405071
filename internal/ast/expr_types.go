package ast

import (
	"bitflags/internal/source"
)

// ExprKind enumerates the expression forms the parser can produce. Only a
// subset is a valid flag value; the rest exist so that the checker can
// explain why a value is not a constant.
type ExprKind uint8

const (
	// ExprBad stands in for an expression that failed to parse.
	ExprBad ExprKind = iota
	// ExprIntLit is an integer literal in any base.
	ExprIntLit
	ExprFloatLit
	ExprStringLit
	// ExprRef names an earlier flag, either bare or as Name.bits.
	ExprRef
	// ExprSelector is a dotted access other than .bits.
	ExprSelector
	ExprCall
	ExprBinary
	ExprUnary
	ExprGroup
)

var exprKindNames = [...]string{
	ExprBad:       "bad expression",
	ExprIntLit:    "integer literal",
	ExprFloatLit:  "float literal",
	ExprStringLit: "string literal",
	ExprRef:       "flag reference",
	ExprSelector:  "selector",
	ExprCall:      "call",
	ExprBinary:    "binary expression",
	ExprUnary:     "unary expression",
	ExprGroup:     "parenthesized expression",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "expression"
}

// Expr is an expression node; its payload lives in the arena matching Kind.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinaryOr BinaryOp = iota
	BinaryXor
	BinaryAnd
	BinaryShl
	BinaryShr
	// arithmetic operators parse but are not constant bit expressions
	BinaryAdd
	BinarySub
	BinaryMul
)

var binaryOpText = [...]string{
	BinaryOr:  "|",
	BinaryXor: "^",
	BinaryAnd: "&",
	BinaryShl: "<<",
	BinaryShr: ">>",
	BinaryAdd: "+",
	BinarySub: "-",
	BinaryMul: "*",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// Precedence follows Go: shifts and & bind tighter than | and ^.
func (op BinaryOp) Precedence() int {
	switch op {
	case BinaryMul, BinaryAnd, BinaryShl, BinaryShr:
		return 5
	case BinaryAdd, BinarySub, BinaryOr, BinaryXor:
		return 4
	default:
		return 0
	}
}

// IsBitwise reports whether op is allowed in a flag value.
func (op BinaryOp) IsBitwise() bool {
	return op <= BinaryShr
}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryComplement
	UnaryPlus
)

var unaryOpText = [...]string{
	UnaryNeg:        "-",
	UnaryNot:        "!",
	UnaryComplement: "~",
	UnaryPlus:       "+",
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpText) {
		return unaryOpText[op]
	}
	return "?"
}

type ExprLitData struct {
	Text string
}

// ExprRefData names a flag. Bits is set for the Name.bits spelling.
type ExprRefData struct {
	Name Ident
	Bits bool
}

type ExprSelectorData struct {
	Target ExprID
	Field  Ident
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprBinaryData struct {
	Op     BinaryOp
	OpSpan source.Span
	Left   ExprID
	Right  ExprID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprGroupData struct {
	Inner ExprID
}
