package sema

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/model"
	"bitflags/internal/source"
)

// value is an evaluated flag value.
type value struct {
	bits uint64
	// refs is set when the expression is a pure OR of earlier flags
	refs []string
}

type evaluated struct {
	bits     uint64
	span     source.Span
	poisoned bool // evaluation failed and was already reported
}

// evaluator computes flag values of one declaration in order. Values are
// two's complement bit patterns masked to the declaration width.
type evaluator struct {
	*checker
	decl    *ast.FlagSetDecl
	index   int
	width   model.Width
	current int
	known   map[string]evaluated
	order   []string
}

func (ev *evaluator) evalFlag(flag *ast.FlagDecl) (value, bool) {
	if !flag.Value.IsValid() {
		return value{}, false
	}
	bits, ok := ev.eval(flag.Value)
	if !ok {
		return value{}, false
	}
	v := value{bits: bits & ev.width.Mask()}
	if refs, pure := ev.orRefs(flag.Value); pure {
		v.refs = refs
	}
	return v, true
}

func (ev *evaluator) eval(id ast.ExprID) (uint64, bool) {
	expr := ev.exprs.Get(id)
	if expr == nil {
		return 0, false
	}
	switch expr.Kind {
	case ast.ExprBad:
		return 0, false

	case ast.ExprIntLit:
		lit, _ := ev.exprs.Literal(id)
		return ev.literal(lit.Text, expr.Span, ev.width.Max())

	case ast.ExprFloatLit:
		lit, _ := ev.exprs.Literal(id)
		ev.nonConstant(expr.Span, "float literal "+lit.Text+" is not an integer flag value")
		return 0, false

	case ast.ExprStringLit:
		ev.nonConstant(expr.Span, "string literal is not an integer flag value")
		return 0, false

	case ast.ExprRef:
		ref, _ := ev.exprs.Ref(id)
		return ev.lookup(ref.Name)

	case ast.ExprSelector:
		sel, _ := ev.exprs.Selector(id)
		ev.nonConstant(expr.Span, "only .bits may follow a flag name, found ."+sel.Field.Name)
		return 0, false

	case ast.ExprCall:
		ev.nonConstant(expr.Span, "call is not a constant flag value")
		return 0, false

	case ast.ExprGroup:
		g, _ := ev.exprs.Group(id)
		return ev.eval(g.Inner)

	case ast.ExprUnary:
		return ev.evalUnary(id, expr)

	case ast.ExprBinary:
		return ev.evalBinary(id, expr)
	}
	return 0, false
}

// literal parses an integer literal and checks it against limit.
func (ev *evaluator) literal(text string, span source.Span, limit uint64) (uint64, bool) {
	n, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			ev.overflow(span, text+" overflows 64 bits")
		} else {
			diag.ReportError(ev.reporter, diag.LexBadNumber, span, "malformed integer literal "+text).Emit()
		}
		return 0, false
	}
	if n > limit {
		ev.overflow(span, fmt.Sprintf("%s overflows %s (max %s)", text, ev.width, ev.width.Format(ev.width.Max())))
		return 0, false
	}
	return n, true
}

func (ev *evaluator) evalUnary(id ast.ExprID, expr *ast.Expr) (uint64, bool) {
	un, _ := ev.exprs.Unary(id)
	if un.Op != ast.UnaryNeg {
		ev.nonConstant(expr.Span, "unary "+un.Op.String()+" is not allowed in flag values")
		return 0, false
	}
	if !ev.width.Signed {
		ev.overflow(expr.Span, "cannot negate a value of unsigned width "+ev.width.Name())
		return 0, false
	}

	// -128 is a valid int8 even though 128 is not
	if operand := ev.exprs.Get(un.Operand); operand != nil && operand.Kind == ast.ExprIntLit {
		lit, _ := ev.exprs.Literal(un.Operand)
		n, ok := ev.literal(lit.Text, operand.Span, ev.width.SignBit())
		if !ok {
			return 0, false
		}
		return -n & ev.width.Mask(), true
	}

	x, ok := ev.eval(un.Operand)
	if !ok {
		return 0, false
	}
	if x == ev.width.SignBit() {
		ev.overflow(expr.Span, fmt.Sprintf("negating %s overflows %s", ev.width.Format(x), ev.width))
		return 0, false
	}
	return -x & ev.width.Mask(), true
}

func (ev *evaluator) evalBinary(id ast.ExprID, expr *ast.Expr) (uint64, bool) {
	bin, _ := ev.exprs.Binary(id)
	if !bin.Op.IsBitwise() {
		ev.nonConstant(bin.OpSpan, "operator "+bin.Op.String()+" is not allowed in flag values; combine flags with |")
		return 0, false
	}
	// evaluate both sides so that every problem is reported in one run
	l, lok := ev.eval(bin.Left)
	r, rok := ev.eval(bin.Right)
	if !lok || !rok {
		return 0, false
	}

	w := ev.width
	switch bin.Op {
	case ast.BinaryOr:
		return l | r, true
	case ast.BinaryXor:
		return l ^ r, true
	case ast.BinaryAnd:
		return l & r, true
	}

	if w.IsNegative(r) || r >= uint64(w.Size) {
		ev.overflow(ev.exprs.Get(bin.Right).Span,
			fmt.Sprintf("shift count %d out of range for %s", w.Int64(r), w))
		return 0, false
	}
	n := uint(r)
	if bin.Op == ast.BinaryShr {
		if w.IsNegative(l) {
			return uint64(w.Int64(l)>>n) & w.Mask(), true
		}
		return l >> n, true
	}

	res := (l << n) & w.Mask()
	// shifting into the sign bit is allowed, shifting set bits out is not
	lost := res>>n != l
	if w.IsNegative(l) {
		lost = w.Int64(res)>>n != w.Int64(l)
	}
	if lost {
		ev.overflow(expr.Span, fmt.Sprintf("%s << %d overflows %s", w.Format(l), n, w))
		return 0, false
	}
	return res, true
}

// lookup resolves a reference to an earlier flag of the same declaration.
func (ev *evaluator) lookup(name ast.Ident) (uint64, bool) {
	current := &ev.decl.Flags[ev.current]
	setName := ev.decl.Name.Name

	if name.Name == current.Name.Name {
		diag.ReportError(ev.reporter, diag.DefUndefinedFlagReference, name.Span,
			"flag "+name.Name+" refers to itself").Emit()
		return 0, false
	}
	if v, ok := ev.known[name.Name]; ok {
		return v.bits, !v.poisoned
	}
	if span, idx, ok := flagSpanIn(ev.decl, name.Name); ok && idx > ev.current {
		diag.ReportError(ev.reporter, diag.DefUndefinedFlagReference, name.Span,
			"flag "+name.Name+" is used before it is declared").
			WithNote(span, name.Name+" declared later here").Emit()
		return 0, false
	}
	if d, ok := ev.declOf(name.Name); ok && d != ev.index {
		other := &ev.file.Decls[d]
		span, _, _ := flagSpanIn(other, name.Name)
		diag.ReportError(ev.reporter, diag.DefUndefinedFlagReference, name.Span,
			name.Name+" is a flag of "+other.Name.Name+", not "+setName).
			WithNote(span, "flag sets are distinct types and never interoperate").Emit()
		return 0, false
	}

	b := diag.ReportError(ev.reporter, diag.DefUndefinedFlagReference, name.Span,
		"undefined flag "+name.Name+" in "+setName)
	if guess := ev.closestEarlier(name.Name); guess != "" {
		b.WithFix("use "+guess, diag.FixEdit{Span: name.Span, NewText: guess})
	}
	b.Emit()
	return 0, false
}

// closestEarlier suggests an already evaluated flag one edit away.
func (ev *evaluator) closestEarlier(name string) string {
	for _, cand := range ev.order {
		if oneEditApart(name, cand) {
			return cand
		}
	}
	return ""
}

// orRefs reports the flags of a pure OR expression such as A | (B | C.bits).
func (ev *evaluator) orRefs(id ast.ExprID) ([]string, bool) {
	expr := ev.exprs.Get(id)
	if expr == nil {
		return nil, false
	}
	switch expr.Kind {
	case ast.ExprRef:
		ref, _ := ev.exprs.Ref(id)
		return []string{ref.Name.Name}, true
	case ast.ExprGroup:
		g, _ := ev.exprs.Group(id)
		return ev.orRefs(g.Inner)
	case ast.ExprBinary:
		bin, _ := ev.exprs.Binary(id)
		if bin.Op != ast.BinaryOr {
			return nil, false
		}
		left, lok := ev.orRefs(bin.Left)
		right, rok := ev.orRefs(bin.Right)
		if !lok || !rok {
			return nil, false
		}
		out := left
		for _, name := range right {
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
		return out, true
	}
	return nil, false
}

func (ev *evaluator) nonConstant(span source.Span, msg string) {
	diag.ReportError(ev.reporter, diag.DefNonConstantValue, span, msg).Emit()
}

func (ev *evaluator) overflow(span source.Span, msg string) {
	diag.ReportError(ev.reporter, diag.DefValueOverflow, span, msg).Emit()
}

func oneEditApart(a, b string) bool {
	if a == b {
		return false
	}
	la, lb := len(a), len(b)
	if la-lb > 1 || lb-la > 1 {
		return false
	}
	i := 0
	for i < la && i < lb && a[i] == b[i] {
		i++
	}
	switch {
	case la == lb:
		return a[i+1:] == b[i+1:]
	case la > lb:
		return a[i+1:] == b[i:]
	default:
		return a[i:] == b[i+1:]
	}
}
