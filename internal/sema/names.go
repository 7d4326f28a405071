package sema

import (
	"go/token"
	"strings"

	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/source"
)

type entryKind uint8

const (
	entryType entryKind = iota
	entryFunc
	entryFlag
)

// scopeEntry is one package-level identifier the generated file declares.
type scopeEntry struct {
	kind entryKind
	decl int
	span source.Span
	what string
}

// predeclared lists Go's universe scope. Shadowing any of them in the
// generated file either breaks it or makes it misleading.
var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true,
	"complex64": true, "complex128": true, "error": true, "float32": true, "float64": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"rune": true, "string": true, "uint": true, "uint8": true, "uint16": true,
	"uint32": true, "uint64": true, "uintptr": true,
	"true": true, "false": true, "iota": true, "nil": true,
	"append": true, "cap": true, "clear": true, "close": true, "complex": true,
	"copy": true, "delete": true, "imag": true, "len": true, "make": true,
	"max": true, "min": true, "new": true, "panic": true, "print": true,
	"println": true, "real": true, "recover": true,
	"init": true,
}

// reservedReason explains why name cannot be a package-level identifier, or
// returns "".
func reservedReason(name string) string {
	switch {
	case name == "_":
		return "the blank identifier cannot name a declaration"
	case token.IsKeyword(name):
		return "'" + name + "' is a Go keyword"
	case predeclared[name]:
		return "'" + name + "' is a predeclared Go identifier"
	case strings.HasPrefix(name, "_"):
		return "names starting with '_' are reserved for generated code"
	case !token.IsIdentifier(name):
		return "'" + name + "' is not a valid Go identifier"
	}
	return ""
}

// checkPackage resolves the package name from the clause or the fallback.
func (c *checker) checkPackage(fallback string) string {
	name, span := c.file.Package.Name, c.file.Package.Span
	if name == "" {
		name = fallback
	}
	if name == "" {
		diag.ReportError(c.reporter, diag.DefBadPackageName, c.file.Span.AtStart(),
			"no package name: add a package clause or pass --package").Emit()
		return ""
	}
	if name == "_" || token.IsKeyword(name) || !token.IsIdentifier(name) {
		if c.file.Package.IsZero() {
			span = c.file.Span.AtStart()
		}
		diag.ReportError(c.reporter, diag.DefBadPackageName, span,
			"invalid package name '"+name+"'").Emit()
	}
	return name
}

// declareNames fills the package scope in declaration order and reports
// every clash: duplicate flags within a declaration, duplicate types, and
// any other identifier collision across the generated file.
func (c *checker) declareNames() {
	for i := range c.file.Decls {
		decl := &c.file.Decls[i]
		typeName := decl.Name.Name

		if reason := reservedReason(typeName); reason != "" {
			diag.ReportError(c.reporter, diag.DefReservedName, decl.Name.Span,
				"cannot use "+typeName+" as a flag set name: "+reason).Emit()
		} else if c.declare(typeName, scopeEntry{kind: entryType, decl: i, span: decl.Name.Span, what: "flag set " + typeName}) {
			for _, fn := range generatedFuncs(typeName) {
				c.declare(fn, scopeEntry{kind: entryFunc, decl: i, span: decl.Name.Span, what: "function " + fn + " generated for " + typeName})
			}
		}

		for j := range decl.Flags {
			flag := &decl.Flags[j]
			name := flag.Name.Name
			if reason := reservedReason(name); reason != "" {
				diag.ReportError(c.reporter, diag.DefReservedName, flag.Name.Span,
					"cannot use "+name+" as a flag name: "+reason).Emit()
				continue
			}
			if _, taken := c.owners[name]; !taken {
				c.owners[name] = i
			}
			c.declare(name, scopeEntry{kind: entryFlag, decl: i, span: flag.Name.Span, what: "flag " + name + " of " + typeName})
		}
	}
}

// declare adds name to the package scope and reports false on a clash.
func (c *checker) declare(name string, e scopeEntry) bool {
	prev, exists := c.scope[name]
	if !exists {
		c.scope[name] = e
		return true
	}

	switch {
	case prev.kind == entryFlag && e.kind == entryFlag && prev.decl == e.decl:
		diag.ReportError(c.reporter, diag.DefDuplicateFlagName, e.span,
			"duplicate flag "+name+" in "+c.file.Decls[e.decl].Name.Name).
			WithNote(prev.span, "first declared here").Emit()
	case prev.kind == entryType && e.kind == entryType:
		diag.ReportError(c.reporter, diag.DefDuplicateTypeName, e.span,
			"flag set "+name+" is declared more than once").
			WithNote(prev.span, "first declared here").Emit()
	default:
		diag.ReportError(c.reporter, diag.DefNameConflict, e.span,
			e.what+" conflicts with "+prev.what).
			WithNote(prev.span, "package-level name "+name+" already used here").Emit()
	}
	return false
}

// generatedFuncs are the package-level functions emitted per flag set.
func generatedFuncs(typeName string) []string {
	return []string{"Empty" + typeName, typeName + "FromBits"}
}

// declOf reports which declaration, if any, owns a flag name.
func (c *checker) declOf(name string) (int, bool) {
	i, ok := c.owners[name]
	return i, ok
}

// flagSpanIn returns the first span of name within decl.
func flagSpanIn(decl *ast.FlagSetDecl, name string) (source.Span, int, bool) {
	for i := range decl.Flags {
		if decl.Flags[i].Name.Name == name {
			return decl.Flags[i].Name.Span, i, true
		}
	}
	return source.Span{}, -1, false
}
