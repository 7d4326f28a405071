package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexUnterminatedBlock  Code = 1003
	LexBadNumber          Code = 1004

	// syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnexpectedTopLevel Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectColon        Code = 2004
	SynExpectWidth        Code = 2005
	SynExpectLBrace       Code = 2006
	SynUnclosedBrace      Code = 2007
	SynExpectAssign       Code = 2008
	SynExpectExpression   Code = 2009
	SynExpectComma        Code = 2010
	SynUnclosedParen      Code = 2011
	SynPackageNotFirst    Code = 2012
	SynDuplicatePackage   Code = 2013

	// definition time
	DefInfo                   Code = 4000
	DefDuplicateFlagName      Code = 4001
	DefUndefinedFlagReference Code = 4002
	DefNonConstantValue       Code = 4003
	DefNameConflict           Code = 4004
	DefValueOverflow          Code = 4005
	DefUnknownWidth           Code = 4006
	DefDuplicateTypeName      Code = 4007
	DefReservedName           Code = 4008
	DefBadPackageName         Code = 4009
	DefZeroFlag               Code = 4101
	DefAliasedFlag            Code = 4102
	DefEmptyFlagSet           Code = 4103

	// generation
	GenInfo        Code = 5000
	GenFormatError Code = 5001
	GenWriteError  Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	LexInfo:                   "Lexical information",
	LexUnknownChar:            "Unknown character",
	LexUnterminatedString:     "Unterminated string literal",
	LexUnterminatedBlock:      "Unterminated block comment",
	LexBadNumber:              "Malformed number literal",
	SynInfo:                   "Syntax information",
	SynUnexpectedToken:        "Unexpected token",
	SynUnexpectedTopLevel:     "Unexpected top-level construct",
	SynExpectIdentifier:       "Expected identifier",
	SynExpectColon:            "Expected ':' after flag set name",
	SynExpectWidth:            "Expected integer width",
	SynExpectLBrace:           "Expected '{'",
	SynUnclosedBrace:          "Unclosed '{'",
	SynExpectAssign:           "Expected '=' after flag name",
	SynExpectExpression:       "Expected value expression",
	SynExpectComma:            "Expected ',' between flags",
	SynUnclosedParen:          "Unclosed '('",
	SynPackageNotFirst:        "package clause must come first",
	SynDuplicatePackage:       "Duplicate package clause",
	DefInfo:                   "Definition information",
	DefDuplicateFlagName:      "Duplicate flag name",
	DefUndefinedFlagReference: "Undefined flag reference",
	DefNonConstantValue:       "Flag value is not a constant integer",
	DefNameConflict:           "Name conflicts with another package-level identifier",
	DefValueOverflow:          "Flag value does not fit the declared width",
	DefUnknownWidth:           "Unknown integer width",
	DefDuplicateTypeName:      "Duplicate flag set name",
	DefReservedName:           "Reserved identifier",
	DefBadPackageName:         "Invalid package name",
	DefZeroFlag:               "Flag has no bits set",
	DefAliasedFlag:            "Flag repeats the bits of an earlier flag",
	DefEmptyFlagSet:           "Flag set declares no flags",
	GenInfo:                   "Generation information",
	GenFormatError:            "Generated code failed to format",
	GenWriteError:             "Generated code could not be written",
}

// ID returns the stable short form, e.g. "DEF4001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("DEF%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
