package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Lexer
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadChar                  Code = 1005
	LexBadEscape                Code = 1006
	LexBadSuffix                Code = 1007

	// Parser
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnexpectedTopLevel Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectSemicolon    Code = 2004
	SynExpectType         Code = 2005
	SynExpectExpression   Code = 2006
	SynUnclosedDelimiter  Code = 2007
	SynExpectPattern      Code = 2008
	SynSelfParamPosition  Code = 2009

	// Name resolution
	SemaError             Code = 3000
	SemaUnresolvedSymbol  Code = 3001
	SemaDuplicateSymbol   Code = 3002
	SemaMissingTypeSymbol Code = 3003
	SemaNotAType          Code = 3004
	SemaNotAValue         Code = 3005
	SemaMissingTraitItem  Code = 3006
	SemaUnknownTraitItem  Code = 3007
	SemaUnknownMember     Code = 3008
	SemaNotATrait         Code = 3009

	// self / Self context
	SemaSelfOutsideMethod   Code = 3100
	SemaSelfInAssociatedFn  Code = 3101
	SemaSelfTypeOutsideImpl Code = 3102
	SemaSelfIllegalPrefix   Code = 3103

	// Types
	SemaTypeMismatch           Code = 3200
	SemaReturnMismatch         Code = 3201
	SemaInvalidBinaryOperands  Code = 3202
	SemaInvalidUnaryOperand    Code = 3203
	SemaConstMissingType       Code = 3204
	SemaExitPlacement          Code = 3205
	SemaArgCount               Code = 3206
	SemaNotCallable            Code = 3207
	SemaUnknownField           Code = 3208
	SemaUnknownMethod          Code = 3209
	SemaNotIndexable           Code = 3210
	SemaNotDereferenceable     Code = 3211
	SemaInvalidCast            Code = 3212
	SemaBreakOutsideLoop       Code = 3213
	SemaContinueOutsideLoop    Code = 3214
	SemaReturnOutsideFn        Code = 3215
	SemaMissingField           Code = 3216
	SemaDuplicateField         Code = 3217
	SemaUnderscoreValue        Code = 3218
	SemaCannotInfer            Code = 3219
	SemaBranchMismatch         Code = 3220
	SemaBreakMismatch          Code = 3221
	SemaNotAStruct             Code = 3222
	SemaIntLiteralOutOfRange   Code = 3223
	SemaConditionNotBool       Code = 3224
	SemaTraitSignatureMismatch Code = 3225

	// Constant evaluation
	SemaConstOverflow     Code = 3300
	SemaConstNotConstant  Code = 3301
	SemaConstDivByZero    Code = 3302
	SemaConstArraySize    Code = 3303
	SemaConstCycle        Code = 3304
	SemaConstIndexOutside Code = 3305

	// Mutability
	SemaAssignImmutable      Code = 3400
	SemaBorrowMutOfImmutable Code = 3401
	SemaBorrowMutConflict    Code = 3402
	SemaBorrowSharedConflict Code = 3403
	SemaInvalidAssignTarget  Code = 3404

	// I/O
	IOLoadFileError Code = 4001

	// Project
	ProjManifestInvalid Code = 5001
	ProjSuiteInvalid    Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexer information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexBadChar:                  "Malformed character literal",
	LexBadEscape:                "Invalid escape sequence",
	LexBadSuffix:                "Unknown integer suffix",

	SynInfo:               "Parser information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnexpectedTopLevel: "Unexpected top-level construct",
	SynExpectIdentifier:   "Expected identifier",
	SynExpectSemicolon:    "Expected semicolon",
	SynExpectType:         "Expected type",
	SynExpectExpression:   "Expected expression",
	SynUnclosedDelimiter:  "Unclosed delimiter",
	SynExpectPattern:      "Expected pattern",
	SynSelfParamPosition:  "self parameter must come first",

	SemaError:             "Semantic error",
	SemaUnresolvedSymbol:  "Unresolved symbol",
	SemaDuplicateSymbol:   "Duplicate symbol",
	SemaMissingTypeSymbol: "Missing type symbol",
	SemaNotAType:          "Name does not denote a type",
	SemaNotAValue:         "Name does not denote a value",
	SemaMissingTraitItem:  "Missing trait item",
	SemaUnknownTraitItem:  "Item is not a member of trait",
	SemaUnknownMember:     "Unknown associated item",
	SemaNotATrait:         "Name does not denote a trait",

	SemaSelfOutsideMethod:   "self outside method body",
	SemaSelfInAssociatedFn:  "self in associated function",
	SemaSelfTypeOutsideImpl: "Self outside impl or trait",
	SemaSelfIllegalPrefix:   "Self with illegal path prefix",

	SemaTypeMismatch:           "Type mismatch",
	SemaReturnMismatch:         "Return type mismatch",
	SemaInvalidBinaryOperands:  "Invalid binary operands",
	SemaInvalidUnaryOperand:    "Invalid unary operand",
	SemaConstMissingType:       "Constant without explicit type",
	SemaExitPlacement:          "Invalid exit placement",
	SemaArgCount:               "Wrong number of arguments",
	SemaNotCallable:            "Expression is not callable",
	SemaUnknownField:           "Unknown field",
	SemaUnknownMethod:          "Unknown method",
	SemaNotIndexable:           "Expression is not indexable",
	SemaNotDereferenceable:     "Expression cannot be dereferenced",
	SemaInvalidCast:            "Invalid cast",
	SemaBreakOutsideLoop:       "break outside loop",
	SemaContinueOutsideLoop:    "continue outside loop",
	SemaReturnOutsideFn:        "return outside function",
	SemaMissingField:           "Missing struct field",
	SemaDuplicateField:         "Duplicate struct field",
	SemaUnderscoreValue:        "Underscore used as a value",
	SemaCannotInfer:            "Cannot infer type",
	SemaBranchMismatch:         "Incompatible if branches",
	SemaBreakMismatch:          "Incompatible break values",
	SemaNotAStruct:             "Type is not a struct",
	SemaIntLiteralOutOfRange:   "Integer literal out of range",
	SemaConditionNotBool:       "Condition is not bool",
	SemaTraitSignatureMismatch: "Method signature differs from trait",

	SemaConstOverflow:     "Constant overflow",
	SemaConstNotConstant:  "Not a constant expression",
	SemaConstDivByZero:    "Constant division by zero",
	SemaConstArraySize:    "Invalid array length",
	SemaConstCycle:        "Cyclic constant",
	SemaConstIndexOutside: "Constant index out of bounds",

	SemaAssignImmutable:      "Assignment to immutable",
	SemaBorrowMutOfImmutable: "Mutable borrow of immutable variable",
	SemaBorrowMutConflict:    "Conflicting mutable borrow",
	SemaBorrowSharedConflict: "Immutable borrow while mutably borrowed",
	SemaInvalidAssignTarget:  "Invalid assignment target",

	IOLoadFileError: "File load error",

	ProjManifestInvalid: "Invalid project manifest",
	ProjSuiteInvalid:    "Invalid test suite",
}

// ID renders the stable identifier, e.g. SEM3200.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
