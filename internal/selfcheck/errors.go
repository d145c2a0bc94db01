package selfcheck

import (
	"errors"

	"rxc/internal/diag"
)

// ErrorKind classifies self/Self misuse.
type ErrorKind uint8

const (
	SelfOutsideMethod ErrorKind = iota + 1
	SelfInAssociatedFunc
	SelfTypeOutsideImpl
	SelfIllegalPrefix
)

func (k ErrorKind) String() string {
	switch k {
	case SelfOutsideMethod:
		return "SELF_OUTSIDE_METHOD"
	case SelfInAssociatedFunc:
		return "SELF_IN_ASSOCIATED_FUNC"
	case SelfTypeOutsideImpl:
		return "SELF_TYPE_OUTSIDE_IMPL"
	case SelfIllegalPrefix:
		return "SELF_ILLEGAL_PREFIX"
	}
	return "SELF_ERROR?"
}

// Code maps the kind to its diagnostic code.
func (k ErrorKind) Code() diag.Code {
	switch k {
	case SelfOutsideMethod:
		return diag.SemaSelfOutsideMethod
	case SelfInAssociatedFunc:
		return diag.SemaSelfInAssociatedFn
	case SelfTypeOutsideImpl:
		return diag.SemaSelfTypeOutsideImpl
	case SelfIllegalPrefix:
		return diag.SemaSelfIllegalPrefix
	}
	return diag.SemaError
}

func (k ErrorKind) message() string {
	switch k {
	case SelfOutsideMethod:
		return "self can only be used in method bodies"
	case SelfInAssociatedFunc:
		return "self cannot be used in associated functions"
	case SelfTypeOutsideImpl:
		return "Self cannot be used in global context or free functions"
	case SelfIllegalPrefix:
		return "Self must be the first path segment and cannot follow `::`"
	}
	return "invalid use of self"
}

// KindOf extracts the self error kind from an error returned by Check.
func KindOf(err error) (ErrorKind, bool) {
	var de *diag.Error
	if !errors.As(err, &de) {
		return 0, false
	}
	for k := SelfOutsideMethod; k <= SelfIllegalPrefix; k++ {
		if k.Code() == de.Diagnostic.Code {
			return k, true
		}
	}
	return 0, false
}
