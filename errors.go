package variantx

import "errors"

var (
	ErrEmptySet           = errors.New("variant set is empty")
	ErrDuplicateVariant   = errors.New("duplicate variant tag")
	ErrDuplicateName      = errors.New("duplicate variant name")
	ErrEmptyName          = errors.New("variant name cannot be empty")
	ErrUnknownVariant     = errors.New("variant not in declared set")
	ErrUnknownName        = errors.New("name not in declared set")
	ErrInvalidRange       = errors.New("range lower bound must be below upper bound")
	ErrOverlappingRanges  = errors.New("classification ranges overlap")
	ErrNotTotal           = errors.New("successor table does not cover every variant")
	ErrNotCycle           = errors.New("successor relation is not a single covering cycle")
	ErrIncompleteDispatch = errors.New("dispatch table does not cover every variant")
	ErrDuplicateCase      = errors.New("dispatch case already defined for variant")
	ErrDuplicateSuccessor = errors.New("successor already defined for variant")
	ErrNilApply           = errors.New("rule apply function is required")
)
