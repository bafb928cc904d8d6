package grip

import "errors"

var (
	ErrInvalidConfig       = errors.New("grip: invalid config")
	ErrMismatchedGroups    = errors.New("grip: finger groups are not index-aligned")
	ErrDestinationTooShort = errors.New("grip: destination bones shorter than finger segments")
	ErrNilBone             = errors.New("grip: nil bone")
)
