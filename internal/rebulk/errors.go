package rebulk

import "errors"

// Sentinel errors for rule registration.
var (
	ErrMalformedPattern = errors.New("malformed rule pattern")
	ErrEmptyPattern     = errors.New("rule has no pattern")
	ErrUnknownGroup     = errors.New("rule group not present in pattern")
)
