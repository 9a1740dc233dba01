package domain

import "errors"

// Record validation errors
var (
	ErrMissingID     = errors.New("record is missing an id")
	ErrUnknownStatus = errors.New("unknown status value")
	ErrInvalidRecord = errors.New("invalid record")
)

// ErrMalformedResponse marks a store payload that is not a well-formed
// collection mapping. The store client degrades such cycles to an empty
// collection instead of propagating them.
var ErrMalformedResponse = errors.New("malformed store response")
