package book

import "errors"

// Error classes. Every error returned by this package wraps one of them.
var (
	// ErrInvalid covers malformed input: bad schema, bad text, bad arguments.
	ErrInvalid = errors.New("invalid argument")

	// ErrNotFound is returned for an unknown ledger, journal, account or entry.
	ErrNotFound = errors.New("not found")

	// ErrExhausted is returned when an identifier sequence runs out.
	ErrExhausted = errors.New("resource exhausted")

	// ErrConsistency is returned when an operation would break the book's structure.
	ErrConsistency = errors.New("inconsistent book")
)
