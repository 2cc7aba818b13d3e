package table

import "errors"

// Sentinel errors returned by table operations.
var (
	// ErrInvalidKind is returned when a schema names an unknown column kind.
	ErrInvalidKind = errors.New("invalid column kind")

	// ErrTooManyColumns is returned when a schema exceeds MaxColumns.
	ErrTooManyColumns = errors.New("too many columns")

	// ErrNoColumns is returned when adding a row to a table without a schema.
	ErrNoColumns = errors.New("table has no columns")

	// ErrColumnRange is returned for a column index outside the schema.
	ErrColumnRange = errors.New("column index out of range")

	// ErrKindMismatch is returned when a cell is accessed as the wrong kind.
	ErrKindMismatch = errors.New("column kind mismatch")

	// ErrAtEnd is returned when a row operation is attempted at the end mark.
	ErrAtEnd = errors.New("mark is at end of table")

	// ErrOutOfRange is returned when a mark would move past either end.
	ErrOutOfRange = errors.New("mark moved out of range")

	// ErrInvalidMark is returned for a mark from another table or one whose
	// row has been dropped.
	ErrInvalidMark = errors.New("invalid mark")

	// ErrBadLiteral is returned when a predicate literal cannot be read as
	// its column kind.
	ErrBadLiteral = errors.New("bad predicate literal")

	// ErrBadOperator is returned for an unknown comparison operator.
	ErrBadOperator = errors.New("bad comparison operator")
)
