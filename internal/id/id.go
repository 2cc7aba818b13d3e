package id

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Unassigned marks an object that has not been given an identifier.
const Unassigned = -1

// Max is the largest identifier a Sequence hands out.
const Max = math.MaxInt32

// ErrExhausted is returned when a Sequence has no identifiers left.
var ErrExhausted = errors.New("identifier sequence exhausted")

// Sequence allocates increasing identifiers for the children of one container.
// Identifiers are never reused; only an allocation that is undone before the
// identifier was published gives it back.
type Sequence struct {
	next int
}

// NewSequence returns a Sequence whose first identifier is start.
func NewSequence(start int) Sequence {
	return Sequence{next: start}
}

// Next returns the identifier the next allocation will use.
func (s *Sequence) Next() int { return s.next }

// Allocate returns a fresh identifier.
func (s *Sequence) Allocate() (int, error) {
	if s.next < 0 || s.next > Max {
		return Unassigned, fmt.Errorf("%w at %d", ErrExhausted, s.next)
	}
	v := s.next
	s.next++
	return v, nil
}

// Undo returns v to the sequence if it was the most recent allocation.
// It reports whether the identifier was given back.
func (s *Sequence) Undo(v int) bool {
	if v != Unassigned && v == s.next-1 {
		s.next--
		return true
	}
	return false
}

// Advance moves the sequence forward so that the next identifier is at least n.
// It never moves backward.
func (s *Sequence) Advance(n int) {
	if n > s.next {
		s.next = n
	}
}

// Format renders an identifier for display; Unassigned renders as "-".
func Format(v int) string {
	if v == Unassigned {
		return "-"
	}
	return strconv.Itoa(v)
}
