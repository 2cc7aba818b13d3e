package book

import (
	"fmt"
	"time"
)

// DateFormat is the layout of entry and line dates.
const DateFormat = "2006-01-02"

// ValidationError describes a single rule a transaction breaks.
type ValidationError struct {
	Rule        int
	Line        int // -1 for the transaction as a whole
	Description string
}

func (e ValidationError) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("rule %d: %s", e.Rule, e.Description)
	}
	return fmt.Sprintf("rule %d [line %d]: %s", e.Rule, e.Line, e.Description)
}

// ValidateTransaction enforces 4 rules on a transaction before it is committed.
// Account references are checked by Commit itself.
func ValidateTransaction(tx *Transaction) []ValidationError {
	var errs []ValidationError

	// Rule 1: At least two lines.
	if tx.LineCount() < 2 {
		errs = append(errs, ValidationError{
			Rule:        1,
			Line:        -1,
			Description: fmt.Sprintf("transaction has %d line(s), need at least 2", tx.LineCount()),
		})
	}

	// Rule 2: Lines balance.
	sum, err := tx.Total()
	switch {
	case err != nil:
		errs = append(errs, ValidationError{Rule: 2, Line: -1, Description: err.Error()})
	case !sum.IsZero():
		errs = append(errs, ValidationError{
			Rule:        2,
			Line:        -1,
			Description: fmt.Sprintf("lines sum to %s, must be 0", sum),
		})
	}

	// Rule 3: Transaction date.
	if tx.Date != "" && !validDate(tx.Date) {
		errs = append(errs, ValidationError{
			Rule:        3,
			Line:        -1,
			Description: fmt.Sprintf("date %q is not YYYY-MM-DD", tx.Date),
		})
	}

	_ = tx.EachLine(func(i int, l Line) error {
		// Rule 4: No zero lines.
		if l.Amount.IsZero() {
			errs = append(errs, ValidationError{Rule: 4, Line: i, Description: "amount is zero"})
		}

		// Rule 3: Line dates.
		if l.Date != "" && !validDate(l.Date) {
			errs = append(errs, ValidationError{
				Rule:        3,
				Line:        i,
				Description: fmt.Sprintf("date %q is not YYYY-MM-DD", l.Date),
			})
		}
		return nil
	})

	return errs
}

func validDate(s string) bool {
	_, err := time.Parse(DateFormat, s)
	return err == nil
}
