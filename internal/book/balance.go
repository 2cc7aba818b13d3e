package book

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/bignum"
	"github.com/cleared-dev/ledgerbook/internal/table"
)

// Balance sums the amount column of the account's table.
func (a *Account) Balance() (bignum.Number, error) {
	var sum bignum.Number
	err := a.table.Each(func(m table.Mark) error {
		amount, err := a.table.FetchDecimal(m, AccountColAmount)
		if err != nil {
			return err
		}
		sum, err = sum.Add(amount)
		return err
	})
	if err != nil {
		return bignum.Number{}, fmt.Errorf("balance of account #%d: %w", a.ID, err)
	}
	return sum, nil
}

// BalanceLine is one account's row in a trial balance.
type BalanceLine struct {
	Ledger    int
	Account   int
	LedgerID  int
	AccountID int
	Path      string
	Balance   bignum.Number
}

// TrialBalance lists every account's balance, in ledger then account order,
// with the grand total. A book whose commits all balanced totals zero.
func (b *Book) TrialBalance() ([]BalanceLine, bignum.Number, error) {
	var (
		lines []BalanceLine
		total bignum.Number
	)
	for li, l := range b.ledgers {
		for ai, a := range l.accounts {
			bal, err := a.Balance()
			if err != nil {
				return nil, bignum.Number{}, err
			}
			if total, err = total.Add(bal); err != nil {
				return nil, bignum.Number{}, fmt.Errorf("trial balance: %w", err)
			}
			lines = append(lines, BalanceLine{
				Ledger:    li,
				Account:   ai,
				LedgerID:  l.ID,
				AccountID: a.ID,
				Path:      accountPath(l, li, a, ai),
				Balance:   bal,
			})
		}
	}
	return lines, total, nil
}

func accountPath(l *Ledger, li int, a *Account, ai int) string {
	ls := fmt.Sprintf("ledger@%d", li)
	if l.Name != "" {
		ls = "ledger:" + l.Name
	}
	as := fmt.Sprintf("account@%d", ai)
	if a.Name != "" {
		as = "account:" + a.Name
	}
	return "/" + ls + "/" + as
}
