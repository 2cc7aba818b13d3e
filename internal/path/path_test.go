package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/bignum"
	"github.com/cleared-dev/ledgerbook/internal/book"
)

// sampleBook has ledgers "assets" (#1) and "food" (#98) and one journal.
func sampleBook(t *testing.T) *book.Book {
	t.Helper()
	b := book.New()
	b.Description = "text note"

	assets, _, err := b.AddLedger("assets", "")
	require.NoError(t, err)
	_, _, err = assets.AddAccount("checking", "")
	require.NoError(t, err)
	_, _, err = assets.AddAccount("savings", "")
	require.NoError(t, err)

	b.LedgerSequence().Advance(98)
	_, _, err = b.AddLedger("food", "")
	require.NoError(t, err)

	j, _, err := b.AddJournal("general", "")
	require.NoError(t, err)
	require.NoError(t, j.ResizeEntries(2))
	e, err := j.Entry(1)
	require.NoError(t, err)
	e.Name = "rent"
	return b
}

func loc(k Kind, a, b int) Location {
	return Location{Kind: k, Indices: [2]int{a, b}}
}

func TestResolve_Scenario(t *testing.T) {
	b := sampleBook(t)

	byName, err := Resolve(b, "/ledger:food", Root)
	require.NoError(t, err)
	assert.Equal(t, loc(KindLedger, 1, -1), byName)

	byID, err := Resolve(b, "/ledger#98", Root)
	require.NoError(t, err)
	assert.Equal(t, byName, byID)

	_, err = Resolve(b, "/ledger@2", Root)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestResolve(t *testing.T) {
	b := sampleBook(t)
	ledger0 := loc(KindLedger, 0, -1)

	tests := []struct {
		name  string
		path  string
		start Location
		want  Location
	}{
		{"root", "/", ledger0, Root},
		{"empty stays put", "", ledger0, ledger0},
		{"account by name", "/ledger:assets/account:savings", Root, loc(KindAccount, 0, 1)},
		{"account by id", "/ledger#1/account#1", Root, loc(KindAccount, 0, 0)},
		{"account by index", "/ledger@0/account@1", Root, loc(KindAccount, 0, 1)},
		{"relative", "account:checking", ledger0, loc(KindAccount, 0, 0)},
		{"dot", "./account@1/.", ledger0, loc(KindAccount, 0, 1)},
		{"dotdot", "/ledger@0/account@1/..", Root, ledger0},
		{"dotdot to sibling", "../../ledger:food", loc(KindAccount, 0, 0), loc(KindLedger, 1, -1)},
		{"dotdot at root", "/..", Root, Root},
		{"entry by name", "/journal:general/entry:rent", Root, loc(KindEntry, 0, 1)},
		{"entry by id", "/journal@0/entry#1", Root, loc(KindEntry, 0, 0)},
		{"doubled slash", "//ledger@1", Root, loc(KindLedger, 1, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(b, tt.path, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	b := sampleBook(t)

	tests := []struct {
		name string
		path string
		want error
	}{
		{"no separator", "/ledger", ErrSyntax},
		{"no word", "/:food", ErrSyntax},
		{"no argument", "/ledger:", ErrSyntax},
		{"bad number", "/ledger#x", ErrSyntax},
		{"account under book", "/account@0", ErrWrongKind},
		{"entry under ledger", "/ledger@0/entry@0", ErrWrongKind},
		{"unknown word", "/shelf@0", ErrWrongKind},
		{"unknown name", "/ledger:rent", book.ErrNotFound},
		{"unknown id", "/ledger#7", book.ErrNotFound},
		{"negative index", "/ledger@-1", book.ErrNotFound},
		{"unknown account", "/ledger@1/account@0", book.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(b, tt.path, Root)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestErrorsAreInvalid(t *testing.T) {
	assert.ErrorIs(t, ErrSyntax, book.ErrInvalid)
	assert.ErrorIs(t, ErrWrongKind, book.ErrInvalid)
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "/", Root.String())
	assert.Equal(t, "/ledger@1", loc(KindLedger, 1, -1).String())
	assert.Equal(t, "/journal@0", loc(KindJournal, 0, -1).String())
	assert.Equal(t, "/ledger@0/account@3", loc(KindAccount, 0, 3).String())
	assert.Equal(t, "/journal@2/entry@5", loc(KindEntry, 2, 5).String())
}

func TestLocation_StringResolvesBack(t *testing.T) {
	b := sampleBook(t)
	want := loc(KindAccount, 0, 1)
	got, err := Resolve(b, want.String(), Root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolver_ResolveAccount(t *testing.T) {
	b := sampleBook(t)
	r := NewResolver()

	li, ai, err := r.ResolveAccount(b, "/ledger:assets/account:savings")
	require.NoError(t, err)
	assert.Equal(t, 0, li)
	assert.Equal(t, 1, ai)

	_, _, err = r.ResolveAccount(b, "/ledger:assets")
	assert.ErrorIs(t, err, ErrWrongKind)

	r.Base = loc(KindLedger, 0, -1)
	li, ai, err = r.ResolveAccount(b, "account#1")
	require.NoError(t, err)
	assert.Equal(t, [2]int{0, 0}, [2]int{li, ai})
}

func TestResolver_Commit(t *testing.T) {
	b := sampleBook(t)
	tx := book.NewTransaction(0)
	require.NoError(t, tx.AddLine(book.Line{Path: "/ledger:assets/account:savings", Amount: bignum.MustParse("12.34")}))
	require.NoError(t, tx.AddLine(book.Line{Path: "/ledger:assets/account:checking", Amount: bignum.MustParse("-12.34")}))

	_, err := b.Commit(tx, NewResolver())
	require.NoError(t, err)

	l, err := b.Ledger(0)
	require.NoError(t, err)
	savings, err := l.Account(1)
	require.NoError(t, err)
	bal, err := savings.Balance()
	require.NoError(t, err)
	assert.Equal(t, "12.34", bal.String())
}
