package archive

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/bignum"
	"github.com/cleared-dev/ledgerbook/internal/book"
	"github.com/cleared-dev/ledgerbook/internal/table"
)

// sampleBook returns a book with two committed transactions, a dropped
// ledger and a rolled back commit, so every sequence is ahead of its count.
func sampleBook(t *testing.T) *book.Book {
	t.Helper()
	b := book.New()
	b.Description = "household, 2025"

	_, _, err := b.AddLedger("scratch", "")
	require.NoError(t, err)
	require.NoError(t, b.ResizeLedgers(0))

	l, _, err := b.AddLedger("assets", `cash "on hand"`)
	require.NoError(t, err)
	_, _, err = l.AddAccount("checking", "")
	require.NoError(t, err)
	_, _, err = l.AddAccount("food", "line one\nline two")
	require.NoError(t, err)
	_, _, err = b.AddJournal("general", "")
	require.NoError(t, err)

	for _, amt := range []string{"12.34", "100"} {
		tx := book.NewTransaction(0)
		tx.Name = "shop"
		tx.Date = "2025-02-01"
		require.NoError(t, tx.AddLine(book.Line{Ledger: 0, Account: 1, Amount: bignum.MustParse(amt), Check: "a,b"}))
		require.NoError(t, tx.AddLine(book.Line{Ledger: 0, Account: 0, Amount: bignum.MustParse(amt).Neg()}))
		_, err := b.Commit(tx, nil)
		require.NoError(t, err)
	}
	return b
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	orig := sampleBook(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, orig))
	got, err := Load(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	assert.Equal(t, orig.Description, got.Description)
	assert.Equal(t, orig.LedgerSequence().Next(), got.LedgerSequence().Next())
	assert.Equal(t, orig.JournalSequence().Next(), got.JournalSequence().Next())
	require.Equal(t, orig.LedgerCount(), got.LedgerCount())
	require.Equal(t, orig.JournalCount(), got.JournalCount())

	ol, _ := orig.Ledger(0)
	gl, _ := got.Ledger(0)
	assert.Equal(t, ol.ID, gl.ID)
	assert.Equal(t, ol.Name, gl.Name)
	assert.Equal(t, ol.Description, gl.Description)
	assert.Equal(t, ol.AccountSequence().Next(), gl.AccountSequence().Next())
	for k := 0; k < ol.AccountCount(); k++ {
		oa, _ := ol.Account(k)
		ga, err := gl.Account(k)
		require.NoError(t, err)
		assert.Equal(t, oa.ID, ga.ID)
		assert.Equal(t, oa.Description, ga.Description)
		assert.True(t, table.Equal(oa.Table(), ga.Table()), "account %d table", k)
	}

	oj, _ := orig.Journal(0)
	gj, _ := got.Journal(0)
	assert.Equal(t, oj.EntrySequence().Next(), gj.EntrySequence().Next())
	require.Equal(t, 2, gj.EntryCount())
	e, _ := gj.Entry(1)
	assert.Equal(t, 2, e.ID)
	assert.Equal(t, "shop", e.Name)
	assert.Equal(t, "2025-02-01", e.Date)
	assert.True(t, table.Equal(oj.Table(), gj.Table()))
}

func TestLoad_BookKeepsWorking(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, sampleBook(t)))
	b, err := Load(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	l, _, err := b.AddLedger("liabilities", "")
	require.NoError(t, err)
	assert.Equal(t, 3, l.ID, "ids continue after the dropped ledger")

	tx := book.NewTransaction(0)
	require.NoError(t, tx.AddLine(book.Line{Ledger: 0, Account: 1, Amount: bignum.MustParse("1")}))
	require.NoError(t, tx.AddLine(book.Line{Ledger: 0, Account: 0, Amount: bignum.MustParse("-1")}))
	r, err := b.Commit(tx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, r.EntryID)

	_, total, err := b.TrialBalance()
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books", "home.ledgerbook")
	assert.False(t, Exists(path))

	require.NoError(t, SaveFile(path, sampleBook(t)))
	assert.True(t, Exists(path))

	b, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "household, 2025", b.Description)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".ledgerbook-*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "no temp files left behind")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func zipOf(t *testing.T, files map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{"no manifest", map[string]string{"x": ""}, ErrFormat},
		{"bad json", map[string]string{manifestName: "{"}, ErrFormat},
		{"version", map[string]string{manifestName: `{"version": 9}`}, ErrVersion},
		{
			"missing table",
			map[string]string{manifestName: `{"version":1,"journals":[{"id":1,"table":"tables/journal-1.csv"}]}`},
			ErrFormat,
		},
		{
			"wrong schema",
			map[string]string{
				manifestName:           `{"version":1,"journals":[{"id":1,"table":"tables/journal-1.csv"}]}`,
				"tables/journal-1.csv": "id,decimal\n",
			},
			ErrSchema,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := zipOf(t, tt.files)
			_, err := Load(r, r.Size())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, book.ErrInvalid)
		})
	}
}

func TestLoad_NotZip(t *testing.T) {
	r := strings.NewReader("plain text")
	_, err := Load(r, r.Size())
	assert.ErrorIs(t, err, ErrFormat)
}
