package auditlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/id"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testLog(t *testing.T) *Log {
	t.Helper()
	l := New(t.TempDir())
	l.Now = func() time.Time { return testTime }
	return l
}

func testEntry() Entry {
	return Entry{
		Timestamp:  testTime,
		Command:    "post",
		Action:     "commit_transaction",
		Details:    "groceries, 2 lines",
		EntryID:    4,
		CommitHash: "abc1234",
	}
}

func TestAppend_CreatesFileAndHeader(t *testing.T) {
	l := testLog(t)
	require.NoError(t, l.Append(testEntry()))

	data, err := os.ReadFile(l.Path)
	require.NoError(t, err)
	assert.Equal(t,
		"timestamp,command,action,details,entry_id,commit_hash\n"+
			"2025-01-15T10:30:00Z,post,commit_transaction,\"groceries, 2 lines\",4,abc1234\n",
		string(data))
}

func TestRecord_Appends(t *testing.T) {
	l := testLog(t)
	require.NoError(t, l.Record("init", "create_book", "home", id.Unassigned, ""))
	require.NoError(t, l.Record("post", "commit_transaction", "rent", 1, ""))

	entries, err := l.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "init", entries[0].Command)
	assert.Equal(t, id.Unassigned, entries[0].EntryID)
	assert.Equal(t, 1, entries[1].EntryID)
	assert.True(t, testTime.Equal(entries[1].Timestamp))
}

func TestTail(t *testing.T) {
	l := testLog(t)
	for i := 1; i <= 5; i++ {
		e := testEntry()
		e.EntryID = i
		require.NoError(t, l.Append(e))
	}

	last, err := l.Tail(2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, 4, last[0].EntryID)
	assert.Equal(t, 5, last[1].EntryID)

	all, err := l.Tail(-1)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRead_Missing(t *testing.T) {
	entries, err := testLog(t).Read()
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	l := testLog(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(l.Path), 0o755))
	require.NoError(t, os.WriteFile(l.Path, []byte("timestamp,command,action,details,entry_id,commit_hash\n"), 0o644))

	entries, err := l.Read()
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{"field count", []string{"one", "two"}, "expected 6 fields"},
		{"timestamp", []string{"yesterday", "post", "", "", "", ""}, "parsing timestamp"},
		{"entry id", []string{"2025-01-15T10:30:00Z", "post", "", "", "x", ""}, "parsing entry_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalEntry(tt.record)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
