package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() Entry {
	return Entry{
		Timestamp:   time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		RunID:       "0b7c6f2e-5f7e-4c61-9d8a-3d1b2a9c4e10",
		Input:       "statements/jan.csv",
		Output:      "statements/jan.qif",
		AccountType: "CCard",
		AmountSign:  "withdrawal",
		Written:     12,
		Skipped:     1,
		Status:      "ok",
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	e := sampleEntry()
	e.Status = "failed"
	e.Error = `row 4: parsing amount "abc", not a number`

	got, err := UnmarshalEntry(MarshalEntry(e))
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	got.Timestamp = e.Timestamp
	assert.Equal(t, e, got)
}

func TestUnmarshalEntry_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.Error(t, err)
}

func TestUnmarshalEntry_BadCount(t *testing.T) {
	row := MarshalEntry(sampleEntry())
	row[colWritten] = "many"
	_, err := UnmarshalEntry(row)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing written")
}

func TestAppend_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "runs.csv")

	require.NoError(t, Append(path, []Entry{sampleEntry()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
}

func TestAppend_MultipleCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")

	require.NoError(t, Append(path, []Entry{sampleEntry()}))
	second := sampleEntry()
	second.RunID = "second"
	require.NoError(t, Append(path, []Entry{second}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[1].RunID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "timestamp,run_id"), "header written once")
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "none.csv"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	entries, err := readEntries(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}
