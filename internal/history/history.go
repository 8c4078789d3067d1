package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one conversion run.
type Entry struct {
	Timestamp   time.Time
	RunID       string
	Input       string
	Output      string
	AccountType string
	AmountSign  string
	Written     int
	Skipped     int
	Status      string // "ok" or "failed"
	Error       string
}

// Header is the CSV header for the history file.
const Header = "timestamp,run_id,input,output,account_type,amount_sign,written,skipped,status,error"

const (
	numFields      = 10
	colTimestamp   = 0
	colRunID       = 1
	colInput       = 2
	colOutput      = 3
	colAccountType = 4
	colAmountSign  = 5
	colWritten     = 6
	colSkipped     = 7
	colStatus      = 8
	colError       = 9
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colInput] = e.Input
	row[colOutput] = e.Output
	row[colAccountType] = e.AccountType
	row[colAmountSign] = e.AmountSign
	row[colWritten] = strconv.Itoa(e.Written)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colStatus] = e.Status
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	written, err := strconv.Atoi(record[colWritten])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing written %q: %w", record[colWritten], err)
	}
	skipped, err := strconv.Atoi(record[colSkipped])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing skipped %q: %w", record[colSkipped], err)
	}

	return Entry{
		Timestamp:   ts,
		RunID:       record[colRunID],
		Input:       record[colInput],
		Output:      record[colOutput],
		AccountType: record[colAccountType],
		AmountSign:  record[colAmountSign],
		Written:     written,
		Skipped:     skipped,
		Status:      record[colStatus],
		Error:       record[colError],
	}, nil
}

// Append writes entries to path, creating the file, its directory and the
// header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing history: %w", err)
	}
	return f.Close()
}

// Read returns all entries from path, or nil if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading history CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
