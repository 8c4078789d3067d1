package csvread

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cleared-dev/csvqif/internal/model"
)

const (
	// PreviewRows is how many data rows a preview shows.
	PreviewRows = 5
	// PreviewWidth is the longest cell a preview shows before truncating.
	PreviewWidth = 20

	ellipsis = "..."
	bom      = "\ufeff"
)

// ErrEmpty is returned for a file with no records.
var ErrEmpty = errors.New("file has no rows")

// MalformedError reports a structurally inconsistent source file.
type MalformedError struct {
	Path string
	Line int // 0 when not tied to a line
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed CSV %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("malformed CSV %s: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Table is a source file read fully into memory.
type Table struct {
	Path          string
	Columns       []string   // header cells, or "Column N" labels
	Records       [][]string // data rows only
	HeaderPresent bool
	lines         []int // source line where each record starts
}

// PreviewRow is one truncated row for display.
type PreviewRow []string

// Open reads a CSV or XLSX file, chosen by extension.
func Open(path string, headerPresent bool) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, "", headerPresent)
	}
	return Read(path, headerPresent)
}

// Read reads a CSV file from disk.
func Read(path string, headerPresent bool) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return ReadFrom(f, path, headerPresent)
}

// ReadFrom reads CSV records from r. name is used in errors. Quotes are
// lenient: a bare quote inside an unquoted field is kept as text.
func ReadFrom(r io.Reader, name string, headerPresent bool) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	// FieldsPerRecord = 0 pins every record to the width of the first.

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &MalformedError{Path: name, Line: pe.StartLine, Err: pe.Err}
			}
			return nil, &model.IOError{Op: "read", Path: name, Err: err}
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return newTable(name, records, lines, headerPresent)
}

// newTable splits off the header. lines holds the source line of each record.
func newTable(name string, records [][]string, lines []int, headerPresent bool) (*Table, error) {
	if len(records) == 0 {
		return nil, &MalformedError{Path: name, Err: ErrEmpty}
	}

	t := &Table{Path: name, HeaderPresent: headerPresent}
	if headerPresent {
		header := append([]string(nil), records[0]...)
		if len(header) > 0 {
			header[0] = strings.TrimPrefix(header[0], bom)
		}
		t.Columns = header
		t.Records = records[1:]
		t.lines = lines[1:]
		return t, nil
	}

	t.Columns = SynthesizeColumns(len(records[0]))
	t.Records = records
	t.lines = lines
	return t, nil
}

// SynthesizeColumns returns "Column 1" .. "Column n".
func SynthesizeColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = "Column " + strconv.Itoa(i+1)
	}
	return cols
}

// Preview returns up to n data rows with each cell cut to width runes.
func (t *Table) Preview(n, width int) []PreviewRow {
	if n > len(t.Records) {
		n = len(t.Records)
	}
	rows := make([]PreviewRow, 0, n)
	for _, rec := range t.Records[:n] {
		row := make(PreviewRow, len(rec))
		for i, v := range rec {
			row[i] = Truncate(v, width)
		}
		rows = append(rows, row)
	}
	return rows
}

// Truncate cuts s to width runes and appends "..." when it was longer.
func Truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width]) + ellipsis
}

// Rows returns the data rows ready for transcoding. Rows are keyed by column
// name when the table has a header; a repeated header label resolves to its
// last column.
func (t *Table) Rows() []model.Row {
	var index map[string]int
	if t.HeaderPresent {
		index = make(map[string]int, len(t.Columns))
		for i, c := range t.Columns {
			index[c] = i
		}
	}

	rows := make([]model.Row, len(t.Records))
	for i, rec := range t.Records {
		rows[i] = model.Row{Line: t.lines[i], Values: rec, Index: index}
	}
	return rows
}
