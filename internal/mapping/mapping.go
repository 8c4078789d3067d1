package mapping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cleared-dev/csvqif/internal/model"
)

// ErrColumnIndex is returned when an edit targets a column that does not exist.
var ErrColumnIndex = errors.New("column index out of range")

// DuplicateFieldError rejects an edit that would assign a field twice.
type DuplicateFieldError struct {
	Field  model.Field
	Column string // column being edited
	Holder string // column already assigned Field
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("field %s is already assigned to column %q (cannot also assign it to %q)", e.Field, e.Holder, e.Column)
}

// UnknownColumnError reports an assignment naming a column the file lacks.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// New returns a mapping with every column unused.
func New(columns []string) model.ColumnMapping {
	m := make(model.ColumnMapping, len(columns))
	for i, c := range columns {
		m[i] = model.MappingEntry{Column: c, Index: i, Field: model.FieldNotUsed}
	}
	return m
}

// ValidateEdit assigns f to the column at position i. On success it returns a
// new mapping; on rejection it returns m unchanged along with the error, so
// the caller can keep the previous value.
func ValidateEdit(m model.ColumnMapping, i int, f model.Field) (model.ColumnMapping, error) {
	if i < 0 || i >= len(m) {
		return m, fmt.Errorf("%w: %d (have %d columns)", ErrColumnIndex, i, len(m))
	}
	if h := m.Holder(f); h >= 0 && h != i {
		return m, &DuplicateFieldError{Field: f, Column: m[i].Column, Holder: m[h].Column}
	}

	next := m.Clone()
	next[i].Field = f
	return next, nil
}

// Validate checks that no field is assigned to more than one column.
func Validate(m model.ColumnMapping) error {
	seen := make(map[model.Field]string)
	for _, e := range m {
		if e.Field == model.FieldNotUsed {
			continue
		}
		if holder, ok := seen[e.Field]; ok {
			return &DuplicateFieldError{Field: e.Field, Column: e.Column, Holder: holder}
		}
		seen[e.Field] = e.Column
	}
	return nil
}

// Assignment is one "column=field" request.
type Assignment struct {
	Column string
	Field  model.Field
}

// ParseAssignment parses "Column Name=Field". The split is on the last "="
// so column names may contain one.
func ParseAssignment(s string) (Assignment, error) {
	i := strings.LastIndex(s, "=")
	if i < 0 {
		return Assignment{}, fmt.Errorf("invalid mapping %q: want COLUMN=FIELD", s)
	}
	col := strings.TrimSpace(s[:i])
	if col == "" {
		return Assignment{}, fmt.Errorf("invalid mapping %q: empty column", s)
	}
	f, err := model.ParseField(s[i+1:])
	if err != nil {
		return Assignment{}, fmt.Errorf("invalid mapping %q: %w", s, err)
	}
	return Assignment{Column: col, Field: f}, nil
}

// Apply runs each assignment through ValidateEdit in order and stops at the
// first rejection, returning the mapping as it stood before that edit.
func Apply(m model.ColumnMapping, assignments []Assignment) (model.ColumnMapping, error) {
	for _, a := range assignments {
		i, err := Resolve(m, a.Column)
		if err != nil {
			return m, err
		}
		if m, err = ValidateEdit(m, i, a.Field); err != nil {
			return m, err
		}
	}
	return m, nil
}

// Resolve finds a column by exact label, then case-insensitively, then as a
// 1-based column number.
func Resolve(m model.ColumnMapping, column string) (int, error) {
	for i, e := range m {
		if e.Column == column {
			return i, nil
		}
	}
	for i, e := range m {
		if strings.EqualFold(e.Column, column) {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(column); err == nil && n >= 1 && n <= len(m) {
		return n - 1, nil
	}
	return -1, &UnknownColumnError{Column: column}
}
