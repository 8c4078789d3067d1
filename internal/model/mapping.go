package model

import (
	"fmt"
	"strings"
)

// Field is a QIF transaction field a source column can be mapped to.
type Field int

const (
	FieldNotUsed Field = iota
	FieldDate
	FieldPayee
	FieldAmount
	FieldCategory
)

// Fields lists the assignable fields in display order.
var Fields = []Field{FieldDate, FieldPayee, FieldAmount, FieldCategory, FieldNotUsed}

func (f Field) String() string {
	switch f {
	case FieldNotUsed:
		return "Not Used"
	case FieldDate:
		return "Date"
	case FieldPayee:
		return "Payee"
	case FieldAmount:
		return "Amount"
	case FieldCategory:
		return "Category"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField parses a field label, case-insensitively.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date":
		return FieldDate, nil
	case "payee":
		return FieldPayee, nil
	case "amount":
		return FieldAmount, nil
	case "category":
		return FieldCategory, nil
	case "not used", "notused", "not-used", "none", "-", "":
		return FieldNotUsed, nil
	default:
		return FieldNotUsed, fmt.Errorf("unknown field %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(b []byte) error {
	v, err := ParseField(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MappingEntry ties one source column to a QIF field.
type MappingEntry struct {
	Column string
	Index  int // zero-based source column position
	Field  Field
}

// ColumnMapping is the ordered column -> field assignment for a file.
// Values are never mutated in place; edits return a new mapping.
type ColumnMapping []MappingEntry

// Clone returns an independent copy.
func (m ColumnMapping) Clone() ColumnMapping {
	if m == nil {
		return nil
	}
	out := make(ColumnMapping, len(m))
	copy(out, m)
	return out
}

// Holder returns the position of the entry assigned f, or -1.
func (m ColumnMapping) Holder(f Field) int {
	if f == FieldNotUsed {
		return -1
	}
	for i, e := range m {
		if e.Field == f {
			return i
		}
	}
	return -1
}

// Used returns the entries whose field is not FieldNotUsed.
func (m ColumnMapping) Used() []MappingEntry {
	var used []MappingEntry
	for _, e := range m {
		if e.Field != FieldNotUsed {
			used = append(used, e)
		}
	}
	return used
}
