package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one QIF record built from a source row.
type Transaction struct {
	Date     time.Time
	Amount   decimal.Decimal // already sign-adjusted
	Payee    string          // omitted from output when empty
	Category string          // omitted from output when empty
}

// Row is one data row of the source table.
type Row struct {
	Line   int            // 1-based line where the row starts in the source file
	Values []string
	Index  map[string]int // column name -> position; nil for positional rows
}

// Keyed reports whether values are looked up by column name.
func (r Row) Keyed() bool { return r.Index != nil }

// Value returns the cell for a mapping entry. Missing cells read as "".
func (r Row) Value(e MappingEntry) string {
	i := e.Index
	if r.Keyed() {
		var ok bool
		if i, ok = r.Index[e.Column]; !ok {
			return ""
		}
	}
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}
