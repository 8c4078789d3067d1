package qif

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/csvqif/internal/model"
)

// inputDateFormat accepts one or two digit month and day.
const inputDateFormat = "1/2/2006"

// Amount limits. Exponents are checked before any arithmetic, since
// rescaling a value like 1e2000000000 allocates the full expansion.
const (
	maxAmountExponent = 15
	minAmountExponent = -64
)

// maxAmount is the first magnitude that is rejected.
var maxAmount = decimal.New(1, maxAmountExponent)

// ErrAmountRange is returned for an amount too large or too precise to write.
var ErrAmountRange = errors.New("amount out of range")

// DateParseError reports a Date cell that is not MM/DD/YYYY.
type DateParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: parsing date %q in column %q: want MM/DD/YYYY", e.Row, e.Value, e.Column)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// AmountParseError reports an Amount cell that is not a number.
type AmountParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *AmountParseError) Error() string {
	if errors.Is(e.Err, ErrAmountRange) {
		return fmt.Sprintf("row %d: amount %q in column %q is out of range", e.Row, e.Value, e.Column)
	}
	return fmt.Sprintf("row %d: parsing amount %q in column %q: not a number", e.Row, e.Value, e.Column)
}

func (e *AmountParseError) Unwrap() error { return e.Err }

// ConversionError wraps any failure during the write pass. Row is 0 when the
// failure is not tied to a row (header or flush).
type ConversionError struct {
	Row int
	Err error
}

func (e *ConversionError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("conversion failed at row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Stats counts what a transcode produced.
type Stats struct {
	Written int
	Skipped int // rows lacking a Date or Amount value
}

// Transcode writes a QIF document for rows to w. It stops at the first bad
// cell; rows missing a Date or Amount value are skipped without error.
func Transcode(w io.Writer, rows []model.Row, m model.ColumnMapping, acct model.AccountType, sign model.SignConvention) (Stats, error) {
	var stats Stats
	used := m.Used()

	qw := NewWriter(w)
	if err := qw.WriteHeader(acct); err != nil {
		return stats, &ConversionError{Err: err}
	}

	for _, row := range rows {
		txn, ok, err := buildTransaction(row, used, sign)
		if err != nil {
			return stats, &ConversionError{Row: row.Line, Err: err}
		}
		if !ok {
			stats.Skipped++
			continue
		}
		if err := qw.WriteTransaction(txn); err != nil {
			return stats, &ConversionError{Row: row.Line, Err: err}
		}
		stats.Written++
	}

	if err := qw.Flush(); err != nil {
		return stats, &ConversionError{Err: err}
	}
	return stats, nil
}

// buildTransaction maps one row. ok is false when Date or Amount is absent.
func buildTransaction(row model.Row, used []model.MappingEntry, sign model.SignConvention) (model.Transaction, bool, error) {
	var (
		txn       model.Transaction
		hasDate   bool
		hasAmount bool
	)

	for _, e := range used {
		value := row.Value(e)

		switch e.Field {
		case model.FieldDate:
			v := strings.TrimSpace(value)
			if v == "" {
				continue
			}
			d, err := time.Parse(inputDateFormat, v)
			if err != nil {
				return txn, false, &DateParseError{Row: row.Line, Column: e.Column, Value: value, Err: err}
			}
			txn.Date = d
			hasDate = true

		case model.FieldAmount:
			v := strings.TrimSpace(value)
			if v == "" {
				continue
			}
			amt, err := ParseAmount(v, sign)
			if err != nil {
				return txn, false, &AmountParseError{Row: row.Line, Column: e.Column, Value: value, Err: err}
			}
			txn.Amount = amt
			hasAmount = true

		case model.FieldPayee:
			txn.Payee = value

		case model.FieldCategory:
			txn.Category = value

		case model.FieldNotUsed:
		}
	}

	if !hasDate || !hasAmount {
		return model.Transaction{}, false, nil
	}
	return txn, true, nil
}

// ParseAmount parses a decimal amount and applies the sign convention.
// Magnitudes of 10^15 or more, and exponents below -64, are rejected with
// ErrAmountRange.
func ParseAmount(s string, sign model.SignConvention) (decimal.Decimal, error) {
	amt, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if amt.IsZero() {
		return decimal.Zero, nil
	}
	if exp := amt.Exponent(); exp > maxAmountExponent || exp < minAmountExponent {
		return decimal.Decimal{}, ErrAmountRange
	}
	if !amt.Abs().LessThan(maxAmount) {
		return decimal.Decimal{}, ErrAmountRange
	}
	if sign == model.PositiveIsWithdrawal {
		amt = amt.Neg()
	}
	return amt, nil
}
