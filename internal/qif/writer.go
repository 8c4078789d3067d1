package qif

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cleared-dev/csvqif/internal/model"
)

// DateFormat is the QIF date layout written for every transaction.
const DateFormat = "01/02/2006"

const (
	prefixDate     = 'D'
	prefixAmount   = 'T'
	prefixPayee    = 'P'
	prefixCategory = 'L'
	terminator     = "^"
)

// Writer serializes QIF records to an underlying writer.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer buffering output to w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the "!Type:" line.
func (qw *Writer) WriteHeader(acct model.AccountType) error {
	h := acct.Header()
	if h == "" {
		return fmt.Errorf("unknown account type %d", int(acct))
	}
	_, err := fmt.Fprintf(qw.w, "!Type:%s\n", h)
	return err
}

// WriteTransaction writes one record and its "^" terminator.
func (qw *Writer) WriteTransaction(t model.Transaction) error {
	qw.line(prefixDate, t.Date.Format(DateFormat))
	qw.line(prefixAmount, t.Amount.StringFixed(2))
	if t.Payee != "" {
		qw.line(prefixPayee, t.Payee)
	}
	if t.Category != "" {
		qw.line(prefixCategory, t.Category)
	}
	_, err := qw.w.WriteString(terminator + "\n")
	return err
}

// line ignores write errors; bufio.Writer keeps the first one and reports it
// from the next write or Flush.
func (qw *Writer) line(prefix byte, value string) {
	_ = qw.w.WriteByte(prefix)
	_, _ = qw.w.WriteString(value)
	_ = qw.w.WriteByte('\n')
}

// Flush writes any buffered data.
func (qw *Writer) Flush() error {
	return qw.w.Flush()
}
