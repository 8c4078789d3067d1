package qif

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/csvqif/internal/model"
)

func TestWriter_FullRecord(t *testing.T) {
	var buf bytes.Buffer
	qw := NewWriter(&buf)

	require.NoError(t, qw.WriteHeader(model.AccountTypeCash))
	require.NoError(t, qw.WriteTransaction(model.Transaction{
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.RequireFromString("-42.5"),
		Payee:    "Coffee Shop",
		Category: "Dining",
	}))
	require.NoError(t, qw.Flush())

	assert.Equal(t, "!Type:Cash\nD01/15/2024\nT-42.50\nPCoffee Shop\nLDining\n^\n", buf.String())
}

func TestWriter_NothingBeforeFlush(t *testing.T) {
	var buf bytes.Buffer
	qw := NewWriter(&buf)
	require.NoError(t, qw.WriteHeader(model.AccountTypeBank))
	assert.Zero(t, buf.Len())
	require.NoError(t, qw.Flush())
	assert.Equal(t, "!Type:Bank\n", buf.String())
}

func TestParseAmount(t *testing.T) {
	amt, err := ParseAmount("42.50", model.PositiveIsWithdrawal)
	require.NoError(t, err)
	assert.Equal(t, "-42.50", amt.StringFixed(2))

	amt, err = ParseAmount("42.50", model.PositiveIsDeposit)
	require.NoError(t, err)
	assert.Equal(t, "42.50", amt.StringFixed(2))

	_, err = ParseAmount("abc", model.PositiveIsDeposit)
	assert.Error(t, err)
}
