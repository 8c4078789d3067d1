package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/csvqif/internal/mapping"
	"github.com/cleared-dev/csvqif/internal/model"
)

func TestRoundTrip(t *testing.T) {
	p := Default("chase checking")
	p.AccountType = "Bank"
	p.AmountSign = "deposit"
	p.Columns = []ColumnProfile{
		{Column: "Posting Date", Field: model.FieldDate},
		{Column: "Description", Field: model.FieldPayee},
		{Column: "Amount", Field: model.FieldAmount},
	}
	p.Output.History = "logs/runs.csv"

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, Save(path, p))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.HeaderPresent, got.HeaderPresent)
	assert.Equal(t, p.AccountType, got.AccountType)
	assert.Equal(t, p.AmountSign, got.AmountSign)
	assert.Equal(t, p.Columns, got.Columns)
	assert.Equal(t, p.Output, got.Output)
}

func TestDefaults(t *testing.T) {
	p := Default("card")

	assert.Equal(t, "card", p.Name)
	assert.True(t, p.HeaderPresent)
	assert.Equal(t, ".qif", p.Output.Extension)
	assert.Empty(t, p.Columns)

	acct, err := p.Account()
	require.NoError(t, err)
	assert.Equal(t, model.AccountTypeCreditCard, acct)

	sign, err := p.Sign()
	require.NoError(t, err)
	assert.Equal(t, model.PositiveIsWithdrawal, sign)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBadField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := "name: x\ncolumns:\n  - column: Memo\n    field: Memo\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestYAMLFormat(t *testing.T) {
	p := Default("card")
	p.Columns = []ColumnProfile{{Column: "Posted", Field: model.FieldDate}}
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, Save(path, p))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: card")
	assert.Contains(t, contents, "header_present: true")
	assert.Contains(t, contents, "account_type: CCard")
	assert.Contains(t, contents, "amount_sign: withdrawal")
	assert.Contains(t, contents, "field: Date")
}

func TestAssignmentsAndSetMapping(t *testing.T) {
	m, err := mapping.Apply(mapping.New([]string{"Posted", "Memo", "Value"}), []mapping.Assignment{
		{Column: "Posted", Field: model.FieldDate},
		{Column: "Value", Field: model.FieldAmount},
	})
	require.NoError(t, err)

	p := Default("x")
	p.SetMapping(m)
	require.Len(t, p.Columns, 2)

	again, err := mapping.Apply(mapping.New([]string{"Posted", "Memo", "Value"}), p.Assignments())
	require.NoError(t, err)
	assert.Equal(t, m, again)
}
