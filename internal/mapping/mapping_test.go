package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/csvqif/internal/model"
)

var columns = []string{"Posting Date", "Description", "Amount", "Category"}

func TestNew_AllUnused(t *testing.T) {
	m := New(columns)
	require.Len(t, m, 4)
	for i, e := range m {
		assert.Equal(t, columns[i], e.Column)
		assert.Equal(t, i, e.Index)
		assert.Equal(t, model.FieldNotUsed, e.Field)
	}
}

func TestValidateEdit_Accepts(t *testing.T) {
	m := New(columns)
	next, err := ValidateEdit(m, 0, model.FieldDate)
	require.NoError(t, err)

	assert.Equal(t, model.FieldDate, next[0].Field)
	assert.Equal(t, model.FieldNotUsed, m[0].Field, "input mapping must not change")
}

func TestValidateEdit_RejectsDuplicate(t *testing.T) {
	m, err := ValidateEdit(New(columns), 0, model.FieldDate)
	require.NoError(t, err)

	got, err := ValidateEdit(m, 2, model.FieldDate)
	require.Error(t, err)

	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, model.FieldDate, dup.Field)
	assert.Equal(t, "Amount", dup.Column)
	assert.Equal(t, "Posting Date", dup.Holder)
	assert.Contains(t, err.Error(), "Date")

	// Rejected edit reverts: the previous mapping comes back.
	assert.Equal(t, m, got)
	assert.Equal(t, model.FieldNotUsed, got[2].Field)
}

func TestValidateEdit_SameColumnSameField(t *testing.T) {
	m, err := ValidateEdit(New(columns), 1, model.FieldPayee)
	require.NoError(t, err)
	_, err = ValidateEdit(m, 1, model.FieldPayee)
	assert.NoError(t, err)
}

func TestValidateEdit_NotUsedAlwaysAllowed(t *testing.T) {
	m := New(columns)
	var err error
	for i := range m {
		m, err = ValidateEdit(m, i, model.FieldNotUsed)
		require.NoError(t, err)
	}
}

func TestValidateEdit_MoveField(t *testing.T) {
	m, err := ValidateEdit(New(columns), 0, model.FieldDate)
	require.NoError(t, err)
	m, err = ValidateEdit(m, 0, model.FieldNotUsed)
	require.NoError(t, err)
	m, err = ValidateEdit(m, 3, model.FieldDate)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Holder(model.FieldDate))
}

func TestValidateEdit_OutOfRange(t *testing.T) {
	_, err := ValidateEdit(New(columns), 9, model.FieldDate)
	assert.ErrorIs(t, err, ErrColumnIndex)
	_, err = ValidateEdit(New(columns), -1, model.FieldDate)
	assert.ErrorIs(t, err, ErrColumnIndex)
}

func TestValidate(t *testing.T) {
	ok := model.ColumnMapping{
		{Column: "A", Index: 0, Field: model.FieldDate},
		{Column: "B", Index: 1},
		{Column: "C", Index: 2},
		{Column: "D", Index: 3, Field: model.FieldAmount},
	}
	assert.NoError(t, Validate(ok))

	bad := ok.Clone()
	bad[2].Field = model.FieldAmount
	err := Validate(bad)
	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, model.FieldAmount, dup.Field)
	assert.Equal(t, "C", dup.Column)
	assert.Equal(t, "D", dup.Holder)
}

// Every sequence of edits leaves a mapping that passes Validate.
func TestValidateEdit_NeverDuplicates(t *testing.T) {
	m := New(columns)
	for i := range m {
		for _, f := range model.Fields {
			next, err := ValidateEdit(m, i, f)
			if err == nil {
				m = next
			}
			require.NoError(t, Validate(m))
		}
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in   string
		want Assignment
	}{
		{"Posting Date=date", Assignment{Column: "Posting Date", Field: model.FieldDate}},
		{" Amount = Amount ", Assignment{Column: "Amount", Field: model.FieldAmount}},
		{"a=b=payee", Assignment{Column: "a=b", Field: model.FieldPayee}},
		{"3=not used", Assignment{Column: "3", Field: model.FieldNotUsed}},
	}
	for _, tt := range tests {
		got, err := ParseAssignment(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"Amount", "=date", "Amount=memo"} {
		_, err := ParseAssignment(bad)
		assert.Error(t, err, bad)
	}
}

func TestApply(t *testing.T) {
	m, err := Apply(New(columns), []Assignment{
		{Column: "Posting Date", Field: model.FieldDate},
		{Column: "description", Field: model.FieldPayee},
		{Column: "3", Field: model.FieldAmount},
	})
	require.NoError(t, err)
	assert.Equal(t, model.FieldDate, m[0].Field)
	assert.Equal(t, model.FieldPayee, m[1].Field)
	assert.Equal(t, model.FieldAmount, m[2].Field)
	assert.Equal(t, model.FieldNotUsed, m[3].Field)
}

func TestApply_StopsAtDuplicate(t *testing.T) {
	m, err := Apply(New(columns), []Assignment{
		{Column: "Amount", Field: model.FieldAmount},
		{Column: "Category", Field: model.FieldAmount},
	})
	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, model.FieldAmount, m[2].Field)
	assert.Equal(t, model.FieldNotUsed, m[3].Field)
}

func TestApply_UnknownColumn(t *testing.T) {
	_, err := Apply(New(columns), []Assignment{{Column: "Memo", Field: model.FieldPayee}})
	var unk *UnknownColumnError
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, "Memo", unk.Column)
}
