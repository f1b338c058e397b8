package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnMapping_Missing(t *testing.T) {
	tests := []struct {
		name    string
		mapping ColumnMapping
		missing []string
	}{
		{"amount mapping", ColumnMapping{Date: "Date", Description: "Desc", Amount: "Amt"}, nil},
		{"debit and credit", ColumnMapping{Date: "Date", Description: "Desc", Debit: "Out", Credit: "In"}, nil},
		{"debit only", ColumnMapping{Date: "Date", Description: "Desc", Debit: "Out"}, []string{"amount"}},
		{"no description", ColumnMapping{Date: "Date", Amount: "Amt"}, []string{"description"}},
		{"empty", ColumnMapping{}, []string{"date", "description", "amount"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missing, tt.mapping.Missing())
			assert.Equal(t, len(tt.missing) == 0, tt.mapping.Usable())
		})
	}
}

func TestColumnMapping_SetAndColumn(t *testing.T) {
	var m ColumnMapping
	for _, r := range Roles {
		m.Set(r, "col_"+string(r))
	}
	for _, r := range Roles {
		assert.Equal(t, "col_"+string(r), m.Column(r))
	}
	assert.False(t, m.UsesDebitCredit())

	m.Amount = ""
	assert.True(t, m.UsesDebitCredit())
	assert.False(t, m.IsEmpty())
	assert.True(t, ColumnMapping{DateFormat: "%Y"}.IsEmpty())
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Debit ")
	assert.True(t, ok)
	assert.Equal(t, RoleDebit, r)

	_, ok = ParseRole("category")
	assert.False(t, ok)
}

func TestBankProfile_Mapping(t *testing.T) {
	p := BankProfile{Name: "fnb", ColumnMapping: ColumnMapping{Date: "Date", DateFormat: "%Y/%m/%d"}}
	m := p.Mapping()
	assert.Equal(t, "fnb", m.Profile)
	assert.Equal(t, "%Y/%m/%d", m.DateFormat)
	assert.Empty(t, p.Profile)
}

func TestExtraction_ColumnIndex(t *testing.T) {
	e := Extraction{Header: []string{"Date", " Description ", "Amount"}}
	assert.Equal(t, 1, e.ColumnIndex("description"))
	assert.Equal(t, -1, e.ColumnIndex("Balance"))
	assert.Equal(t, -1, e.ColumnIndex(""))
}
