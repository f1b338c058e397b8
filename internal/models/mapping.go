package models

import "strings"

// Role is a semantic column role.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	RoleAmount      Role = "amount"
	RoleDebit       Role = "debit"
	RoleCredit      Role = "credit"
	RoleBalance     Role = "balance"
)

// Roles lists the mappable roles in resolution order.
var Roles = []Role{RoleDate, RoleDescription, RoleAmount, RoleDebit, RoleCredit, RoleBalance}

// ParseRole converts user input such as "Date" or "debit" to a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// ColumnMapping associates semantic roles with header names. DateFormat is an
// optional strftime-style hint ("%d/%m/%Y"). Profile names the bank profile
// the mapping came from, if any.
type ColumnMapping struct {
	Date        string `yaml:"date,omitempty" json:"date,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Amount      string `yaml:"amount,omitempty" json:"amount,omitempty"`
	Debit       string `yaml:"debit,omitempty" json:"debit,omitempty"`
	Credit      string `yaml:"credit,omitempty" json:"credit,omitempty"`
	Balance     string `yaml:"balance,omitempty" json:"balance,omitempty"`
	ExternalID  string `yaml:"external_id,omitempty" json:"external_id,omitempty"`
	DateFormat  string `yaml:"date_format,omitempty" json:"date_format,omitempty"`
	Profile     string `yaml:"-" json:"profile,omitempty"`
}

// Column returns the header name mapped to role.
func (m ColumnMapping) Column(role Role) string {
	switch role {
	case RoleDate:
		return m.Date
	case RoleDescription:
		return m.Description
	case RoleAmount:
		return m.Amount
	case RoleDebit:
		return m.Debit
	case RoleCredit:
		return m.Credit
	case RoleBalance:
		return m.Balance
	}
	return ""
}

// Set assigns column to role.
func (m *ColumnMapping) Set(role Role, column string) {
	switch role {
	case RoleDate:
		m.Date = column
	case RoleDescription:
		m.Description = column
	case RoleAmount:
		m.Amount = column
	case RoleDebit:
		m.Debit = column
	case RoleCredit:
		m.Credit = column
	case RoleBalance:
		m.Balance = column
	}
}

// UsesDebitCredit reports whether amounts are synthesized from debit and
// credit columns.
func (m ColumnMapping) UsesDebitCredit() bool {
	return m.Amount == "" && m.Debit != "" && m.Credit != ""
}

// Missing lists the required roles that are not mapped. A mapping needs a
// date, a description and either an amount or both debit and credit.
func (m ColumnMapping) Missing() []string {
	var missing []string
	if m.Date == "" {
		missing = append(missing, string(RoleDate))
	}
	if m.Description == "" {
		missing = append(missing, string(RoleDescription))
	}
	if m.Amount == "" && (m.Debit == "" || m.Credit == "") {
		missing = append(missing, string(RoleAmount))
	}
	return missing
}

// Usable reports whether the mapping resolves every required role.
func (m ColumnMapping) Usable() bool {
	return len(m.Missing()) == 0
}

// IsEmpty reports whether no role is mapped.
func (m ColumnMapping) IsEmpty() bool {
	for _, r := range Roles {
		if m.Column(r) != "" {
			return false
		}
	}
	return true
}

// BankProfile is a named, data-driven column layout for one bank's export.
type BankProfile struct {
	Name          string `yaml:"name"`
	AutoDetect    bool   `yaml:"auto_detect"`
	ColumnMapping `yaml:",inline"`
}

// Mapping returns the profile's columns tagged with the profile name.
func (p BankProfile) Mapping() ColumnMapping {
	m := p.ColumnMapping
	m.Profile = p.Name
	return m
}

// BankProfilesConfig is the structure of bank_profiles.yaml.
type BankProfilesConfig struct {
	Profiles []BankProfile `yaml:"profiles"`
}
