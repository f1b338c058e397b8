// Package mapper resolves which header column holds each semantic role.
package mapper

import (
	"fmt"
	"strings"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"
	"fjacquet/statement-import/internal/textutils"
)

// DefaultThreshold is the similarity a header must exceed to match an alias.
const DefaultThreshold = 80.0

// DefaultAliases are the known header names per role.
var DefaultAliases = map[models.Role][]string{
	models.RoleDate:        {"date", "transaction date", "posting date", "value date", "trans date", "booking date"},
	models.RoleDescription: {"description", "details", "narrative", "particulars", "memo", "reference", "transaction details", "payee"},
	models.RoleAmount:      {"amount", "value", "transaction amount", "amt"},
	models.RoleDebit:       {"debit", "withdrawal", "withdrawals", "out", "payment", "payments", "money out", "debit amount"},
	models.RoleCredit:      {"credit", "deposit", "deposits", "in", "receipt", "money in", "credit amount"},
	models.RoleBalance:     {"balance", "running balance", "closing balance", "available balance"},
}

// ProfileSource provides the configured bank profiles.
type ProfileSource interface {
	GetProfile(name string) (models.BankProfile, bool)
	ListProfiles() []models.BankProfile
}

// Request carries the caller's mapping overrides. Explicit wins over
// Profile; both win over detection.
type Request struct {
	Explicit *models.ColumnMapping
	Profile  string
}

// Mapper assigns header columns to roles.
type Mapper struct {
	logger    logging.Logger
	profiles  ProfileSource
	threshold float64
	aliases   map[models.Role][]string
}

// NewMapper creates a mapper. profiles may be nil; a threshold <= 0 selects
// DefaultThreshold.
func NewMapper(logger logging.Logger, profiles ProfileSource, threshold float64) *Mapper {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Mapper{
		logger:    logging.OrDefault(logger),
		profiles:  profiles,
		threshold: threshold,
		aliases:   DefaultAliases,
	}
}

// Resolve returns a usable mapping for header or a NoMappingResolvedError.
func (m *Mapper) Resolve(header []string, req Request) (models.ColumnMapping, error) {
	switch {
	case req.Explicit != nil && !req.Explicit.IsEmpty():
		mapping := *req.Explicit
		if mapping.Profile == "" {
			mapping.Profile = "explicit"
		}
		return m.validate(header, mapping)

	case req.Profile != "":
		if m.profiles == nil {
			return models.ColumnMapping{}, fmt.Errorf("unknown bank profile '%s'", req.Profile)
		}
		profile, ok := m.profiles.GetProfile(req.Profile)
		if !ok {
			return models.ColumnMapping{}, fmt.Errorf("unknown bank profile '%s'", req.Profile)
		}
		return m.validate(header, profile.Mapping())
	}

	if profile, ok := m.MatchProfile(header); ok {
		m.logger.Debug("Header matches bank profile", logging.F(logging.FieldProfile, profile.Name))
		return m.validate(header, profile.Mapping())
	}

	mapping := m.Detect(header)
	if missing := mapping.Missing(); len(missing) > 0 {
		return models.ColumnMapping{}, &parsererror.NoMappingResolvedError{Header: header, Missing: missing}
	}
	return mapping, nil
}

// MatchProfile returns the first auto-detect profile whose columns are all
// present in header, compared case-insensitively.
func (m *Mapper) MatchProfile(header []string) (models.BankProfile, bool) {
	if m.profiles == nil {
		return models.BankProfile{}, false
	}
	for _, p := range m.profiles.ListProfiles() {
		if !p.AutoDetect {
			continue
		}
		all := true
		for _, role := range models.Roles {
			col := p.Column(role)
			if col != "" && indexOf(header, col) < 0 {
				all = false
				break
			}
		}
		if all && !p.IsEmpty() {
			return p, true
		}
	}
	return models.BankProfile{}, false
}

type candidate struct {
	index int
	score float64
}

// Detect maps each role, in order, to the unclaimed header with the best
// alias score above the threshold. The result may be unusable.
func (m *Mapper) Detect(header []string) models.ColumnMapping {
	var mapping models.ColumnMapping
	claimed := make(map[int]bool, len(header))

	for _, role := range models.Roles {
		var best *candidate
		for i, h := range header {
			if claimed[i] {
				continue
			}
			name := textutils.Normalize(h)
			if name == "" {
				continue
			}
			for _, alias := range m.aliases[role] {
				score := textutils.Ratio(name, alias)
				if score > m.threshold && (best == nil || score > best.score) {
					best = &candidate{index: i, score: score}
				}
			}
		}
		if best == nil {
			continue
		}
		claimed[best.index] = true
		mapping.Set(role, header[best.index])
		m.logger.Debug("Mapped column",
			logging.F(logging.FieldColumn, header[best.index]),
			logging.F("role", string(role)),
			logging.F("score", best.score))
	}
	return mapping
}

// validate checks that mapping is usable and that every mapped column
// exists in header. Column names are rewritten to the header's spelling.
func (m *Mapper) validate(header []string, mapping models.ColumnMapping) (models.ColumnMapping, error) {
	var absent []string
	for _, role := range models.Roles {
		col := mapping.Column(role)
		if col == "" {
			continue
		}
		i := indexOf(header, col)
		if i < 0 {
			absent = append(absent, string(role))
			mapping.Set(role, "")
			continue
		}
		mapping.Set(role, header[i])
	}
	if mapping.ExternalID != "" {
		if i := indexOf(header, mapping.ExternalID); i >= 0 {
			mapping.ExternalID = header[i]
		} else {
			mapping.ExternalID = ""
		}
	}

	if missing := mapping.Missing(); len(missing) > 0 {
		return models.ColumnMapping{}, &parsererror.NoMappingResolvedError{
			Header:  header,
			Missing: missing,
			Profile: mapping.Profile,
		}
	}
	if len(absent) > 0 {
		m.logger.Warn("Mapped columns not present in header",
			logging.F(logging.FieldProfile, mapping.Profile),
			logging.F("roles", strings.Join(absent, ",")))
	}
	return mapping, nil
}

func indexOf(header []string, name string) int {
	want := strings.TrimSpace(name)
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	return -1
}
