package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/csvqif/internal/mapping"
	"github.com/cleared-dev/csvqif/internal/model"
)

// Profile is a saved conversion setup for one kind of export file.
type Profile struct {
	Name          string          `yaml:"name"`
	HeaderPresent bool            `yaml:"header_present"`
	AccountType   string          `yaml:"account_type"` // Bank, Cash or CCard
	AmountSign    string          `yaml:"amount_sign"`  // withdrawal or deposit
	Columns       []ColumnProfile `yaml:"columns,omitempty"`
	Output        OutputConfig    `yaml:"output"`
}

// ColumnProfile assigns a field to a column by label.
type ColumnProfile struct {
	Column string      `yaml:"column"`
	Field  model.Field `yaml:"field"`
}

// OutputConfig controls where results and run records go.
type OutputConfig struct {
	Extension string `yaml:"extension"`
	History   string `yaml:"history,omitempty"` // CSV run log; empty disables
}

// Load reads a profile YAML file from disk.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &p, nil
}

// Save writes a Profile to a YAML file.
func Save(path string, p *Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// Default returns a Profile matching the converter's built-in defaults.
func Default(name string) *Profile {
	return &Profile{
		Name:          name,
		HeaderPresent: true,
		AccountType:   model.AccountTypeCreditCard.Header(),
		AmountSign:    model.PositiveIsWithdrawal.String(),
		Output: OutputConfig{
			Extension: ".qif",
		},
	}
}

// Account parses the profile's account type.
func (p *Profile) Account() (model.AccountType, error) {
	return model.ParseAccountType(p.AccountType)
}

// Sign parses the profile's amount sign convention.
func (p *Profile) Sign() (model.SignConvention, error) {
	return model.ParseSignConvention(p.AmountSign)
}

// Assignments returns the column profile as mapping edits, in file order.
func (p *Profile) Assignments() []mapping.Assignment {
	out := make([]mapping.Assignment, len(p.Columns))
	for i, c := range p.Columns {
		out[i] = mapping.Assignment{Column: c.Column, Field: c.Field}
	}
	return out
}

// SetMapping records the used entries of m as the profile's columns.
func (p *Profile) SetMapping(m model.ColumnMapping) {
	p.Columns = nil
	for _, e := range m.Used() {
		p.Columns = append(p.Columns, ColumnProfile{Column: e.Column, Field: e.Field})
	}
}
