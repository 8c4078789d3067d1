package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/csvqif/internal/config"
	"github.com/cleared-dev/csvqif/internal/convert"
	"github.com/cleared-dev/csvqif/internal/mapping"
	"github.com/cleared-dev/csvqif/internal/model"
)

// mappingOptions are the flags that describe how to read and map a file.
type mappingOptions struct {
	profilePath string
	noHeader    bool
	maps        []string
	accountType string
	sign        string
}

func (o *mappingOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.profilePath, "profile", "", "conversion profile YAML")
	cmd.Flags().BoolVar(&o.noHeader, "no-header", false, "first row is data, not column names")
	cmd.Flags().StringArrayVarP(&o.maps, "map", "m", nil, `column assignment "COLUMN=FIELD" (Date, Payee, Amount, Category, Not Used); repeatable`)
	cmd.Flags().StringVarP(&o.accountType, "type", "t", "", "QIF account type: Bank, Cash or CCard (default CCard)")
	cmd.Flags().StringVarP(&o.sign, "sign", "s", "", "meaning of a positive amount: withdrawal or deposit (default withdrawal)")
}

// settings is the resolved result of a profile plus flag overrides.
type settings struct {
	profile       *config.Profile
	headerPresent bool
	accountType   model.AccountType
	sign          model.SignConvention
	assignments   []mapping.Assignment
}

// resolve merges the profile (if any) with flags. Flags win; any --map flag
// replaces the profile's column list entirely.
func (o *mappingOptions) resolve(cmd *cobra.Command) (*settings, error) {
	profile := config.Default("")
	if o.profilePath != "" {
		p, err := config.Load(o.profilePath)
		if err != nil {
			return nil, err
		}
		profile = p
	}

	if cmd.Flags().Changed("no-header") {
		profile.HeaderPresent = !o.noHeader
	}
	if o.accountType != "" {
		profile.AccountType = o.accountType
	}
	if o.sign != "" {
		profile.AmountSign = o.sign
	}

	acct, err := profile.Account()
	if err != nil {
		return nil, err
	}
	sign, err := profile.Sign()
	if err != nil {
		return nil, err
	}

	assignments := profile.Assignments()
	if len(o.maps) > 0 {
		assignments = nil
		for _, s := range o.maps {
			a, err := mapping.ParseAssignment(s)
			if err != nil {
				return nil, err
			}
			assignments = append(assignments, a)
		}
	}

	return &settings{
		profile:       profile,
		headerPresent: profile.HeaderPresent,
		accountType:   acct,
		sign:          sign,
		assignments:   assignments,
	}, nil
}

// buildMapping starts from an all-unused mapping and applies each assignment
// as a separate edit, the way an interactive front end would.
func buildMapping(svc *convert.Service, columns []string, assignments []mapping.Assignment) (model.ColumnMapping, error) {
	m := mapping.New(columns)
	for _, a := range assignments {
		i, err := mapping.Resolve(m, a.Column)
		if err != nil {
			return m, err
		}
		if m, err = svc.ValidateMappingEdit(m, i, a.Field); err != nil {
			return m, err
		}
	}
	return m, nil
}
