package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/csvqif/internal/model"
)

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var mo mappingOptions

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a column mapping against a file without converting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mo.resolve(cmd)
			if err != nil {
				return err
			}

			svc := opts.service()
			p, err := svc.OpenPreview(args[0], s.headerPresent)
			if err != nil {
				return err
			}

			m, err := buildMapping(svc, p.Columns, s.assignments)
			if err != nil {
				return err
			}
			return printMapping(cmd.OutOrStdout(), m)
		},
	}

	mo.register(cmd)

	return cmd
}

func printMapping(w io.Writer, m model.ColumnMapping) error {
	for _, e := range m {
		if _, err := fmt.Fprintf(w, "%-3d %-24s %s\n", e.Index+1, e.Column, e.Field); err != nil {
			return err
		}
	}

	var missing []string
	for _, f := range []model.Field{model.FieldDate, model.FieldAmount} {
		if m.Holder(f) < 0 {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		_, err := fmt.Fprintf(w, "warning: no column mapped to %v; every row will be skipped\n", missing)
		return err
	}
	_, err := fmt.Fprintln(w, "mapping OK")
	return err
}
