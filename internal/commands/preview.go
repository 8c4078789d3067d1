package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/csvqif/internal/convert"
)

func newPreviewCommand(opts *globalOptions) *cobra.Command {
	var noHeader bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the columns and first rows of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.service().OpenPreview(args[0], !noHeader)
			if err != nil {
				return err
			}
			return printPreview(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().BoolVar(&noHeader, "no-header", false, "first row is data, not column names")

	return cmd
}

func printPreview(w io.Writer, p *convert.Preview) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "#\t"+strings.Join(p.Columns, "\t"))
	for i, row := range p.Rows {
		fmt.Fprintf(tw, "%d\t%s\n", i+1, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d columns, showing %d of %d rows\n", len(p.Columns), len(p.Rows), p.Total)
	return err
}
