package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/csvqif/internal/config"
	"github.com/cleared-dev/csvqif/internal/convert"
	"github.com/cleared-dev/csvqif/internal/history"
	"github.com/cleared-dev/csvqif/internal/model"
)

func newConvertCommand(opts *globalOptions) *cobra.Command {
	var mo mappingOptions
	var output string
	var historyPath string
	var saveProfile string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a CSV or XLSX file to QIF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			s, err := mo.resolve(cmd)
			if err != nil {
				return err
			}

			if output == "" {
				ext := s.profile.Output.Extension
				if ext == "" {
					ext = ".qif"
				}
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ext
			}
			if historyPath == "" {
				historyPath = s.profile.Output.History
			}

			if sameFile(input, output) {
				return fmt.Errorf("output %s would overwrite the input file", output)
			}

			res, m, convErr := convertFile(cmd, opts.service(), s, input, output, historyPath)
			if convErr != nil {
				return convErr
			}

			if saveProfile != "" {
				s.profile.SetMapping(m)
				s.profile.HeaderPresent = s.headerPresent
				s.profile.AccountType = s.accountType.Header()
				s.profile.AmountSign = s.sign.String()
				if s.profile.Name == "" {
					s.profile.Name = strings.TrimSuffix(filepath.Base(saveProfile), filepath.Ext(saveProfile))
				}
				if err := config.Save(saveProfile, s.profile); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions to %s", res.Written, output)
			if res.Skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d rows skipped: missing date or amount)", res.Skipped)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	mo.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output QIF path (default: input path with .qif extension)")
	cmd.Flags().StringVar(&historyPath, "history", "", "append a record of this run to a CSV file")
	cmd.Flags().StringVar(&saveProfile, "save-profile", "", "save the resolved settings as a profile after a successful run")

	return cmd
}

// convertFile maps and converts one file, recording the run in historyPath
// when it is set. The mapping is returned for saving as a profile.
func convertFile(cmd *cobra.Command, svc *convert.Service, s *settings, input, output, historyPath string) (*convert.Result, model.ColumnMapping, error) {
	p, err := svc.OpenPreview(input, s.headerPresent)
	if err != nil {
		return nil, nil, err
	}
	m, err := buildMapping(svc, p.Columns, s.assignments)
	if err != nil {
		return nil, nil, err
	}

	req := convert.Request{
		InputPath:     input,
		HeaderPresent: s.headerPresent,
		Mapping:       m,
		AccountType:   s.accountType,
		Sign:          s.sign,
		OutputPath:    output,
	}
	res, convErr := svc.Convert(req)

	if historyPath != "" {
		if err := history.Append(historyPath, []history.Entry{historyEntry(req, res, convErr)}); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to write history: %v\n", err)
		}
	}
	return res, m, convErr
}

func historyEntry(req convert.Request, res *convert.Result, err error) history.Entry {
	e := history.Entry{
		Timestamp:   time.Now().UTC(),
		Input:       req.InputPath,
		Output:      req.OutputPath,
		AccountType: req.AccountType.Header(),
		AmountSign:  req.Sign.String(),
		Status:      "ok",
	}
	if res != nil {
		e.RunID = res.RunID
		e.Written = res.Written
		e.Skipped = res.Skipped
	}
	if err != nil {
		e.Status = "failed"
		e.Error = err.Error()
	}
	return e
}

// sameFile reports whether both paths name an existing, identical file.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
