package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/csvqif/internal/inbox"
)

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var mo mappingOptions
	var outDir string
	var historyPath string
	var keep bool

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Convert every CSV and XLSX file in a directory with one mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			s, err := mo.resolve(cmd)
			if err != nil {
				return err
			}
			if historyPath == "" {
				historyPath = s.profile.Output.History
			}
			if outDir == "" {
				outDir = dir
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}

			files, err := inbox.Scan(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No files to convert in %s\n", dir)
				return nil
			}

			ext := s.profile.Output.Extension
			if ext == "" {
				ext = ".qif"
			}

			svc := opts.service()
			failed := 0
			written := make(map[string]string) // output path -> input name
			for _, f := range files {
				output := filepath.Join(outDir, strings.TrimSuffix(f.Name, filepath.Ext(f.Name))+ext)
				if prev, ok := written[output]; ok {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: output %s already written from %s\n", f.Name, output, prev)
					continue
				}
				if sameFile(f.Path, output) {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: output %s would overwrite the input file\n", f.Name, output)
					continue
				}
				written[output] = f.Name

				res, _, err := convertFile(cmd, svc, s, f.Path, output, historyPath)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", f.Name, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s -> %s (%d written, %d skipped)\n", f.Name, output, res.Written, res.Skipped)

				if !keep {
					if err := inbox.MarkProcessed(dir, f.Name); err != nil {
						return err
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}

	mo.register(cmd)
	cmd.Flags().StringVar(&outDir, "out", "", "directory for QIF files (default: the input directory)")
	cmd.Flags().StringVar(&historyPath, "history", "", "append a record of each run to a CSV file")
	cmd.Flags().BoolVar(&keep, "keep", false, "leave converted files in place instead of moving them to processed/")

	return cmd
}
