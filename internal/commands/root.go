package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/csvqif/internal/buildinfo"
	"github.com/cleared-dev/csvqif/internal/convert"
	"github.com/cleared-dev/csvqif/internal/logging"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	logLevel  string
	logPretty bool
	log       zerolog.Logger
}

func (g *globalOptions) service() *convert.Service {
	return convert.NewService(g.log)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "csvqif",
		Short:   "Convert bank CSV exports to QIF",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log = logging.New(logging.Config{
				Level:  opts.logLevel,
				Pretty: opts.logPretty,
				Out:    cmd.ErrOrStderr(),
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.logPretty, "log-pretty", false, "human-readable log output")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newPreviewCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newBatchCommand(opts))

	return rootCmd
}
