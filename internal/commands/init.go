package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/csvqif/internal/config"
)

func newInitCommand() *cobra.Command {
	var name string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [profile.yaml]",
		Short: "Write a default conversion profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "csvqif.yaml"
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
			}

			if err := runInit(absPath, name, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote profile %s\n", absPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "profile name (default: file name)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing profile")

	return cmd
}

func runInit(path, name string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("profile %s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := config.Save(path, config.Default(name)); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}
