// Package cmd builds kuristo's cobra command tree: run, list, doctor,
// status, log, show, batch submit/status, and tag (add a tag, or list/delete
// tags with --list/--delete). Structure is
// grounded directly on the teacher's apps/cli/cmd/root.go, stripped of the
// GitHub-Actions-specific trust-prompt/agent-detection machinery that has
// no analogue in a job scheduler.
package cmd

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/andrsd/kuristo/internal/kconfig"
	"github.com/andrsd/kuristo/internal/sentry"
	"github.com/andrsd/kuristo/internal/signal"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var (
	configPath string
	locations  []string
)

// cfg holds the loaded runner configuration, available to all commands.
// Populated in PersistentPreRunE.
var cfg *kconfig.Config

// useColor reports whether stdout is a terminal, the same go-isatty check
// the teacher's root.go uses to decide on styled output.
func useColor() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

var rootCmd = &cobra.Command{
	Use:     "kuristo",
	Short:   "Run declarative job graphs locally or on a batch queue",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		repoRoot := "."
		if configPath != "" {
			repoRoot = configPath
		}

		loaded, err := kconfig.Load(repoRoot)
		if err != nil {
			return err
		}
		loaded.OnFatal = sentry.CaptureError
		cfg = loaded

		return nil
	},
}

// Execute runs the root command with SIGINT/SIGTERM handling wired in.
func Execute() error {
	ctx := signal.SetupSignalHandler(context.Background())
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(tagCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory containing kuristo.json (defaults to cwd)")
	rootCmd.PersistentFlags().StringSliceVarP(&locations, "location", "l", []string{"."}, "directories to scan for ktests.yaml files")
}
