package cmd

import (
	"errors"
	"fmt"
	"os"

	"schema-sentinel/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errChanged makes Execute exit with status 2 when --fail-on-change is set.
var errChanged = errors.New("tracked files have changed")

var (
	configDir string
	baseDir   string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "schema-sentinel",
	Short: "Skip rebuilds when tracked sources have not changed",
	Long: `schema-sentinel records the modification times of tracked resource and class
files in a baseline. A check compares the files on disk with that baseline and
only when something was created, modified or deleted does a reconcile run the
rebuild command and commit the new baseline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, errChanged) {
		os.Exit(2)
	}

	// Console encoding at debug level gives readable ISO8601 timestamps
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr == nil {
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding the .env file")
	RootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Project directory search roots are relative to (overrides TRACK_BASE_DIR)")
}
