package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"schema-sentinel/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkFlags   selectionFlags
	failOnChange bool
	checkJSON    bool
)

// checkCmd compares tracked files with the baseline without touching it.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report tracked files created, modified or deleted since the baseline",
	Long: `Resolves the tracked files and compares them with the baseline. Nothing is
written. With --fail-on-change the command exits with status 2 when a rebuild
would be required, which suits CI pipelines and shell conditionals.

Examples:
  # Check the configured selection
  schema-sentinel check

  # Check explicit files, exit 2 when changed
  schema-sentinel check --resource import.sql --class fr.dz.Entity --fail-on-change`,
	RunE: runCheck,
}

func init() {
	checkFlags.register(checkCmd)
	checkCmd.Flags().BoolVar(&failOnChange, "fail-on-change", false, "Exit with status 2 when a change is detected")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the report as JSON")
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	actual, missed, err := rt.collect(ctx, checkFlags.selection(rt.cfg.Track))
	if err != nil {
		return fmt.Errorf("failed to resolve tracked files: %w", err)
	}

	engine := reconcile.NewEngine(rt.store, rt.logger)

	var changed bool
	if checkJSON {
		report, err := engine.Check(ctx, actual)
		if err != nil {
			return fmt.Errorf("failed to read baseline: %w", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			*reconcile.Report
			Missed []string `json:"missed"`
		}{report, missed}); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		changed = report.Changed()
	} else {
		changed, err = engine.HasChanged(ctx, actual)
		if err != nil {
			return fmt.Errorf("failed to read baseline: %w", err)
		}
		rt.logger.Info("Check completed",
			zap.Bool("changed", changed),
			zap.Int("tracked", len(actual)),
			zap.Int("missed", len(missed)),
		)
	}

	if changed && failOnChange {
		return errChanged
	}
	return nil
}
