package cmd

import (
	"fmt"
	"os"

	"schema-sentinel/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileFlags selectionFlags
	rebuildCommand string
	forceRebuild   bool
)

// reconcileCmd runs the check, rebuild and commit protocol.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Rebuild when tracked files changed, then commit the new baseline",
	Long: `Compares the tracked files with the baseline. When nothing changed the rebuild
is skipped. Otherwise the baseline is cleared, the rebuild command runs, and the
current files are committed as the new baseline.

The baseline is cleared before the rebuild starts: if the rebuild fails or the
process dies, the next run rebuilds again.

Examples:
  # Regenerate the schema only when entities or import scripts changed
  schema-sentinel reconcile --rebuild "./gradlew generateSchema"

  # Rebuild regardless of the baseline
  schema-sentinel reconcile --rebuild "make schema" --force`,
	RunE: runReconcile,
}

func init() {
	reconcileFlags.register(reconcileCmd)
	reconcileCmd.Flags().StringVar(&rebuildCommand, "rebuild", "", "Command run through sh -c when a change is detected")
	reconcileCmd.Flags().BoolVar(&forceRebuild, "force", false, "Clear the baseline first so every tracked file counts as created")
	_ = reconcileCmd.MarkFlagRequired("rebuild")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	actual, _, err := rt.collect(ctx, reconcileFlags.selection(rt.cfg.Track))
	if err != nil {
		return fmt.Errorf("failed to resolve tracked files: %w", err)
	}

	if forceRebuild {
		rt.logger.Info("Forced rebuild, clearing baseline")
		if err := rt.store.ClearAll(ctx); err != nil {
			return fmt.Errorf("failed to clear baseline: %w", err)
		}
	}

	engine := reconcile.NewEngine(rt.store, rt.logger)
	outcome, err := engine.Run(ctx, actual, shellRebuild(rebuildCommand, os.Stdout, os.Stderr, rt.logger))

	fields := []zap.Field{
		zap.String("run_id", outcome.RunID),
		zap.String("state", string(outcome.State)),
	}
	if err != nil {
		fields = append(fields, zap.String("failed_at", string(outcome.FailedAt)))
		rt.logger.Error("Reconciliation failed", append(fields, zap.Error(err))...)
		return fmt.Errorf("reconciliation failed at %s: %w", outcome.FailedAt, err)
	}

	rt.logger.Info("Reconciliation completed", fields...)
	return nil
}
