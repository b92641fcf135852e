package cmd

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"schema-sentinel/core/reconcile"

	"go.uber.org/zap"
)

// shellRebuild runs command through sh -c, passing its output through.
func shellRebuild(command string, stdout, stderr io.Writer, l *zap.Logger) reconcile.RebuildFunc {
	return func(ctx context.Context) error {
		l.Info("Running rebuild", zap.String("command", command))

		c := exec.CommandContext(ctx, "sh", "-c", command)
		c.Stdout = stdout
		c.Stderr = stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("rebuild command failed: %w", err)
		}
		return nil
	}
}
