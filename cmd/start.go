package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"schema-sentinel/core/loader"
	"schema-sentinel/core/logger"
	"schema-sentinel/core/middleware/auth"
	"schema-sentinel/core/middleware/rayid"
	"schema-sentinel/feature/baseline"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server exposing baseline inspection, check, commit and clear.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.Close()

		logg := rt.logger
		zap.ReplaceGlobals(logg)

		app := newApp(rt)

		mgr := loader.NewManager(logg)
		mgr.Register(baseline.NewFeature(rt.store, rt.resolver, rt.cfg.Track, logg))
		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			errCh <- app.Listen(rt.cfg.Server.Address())
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-sig:
		}

		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(rt.cfg.Server.ShutdownTimeout())
	},
}

// newApp builds the fiber application with the request middleware chain.
func newApp(rt *runtime) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(rt.logger, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))
	return app
}

func init() {
	RootCmd.AddCommand(startCmd)
}
