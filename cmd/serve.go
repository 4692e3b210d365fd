package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dataset-manifest/core/catalog"
	"dataset-manifest/core/database"
	"dataset-manifest/core/loader"
	"dataset-manifest/core/logger"
	"dataset-manifest/core/middleware/auth"
	"dataset-manifest/core/middleware/rayid"

	catalogfeature "dataset-manifest/feature/catalog"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the image catalog over HTTP",
	Long:  `Connects to the catalog database and serves read-only lookups by image id, hash and partition.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (overrides SERVER_PORT)")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := setup(cmd)
	if err != nil {
		return err
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	cat := catalog.New(db)
	if err := cat.Verify(ctx); err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	// RayID first so every log line below carries it.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		rl := logger.WithRayID(l, c)
		start := time.Now()
		err := c.Next()
		if err != nil {
			rl.Error("Request error", zap.String("path", c.Path()), zap.Error(err))
			return err
		}
		rl.Info("Request handled",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil
	})
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

	mgr := loader.NewManager(l)
	mgr.Register(catalogfeature.NewFeature(cat, l))
	if _, err := mgr.LoadAll(app); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("Shutting down server")
	return app.ShutdownWithTimeout(10 * time.Second)
}
