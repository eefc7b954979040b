package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"map-editor/core/config"
	"map-editor/core/database"
	"map-editor/core/loader"
	"map-editor/core/logger"
	"map-editor/core/middleware/auth"
	"map-editor/core/middleware/rayid"
	"map-editor/core/policy"
	"map-editor/core/session"
	"map-editor/core/storage"
	"map-editor/feature/edits"
	"map-editor/feature/mapbridge"
	"map-editor/feature/selection"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the map editor server",
	Long:  `Starts the HTTP server, loads layer policies and mounts the selection, edit journal and renderer bridge features.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// The database is optional; the journal falls back to memory.
		db := connectOptional(cfg.Database, logg)

		var store storage.Client
		if cfg.Policy.Source == policy.SourceStorage {
			if store, err = storage.NewClient(cfg.Storage); err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
		}

		source, err := policy.NewSource(cfg.Policy, policy.Backends{Storage: store, Bucket: cfg.Storage.Bucket, DB: db})
		if err != nil {
			logg.Fatal("Failed to configure policy source", zap.Error(err))
		}
		registry := policy.NewRegistry(source, logg.Named("policy"))
		if _, err := registry.Reload(cmd.Context()); err != nil {
			logg.Warn("Initial policy load failed, every layer is locked until reload", zap.Error(err))
		}

		journal := edits.NewJournal(db, logg.Named("edits"))
		defer journal.Close()
		if err := journal.Migrate(context.Background()); err != nil {
			logg.Warn("Edit journal migration failed", zap.Error(err))
		}

		bridge := mapbridge.NewBridge(cfg.Bridge, registry.Current, logg.Named("bridge"))
		svc := selection.NewService(bridge, registry, session.Options{
			Logger:           logg.Named("session"),
			Committer:        journal,
			ExcludedOverride: cfg.Policy.Override(),
		})
		defer svc.Close()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           cfg.Server.ReadTimeout(),
		})

		mgr := loader.NewManager(logg)
		mgr.Register(mapbridge.NewFeature(bridge, logg))
		mgr.Register(selection.NewFeature(svc, logg))
		mgr.Register(edits.NewFeature(journal, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Debug("Request started",
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
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

// connectOptional opens the database when a driver is configured and
// returns nil otherwise.
func connectOptional(cfg database.Config, logg *zap.Logger) *gorm.DB {
	if !cfg.Enabled() {
		return nil
	}
	db, err := database.Connect(cfg)
	if err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}
	logg.Info("Connected to database", zap.String("driver", cfg.Driver))
	return db
}
