// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/stationeryhq/ledger/internal/cache"
	"github.com/stationeryhq/ledger/internal/config"
	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/i18n"
	"github.com/stationeryhq/ledger/internal/models"
	"github.com/stationeryhq/ledger/internal/router"
	"github.com/stationeryhq/ledger/internal/services"
)

func main() {
	app := &cli.App{
		Name:    "ledger",
		Usage:   "stationery shop inventory and sales ledger",
		Version: router.Version,
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			setupLogging(cfg)
			c.App.Metadata = map[string]interface{}{"config": cfg}
			return nil
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema and exit",
				Action: migrate,
			},
			{
				Name:  "export",
				Usage: "write a JSON snapshot of all products and sales",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "file to write (default stdout)"},
				},
				Action: export,
			},
			{
				Name:  "import",
				Usage: "load a JSON snapshot into an empty database",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "snapshot file", Required: true},
				},
				Action: importSnapshot,
			},
			{
				Name:   "archive",
				Usage:  "upload a snapshot to S3 or the local backup directory",
				Action: archive,
			},
			{
				Name:  "clear",
				Usage: "delete every product and sale and reset ids",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "confirm the deletion"},
				},
				Action: clearData,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("Command failed")
	}
}

func loadedConfig(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

func setupLogging(cfg *config.Config) {
	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// openCache returns a Redis-backed cache when REDIS_ADDR is set. A Redis
// outage degrades to no caching rather than failing startup.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, func()) {
	if cfg.Cache.RedisAddr == "" {
		return cache.Noop{}, func() {}
	}

	rdb, err := cache.Connect(ctx, cfg.Cache)
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, analytics will not be cached")
		return cache.Noop{}, func() {}
	}

	logrus.WithField("addr", cfg.Cache.RedisAddr).Info("Analytics cache connected")
	return cache.NewRedisCache(rdb), func() { rdb.Close() }
}

func serve(c *cli.Context) error {
	cfg := loadedConfig(c)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize i18n: %w", err)
	}

	// Connect in the background; requests get NOT_READY until this finishes.
	client := database.NewClient(cfg.Database)
	defer client.Close()
	go func() {
		if err := client.Connect(ctx); err != nil {
			logrus.WithError(err).Error("Storage initialization failed")
		}
	}()

	analyticsCache, closeCache := openCache(ctx, cfg)
	defer closeCache()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := router.Initialize(ctx, client, cfg, analyticsCache)
	if err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logrus.Info("Server exited")
	return nil
}

// connect opens storage synchronously for one-shot commands.
func connect(c *cli.Context) (*database.Client, error) {
	client := database.NewClient(loadedConfig(c).Database)
	if err := client.Connect(c.Context); err != nil {
		return nil, err
	}
	return client, nil
}

func migrate(c *cli.Context) error {
	client, err := connect(c)
	if err != nil {
		return err
	}
	client.Close()
	return nil
}

// dataService builds a DataService that invalidates the shared analytics cache.
func dataService(c *cli.Context, client *database.Client) (*services.DataService, func(), error) {
	cfg := loadedConfig(c)

	location, err := cfg.Shop.Location()
	if err != nil {
		return nil, nil, err
	}
	storage, err := services.NewStorageService(cfg.AWS, cfg.Shop.BackupDir)
	if err != nil {
		return nil, nil, err
	}

	analyticsCache, closeCache := openCache(c.Context, cfg)
	analytics := services.NewAnalyticsService(client, analyticsCache,
		time.Duration(cfg.Cache.AnalyticsTTL)*time.Second, location)
	return services.NewDataService(client, analytics, storage), closeCache, nil
}

func export(c *cli.Context) error {
	client, err := connect(c)
	if err != nil {
		return err
	}
	defer client.Close()

	svc, closeCache, err := dataService(c, client)
	if err != nil {
		return err
	}
	defer closeCache()

	snapshot, err := svc.Export(c.Context)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"products": len(snapshot.Products),
		"sales":    len(snapshot.Sales),
	}).Info("Snapshot exported")
	return nil
}

func importSnapshot(c *cli.Context) error {
	data, err := os.ReadFile(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	client, err := connect(c)
	if err != nil {
		return err
	}
	defer client.Close()

	svc, closeCache, err := dataService(c, client)
	if err != nil {
		return err
	}
	defer closeCache()

	_, err = svc.Import(c.Context, &snapshot)
	return err
}

func archive(c *cli.Context) error {
	client, err := connect(c)
	if err != nil {
		return err
	}
	defer client.Close()

	svc, closeCache, err := dataService(c, client)
	if err != nil {
		return err
	}
	defer closeCache()

	result, err := svc.Archive(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, result.Location)
	return nil
}

func clearData(c *cli.Context) error {
	if !c.Bool("yes") {
		return cli.Exit("refusing to clear without --yes", 1)
	}

	client, err := connect(c)
	if err != nil {
		return err
	}
	defer client.Close()

	svc, closeCache, err := dataService(c, client)
	if err != nil {
		return err
	}
	defer closeCache()

	return svc.Clear(c.Context)
}
