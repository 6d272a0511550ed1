package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/application"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/config"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/database"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/dialog"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/logging"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/service"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"server", cfg.Database.Server,
		"database", cfg.Database.Database,
		"table", cfg.Database.Table,
		"login_timeout", cfg.Database.LoginTimeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connector := database.NewSQLConnector(&cfg.Database)
	probe(ctx, connector, cfg)

	prompter := dialog.NewConsole(os.Stdin, os.Stdout)
	svc := service.New(cfg, connector, prompter)

	menu := application.BuildMenu(svc)
	if err := menu.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		slog.Error("menu loop failed", "error", err)
		os.Exit(1)
	}
}

// probe attempts one connection at startup so a misconfigured server surfaces
// immediately. The menu still starts on failure; every operation negotiates
// its own session anyway.
func probe(ctx context.Context, connector *database.SQLConnector, cfg *config.Config) {
	probeCtx, cancel := context.WithTimeout(ctx, cfg.Database.LoginTimeout)
	defer cancel()

	sess, err := connector.Open(probeCtx, cfg.Database.Database)
	if err != nil {
		slog.Warn("database is not reachable yet",
			"server", cfg.Database.Server,
			"database", cfg.Database.Database,
			"error", err)
		return
	}
	sess.Close()
	slog.Info("database connection verified",
		"server", cfg.Database.Server, "database", cfg.Database.Database)
}
