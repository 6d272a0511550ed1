// Package service holds the operator-facing operations: the import, export,
// and conversion flows gluing the excel, catalog, dialog, and database layers
// together. Every operation runs under its own run ID so log entries of one
// run correlate.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/config"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/database"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/dialog"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/logging"
)

// Service exposes the catalog operations. The config is shared by pointer
// with the negotiator, so a database chosen during one operation carries over
// to the next.
type Service struct {
	cfg       *config.Config
	connector database.Connector
	prompter  dialog.Prompter
}

// New wires a service over the given collaborators.
func New(cfg *config.Config, connector database.Connector, prompter dialog.Prompter) *Service {
	return &Service{cfg: cfg, connector: connector, prompter: prompter}
}

func (s *Service) runLogger(operation string) *slog.Logger {
	return logging.WithFields("operation", operation, "run_id", uuid.NewString())
}

// suggestPath places a suggested export file next to the configured workbook
// when one is set.
func (s *Service) suggestPath(name string) string {
	if s.cfg.Excel.File == "" {
		return name
	}
	return filepath.Join(filepath.Dir(s.cfg.Excel.File), name)
}

// ChangeDatabase lets the operator switch the working database without
// restarting. The choice persists in the shared config, so the next
// operation connects there directly.
func (s *Service) ChangeDatabase(ctx context.Context) error {
	log := s.runLogger("change database")

	available, err := s.connector.ListDatabases(ctx)
	if err != nil {
		log.Error("cannot fetch the database list", "error", err)
		return fmt.Errorf("%w: %v", database.ErrAborted, err)
	}
	if len(available) == 0 {
		log.Error("no databases available on the server", "server", s.cfg.Database.Server)
		return database.ErrAborted
	}

	chosen, ok := s.prompter.ChooseDatabase(s.cfg.Database.Database, available)
	if !ok {
		log.Info("database selection cancelled")
		return database.ErrAborted
	}

	previous := s.cfg.Database.Database
	s.cfg.Database.Database = chosen
	log.Info("database changed", "from", previous, "to", chosen)
	return nil
}

func (s *Service) negotiate(ctx context.Context, table string, log *slog.Logger) (database.Session, error) {
	sess, err := database.NewNegotiator(s.cfg, s.connector, s.prompter).Negotiate(ctx, table)
	if err != nil {
		log.Error("no usable database connection", "error", err)
		return nil, err
	}
	return sess, nil
}
