package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/config"
)

// ErrAborted reports that negotiation ended without a session: the operator
// cancelled a selection, or the attempt budget ran out.
var ErrAborted = errors.New("connection negotiation aborted")

// maxTransientRetries bounds session-open attempts on transient failures per
// negotiation call. Reselection cycles are not bounded; only the operator
// cancelling ends them.
const maxTransientRetries = 3

// DatabaseChooser is the interactive database-selection capability.
// Satisfied by dialog.Prompter.
type DatabaseChooser interface {
	ChooseDatabase(current string, available []string) (string, bool)
}

// Negotiator acquires a usable session despite a misconfigured target: the
// configured database may not exist, may be unreachable, or may lack the
// expected table, and the operator can pick a different one without
// restarting the process.
//
// It never returns a session whose target table is unverified. Its only side
// effects are rewriting the configured database name and opening/closing
// sessions; it performs no data mutation.
type Negotiator struct {
	cfg       *config.Config
	connector Connector
	chooser   DatabaseChooser
	log       *slog.Logger
}

// NewNegotiator returns a negotiator mutating cfg's database name in place.
func NewNegotiator(cfg *config.Config, connector Connector, chooser DatabaseChooser) *Negotiator {
	return &Negotiator{
		cfg:       cfg,
		connector: connector,
		chooser:   chooser,
		log:       slog.Default().With("component", "negotiator"),
	}
}

// Negotiate establishes a session against the configured database and
// verifies that table exists in it. On a missing database, denied access, or
// a missing table the operator is asked to pick another database; transient
// open failures are retried up to the attempt budget. The returned session is
// owned by the caller and must be closed on every exit path.
func (n *Negotiator) Negotiate(ctx context.Context, table string) (Session, error) {
	if strings.TrimSpace(n.cfg.Database.Database) == "" {
		n.log.Warn("database name is empty, asking for a selection")
		if !n.reselect(ctx) {
			return nil, ErrAborted
		}
	}

	transientRetries := 0
	for {
		database := n.cfg.Database.Database
		n.log.Debug("connecting", "server", n.cfg.Database.Server, "database", database)

		sess, err := n.connector.Open(ctx, database)
		if err != nil {
			switch Classify(err) {
			case ClassReselect:
				n.log.Warn("connection refused for this database",
					"database", database, "error", err)
				if !n.reselect(ctx) {
					return nil, ErrAborted
				}
				continue

			case ClassTransient:
				transientRetries++
				if transientRetries >= maxTransientRetries {
					n.log.Error("giving up after repeated connection failures",
						"attempts", transientRetries, "error", err)
					return nil, fmt.Errorf("%w: %v", ErrAborted, err)
				}
				n.log.Warn("transient connection failure, retrying",
					"attempt", transientRetries, "error", err)
				continue

			default:
				return nil, fmt.Errorf("connect to %q: %w", database, err)
			}
		}

		exists, err := sess.TableExists(ctx, table)
		if err != nil {
			sess.Close()
			return nil, fmt.Errorf("verify table %q: %w", table, err)
		}
		if !exists {
			sess.Close()
			n.log.Warn("table does not exist in this database",
				"table", table, "database", database)
			if !n.reselect(ctx) {
				return nil, ErrAborted
			}
			continue
		}

		n.log.Info("connected", "database", database, "table", table)
		return sess, nil
	}
}

// reselect runs the interactive selection sub-protocol: fetch the visible
// databases, present them, and rewrite the configured name with the choice.
// Returns false when the operator cancels or no databases are reachable.
func (n *Negotiator) reselect(ctx context.Context) bool {
	available, err := n.connector.ListDatabases(ctx)
	if err != nil {
		n.log.Error("cannot fetch the database list", "error", err)
		return false
	}
	if len(available) == 0 {
		n.log.Error("no databases available on the server", "server", n.cfg.Database.Server)
		return false
	}

	chosen, ok := n.chooser.ChooseDatabase(n.cfg.Database.Database, available)
	if !ok {
		n.log.Info("database selection cancelled")
		return false
	}

	previous := n.cfg.Database.Database
	n.cfg.Database.Database = chosen
	n.log.Info("database changed", "from", previous, "to", chosen)
	return true
}
