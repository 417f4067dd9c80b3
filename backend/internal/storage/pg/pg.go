package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/logger"
	sharedpg "github.com/itchan-dev/itblog/shared/storage/pg"
)

// Querier is shared with the transaction helpers.
type Querier = sharedpg.Querier

// queryTimeout bounds every public storage operation.
const queryTimeout = 5 * time.Second

// schema is idempotent and applied on every start.
//
//go:embed migrations/init.sql
var schema string

type Storage struct {
	db  *sql.DB
	cfg *config.Config
}

func New(cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Private.Pg.Host, "db", cfg.Private.Pg.Dbname)
	db, err := sharedpg.Connect(cfg, sharedpg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")

	s := &Storage{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable. Used by readiness checks.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) withTx(fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return sharedpg.WithTx(ctx, s.db, fn)
}

func (s *Storage) withReadTx(fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return sharedpg.WithReadTx(ctx, s.db, fn)
}
