// Package store keeps a history of evaluation runs in SQLite.
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("store: closed")

// Run is one recorded evaluation.
type Run struct {
	ID        int64
	Gold      string // gold file path
	System    string // system file path
	Tokens    int
	UAS       float64
	LAS       float64
	CreatedAt time.Time
}

// Store is a run history backed by a pool of SQLite connections. Record,
// List and Close may be called concurrently; Close waits for calls in
// flight.
type Store struct {
	mu   sync.RWMutex
	pool *sqlitex.Pool
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	pool, err := sqlitex.NewPool("file:"+path, sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}

	s := &Store{pool: pool}
	if err := s.createSchema(context.Background()); err != nil {
		_ = pool.Close() // schema error takes precedence
		return nil, err
	}
	return s, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	script, err := sqlFiles.ReadFile("sql/runs.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, string(script), nil); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Record inserts run and returns its id. A zero CreatedAt is set to the
// current time.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pool == nil {
		return 0, ErrClosed
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT INTO runs (gold, system, tokens, uas, las, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{run.Gold, run.System, run.Tokens, run.UAS, run.LAS, run.CreatedAt.UnixNano()},
		})
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	return conn.LastInsertRowID(), nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pool == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var runs []Run
	err = sqlitex.Execute(conn,
		"SELECT id, gold, system, tokens, uas, las, created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT ?",
		&sqlitex.ExecOptions{
			Args: []any{limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				runs = append(runs, Run{
					ID:        stmt.ColumnInt64(0),
					Gold:      stmt.ColumnText(1),
					System:    stmt.ColumnText(2),
					Tokens:    stmt.ColumnInt(3),
					UAS:       stmt.ColumnFloat(4),
					LAS:       stmt.ColumnFloat(5),
					CreatedAt: time.Unix(0, stmt.ColumnInt64(6)),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Close closes every pooled connection. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool == nil {
		return nil
	}
	err := s.pool.Close()
	s.pool = nil
	return err
}
