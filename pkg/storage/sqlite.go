//go:build sqlite
// +build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"crontask/pkg/logx"
	"crontask/pkg/task"
)

var _ Store = (*sqliteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	key    TEXT PRIMARY KEY,
	id     TEXT NOT NULL,
	record TEXT NOT NULL
);
`

// sqliteStore keeps one JSON record per row, keyed by the namespaced
// key so several prefixes can share a database file.
type sqliteStore struct {
	cfg Config
	log logx.Logger
	db  *sql.DB
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.SQLite.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	return &sqliteStore{cfg: cfg, log: log}, nil
}

func (s *sqliteStore) Init(ctx context.Context) error {
	path := s.cfg.SQLite.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if s.cfg.SQLite.BusyTimeout > 0 {
		ms := s.cfg.SQLite.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
	}

	s.db = db
	s.log.Info("sqlite storage ready",
		logx.String("path", path),
		logx.String("prefix", s.cfg.Prefix),
	)
	return nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) Add(ctx context.Context, t task.Task) (task.Task, error) {
	t = prepare(t, time.Now().UTC())
	b, err := encodeRecord(t)
	if err != nil {
		return task.Task{}, fmt.Errorf("encode task %s: %w", t.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks(key, id, record) VALUES(?,?,?)
		 ON CONFLICT(key) DO UPDATE SET record=excluded.record`,
		recordKey(s.cfg.Prefix, t.ID), t.ID, string(b),
	)
	if err != nil {
		return task.Task{}, fmt.Errorf("persist task %s: %w", t.ID, err)
	}
	return t, nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (task.Task, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM tasks WHERE key = ?`,
		recordKey(s.cfg.Prefix, id),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, false, nil
	}
	if err != nil {
		return task.Task{}, false, fmt.Errorf("load task %s: %w", id, err)
	}
	t, err := decodeRecord([]byte(raw))
	if err != nil {
		return task.Task{}, false, fmt.Errorf("task %s: %w", id, err)
	}
	return t, true, nil
}

func (s *sqliteStore) GetAll(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, record FROM tasks WHERE key LIKE ? ESCAPE '\'`,
		likePrefix(s.cfg.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("scan %s*: %w", s.cfg.Prefix, err)
	}
	defer rows.Close()

	var out []task.Task
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan %s*: %w", s.cfg.Prefix, err)
		}
		t, err := decodeRecord([]byte(raw))
		if err != nil {
			s.log.Warn("skipping corrupt task record",
				logx.String("key", key),
				logx.Err(err),
			)
			continue
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s*: %w", s.cfg.Prefix, err)
	}
	return out, nil
}

func (s *sqliteStore) Update(ctx context.Context, id string, p task.Patch) (task.Task, error) {
	key := recordKey(s.cfg.Prefix, id)

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM tasks WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("load task %s: %w", id, err)
	}
	cur, err := decodeRecord([]byte(raw))
	if err != nil {
		return task.Task{}, fmt.Errorf("task %s: %w", id, err)
	}

	merged := applyPatch(cur, p, time.Now().UTC())
	b, err := encodeRecord(merged)
	if err != nil {
		return task.Task{}, fmt.Errorf("encode task %s: %w", id, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET record = ? WHERE key = ?`, string(b), key,
	); err != nil {
		return task.Task{}, fmt.Errorf("persist task %s: %w", id, err)
	}
	return merged, nil
}

func (s *sqliteStore) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE key = ?`, recordKey(s.cfg.Prefix, id),
	)
	if err != nil {
		return false, fmt.Errorf("remove task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove task %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE key LIKE ? ESCAPE '\'`,
		likePrefix(s.cfg.Prefix),
	)
	if err != nil {
		return fmt.Errorf("clear %s*: %w", s.cfg.Prefix, err)
	}
	return nil
}

// likePrefix escapes LIKE metacharacters in the key prefix.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
