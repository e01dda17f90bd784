// Package store persists snapshots and lot records in SQLite. It is the
// default remote behind the snapshot bridge.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/snapshot"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store implements snapshot.Remote on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dbPath and applies migrations.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	files, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}
	for _, f := range files {
		data, err := migrations.ReadFile("migrations/" + f.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", f.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", f.Name(), err)
		}
	}
	return nil
}

// SaveLot upserts a lot record.
func (s *Store) SaveLot(ctx context.Context, lot model.Lot) (model.Lot, error) {
	if err := lot.Validate(); err != nil {
		return model.Lot{}, err
	}
	data, err := json.Marshal(lot)
	if err != nil {
		return model.Lot{}, fmt.Errorf("encode lot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO lots (id, project_id, data, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
    `, lot.ID, lot.ProjectID, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return model.Lot{}, fmt.Errorf("save lot: %w", err)
	}
	return lot, nil
}

// LotForProject returns the most recently saved lot of a project.
func (s *Store) LotForProject(ctx context.Context, projectID string) (model.Lot, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT data FROM lots
        WHERE project_id = ?
        ORDER BY updated_at DESC
        LIMIT 1
    `, projectID)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Lot{}, fmt.Errorf("lot for %s: %w", projectID, snapshot.ErrNotFound)
		}
		return model.Lot{}, err
	}
	var lot model.Lot
	if err := json.Unmarshal([]byte(data), &lot); err != nil {
		return model.Lot{}, fmt.Errorf("decode lot: %w", err)
	}
	return lot, nil
}

// CreateSnapshot inserts rec.
func (s *Store) CreateSnapshot(ctx context.Context, rec snapshot.Record) (snapshot.Record, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return snapshot.Record{}, fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO snapshots (id, project_id, kind, label, created_at, payload)
        VALUES (?, ?, ?, ?, ?, ?)
    `, rec.ID, rec.ProjectID, string(rec.Kind), rec.Label, rec.CreatedAt.UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return snapshot.Record{}, fmt.Errorf("create snapshot: %w", err)
	}
	return rec, nil
}

// ListSnapshots returns a project's snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context, projectID string) ([]snapshot.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT payload FROM snapshots
        WHERE project_id = ?
        ORDER BY created_at DESC
    `, projectID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []snapshot.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec snapshot.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetSnapshot returns one snapshot by ID.
func (s *Store) GetSnapshot(ctx context.Context, id string) (snapshot.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = ?`, id)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snapshot.Record{}, fmt.Errorf("%w: %s", snapshot.ErrNotFound, id)
		}
		return snapshot.Record{}, err
	}
	var rec snapshot.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return snapshot.Record{}, fmt.Errorf("%w: %v", snapshot.ErrInvalidPayload, err)
	}
	return rec, nil
}

// DeleteSnapshot removes a snapshot. Deleting an unknown ID is not an error.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
