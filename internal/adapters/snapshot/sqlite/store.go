package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ogurasousui/employee-record-store/internal/core/employee"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	// DefaultPath は既定のデータベースファイルです。
	DefaultPath = "employees.db"

	snapshotName = "employees"
)

// Store はスナップショットを SQLite の 1 行に JSON として保存します。
type Store struct {
	db   *sql.DB
	path string
}

// Open は SQLite データベースを開き、スナップショット用テーブルを用意します。
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("sqlite snapshot: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite snapshot: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS employee_snapshot (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite snapshot: create table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Load はスナップショットを読み込みます。行が存在しない場合は空のコレクションを返します。
func (s *Store) Load(ctx context.Context) ([]employee.Record, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM employee_snapshot WHERE name = ?`, snapshotName).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite snapshot: select: %w", err)
	}

	var records []employee.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("sqlite snapshot: decode: %w", err)
	}
	return records, nil
}

// Save はスナップショットを 1 トランザクションで置き換えます。
func (s *Store) Save(ctx context.Context, records []employee.Record) (retErr error) {
	if records == nil {
		records = []employee.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("sqlite snapshot: encode: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite snapshot: begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `INSERT INTO employee_snapshot(name, payload) VALUES(?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload`, snapshotName, payload); err != nil {
		return fmt.Errorf("sqlite snapshot: upsert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite snapshot: commit: %w", err)
	}
	return nil
}

// Close はデータベースを閉じます。
func (s *Store) Close() error { return s.db.Close() }

// Path はデータベースファイルのパスを返します。
func (s *Store) Path() string { return s.path }
