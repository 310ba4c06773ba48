package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ogurasousui/employee-record-store/internal/core/employee"
)

// DefaultPath は既定のスナップショットファイルです。
const DefaultPath = "employees.json"

// Store はスナップショットを単一の JSON ファイルに保存します。
// 書き込みは同じディレクトリの一時ファイルに行い、rename で置き換えます。
type Store struct {
	path string
}

// New は path に保存する Store を生成します。
func New(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("file snapshot: create dir: %w", err)
	}
	return &Store{path: path}, nil
}

// Path はスナップショットファイルのパスを返します。
func (s *Store) Path() string { return s.path }

// Load はファイルを読み込みます。ファイルが存在しない場合は空のコレクションを返します。
func (s *Store) Load(ctx context.Context) ([]employee.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("file snapshot: load: %w", err)
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file snapshot: read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	var records []employee.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("file snapshot: decode %s: %w", s.path, err)
	}
	return records, nil
}

// Save はコレクション全体をアトミックに書き込みます。
// ctx は書き込み開始前に確認し、rename 以降は中断しません。
func (s *Store) Save(ctx context.Context, records []employee.Record) (retErr error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("file snapshot: save: %w", err)
	}
	if records == nil {
		records = []employee.Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("file snapshot: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("file snapshot: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if retErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("file snapshot: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("file snapshot: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file snapshot: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o640); err != nil {
		return fmt.Errorf("file snapshot: chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("file snapshot: replace %s: %w", s.path, err)
	}

	// rename は完了しているため、ディレクトリの fsync 失敗はコミット失敗として扱わない。
	syncDir(dir)
	return nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
