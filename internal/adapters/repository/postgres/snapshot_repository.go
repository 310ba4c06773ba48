package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ogurasousui/employee-record-store/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-record-store/internal/platform/db/postgres"
)

// DefaultSnapshotName はスナップショット行の既定キーです。
const DefaultSnapshotName = "employees"

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// SnapshotRepository は PostgreSQL を利用したスナップショット永続化の実装です。
type SnapshotRepository struct {
	pool     pgdb.Queryer
	tx       TransactionManager
	name     string
	now      func() time.Time
	revision func() uuid.UUID
}

// NewSnapshotRepository は SnapshotRepository を生成します。
func NewSnapshotRepository(pool pgdb.Queryer, tx TransactionManager) *SnapshotRepository {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &SnapshotRepository{
		pool:     pool,
		tx:       tx,
		name:     DefaultSnapshotName,
		now:      func() time.Time { return time.Now().UTC() },
		revision: uuid.New,
	}
}

// Load はスナップショットを読み込みます。行が存在しない場合は空のコレクションを返します。
func (r *SnapshotRepository) Load(ctx context.Context) ([]employee.Record, error) {
	var document []byte
	err := r.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		exec := pgdb.QueryerFromContext(txCtx, r.pool)
		return exec.QueryRow(txCtx, `
        SELECT document
          FROM employee_snapshots
         WHERE name = $1
    `, r.name).Scan(&document)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load snapshot: %w", err)
	}

	var records []employee.Record
	if err := json.Unmarshal(document, &records); err != nil {
		return nil, fmt.Errorf("postgres: decode snapshot: %w", err)
	}
	return records, nil
}

// Save はスナップショット行を新しいリビジョンで置き換えます。
func (r *SnapshotRepository) Save(ctx context.Context, records []employee.Record) error {
	if records == nil {
		records = []employee.Record{}
	}
	document, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("postgres: encode snapshot: %w", err)
	}

	return r.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		exec := pgdb.QueryerFromContext(txCtx, r.pool)
		tag, err := exec.Exec(txCtx, `
        INSERT INTO employee_snapshots (name, revision, document, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (name) DO UPDATE
           SET revision = EXCLUDED.revision,
               document = EXCLUDED.document,
               updated_at = EXCLUDED.updated_at
    `,
			r.name,
			r.revision().String(),
			document,
			r.now(),
		)
		if err != nil {
			return fmt.Errorf("postgres: save snapshot: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("postgres: save snapshot: unexpected rows affected %d", tag.RowsAffected())
		}
		return nil
	})
}
