// Package storage は設定に応じてスナップショットの保存先を組み立てます。
package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	pgrepo "github.com/ogurasousui/employee-record-store/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-record-store/internal/adapters/snapshot/file"
	s3snapshot "github.com/ogurasousui/employee-record-store/internal/adapters/snapshot/s3"
	"github.com/ogurasousui/employee-record-store/internal/adapters/snapshot/sqlite"
	"github.com/ogurasousui/employee-record-store/internal/core/employee"
	"github.com/ogurasousui/employee-record-store/internal/platform/config"
	pg "github.com/ogurasousui/employee-record-store/internal/platform/db/postgres"
)

// Backend は選択されたスナップショットストアと後始末処理をまとめたものです。
type Backend struct {
	Snapshots employee.SnapshotStore
	closers   []func() error
}

// Close は保持しているリソースを解放します。
func (b *Backend) Close() error {
	var firstErr error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.closers = nil
	return firstErr
}

// Open は cfg.Storage.Driver に対応するスナップショットストアを開きます。
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Entry) (*Backend, error) {
	entry := logger.WithField("driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.DriverFile:
		store, err := file.New(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		entry.WithField("path", store.Path()).Info("using file snapshot")
		return &Backend{Snapshots: store}, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		entry.WithField("path", store.Path()).Info("using sqlite snapshot")
		return &Backend{Snapshots: store, closers: []func() error{store.Close}}, nil

	case config.DriverPostgres:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres pool: %w", err)
		}
		repo := pgrepo.NewSnapshotRepository(pool, pg.NewTransactionManager(pool))
		entry.WithFields(logrus.Fields{
			"host":     cfg.Database.Host,
			"database": cfg.Database.Name,
		}).Info("using postgres snapshot")
		return &Backend{Snapshots: repo, closers: []func() error{func() error {
			pool.Close()
			return nil
		}}}, nil

	case config.DriverS3:
		store, err := s3snapshot.New(ctx, s3snapshot.Config{
			Bucket:    cfg.Storage.S3.Bucket,
			Key:       cfg.Storage.S3.Key,
			Region:    cfg.Storage.S3.Region,
			Endpoint:  cfg.Storage.S3.Endpoint,
			PathStyle: cfg.Storage.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		entry.WithField("bucket", cfg.Storage.S3.Bucket).Info("using s3 snapshot")
		return &Backend{Snapshots: store}, nil

	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Storage.Driver)
	}
}
