package employee

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	opList   = "list"
	opGet    = "get"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// UseCase は社員ストアの公開インターフェースです。
type UseCase interface {
	List(ctx context.Context) []Record
	Get(ctx context.Context, id int64) (Record, error)
	Create(ctx context.Context, fields Fields) (Record, error)
	Update(ctx context.Context, id int64, fields Fields) (Record, error)
	Delete(ctx context.Context, id int64) error
}

// Store はメモリ上の社員コレクションを保持し、変更のたびにスナップショットを永続化します。
//
// 読み取りは並行に実行でき、書き込みは検証・変更・永続化を通して排他的に実行されます。
// 永続化に失敗した場合、メモリ上のコレクションは変更されません。
type Store struct {
	mu        sync.RWMutex
	records   []Record
	snapshots SnapshotStore
	logger    *logrus.Entry
	recorder  Recorder
}

// Option は Store の生成オプションです。
type Option func(*Store)

// WithLogger はロガーを設定します。
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder は計測フックを設定します。
func WithRecorder(recorder Recorder) Option {
	return func(s *Store) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// Open はスナップショットを読み込んで Store を生成します。
func Open(ctx context.Context, snapshots SnapshotStore, opts ...Option) (*Store, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("employee: snapshot store is required")
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Store{
		snapshots: snapshots,
		logger:    logrus.NewEntry(discard),
		recorder:  noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}

	records, err := snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("employee: load snapshot: %w", err)
	}
	if err := checkRecords(records); err != nil {
		return nil, err
	}

	s.records = cloneRecords(records)
	s.recorder.SetRecordCount(len(s.records))
	s.logger.WithField("records", len(s.records)).Info("employee snapshot loaded")
	return s, nil
}

// checkRecords は読み込んだレコードの ID と各フィールドを検証します。
func checkRecords(records []Record) error {
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if r.ID <= 0 {
			return fmt.Errorf("%w: non-positive id %d", ErrCorruptSnapshot, r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrCorruptSnapshot, r.ID)
		}
		seen[r.ID] = struct{}{}

		if err := Validate(r.Fields(), ModeCreate); err != nil {
			return fmt.Errorf("%w: record %d: %w", ErrCorruptSnapshot, r.ID, err)
		}
	}
	return nil
}

// List は全レコードのコピーを返します。
func (s *Store) List(_ context.Context) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.recorder.ObserveOperation(opList, nil)
	return cloneRecords(s.records)
}

// Get は ID に一致するレコードを返します。
func (s *Store) Get(_ context.Context, id int64) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := indexOf(s.records, id)
	if idx < 0 {
		err := &NotFoundError{ID: id}
		s.recorder.ObserveOperation(opGet, err)
		return Record{}, err
	}

	s.recorder.ObserveOperation(opGet, nil)
	return s.records[idx], nil
}

// Create は入力を検証し、新しい ID を割り当ててレコードを追加します。
func (s *Store) Create(ctx context.Context, fields Fields) (rec Record, err error) {
	defer func() { s.recorder.ObserveOperation(opCreate, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Validate(fields, ModeCreate); err != nil {
		return Record{}, err
	}

	created := recordFromFields(nextID(s.records), fields)

	next := make([]Record, 0, len(s.records)+1)
	next = append(next, s.records...)
	next = append(next, created)

	if err := s.commit(ctx, next); err != nil {
		return Record{}, err
	}

	s.logger.WithFields(logrus.Fields{"id": created.ID, "op": opCreate}).Debug("employee created")
	return created, nil
}

// Update は既存レコードに入力をマージし、マージ結果を検証してから保存します。
// id は不変であり、入力に含まれる id は無視されます。
func (s *Store) Update(ctx context.Context, id int64, fields Fields) (rec Record, err error) {
	defer func() { s.recorder.ObserveOperation(opUpdate, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.records, id)
	if idx < 0 {
		return Record{}, &NotFoundError{ID: id}
	}

	merged := s.records[idx].Fields()
	for name, value := range fields {
		switch {
		case name == FieldID:
			continue
		case name == FieldLastWorkingDate && (value == nil || value == ""):
			delete(merged, name)
		default:
			merged[name] = value
		}
	}

	if err := Validate(merged, ModeUpdate); err != nil {
		return Record{}, err
	}

	updated := recordFromFields(id, merged)

	next := cloneRecords(s.records)
	next[idx] = updated

	if err := s.commit(ctx, next); err != nil {
		return Record{}, err
	}

	s.logger.WithFields(logrus.Fields{"id": id, "op": opUpdate, "state": updated.State()}).Debug("employee updated")
	return updated, nil
}

// Delete はレコードを削除します。残りのレコードの ID は変わりません。
func (s *Store) Delete(ctx context.Context, id int64) (err error) {
	defer func() { s.recorder.ObserveOperation(opDelete, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.records, id)
	if idx < 0 {
		return &NotFoundError{ID: id}
	}

	next := make([]Record, 0, len(s.records)-1)
	next = append(next, s.records[:idx]...)
	next = append(next, s.records[idx+1:]...)

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"id": id, "op": opDelete}).Debug("employee deleted")
	return nil
}

// commit は next を永続化し、成功した場合のみメモリ上のコレクションを置き換えます。
// 呼び出し側は書き込みロックを保持している必要があります。
// 呼び出し元のキャンセルは書き込みに伝播させません。
func (s *Store) commit(ctx context.Context, next []Record) error {
	started := time.Now()
	err := s.snapshots.Save(context.WithoutCancel(ctx), next)
	s.recorder.ObservePersist(time.Since(started).Seconds(), err)
	if err != nil {
		s.logger.WithError(err).WithField("records", len(next)).Error("employee snapshot write failed")
		return fmt.Errorf("employee: persist snapshot: %w", err)
	}

	s.records = next
	s.recorder.SetRecordCount(len(next))
	return nil
}
