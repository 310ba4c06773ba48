package employee

import "context"

// SnapshotStore は社員コレクション全体のスナップショット永続化の抽象です。
//
// Load はスナップショットが存在しない場合に空のコレクションと nil を返します。
// Save はコレクション全体を置き換え、途中まで書かれた状態を後続の Load に見せてはいけません。
// 実装は ctx のキャンセルを尊重して構いません。Store は呼び出し元のキャンセルを
// 取り除いた ctx で Save を呼ぶため、リクエストの中断でコミットが失われることはありません。
type SnapshotStore interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

// Recorder はストア操作の計測フックです。
type Recorder interface {
	ObserveOperation(op string, err error)
	ObservePersist(seconds float64, err error)
	SetRecordCount(n int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, error) {}
func (noopRecorder) ObservePersist(float64, error)  {}
func (noopRecorder) SetRecordCount(int)             {}
