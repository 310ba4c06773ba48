package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ogurasousui/employee-record-store/internal/core/employee"
)

const (
	defaultRegion = "us-east-1"
	defaultKey    = "employees.json"
	contentType   = "application/json"
)

// objectAPI は Store が利用する S3 クライアントの操作です。
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config は S3 スナップショットの接続設定です。
type Config struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string // MinIO などのカスタムエンドポイント
	PathStyle bool
}

// Store はスナップショットを 1 つの S3 オブジェクトとして保存します。
// PutObject はオブジェクト全体を置き換えるため、読み手に部分的な書き込みは見えません。
type Store struct {
	client objectAPI
	bucket string
	key    string
}

// New は既定の認証情報チェーンを使って Store を生成します。
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 snapshot: bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3 snapshot: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newWithClient(client, cfg.Bucket, cfg.Key), nil
}

func newWithClient(client objectAPI, bucket, key string) *Store {
	if key == "" {
		key = defaultKey
	}
	return &Store{client: client, bucket: bucket, key: key}
}

// Load はオブジェクトを読み込みます。オブジェクトが存在しない場合は空のコレクションを返します。
func (s *Store) Load(ctx context.Context) ([]employee.Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("s3 snapshot: get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer func() { _ = out.Body.Close() }()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 snapshot: read body: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	var records []employee.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("s3 snapshot: decode: %w", err)
	}
	return records, nil
}

// Save はオブジェクト全体を置き換えます。
func (s *Store) Save(ctx context.Context, records []employee.Record) error {
	if records == nil {
		records = []employee.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("s3 snapshot: encode: %w", err)
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &s.key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}); err != nil {
		return fmt.Errorf("s3 snapshot: put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}
