package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ストレージドライバ
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"EMPLOYEE_STORE_LISTEN_ADDR"`
}

// MetricsConfig は Prometheus エンドポイントの設定です。空の場合は公開しません。
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"EMPLOYEE_STORE_METRICS_ADDR"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level  string `yaml:"level" env:"EMPLOYEE_STORE_LOG_LEVEL"`
	Format string `yaml:"format" env:"EMPLOYEE_STORE_LOG_FORMAT"`
}

// StorageConfig はスナップショット保存先の設定です。
type StorageConfig struct {
	Driver string   `yaml:"driver" env:"EMPLOYEE_STORE_STORAGE_DRIVER"`
	Path   string   `yaml:"path" env:"EMPLOYEE_STORE_STORAGE_PATH"`
	S3     S3Config `yaml:"s3"`
}

// S3Config は S3 スナップショットの設定です。
type S3Config struct {
	Bucket    string `yaml:"bucket" env:"EMPLOYEE_STORE_S3_BUCKET"`
	Key       string `yaml:"key" env:"EMPLOYEE_STORE_S3_KEY"`
	Region    string `yaml:"region" env:"EMPLOYEE_STORE_S3_REGION"`
	Endpoint  string `yaml:"endpoint" env:"EMPLOYEE_STORE_S3_ENDPOINT"`
	PathStyle bool   `yaml:"path_style" env:"EMPLOYEE_STORE_S3_PATH_STYLE"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host" env:"EMPLOYEE_STORE_DB_HOST"`
	Port               int           `yaml:"port" env:"EMPLOYEE_STORE_DB_PORT"`
	User               string        `yaml:"user" env:"EMPLOYEE_STORE_DB_USER"`
	Password           string        `yaml:"password" env:"EMPLOYEE_STORE_DB_PASSWORD"`
	Name               string        `yaml:"name" env:"EMPLOYEE_STORE_DB_NAME"`
	SSLMode            string        `yaml:"ssl_mode" env:"EMPLOYEE_STORE_DB_SSL_MODE"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数で上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Log.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Storage.validateAndNormalize(); err != nil {
		return err
	}

	if c.Storage.Driver == DriverPostgres {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	l.Format = strings.ToLower(l.Format)
	switch l.Format {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", l.Format)
	}
	return nil
}

func (s *StorageConfig) validateAndNormalize() error {
	s.Driver = strings.ToLower(s.Driver)
	switch s.Driver {
	case "":
		s.Driver = DriverFile
	case DriverFile, DriverSQLite, DriverPostgres, DriverS3:
	default:
		return fmt.Errorf("config: storage.driver %q is not supported", s.Driver)
	}

	if s.Path == "" {
		switch s.Driver {
		case DriverFile:
			s.Path = "employees.json"
		case DriverSQLite:
			s.Path = "employees.db"
		}
	}

	if s.Driver == DriverS3 && s.S3.Bucket == "" {
		return fmt.Errorf("config: storage.s3.bucket must be set")
	}
	return nil
}

// Validate は PostgreSQL 以外のドライバ選択時にも接続設定を検証・正規化します。
func (d *DatabaseConfig) Validate() error {
	return d.validateAndNormalize()
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx / golang-migrate 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
