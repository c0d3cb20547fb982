// Package config resolves weektrack runtime settings from an optional YAML
// file overlaid with WEEKTRACK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage drivers accepted by StorageDriver.
const (
	DriverFilesystem = "fs"
	DriverS3         = "s3"
	DriverMemory     = "memory"
	DriverSQLite     = "sqlite"
	DriverPostgres   = "postgres"
)

// DefaultBlobKey is the key under which blob-backed drivers store the snapshot.
const DefaultBlobKey = "projectTrackerData"

// Config holds every setting the CLI needs to open a tracker.
type Config struct {
	StorageDriver string   `yaml:"storage_driver" env:"WEEKTRACK_STORAGE_DRIVER"`
	Blob          Blob     `yaml:"blob"`
	SQLite        SQLite   `yaml:"sqlite"`
	Postgres      Postgres `yaml:"postgres"`
	Log           Log      `yaml:"log"`
	MetricsFile   string   `yaml:"metrics_file" env:"WEEKTRACK_METRICS_FILE"`
}

// Blob configures the fs, s3 and memory drivers.
type Blob struct {
	Key    string `yaml:"key" env:"WEEKTRACK_BLOB_KEY"`
	FSRoot string `yaml:"fs_root" env:"WEEKTRACK_BLOB_FS_ROOT"`
	S3     S3     `yaml:"s3"`
}

// S3 configures an S3 or MinIO bucket.
type S3 struct {
	Bucket          string `yaml:"bucket" env:"WEEKTRACK_BLOB_S3_BUCKET"`
	Region          string `yaml:"region" env:"WEEKTRACK_BLOB_S3_REGION"`
	Endpoint        string `yaml:"endpoint" env:"WEEKTRACK_BLOB_S3_ENDPOINT"`
	PathStyle       bool   `yaml:"path_style" env:"WEEKTRACK_BLOB_S3_PATH_STYLE"`
	AccessKeyID     string `yaml:"-" env:"WEEKTRACK_BLOB_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"-" env:"WEEKTRACK_BLOB_S3_SECRET_ACCESS_KEY"`
}

// SQLite configures the sqlite driver.
type SQLite struct {
	Path string `yaml:"path" env:"WEEKTRACK_SQLITE_PATH"`
}

// Postgres configures the postgres driver.
type Postgres struct {
	DSN string `yaml:"dsn" env:"WEEKTRACK_POSTGRES_DSN"`
}

// Log configures the CLI's slog handler.
type Log struct {
	Level  string `yaml:"level" env:"WEEKTRACK_LOG_LEVEL"`
	Format string `yaml:"format" env:"WEEKTRACK_LOG_FORMAT"`
}

// Load builds a Config. Values from the YAML file at path (skipped when path
// is empty or the file does not exist) are overridden by set environment
// variables. Defaults fill fields both sources left empty.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	if c.StorageDriver == "" {
		c.StorageDriver = DriverFilesystem
	}
	if c.Blob.Key == "" {
		c.Blob.Key = DefaultBlobKey
	}
	if c.Blob.FSRoot == "" {
		c.Blob.FSRoot = "./data"
	}
	if c.Blob.S3.Region == "" {
		c.Blob.S3.Region = "us-east-1"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "weektrack.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports settings that cannot open a store.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverFilesystem, DriverMemory, DriverSQLite, DriverPostgres:
	case DriverS3:
		if c.Blob.S3.Bucket == "" {
			return errors.New("config: s3 driver requires WEEKTRACK_BLOB_S3_BUCKET")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.StorageDriver)
	}
	if strings.TrimSpace(c.Blob.Key) == "" {
		return errors.New("config: blob key cannot be empty")
	}
	return nil
}
