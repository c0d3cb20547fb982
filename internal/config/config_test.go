package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != DriverFilesystem {
		t.Fatalf("expected fs driver, got %q", cfg.StorageDriver)
	}
	if cfg.Blob.Key != DefaultBlobKey {
		t.Fatalf("expected default blob key, got %q", cfg.Blob.Key)
	}
	if cfg.SQLite.Path != "weektrack.db" || cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}

func TestLoadYAMLThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weektrack.yaml")
	doc := `storage_driver: sqlite
sqlite:
  path: /tmp/from-yaml.db
blob:
  key: tracker
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("WEEKTRACK_SQLITE_PATH", "/tmp/from-env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != DriverSQLite {
		t.Fatalf("expected sqlite from yaml, got %q", cfg.StorageDriver)
	}
	if cfg.SQLite.Path != "/tmp/from-env.db" {
		t.Fatalf("env should override yaml, got %q", cfg.SQLite.Path)
	}
	if cfg.Blob.Key != "tracker" || cfg.Log.Level != "debug" {
		t.Fatalf("yaml values lost: %+v", cfg)
	}
}

func TestLoadS3FromEnv(t *testing.T) {
	t.Setenv("WEEKTRACK_STORAGE_DRIVER", "S3")
	t.Setenv("WEEKTRACK_BLOB_S3_BUCKET", "tracker")
	t.Setenv("WEEKTRACK_BLOB_S3_PATH_STYLE", "true")
	t.Setenv("WEEKTRACK_BLOB_S3_ENDPOINT", "http://localhost:9000")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != DriverS3 || !cfg.Blob.S3.PathStyle || cfg.Blob.S3.Bucket != "tracker" {
		t.Fatalf("unexpected s3 config: %+v", cfg.Blob.S3)
	}
	if cfg.Blob.S3.Region != "us-east-1" {
		t.Fatalf("expected default region, got %q", cfg.Blob.S3.Region)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("WEEKTRACK_STORAGE_DRIVER", "s3")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "WEEKTRACK_BLOB_S3_BUCKET") {
		t.Fatalf("expected missing bucket error, got %v", err)
	}
	t.Setenv("WEEKTRACK_STORAGE_DRIVER", "floppy")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("storage_driver: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
