package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"weektrack/internal/blob/core"
)

func TestMockStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if store.Driver() != core.DriverS3 {
		t.Fatalf("expected s3 driver")
	}
	if _, _, err := store.Get(ctx, "snap"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before put, got %v", err)
	}
	if _, err := store.Put(ctx, "snap", strings.NewReader(`{"version":1}`), core.PutOptions{ContentType: "application/json"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "snap", strings.NewReader(`{"version":1,"projects":[]}`), core.PutOptions{ContentType: "application/json"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	info, rc, err := store.Get(ctx, "snap")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != `{"version":1,"projects":[]}` {
		t.Fatalf("unexpected body %q", b)
	}
	if info.ContentType != "application/json" || info.ETag != "etag" {
		t.Fatalf("unexpected info %+v", info)
	}
	if ok, err := store.Delete(ctx, "snap"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "snap"); err != nil || ok {
		t.Fatalf("expected missing delete false: %v %v", ok, err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestNewWithStaticCredentials(t *testing.T) {
	store, err := New(context.Background(), Config{Bucket: "b", Endpoint: "http://localhost:9000", PathStyle: true, AccessKeyID: "id", SecretAccessKey: "secret"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if store.bucket != "b" {
		t.Fatalf("unexpected bucket %s", store.bucket)
	}
}
