package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	info, err := s.Put(ctx, "runs/a.json", strings.NewReader(`{"tick":1}`), PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"scenario": "breach"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 10 || info.Key != "runs/a.json" {
		t.Fatalf("unexpected put info %+v", info)
	}
	if _, err := s.Put(ctx, "runs/a.json", strings.NewReader("x"), PutOptions{}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := s.Put(ctx, "runs/b.json", strings.NewReader("{}"), PutOptions{}); err != nil {
		t.Fatalf("put b: %v", err)
	}
	if _, err := s.Put(ctx, "other/c.json", strings.NewReader("{}"), PutOptions{}); err != nil {
		t.Fatalf("put c: %v", err)
	}

	got, rc, err := s.Get(ctx, "runs/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != `{"tick":1}` {
		t.Fatalf("unexpected body %q", body)
	}
	if got.ContentType != "application/json" || got.Metadata["scenario"] != "breach" {
		t.Fatalf("metadata not kept: %+v", got)
	}
	if _, _, err := s.Get(ctx, "runs/missing.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, err := s.List(ctx, "runs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "runs/a.json" || list[1].Key != "runs/b.json" {
		t.Fatalf("unexpected list %+v", list)
	}

	existed, err := s.Delete(ctx, "runs/a.json")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	existed, err = s.Delete(ctx, "runs/a.json")
	if err != nil || existed {
		t.Fatalf("second delete: existed=%v err=%v", existed, err)
	}
	list, _ = s.List(ctx, "")
	if len(list) != 2 {
		t.Fatalf("expected 2 blobs after delete, got %d", len(list))
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFSStore(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("new fs: %v", err)
	}
	exerciseStore(t, s)
}

func TestFSRejectsEscapingKeys(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("new fs: %v", err)
	}
	for _, key := range []string{"", "../x", "/abs", "a.meta"} {
		if _, err := s.Put(context.Background(), key, strings.NewReader("x"), PutOptions{}); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{Driver: "memory"})
	if err != nil || s.Driver() != DriverMemory {
		t.Fatalf("memory: %v %v", s, err)
	}
	s, err = Open(ctx, Options{Root: t.TempDir()})
	if err != nil || s.Driver() != DriverFilesystem {
		t.Fatalf("default fs: %v %v", s, err)
	}
	if _, err := Open(ctx, Options{Driver: "s3"}); err == nil {
		t.Fatalf("expected s3 without bucket to fail")
	}
	if _, err := Open(ctx, Options{Driver: "gcs"}); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}
}
