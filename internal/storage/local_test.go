package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(filepath.Join(t.TempDir(), "objects"))
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}
	return ls
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	ls := newTestLocalStorage(t)
	ctx := context.Background()

	src := writeTempFile(t, "benchmark results")
	if err := ls.Upload(ctx, src, "bench/run-1/results.json.sz"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "out", "results.json.sz")
	if err := ls.Download(ctx, "bench/run-1/results.json.sz", dst); err != nil {
		t.Fatalf("download: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "benchmark results" {
		t.Errorf("content mismatch: %q", data)
	}
}

func TestLocalStorage_ExistsAndDelete(t *testing.T) {
	ls := newTestLocalStorage(t)
	ctx := context.Background()

	exists, err := ls.Exists(ctx, "bench/run-1/results.json.sz")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("object should not exist before upload")
	}

	src := writeTempFile(t, "data")
	if err := ls.Upload(ctx, src, "bench/run-1/results.json.sz"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	exists, err = ls.Exists(ctx, "bench/run-1/results.json.sz")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("object should exist after upload")
	}

	if err := ls.Delete(ctx, "bench/run-1/results.json.sz"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	exists, err = ls.Exists(ctx, "bench/run-1/results.json.sz")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("object should not exist after delete")
	}
}

func TestLocalStorage_NotFoundErrors(t *testing.T) {
	ls := newTestLocalStorage(t)
	ctx := context.Background()

	err := ls.Download(ctx, "missing", filepath.Join(t.TempDir(), "out"))
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("download: expected ErrObjectNotFound, got %v", err)
	}

	if err := ls.Delete(ctx, "missing"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("delete: expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalStorage_ListObjects(t *testing.T) {
	ls := newTestLocalStorage(t)
	ctx := context.Background()

	src := writeTempFile(t, "x")
	paths := []string{
		"bench/run-1/results.json.sz",
		"bench/run-2/results.json.sz",
		"other/file.txt",
	}
	for _, p := range paths {
		if err := ls.Upload(ctx, src, p); err != nil {
			t.Fatalf("upload %s: %v", p, err)
		}
	}

	objects, err := ls.ListObjects(ctx, "bench/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	sort.Strings(objects)
	if len(objects) != 2 {
		t.Fatalf("expected 2 objects under bench/, got %d: %v", len(objects), objects)
	}
	if objects[0] != "bench/run-1/results.json.sz" || objects[1] != "bench/run-2/results.json.sz" {
		t.Errorf("unexpected listing: %v", objects)
	}

	all, err := ls.ListObjects(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 objects total, got %d", len(all))
	}
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	ls := newTestLocalStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := writeTempFile(t, "x")
	if err := ls.Upload(ctx, src, "obj"); !errors.Is(err, context.Canceled) {
		t.Errorf("upload: expected context.Canceled, got %v", err)
	}
	if _, err := ls.Exists(ctx, "obj"); !errors.Is(err, context.Canceled) {
		t.Errorf("exists: expected context.Canceled, got %v", err)
	}
}
