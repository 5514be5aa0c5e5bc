package kv

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	_, ok, err := s.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected missing key")
	}
}

func TestSetGetOverwrite(t *testing.T) {
	s := openTemp(t)
	if err := s.Set("k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("k", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := s.Get("k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != "v2" {
		t.Fatalf("got %q want v2", got)
	}
}

func TestDelete(t *testing.T) {
	s := openTemp(t)
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Fatalf("key should be gone")
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("deleting absent key should not error: %v", err)
	}
}
