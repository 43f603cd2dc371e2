package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/rmontano/testbank/config"
)

func newStore(t *testing.T) FileStore {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.MediaRoot = t.TempDir()
	store, err := NewFSStore(cfg)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return store
}

func TestFSStore_PutGetDelete(t *testing.T) {
	store := newStore(t)
	key := "questionnaires/SCI/BIO101/abc_quiz.txt"

	if _, err := store.Put(key, strings.NewReader("quiz content")); err != nil {
		t.Fatalf("put: %v", err)
	}

	rc, err := store.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if string(data) != "quiz content" {
		t.Fatalf("unexpected content: %q", data)
	}

	if err := store.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(key); err == nil {
		t.Fatalf("expected error after delete")
	}
}

func TestFSStore_DeleteMissingIsNoError(t *testing.T) {
	store := newStore(t)
	if err := store.Delete("questionnaires/never/stored.txt"); err != nil {
		t.Fatalf("deleting a missing key must not fail: %v", err)
	}
}

func TestFSStore_KeyCannotEscapeRoot(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.MediaRoot = t.TempDir()
	store, err := NewFSStore(cfg)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	if _, err := store.Put("../outside.txt", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for key escaping the media root")
	}
	if _, err := store.Put("questionnaires/../../outside.txt", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for nested key escaping the media root")
	}

	// Path containment holds even for keys that bypass Put.
	for _, key := range []string{"../../etc/passwd", "a/../../../b"} {
		if got := store.Path(key); !strings.HasPrefix(got, cfg.Storage.MediaRoot) {
			t.Fatalf("Path(%q) = %q resolves outside the media root", key, got)
		}
	}
}

func TestFSStore_EmptyKeyRejected(t *testing.T) {
	store := newStore(t)
	if _, err := store.Put("", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
