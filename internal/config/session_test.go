package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "share", "session.yaml")

	store, err := OpenTokenFile(path)
	if err != nil {
		t.Fatalf("OpenTokenFile() on missing file: %v", err)
	}
	if got := store.Read("token"); got != "" {
		t.Errorf("Read() on empty store = %q", got)
	}

	if err := store.Set("token", "abc"); err != nil {
		t.Fatal(err)
	}
	if got := store.Read("token"); got != "abc" {
		t.Errorf("Read() = %q, want abc", got)
	}

	reopened, err := OpenTokenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.Read("token"); got != "abc" {
		t.Errorf("persisted token = %q, want abc", got)
	}
}

func TestTokenFileInMemory(t *testing.T) {
	store, err := OpenTokenFile("")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set("token", "x"); err != nil {
		t.Fatal(err)
	}
	if store.Read("token") != "x" {
		t.Error("in-memory store lost value")
	}
}

func TestTokenFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("token: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenTokenFile(path); err == nil {
		t.Error("expected parse error")
	}
}
