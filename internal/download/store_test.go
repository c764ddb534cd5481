package download

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashedStore_PutStreamRoundTrip(t *testing.T) {
	store := NewHashedStore(t.TempDir())

	content := []byte("library bytes")
	sum := sha1.Sum(content)
	hash := hex.EncodeToString(sum[:])

	if err := store.PutStream(hash, strings.NewReader(string(content))); err != nil {
		t.Fatalf("PutStream failed: %v", err)
	}

	if !store.Has(hash) {
		t.Error("expected file to exist after PutStream")
	}

	ok, err := store.Verify(hash)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("expected stored content to verify")
	}

	data, err := os.ReadFile(store.PathOf(hash))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("content mismatch: got %q want %q", data, content)
	}
}

func TestHashedStore_PutStreamRejectsMismatch(t *testing.T) {
	store := NewHashedStore(t.TempDir())

	err := store.PutStream(strings.Repeat("0", 40), strings.NewReader("wrong content"))
	if err == nil {
		t.Fatal("expected hash mismatch error")
	}

	path := store.PathOf(strings.Repeat("0", 40))
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should exist at the final path after a hash mismatch")
	}

	// No leftover temp files either.
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
