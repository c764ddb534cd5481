package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVersionType(t *testing.T) {
	types := []VersionType{
		VersionTypeRelease,
		VersionTypeSnapshot,
		VersionTypeOldBeta,
		VersionTypeOldAlpha,
	}

	for _, vt := range types {
		if string(vt) == "" {
			t.Errorf("VersionType should not be empty string")
		}
	}
}

func TestFileSHA1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	sum, err := FileSHA1(path)
	if err != nil {
		t.Fatalf("FileSHA1 failed: %v", err)
	}
	// sha1("hello")
	want := "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"
	if sum != want {
		t.Errorf("FileSHA1 = %s, want %s", sum, want)
	}
}
