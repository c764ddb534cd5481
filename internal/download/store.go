package download

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// HashedStore is a content-addressed file tree keyed by SHA-1: every file
// that was ever written through it lives at a path derived solely from its
// hash, and is never partially observable — writes land in a temp file
// beside the final path and are renamed into place only once verified.
type HashedStore struct {
	root string
}

// NewHashedStore returns a store rooted at dir. The directory is created
// lazily by PutStream, not here.
func NewHashedStore(root string) *HashedStore {
	return &HashedStore{root: root}
}

// PathOf returns the path a given hash would live at, whether or not the
// file currently exists.
func (s *HashedStore) PathOf(sha1Hex string) string {
	if len(sha1Hex) < 2 {
		return filepath.Join(s.root, sha1Hex)
	}
	return filepath.Join(s.root, sha1Hex[:2], sha1Hex)
}

// Has reports whether a file exists at the path for sha1Hex, without
// checking its content.
func (s *HashedStore) Has(sha1Hex string) bool {
	_, err := os.Stat(s.PathOf(sha1Hex))
	return err == nil
}

// Verify recomputes the SHA-1 of the file at sha1Hex's path and compares it
// against the key. A missing file verifies false, never an error.
func (s *HashedStore) Verify(sha1Hex string) (bool, error) {
	got, err := fileSHA1(s.PathOf(sha1Hex))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return got == sha1Hex, nil
}

// PutStream streams src into the store under key sha1Expected: it writes to
// a temp file in the same directory as the final path (so the rename that
// follows is atomic on one filesystem), hashing as bytes pass through, and
// renames into place only if the computed hash matches. On any failure —
// including a hash mismatch — the temp file is removed and no file is left
// at the final path unless one was already there.
func (s *HashedStore) PutStream(sha1Expected string, src io.Reader) error {
	dest := s.PathOf(sha1Expected)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".store-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	hasher := sha1.New()
	_, copyErr := io.Copy(io.MultiWriter(tmp, hasher), src)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return copyErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return closeErr
	}

	got := hex.EncodeToString(hasher.Sum(nil))
	if got != sha1Expected {
		os.Remove(tmpPath)
		return &HashMismatchError{Path: dest, Expected: sha1Expected, Got: got}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// HashMismatchError mirrors core.HashMismatchError for the store layer,
// keeping this package free of a dependency on internal/core.
type HashMismatchError struct {
	Path     string
	Expected string
	Got      string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash mismatch for %s: expected %s, got %s", e.Path, e.Expected, e.Got)
}

func fileSHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
