package core

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
)

// FileSHA1 computes the hex-encoded SHA-1 of the file at path.
func FileSHA1(path string) (string, error) {
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
