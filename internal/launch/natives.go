package launch

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// extractJarTo unpacks every entry of a native-library jar into destDir,
// flattening directory structure (native jars are conventionally a flat
// bag of .so/.dll/.dylib files) and skipping signature metadata.
func extractJarTo(jarPath, destDir string) error {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "META-INF/") {
			continue
		}

		target := filepath.Join(destDir, filepath.Base(f.Name))
		if _, err := os.Stat(target); err == nil {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			rc.Close()
			return err
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		out.Close()
		if copyErr != nil {
			return copyErr
		}
	}
	return nil
}

func randomSuffix() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return "scratch"
	}
	return id.String()
}
