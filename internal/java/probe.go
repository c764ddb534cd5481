package java

import (
	"bufio"
	"context"
	"os/exec"
	"strings"
	"time"
)

// ProbeProperties runs "java -XshowSettings:properties -version" against
// path and parses the "key = value" system-property lines it prints to
// stderr. This gives a richer, more reliable read than scraping the
// "-version" banner alone — in particular os.arch and java.vendor, which
// the banner doesn't always carry.
func ProbeProperties(path string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-XshowSettings:properties", "-version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if len(output) == 0 {
			return nil, err
		}
		// java -version exits 0 normally; tolerate a non-zero exit as long
		// as we got output to parse.
	}

	props := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || strings.Contains(key, " ") {
			continue
		}
		props[key] = value
	}
	return props, nil
}

// Is64BitArch reports whether a os.arch system property names a 64-bit
// architecture.
func Is64BitArch(arch string) bool {
	switch arch {
	case "amd64", "x86_64", "aarch64", "arm64":
		return true
	default:
		return false
	}
}
