// Package api contains HTTP clients for external services: the upstream
// Mojang version manifest and vspec files, and (in auth.go) the Microsoft
// device-code authentication flow.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/quasar/mccore/internal/core"
)

const versionManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"

// VersionManager fetches and caches the upstream version manifest and
// resolves metaversions ("latest", "snapshot") and individual raw vspecs.
type VersionManager struct {
	httpClient  *http.Client
	versionsDir string // <root>/versions
	log         hclog.Logger

	manifest *core.VersionManifest
}

// NewVersionManager returns a manager rooted at versionsDir (the
// "versions/" directory of the application root).
func NewVersionManager(versionsDir string, log hclog.Logger) *VersionManager {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &VersionManager{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		versionsDir: versionsDir,
		log:         log,
	}
}

func (m *VersionManager) manifestPath() string {
	return filepath.Join(m.versionsDir, "manifest.json")
}

// Manifest returns the cached manifest, fetching it on first use. A network
// failure falls back to the on-disk cache; if neither is available the
// failure is returned as a NetworkError.
func (m *VersionManager) Manifest(ctx context.Context) (*core.VersionManifest, error) {
	if m.manifest != nil {
		return m.manifest, nil
	}

	fetched, err := m.fetchManifest(ctx)
	if err != nil {
		m.log.Warn("failed to retrieve version manifest, falling back to cache", "error", err)
		cached, cacheErr := m.loadCachedManifest()
		if cacheErr != nil {
			return nil, &core.NetworkError{Op: "fetch version manifest", Err: err}
		}
		m.manifest = cached
		return cached, nil
	}

	m.manifest = fetched
	_ = m.saveCachedManifest(fetched)
	return fetched, nil
}

func (m *VersionManager) fetchManifest(ctx context.Context) (*core.VersionManifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, versionManifestURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var manifest core.VersionManifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (m *VersionManager) loadCachedManifest() (*core.VersionManifest, error) {
	data, err := os.ReadFile(m.manifestPath())
	if err != nil {
		return nil, err
	}
	var manifest core.VersionManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (m *VersionManager) saveCachedManifest(manifest *core.VersionManifest) error {
	if err := os.MkdirAll(m.versionsDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.manifestPath(), data, 0o644)
}

// ResolveVersionName resolves a metaversion ("latest", "snapshot") to a
// concrete version id; any other input is returned unchanged.
func (m *VersionManager) ResolveVersionName(ctx context.Context, v string) (string, error) {
	switch v {
	case "latest":
		manifest, err := m.Manifest(ctx)
		if err != nil {
			return "", err
		}
		return manifest.Latest.Release, nil
	case "snapshot":
		manifest, err := m.Manifest(ctx)
		if err != nil {
			return "", err
		}
		return manifest.Latest.Snapshot, nil
	default:
		return v, nil
	}
}

// ManifestEntry returns the manifest entry for id, or nil if id is not a
// known upstream version (a custom or loader-installed profile).
func (m *VersionManager) ManifestEntry(ctx context.Context, id string) (*core.ManifestEntry, error) {
	manifest, err := m.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	for i := range manifest.Versions {
		if manifest.Versions[i].ID == id {
			return &manifest.Versions[i], nil
		}
	}
	return nil, nil
}

// List returns manifest entries matching any of the given types. A nil or
// empty typeFilter returns every entry.
func (m *VersionManager) List(ctx context.Context, typeFilter ...core.VersionType) ([]core.ManifestEntry, error) {
	manifest, err := m.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	if len(typeFilter) == 0 {
		return manifest.Versions, nil
	}
	want := make(map[core.VersionType]bool, len(typeFilter))
	for _, t := range typeFilter {
		want[t] = true
	}
	var out []core.ManifestEntry
	for _, v := range manifest.Versions {
		if want[v.Type] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *VersionManager) rawVspecPath(id string) string {
	return filepath.Join(m.versionsDir, id, id+".json")
}

// LoadRawVspec implements vspec.Loader and the trust rule of spec §4.5: if
// id is a known upstream version and the manifest URL's embedded hash
// segment matches the on-disk file's SHA-1, the local copy is trusted
// without a re-download; otherwise it is fetched. If id is not a known
// upstream version (a custom or loader-installed profile) the on-disk file
// is trusted unconditionally, and it is fatal for it to be absent.
func (m *VersionManager) LoadRawVspec(ctx context.Context, id string) (*core.RawVspec, error) {
	fpath := m.rawVspecPath(id)

	entry, err := m.ManifestEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if entry == nil {
		data, readErr := os.ReadFile(fpath)
		if readErr != nil {
			return nil, &core.NotFoundError{Kind: "version", Name: id}
		}
		return parseRawVspec(id, data)
	}

	expectedSHA1 := embeddedHash(entry.URL)
	if expectedSHA1 != "" {
		if data, readErr := os.ReadFile(fpath); readErr == nil {
			if sum, sumErr := fileSHA1Hex(fpath); sumErr == nil && sum == expectedSHA1 {
				return parseRawVspec(id, data)
			}
		}
	}

	data, err := m.fetchRawVspecBytes(ctx, entry.URL)
	if err != nil {
		if data, readErr := os.ReadFile(fpath); readErr == nil {
			m.log.Warn("failed to fetch vspec, using on-disk copy", "version", id, "error", err)
			return parseRawVspec(id, data)
		}
		return nil, &core.NetworkError{Op: "fetch vspec " + id, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(fpath), 0o755); err == nil {
		_ = os.WriteFile(fpath, data, 0o644)
	}
	return parseRawVspec(id, data)
}

func (m *VersionManager) fetchRawVspecBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	buf := make([]byte, 0, 64*1024)
	tmp := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if readErr != nil {
			break
		}
	}
	return buf, nil
}

func parseRawVspec(id string, data []byte) (*core.RawVspec, error) {
	var raw core.RawVspec
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &core.VspecError{VersionID: id, Reason: "malformed vspec json: " + err.Error()}
	}
	if raw.ID == "" {
		raw.ID = id
	}
	return &raw, nil
}

// embeddedHash extracts the SHA-1 segment Mojang embeds in every vspec URL,
// e.g. https://piston-meta.mojang.com/v1/packages/<sha1>/<id>.json.
func embeddedHash(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Base(path.Dir(u.Path))
}

func fileSHA1Hex(p string) (string, error) {
	return core.FileSHA1(p)
}
