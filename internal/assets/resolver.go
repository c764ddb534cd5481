// Package assets implements the AssetResolver: fetching and verifying the
// asset index, and materializing objects into their virtual or
// resource-mirrored layout before launch.
package assets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quasar/mccore/internal/core"
	"github.com/quasar/mccore/internal/download"
)

const assetBaseURL = "https://resources.download.minecraft.net"

// Resolver fetches and materializes a version's asset index.
type Resolver struct {
	assetsRoot string
	store      *download.HashedStore
}

// NewResolver returns a Resolver rooted at assetsRoot (the "assets/"
// directory of the application root).
func NewResolver(assetsRoot string) *Resolver {
	return &Resolver{
		assetsRoot: assetsRoot,
		store:      download.NewHashedStore(filepath.Join(assetsRoot, "objects")),
	}
}

// IndexPath returns the on-disk path of the cached index JSON for id.
func (r *Resolver) IndexPath(id string) string {
	return filepath.Join(r.assetsRoot, "indexes", id+".json")
}

// FetchIndex downloads the index JSON from ref.URL if it is not already
// cached with a matching hash, then parses and returns it.
func (r *Resolver) FetchIndex(ctx context.Context, ref *core.AssetIndexRef, mgr *download.Manager) (*core.AssetIndex, error) {
	indexPath := r.IndexPath(ref.ID)

	needsFetch := true
	if ref.SHA1 != "" {
		if data, err := os.ReadFile(indexPath); err == nil {
			if sum, err := sha1Hex(data); err == nil && sum == ref.SHA1 {
				needsFetch = false
			}
		}
	} else if _, err := os.Stat(indexPath); err == nil {
		needsFetch = false
	}

	if needsFetch {
		if _, err := mgr.Download(ctx, []download.Item{{
			URL:  ref.URL,
			Path: indexPath,
			SHA1: ref.SHA1,
			Size: ref.Size,
		}}, nil); err != nil {
			return nil, fmt.Errorf("fetching asset index %s: %w", ref.ID, err)
		}
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("reading asset index %s: %w", ref.ID, err)
	}

	var index core.AssetIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, &core.VspecError{VersionID: ref.ID, Reason: "malformed asset index: " + err.Error()}
	}
	return &index, nil
}

// DownloadItems builds the Downloader queue entries for every object named
// in index that is not already present with a matching hash.
func (r *Resolver) DownloadItems(index *core.AssetIndex) []download.Item {
	items := make([]download.Item, 0, len(index.Objects))
	for _, obj := range index.Objects {
		if ok, _ := r.store.Verify(obj.Hash); ok {
			continue
		}
		prefix := obj.Hash[:2]
		items = append(items, download.Item{
			URL:  fmt.Sprintf("%s/%s/%s", assetBaseURL, prefix, obj.Hash),
			Path: r.store.PathOf(obj.Hash),
			SHA1: obj.Hash,
			Size: obj.Size,
		})
	}
	return items
}

// Materialize mirrors every object into its presentation layout when the
// index requires one: virtual/<indexID>/<logicalName> for virtual indexes,
// or <gameDir>/resources/<logicalName> for map_to_resources indexes. It is
// idempotent — running it twice produces the same file tree byte-for-byte,
// since each copy is itself a content-addressed read followed by a plain
// write of identical bytes.
func (r *Resolver) Materialize(indexID string, index *core.AssetIndex, gameDir string) error {
	if !index.Virtual && !index.MapToResources {
		return nil
	}

	var destRoot string
	if index.Virtual {
		destRoot = filepath.Join(r.assetsRoot, "virtual", indexID)
	} else {
		destRoot = filepath.Join(gameDir, "resources")
	}

	for logicalName, obj := range index.Objects {
		dest := filepath.Join(destRoot, filepath.FromSlash(logicalName))
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		if err := copyFile(r.store.PathOf(obj.Hash), dest); err != nil {
			return fmt.Errorf("materializing asset %s: %w", logicalName, err)
		}
	}
	return nil
}

// VirtualPath returns the virtual/<indexID> directory that the launcher
// substitutes for game_assets whenever a vspec has an asset index.
func (r *Resolver) VirtualPath(indexID string) string {
	return filepath.Join(r.assetsRoot, "virtual", indexID)
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}

func sha1Hex(data []byte) (string, error) {
	h := sha1.New()
	if _, err := h.Write(data); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
