package vspec

import (
	"fmt"

	"github.com/quasar/mccore/internal/core"
)

// Loader fetches the raw vspec JSON for a single version id. Implementations
// are expected to apply the trust rule from spec §4.5 themselves (embedded
// manifest hash vs. on-disk SHA-1, or "trust what's on disk" when neither a
// hash nor a network copy is available).
type Loader func(id string) (*core.RawVspec, error)

// legacyAssetIndex is the hard-coded descriptor injected when a vspec names
// assets:"legacy" but carries no assetIndex block of its own.
var legacyAssetIndex = &core.AssetIndexRef{
	ID:   "legacy",
	SHA1: "770c0feb4606a41094d9a8192ec5e7d7f66b8af8",
	URL:  "https://launchermeta.mojang.com/v1/packages/770c0feb4606a41094d9a8192ec5e7d7f66b8af8/legacy.json",
}

// BuildChain walks inheritsFrom starting at id, fetching each node with
// load, and returns the chain ordered leaf-first (chain[0] is id itself,
// chain[len-1] is the root with no inheritsFrom). A repeated id anywhere in
// the walk is a cyclic-inheritance VspecError.
func BuildChain(id string, load Loader) ([]*core.RawVspec, error) {
	var chain []*core.RawVspec
	visited := make(map[string]bool)

	current := id
	for current != "" {
		if visited[current] {
			return nil, &core.VspecError{VersionID: id, Reason: fmt.Sprintf("cyclic inheritsFrom at %q", current)}
		}
		visited[current] = true

		raw, err := load(current)
		if err != nil {
			return nil, err
		}
		chain = append(chain, raw)
		current = raw.InheritsFrom
	}

	return chain, nil
}

// Resolve merges a leaf-first chain (as returned by BuildChain): scalar
// fields override (first present walking leaf-to-root wins), libraries
// and arguments reduce by concatenation root-first then leaf-appended.
func Resolve(chain []*core.RawVspec) (*core.ResolvedVspec, error) {
	if len(chain) == 0 {
		return nil, &core.VspecError{Reason: "empty inheritance chain"}
	}

	out := &core.ResolvedVspec{ID: chain[0].ID}

	// Overriding fields: walk leaf-to-root, first non-zero value wins.
	for _, raw := range chain {
		if out.MainClass == "" && raw.MainClass != "" {
			out.MainClass = raw.MainClass
		}
		if out.Jar == "" && raw.Jar != "" {
			out.Jar = raw.Jar
		}
		if out.AssetIndex == nil && raw.AssetIndex != nil {
			out.AssetIndex = raw.AssetIndex
		}
		if out.Assets == "" && raw.Assets != "" {
			out.Assets = raw.Assets
		}
		if out.Downloads == nil && raw.Downloads != nil {
			out.Downloads = raw.Downloads
		}
		if out.MinecraftArguments == "" && raw.MinecraftArguments != "" {
			out.MinecraftArguments = raw.MinecraftArguments
		}
		if out.JavaVersion == nil && raw.JavaVersion != nil {
			out.JavaVersion = raw.JavaVersion
		}
	}

	if out.Jar == "" {
		out.Jar = out.ID
	}

	if out.Assets == "legacy" && out.AssetIndex == nil {
		out.AssetIndex = legacyAssetIndex
	}

	// Reducing fields: concatenate root-first then leaf-appended, i.e.
	// walk the leaf-first chain in reverse.
	var libs []core.LibraryEntry
	var game, jvm []core.ArgumentElement
	for i := len(chain) - 1; i >= 0; i-- {
		raw := chain[i]
		libs = append(libs, raw.Libraries...)
		if raw.Arguments != nil {
			game = append(game, raw.Arguments.Game...)
			jvm = append(jvm, raw.Arguments.JVM...)
		}
	}
	out.Libraries = libs
	if game != nil || jvm != nil {
		out.Arguments = &core.Arguments{Game: game, JVM: jvm}
	}

	return out, nil
}
