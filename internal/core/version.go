// Package core holds the data model and storage logic shared by every
// other package: version specifications, libraries, instances, and
// accounts.
package core

import "time"

// VersionType classifies an entry in the upstream manifest.
type VersionType string

const (
	VersionTypeRelease  VersionType = "release"
	VersionTypeSnapshot VersionType = "snapshot"
	VersionTypeOldBeta  VersionType = "old_beta"
	VersionTypeOldAlpha VersionType = "old_alpha"
)

// ManifestEntry is one version listed in the upstream manifest.
type ManifestEntry struct {
	ID          string      `json:"id"`
	Type        VersionType `json:"type"`
	URL         string      `json:"url"`
	ReleaseTime time.Time   `json:"releaseTime"`
	SHA1        string      `json:"sha1"`
}

// VersionManifest is the root of Mojang's version_manifest.json.
type VersionManifest struct {
	Latest   LatestVersions  `json:"latest"`
	Versions []ManifestEntry `json:"versions"`
}

// LatestVersions names the metaversion targets.
type LatestVersions struct {
	Release  string `json:"release"`
	Snapshot string `json:"snapshot"`
}

// RawVspec is a single unmerged node in an inheritance chain, as read
// straight from a version JSON file on disk or over the network.
type RawVspec struct {
	ID                 string         `json:"id"`
	InheritsFrom       string         `json:"inheritsFrom,omitempty"`
	Type               VersionType    `json:"type,omitempty"`
	MainClass          string         `json:"mainClass,omitempty"`
	Jar                string         `json:"jar,omitempty"`
	AssetIndex         *AssetIndexRef `json:"assetIndex,omitempty"`
	Assets             string         `json:"assets,omitempty"`
	Libraries          []LibraryEntry `json:"libraries,omitempty"`
	Downloads          *Downloads     `json:"downloads,omitempty"`
	MinecraftArguments string         `json:"minecraftArguments,omitempty"`
	Arguments          *Arguments     `json:"arguments,omitempty"`
	JavaVersion        *JavaVersionReq `json:"javaVersion,omitempty"`
	ReleaseTime        time.Time      `json:"releaseTime,omitempty"`
}

// ResolvedVspec is the merged view over an inheritance chain, per the
// per-field merge policy: mainClass/assetIndex/assets/jar/downloads/
// minecraftArguments override (first present walking leaf-to-root wins);
// libraries and arguments reduce by concatenation, root-first then
// leaf-appended.
type ResolvedVspec struct {
	ID                 string
	MainClass          string
	Jar                string
	AssetIndex         *AssetIndexRef
	Assets             string
	Libraries          []LibraryEntry
	Downloads          *Downloads
	MinecraftArguments string
	Arguments          *Arguments
	JavaVersion        *JavaVersionReq
}

// Arguments holds the modern structured argument lists. Each element is
// either a plain string or a RuleEngine-gated value (ArgumentElement).
type Arguments struct {
	Game []ArgumentElement `json:"game"`
	JVM  []ArgumentElement `json:"jvm"`
}

// ArgumentElement is one entry of arguments.game[] / arguments.jvm[]: a
// bare literal, or a rule-gated value that expands to one or more strings.
type ArgumentElement struct {
	Literal string   // set when this element was a bare JSON string
	Rules   []Rule   // set when this element was an object with "rules"
	Value   []string // one or more strings to emit if the rules allow it
}

// LibraryEntry is one entry of a vspec's libraries[] list.
type LibraryEntry struct {
	Name         string               `json:"name"`
	URL          string               `json:"url,omitempty"`
	Rules        []Rule               `json:"rules,omitempty"`
	Natives      map[string]string    `json:"natives,omitempty"`
	Downloads    *LibraryDownloads    `json:"downloads,omitempty"`
	PresenceOnly bool                 `json:"presenceOnly,omitempty"`
}

// LibraryDownloads holds the concrete artifact(s) named for a library.
type LibraryDownloads struct {
	Artifact    *Artifact            `json:"artifact,omitempty"`
	Classifiers map[string]*Artifact `json:"classifiers,omitempty"`
}

// Artifact is a single downloadable file with a known hash and size.
type Artifact struct {
	Path     string `json:"path,omitempty"`
	SHA1     string `json:"sha1,omitempty"`
	Size     int64  `json:"size,omitempty"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"-"`
}

// Rule is an entry of a rules[] list: a RuleEngine allow/disallow clause.
type Rule struct {
	Action   string    `json:"action"`
	OS       *OSRule   `json:"os,omitempty"`
	Features *Features `json:"features,omitempty"`
}

// OSRule names the OS sub-clauses of a Rule.
type OSRule struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch,omitempty"`
}

// Features marks a rule as feature-gated. This core advertises no
// features, so any rule carrying one never matches (see internal/rules).
type Features struct {
	IsDemoUser        bool `json:"is_demo_user,omitempty"`
	HasCustomRes      bool `json:"has_custom_resolution,omitempty"`
	HasQuickPlaysup   bool `json:"has_quick_plays_support,omitempty"`
	IsQuickPlaySingle bool `json:"is_quick_play_singleplayer,omitempty"`
	IsQuickPlayMulti  bool `json:"is_quick_play_multiplayer,omitempty"`
	IsQuickPlayRealms bool `json:"is_quick_play_realms,omitempty"`
}

// AssetIndexRef names the asset index a ResolvedVspec uses.
type AssetIndexRef struct {
	ID        string `json:"id"`
	SHA1      string `json:"sha1"`
	Size      int64  `json:"size"`
	TotalSize int64  `json:"totalSize"`
	URL       string `json:"url"`
}

// Downloads names the client/server jars and their mapping files.
type Downloads struct {
	Client         *Artifact `json:"client,omitempty"`
	ClientMappings *Artifact `json:"client_mappings,omitempty"`
	Server         *Artifact `json:"server,omitempty"`
	ServerMappings *Artifact `json:"server_mappings,omitempty"`
}

// JavaVersionReq names the minimum Java runtime a vspec requires.
type JavaVersionReq struct {
	Component    string `json:"component"`
	MajorVersion int    `json:"majorVersion"`
}

// AssetIndex is the parsed contents of assets/indexes/<id>.json.
type AssetIndex struct {
	Objects        map[string]AssetObject `json:"objects"`
	Virtual        bool                   `json:"virtual,omitempty"`
	MapToResources bool                   `json:"map_to_resources,omitempty"`
}

// AssetObject is one entry of an AssetIndex's objects map.
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// legacyAssetIndexID is the well-known index id injected when a vspec's
// assets field is "legacy" but no assetIndex block is present.
const legacyAssetIndexID = "legacy"
