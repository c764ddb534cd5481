// Package vspec resolves a version specification's inheritance chain and
// turns its library entries into concrete, host-filtered artifacts.
package vspec

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/quasar/mccore/internal/core"
	"github.com/quasar/mccore/internal/rules"
)

const mojangLibraryBaseURL = "https://libraries.minecraft.net/"

// coordinate is a parsed Maven-style "group:artifact:version[:classifier][@ext]"
// library descriptor.
type coordinate struct {
	group      string
	artifact   string
	version    string
	classifier string
	ext        string
}

func parseCoordinate(descriptor string) (coordinate, error) {
	name, ext, _ := strings.Cut(descriptor, "@")
	if ext == "" {
		ext = "jar"
	}

	parts := strings.Split(name, ":")
	if len(parts) < 3 {
		return coordinate{}, fmt.Errorf("malformed library descriptor: %q", descriptor)
	}

	c := coordinate{
		group:    strings.ReplaceAll(parts[0], ".", "/"),
		artifact: parts[1],
		version:  parts[2],
		ext:      ext,
	}
	if len(parts) >= 4 {
		c.classifier = parts[3]
	}
	return c, nil
}

// libraryPath computes the canonical local path and filename for a
// coordinate: <group-with-slashes>/<artifact>/<version>/<artifact>-<version>[-<classifier>].<ext>
func (c coordinate) libraryPath() (relPath, filename string) {
	versionSegment := c.version
	if c.classifier != "" {
		versionSegment = c.version + "-" + c.classifier
	}
	filename = fmt.Sprintf("%s-%s.%s", c.artifact, versionSegment, c.ext)
	relPath = path.Join(c.group, c.artifact, c.version, filename)
	return relPath, filename
}

// ResolvedLibrary is a library entry after rule filtering and native
// classifier resolution — exactly what LibraryResolver and LaunchComposer
// need to place a file on disk and add it to a classpath.
type ResolvedLibrary struct {
	Descriptor  string // original name, with ":<classifier>" appended for natives
	Path        string // relative path under libraries_root, OS-native separators
	URL         string
	SHA1        string
	Size        int64
	IsNative    bool
	IsClasspath bool
}

// ResolveLibrary applies the RuleEngine, resolves any native classifier for
// the host platform, and computes the final path/url/hash. It returns
// (nil, nil) when the rules deny the library for this host, and a
// *core.PlatformUnsupportedError when it is native but has no classifier
// entry for the host platform — callers choose whether to drop the
// library and continue or abort the resolution.
func ResolveLibrary(entry core.LibraryEntry, host rules.HostInfo) (*ResolvedLibrary, error) {
	if !rules.Allowed(entry.Rules, host) {
		return nil, nil
	}

	isNative := entry.Natives != nil
	isClasspath := !isNative && !entry.PresenceOnly

	descriptor := entry.Name
	var classifier string
	if isNative {
		tmpl, ok := entry.Natives[host.OS]
		if !ok {
			return nil, &core.PlatformUnsupportedError{Library: entry.Name, Platform: host.OS}
		}
		classifier = strings.ReplaceAll(tmpl, "${arch}", archBits(host.Arch))
		descriptor = entry.Name + ":" + classifier
	}

	coord, err := parseCoordinate(descriptor)
	if err != nil {
		return nil, err
	}
	relPath, _ := coord.libraryPath()

	baseURL := entry.URL
	if baseURL == "" {
		baseURL = mojangLibraryBaseURL
	}
	virtualURL := joinURL(baseURL, relPath)

	lib := &ResolvedLibrary{
		Descriptor:  descriptor,
		Path:        filepathFromSlash(relPath),
		URL:         virtualURL,
		IsNative:    isNative,
		IsClasspath: isClasspath,
	}

	var artifact *core.Artifact
	if entry.Downloads != nil {
		if isNative {
			artifact = entry.Downloads.Classifiers[classifier]
		} else {
			artifact = entry.Downloads.Artifact
		}
	}
	if artifact != nil {
		if artifact.URL != "" {
			lib.URL = artifact.URL
		}
		lib.SHA1 = artifact.SHA1
		lib.Size = artifact.Size
	}

	return lib, nil
}

func filepathFromSlash(relPath string) string {
	return filepath.FromSlash(relPath)
}

func archBits(arch string) string {
	switch arch {
	case "x86":
		return "32"
	default:
		return "64"
	}
}

func joinURL(base, relPath string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + relPath
}
