package vspec

import (
	"path/filepath"
	"testing"

	"github.com/quasar/mccore/internal/core"
	"github.com/quasar/mccore/internal/rules"
)

func TestResolveLibrary_SimplePath(t *testing.T) {
	entry := core.LibraryEntry{Name: "com.google.code.gson:gson:2.8.9"}
	lib, err := ResolveLibrary(entry, rules.HostInfo{OS: "linux", Arch: "x86_64"})
	if err != nil {
		t.Fatalf("ResolveLibrary failed: %v", err)
	}
	if lib == nil {
		t.Fatal("expected a resolved library")
	}

	wantPath := "com/google/code/gson/gson/2.8.9/gson-2.8.9.jar"
	if filepath.ToSlash(lib.Path) != wantPath {
		t.Errorf("Path = %q, want %q", lib.Path, wantPath)
	}
	wantURL := "https://libraries.minecraft.net/com/google/code/gson/gson/2.8.9/gson-2.8.9.jar"
	if lib.URL != wantURL {
		t.Errorf("URL = %q, want %q", lib.URL, wantURL)
	}
	if !lib.IsClasspath || lib.IsNative {
		t.Error("expected a plain classpath library")
	}
}

func TestResolveLibrary_DeniedByRules(t *testing.T) {
	entry := core.LibraryEntry{
		Name:  "org.lwjgl:lwjgl:3.3.1",
		Rules: []core.Rule{{Action: "allow", OS: &core.OSRule{Name: "windows"}}},
	}
	lib, err := ResolveLibrary(entry, rules.HostInfo{OS: "linux", Arch: "x86_64"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lib != nil {
		t.Error("expected library to be dropped on a non-matching host")
	}
}

func TestResolveLibrary_NativeClassifierSubstitution(t *testing.T) {
	entry := core.LibraryEntry{
		Name:    "org.lwjgl:lwjgl-platform:2.9.4-nightly-20150209",
		Natives: map[string]string{"linux": "natives-linux-${arch}"},
	}
	lib, err := ResolveLibrary(entry, rules.HostInfo{OS: "linux", Arch: "x86_64"})
	if err != nil {
		t.Fatalf("ResolveLibrary failed: %v", err)
	}
	if lib == nil {
		t.Fatal("expected a resolved native library")
	}
	if !lib.IsNative {
		t.Error("expected IsNative to be true")
	}
	if lib.Descriptor != entry.Name+":natives-linux-64" {
		t.Errorf("Descriptor = %q", lib.Descriptor)
	}
}

func TestResolveLibrary_NativeMissingForHostIsPlatformUnsupported(t *testing.T) {
	entry := core.LibraryEntry{
		Name:    "org.lwjgl:lwjgl-platform:2.9.4-nightly-20150209",
		Natives: map[string]string{"windows": "natives-windows"},
	}
	_, err := ResolveLibrary(entry, rules.HostInfo{OS: "linux", Arch: "x86_64"})
	if err == nil {
		t.Fatal("expected an error for a missing native classifier")
	}
	if _, ok := err.(*core.PlatformUnsupportedError); !ok {
		t.Errorf("expected *core.PlatformUnsupportedError, got %T", err)
	}
}
