package launch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/quasar/mccore/internal/config"
	"github.com/quasar/mccore/internal/core"
)

func TestComposer_SkipsDownloadWhenAlreadyFullyDownloaded(t *testing.T) {
	tmpDir := t.TempDir()

	inst := &core.Instance{
		Name:              "test-inst",
		Path:              tmpDir,
		Version:           "1.21.4",
		IsFullyDownloaded: true,
		JavaPath:          "dummy-java",
	}

	vs := &core.ResolvedVspec{
		ID:        "1.21.4",
		MainClass: "net.minecraft.client.main.Main",
		Libraries: []core.LibraryEntry{
			{
				Name: "com.example:missing:1.0.0",
				Downloads: &core.LibraryDownloads{
					Artifact: &core.Artifact{
						Path: "missing.jar",
						URL:  "http://localhost:0/missing.jar",
						Size: 100,
						SHA1: "0000000000000000000000000000000000000",
					},
				},
			},
		},
		AssetIndex: &core.AssetIndexRef{ID: "test-assets", URL: "http://localhost:0/assets.json"},
	}

	cfg := &config.Config{DataDir: tmpDir, LibrariesDir: tmpDir, AssetsDir: tmpDir}

	composer := NewComposer(&Options{Instance: inst, Vspec: vs, Config: cfg, JavaPath: "dummy-java"}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := composer.Launch(ctx)
	if err == nil {
		t.Fatal("expected the launch to fail at the exec step with a dummy java path")
	}
	if strings.Contains(err.Error(), "Resolving libraries") || strings.Contains(err.Error(), "Resolving assets") {
		t.Errorf("composer attempted to download despite IsFullyDownloaded=true: %v", err)
	}
}

func TestComposer_DownloadsWhenNotFullyDownloaded(t *testing.T) {
	tmpDir := t.TempDir()

	inst := &core.Instance{
		Name:              "test-inst",
		Path:              tmpDir,
		Version:           "1.21.4",
		IsFullyDownloaded: false,
		JavaPath:          "dummy-java",
	}

	vs := &core.ResolvedVspec{
		ID:        "1.21.4",
		MainClass: "net.minecraft.client.main.Main",
		Libraries: []core.LibraryEntry{
			{
				Name: "com.example:missing:1.0.0",
				Downloads: &core.LibraryDownloads{
					Artifact: &core.Artifact{
						Path: "missing.jar",
						URL:  "http://localhost:0/missing.jar",
						Size: 100,
						SHA1: "0000000000000000000000000000000000000",
					},
				},
			},
		},
	}

	cfg := &config.Config{DataDir: tmpDir, LibrariesDir: tmpDir, AssetsDir: tmpDir}

	composer := NewComposer(&Options{Instance: inst, Vspec: vs, Config: cfg, JavaPath: "dummy-java"}, nil, nil)

	err := composer.Launch(context.Background())
	if err == nil {
		t.Fatal("expected a download error against an unreachable host")
	}
	if !strings.Contains(err.Error(), "Resolving libraries") {
		t.Errorf("expected failure during library resolution, got: %v", err)
	}
}

func TestComposer_BuildClasspathJoinsLibrariesAndClientJar(t *testing.T) {
	tmpDir := t.TempDir()
	inst := &core.Instance{Name: "inst", Path: tmpDir}
	vs := &core.ResolvedVspec{
		ID: "1.21.4",
		Libraries: []core.LibraryEntry{
			{Name: "com.google.code.gson:gson:2.8.9"},
		},
	}
	cfg := &config.Config{LibrariesDir: "/libs"}

	composer := NewComposer(&Options{Instance: inst, Vspec: vs, Config: cfg}, nil, nil)
	cp := composer.buildClasspath()

	if !strings.Contains(cp, "gson-2.8.9.jar") {
		t.Errorf("expected classpath to contain gson jar, got: %s", cp)
	}
	if !strings.Contains(cp, "minecraft-1.21.4-client.jar") {
		t.Errorf("expected classpath to contain the client jar, got: %s", cp)
	}
}

func TestComposer_SubstitutionsCoverAllPlaceholders(t *testing.T) {
	tmpDir := t.TempDir()
	inst := &core.Instance{Name: "inst", Path: tmpDir}
	vs := &core.ResolvedVspec{ID: "1.21.4", AssetIndex: &core.AssetIndexRef{ID: "1.21"}}
	cfg := &config.Config{AssetsDir: "/assets"}
	acc := core.NewOfflineAccount("Notch")

	composer := NewComposer(&Options{Instance: inst, Vspec: vs, Config: cfg, Account: acc}, nil, nil)
	subs := composer.substitutions("/natives", "/cp")

	required := []string{
		"auth_player_name", "auth_uuid", "auth_access_token", "auth_session",
		"user_type", "user_properties", "version_name", "version_type",
		"game_directory", "assets_root", "assets_index_name", "game_assets",
		"natives_directory", "launcher_name", "launcher_version", "classpath",
	}
	for _, key := range required {
		if _, ok := subs[key]; !ok {
			t.Errorf("missing substitution for %q", key)
		}
	}
	if subs["auth_player_name"] != "Notch" {
		t.Errorf("auth_player_name = %q", subs["auth_player_name"])
	}
	if subs["auth_uuid"] != acc.UUID {
		t.Errorf("auth_uuid = %q, want %q", subs["auth_uuid"], acc.UUID)
	}
}
