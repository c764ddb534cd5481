package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInstanceManager_CreateAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	mgr := NewInstanceManager(tmpDir)

	inst := &Instance{
		Version: "1.21.4",
		Loader:  "vanilla",
	}

	if err := mgr.Create("test-1", inst); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	configPath := filepath.Join(tmpDir, "instances", "test-1", "instance.json")
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("Config file not created: %v", err)
	}

	mgr2 := NewInstanceManager(tmpDir)
	if err := mgr2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	loaded, ok := mgr2.Get("test-1")
	if !ok {
		t.Fatal("Instance not found after reload")
	}

	if loaded.Name != "test-1" {
		t.Errorf("Name mismatch: got %q, want %q", loaded.Name, "test-1")
	}
	if loaded.Version != "1.21.4" {
		t.Errorf("Version mismatch: got %q, want %q", loaded.Version, "1.21.4")
	}
}

func TestInstanceManager_CreateRejectsUnsanitizedName(t *testing.T) {
	mgr := NewInstanceManager(t.TempDir())
	if err := mgr.Create("bad name!", &Instance{}); err == nil {
		t.Fatal("expected error creating instance with unsanitized name")
	}
}

func TestInstanceManager_CreateRejectsDuplicate(t *testing.T) {
	mgr := NewInstanceManager(t.TempDir())
	if err := mgr.Create("dup", &Instance{Version: "1.21.4"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if err := mgr.Create("dup", &Instance{Version: "1.21.4"}); err == nil {
		t.Fatal("expected error creating duplicate instance")
	}
}

func TestInstanceManager_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	mgr := NewInstanceManager(tmpDir)

	if err := mgr.Create("to-delete", &Instance{Version: "1.21.4", Loader: "vanilla"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, ok := mgr.Get("to-delete"); !ok {
		t.Fatal("Instance should exist after creation")
	}

	if err := mgr.Delete("to-delete"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, ok := mgr.Get("to-delete"); ok {
		t.Error("Instance should not exist after deletion")
	}

	instPath := filepath.Join(tmpDir, "instances", "to-delete")
	if _, err := os.Stat(instPath); !os.IsNotExist(err) {
		t.Error("Instance directory should be deleted")
	}
}

func TestInstanceManager_Rename(t *testing.T) {
	tmpDir := t.TempDir()
	mgr := NewInstanceManager(tmpDir)

	if err := mgr.Create("old-name", &Instance{Version: "1.21.4"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := mgr.Rename("old-name", "new-name"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	if _, ok := mgr.Get("old-name"); ok {
		t.Error("old name should no longer resolve")
	}
	inst, ok := mgr.Get("new-name")
	if !ok {
		t.Fatal("new name should resolve after rename")
	}
	if inst.Name != "new-name" {
		t.Errorf("Name field not updated: got %q", inst.Name)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "instances", "new-name", "instance.json")); err != nil {
		t.Errorf("expected config at new path: %v", err)
	}
}

func TestInstanceManager_List(t *testing.T) {
	tmpDir := t.TempDir()
	mgr := NewInstanceManager(tmpDir)

	for i := 0; i < 3; i++ {
		name := "inst-" + string(rune('a'+i))
		if err := mgr.Create(name, &Instance{Version: "1.21.4", Loader: "vanilla"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list := mgr.List()
	if len(list) != 3 {
		t.Errorf("Expected 3 instances, got %d", len(list))
	}
}

func TestInstanceManager_UpdateLastPlayed(t *testing.T) {
	tmpDir := t.TempDir()
	mgr := NewInstanceManager(tmpDir)

	if err := mgr.Create("play-test", &Instance{Version: "1.21.4", Loader: "vanilla"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	before := time.Now()
	if err := mgr.UpdateLastPlayed("play-test"); err != nil {
		t.Fatalf("UpdateLastPlayed failed: %v", err)
	}
	after := time.Now()

	updated, _ := mgr.Get("play-test")
	if updated.LastPlayed.Before(before) || updated.LastPlayed.After(after) {
		t.Error("LastPlayed should be between before and after")
	}

	mgr2 := NewInstanceManager(tmpDir)
	mgr2.Load()
	reloaded, _ := mgr2.Get("play-test")
	if reloaded.LastPlayed.IsZero() {
		t.Error("LastPlayed should persist after reload")
	}
}

func TestInstanceManager_EmptyDir(t *testing.T) {
	tmpDir := t.TempDir()
	mgr := NewInstanceManager(tmpDir)

	if err := mgr.Load(); err != nil {
		t.Fatalf("Load from empty dir failed: %v", err)
	}

	if len(mgr.List()) != 0 {
		t.Error("Expected empty list from new directory")
	}
}
