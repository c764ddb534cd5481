package config

import (
	"path/filepath"
	"testing"
)

func TestOverlay_FallsBackToGlobal(t *testing.T) {
	global := DefaultConfig()
	global.Theme = "dark"

	overlay, err := NewOverlay(global, filepath.Join(t.TempDir(), "instance.json"))
	if err != nil {
		t.Fatalf("NewOverlay failed: %v", err)
	}

	v, ok := overlay.Get("theme")
	if !ok || v != "dark" {
		t.Errorf("expected fallback to global theme, got %v (ok=%v)", v, ok)
	}
	if overlay.Dirty() {
		t.Error("overlay should not be dirty before any Set")
	}
}

func TestOverlay_SetOverridesAndPersists(t *testing.T) {
	global := DefaultConfig()
	global.Theme = "dark"
	path := filepath.Join(t.TempDir(), "instance.json")

	overlay, err := NewOverlay(global, path)
	if err != nil {
		t.Fatalf("NewOverlay failed: %v", err)
	}

	overlay.Set("theme", "light")
	if !overlay.Dirty() {
		t.Error("expected overlay to be dirty after Set")
	}

	if err := overlay.SaveIfDirty(); err != nil {
		t.Fatalf("SaveIfDirty failed: %v", err)
	}
	if overlay.Dirty() {
		t.Error("expected overlay to be clean after SaveIfDirty")
	}

	reloaded, err := NewOverlay(global, path)
	if err != nil {
		t.Fatalf("NewOverlay (reload) failed: %v", err)
	}
	v, ok := reloaded.Get("theme")
	if !ok || v != "light" {
		t.Errorf("expected reloaded override light, got %v (ok=%v)", v, ok)
	}
}

func TestOverlay_DeleteRevertsToGlobal(t *testing.T) {
	global := DefaultConfig()
	global.Theme = "dark"
	overlay, err := NewOverlay(global, filepath.Join(t.TempDir(), "instance.json"))
	if err != nil {
		t.Fatalf("NewOverlay failed: %v", err)
	}

	overlay.Set("theme", "light")
	overlay.SaveIfDirty()

	overlay.Delete("theme")
	v, ok := overlay.Get("theme")
	if !ok || v != "dark" {
		t.Errorf("expected revert to global dark, got %v (ok=%v)", v, ok)
	}
}
