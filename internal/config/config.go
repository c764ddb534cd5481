// Package config handles application configuration and paths.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	// Paths
	DataDir      string `json:"dataDir"`
	InstancesDir string `json:"instancesDir"`
	AssetsDir    string `json:"assetsDir"`
	LibrariesDir string `json:"librariesDir"`

	// Java. JavaMemoryMin/JavaMemoryMax are the -Xms/-Xmx values; JVMArgs
	// holds the remaining tuning flags as a list; the overlay exposes them
	// space-joined as the single "java.jvmargs" string, which launch splits
	// on whitespace, so a user can override them as one field.
	JavaPath      string   `json:"javaPath"`
	JavaMemoryMin string   `json:"javaMemoryMin"`
	JavaMemoryMax string   `json:"javaMemoryMax"`
	JVMArgs       []string `json:"jvmArgs"`

	// UI preferences
	Theme         string `json:"theme"`
	ShowSnapshots bool   `json:"showSnapshots"`

	// Auth
	MSAClientID string `json:"msaClientID"`
}

const (
	DefaultMSAClientID = "c36a9fb6-4f2a-41ff-90bd-ae7cc92031eb"
)

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	dataDir := getDefaultDataDir()
	return &Config{
		DataDir:       dataDir,
		InstancesDir:  filepath.Join(dataDir, "instances"),
		AssetsDir:     filepath.Join(dataDir, "assets"),
		LibrariesDir:  filepath.Join(dataDir, "libraries"),
		JavaPath:      "",
		JavaMemoryMin: "512M",
		JavaMemoryMax: "2G",
		JVMArgs:       []string{"-XX:+UnlockExperimentalVMOptions", "-XX:+UseG1GC", "-XX:G1NewSizePercent=20", "-XX:G1ReservePercent=20", "-XX:MaxGCPauseMillis=50", "-XX:G1HeapRegionSize=32M"},
		Theme:         "dark",
		ShowSnapshots: false,
		MSAClientID:   DefaultMSAClientID,
	}
}

// Load reads config from disk
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := filepath.Join(cfg.DataDir, "config.json")
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Fallback to default ID if config file had empty string or missing field
	if cfg.MSAClientID == "" {
		cfg.MSAClientID = DefaultMSAClientID
	}

	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	configPath := filepath.Join(c.DataDir, "config.json")
	return os.WriteFile(configPath, data, 0644)
}

// EnsureDirs creates all required directories and, on first run, the
// minimal launcher_profiles.json at the application root that some
// installers (Forge, among others) refuse to start without.
func (c *Config) EnsureDirs() error {
	dirs := []string{c.DataDir, c.InstancesDir, c.AssetsDir, c.LibrariesDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return writeProfilesDummy(c.DataDir)
}

// writeProfilesDummy writes the minimal launcher_profiles.json Forge's
// installer probes for, once, at the application root. A no-op if the
// file already exists.
func writeProfilesDummy(appRoot string) error {
	path := filepath.Join(appRoot, "launcher_profiles.json")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(`{"profiles":{}}`), 0o644)
}

func getDefaultDataDir() string {
	// Check for portable mode first
	exe, _ := os.Executable()
	portablePath := filepath.Join(filepath.Dir(exe), "data")
	if _, err := os.Stat(portablePath); err == nil {
		return portablePath
	}

	// Use XDG/platform-specific directories
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mctui")
	}

	home, _ := os.UserHomeDir()
	switch {
	case os.Getenv("APPDATA") != "": // Windows
		return filepath.Join(os.Getenv("APPDATA"), "mctui")
	default: // Linux/macOS
		return filepath.Join(home, ".local", "share", "mctui")
	}
}
