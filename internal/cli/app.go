// Package cli wires the cobra command tree that is this module's only
// user-facing surface: account, instance, version, config, and play.
package cli

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/quasar/mccore/internal/api"
	"github.com/quasar/mccore/internal/config"
	"github.com/quasar/mccore/internal/core"
)

// App bundles the long-lived managers every subcommand needs. It is built
// once in the root command's PersistentPreRunE and stored in the package
// variable app, which each subcommand's RunE reads.
type App struct {
	Config   *config.Config
	Log      hclog.Logger
	Accounts *core.AccountManager
	Instance *core.InstanceManager
	Versions *api.VersionManager
}

// rootDir resolves the application's data root: MCCORE_ROOT if set,
// otherwise the platform default data directory.
func rootDir() string {
	if root := os.Getenv("MCCORE_ROOT"); root != "" {
		return root
	}
	return config.DefaultConfig().DataDir
}

// NewApp loads configuration and constructs every manager, ensuring the
// application's directory tree exists.
func NewApp(logLevel string) (*App, error) {
	log := hclog.New(&hclog.LoggerOptions{
		Name:  "mccore",
		Level: hclog.LevelFromString(logLevel),
	})

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if root := os.Getenv("MCCORE_ROOT"); root != "" {
		cfg.DataDir = root
		cfg.InstancesDir = filepath.Join(root, "instances")
		cfg.AssetsDir = filepath.Join(root, "assets")
		cfg.LibrariesDir = filepath.Join(root, "libraries")
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	accounts := core.NewAccountManager(cfg.DataDir)
	if err := accounts.Load(); err != nil {
		return nil, err
	}

	instances := core.NewInstanceManager(cfg.DataDir)
	if err := instances.Load(); err != nil {
		return nil, err
	}

	versions := api.NewVersionManager(filepath.Join(cfg.DataDir, "versions"), log.Named("versions"))

	return &App{
		Config:   cfg,
		Log:      log,
		Accounts: accounts,
		Instance: instances,
		Versions: versions,
	}, nil
}
