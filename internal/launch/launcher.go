// Package launch implements the LaunchComposer: the final pipeline stage
// that turns a resolved version specification into a running game process.
package launch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/quasar/mccore/internal/assets"
	"github.com/quasar/mccore/internal/config"
	"github.com/quasar/mccore/internal/core"
	"github.com/quasar/mccore/internal/download"
	"github.com/quasar/mccore/internal/java"
	"github.com/quasar/mccore/internal/rules"
	"github.com/quasar/mccore/internal/vspec"
)

const launcherName = "mccore"
const launcherVersion = "1.0.0"

// Status reports progress through the launch pipeline to an optional
// listener (a CLI progress line, a future UI, or nothing).
type Status struct {
	Step       string
	Progress   float64
	Message    string
	IsComplete bool
	Error      error
	LogLine    *LogLine
}

// LogLine is one line of the spawned game process's stdout/stderr.
type LogLine struct {
	Text string
	Type string // "stdout" or "stderr"
}

// Options carries everything Composer needs to launch one instance.
type Options struct {
	Instance *core.Instance
	Vspec    *core.ResolvedVspec
	Account  *core.Account
	JavaPath string // overrides detection when set
	Verify   bool   // force a hash re-check of every file before launch
	Config   *config.Config
	Overlay  *config.Overlay

	UpdateLastPlayed func(name string) error
	UpdateInstance   func(inst *core.Instance) error
}

// Composer drives the launch pipeline: natives extraction, classpath and
// argument construction, and process spawning, preceded by a download pass
// that guarantees every referenced file exists and hash-verifies.
type Composer struct {
	opts       *Options
	statusChan chan<- Status
	cfg        *config.Config
	log        hclog.Logger
	host       rules.HostInfo
}

// NewComposer builds a Composer for a single launch.
func NewComposer(opts *Options, statusChan chan<- Status, log hclog.Logger) *Composer {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Composer{
		opts:       opts,
		statusChan: statusChan,
		cfg:        opts.Config,
		log:        log,
		host:       rules.DetectHost(),
	}
}

// Launch runs the full pipeline in order: Java resolution, library/asset
// download and verification (with asset materialization), game-directory
// preparation, dirty-config flush, natives extraction, and finally
// classpath and argument construction and process spawn. Each step only
// begins once the previous one has fully completed, per the ordering
// invariant that files must exist and verify before natives are extracted,
// natives must be in place before argv is built, and assets must be
// materialized before the process is spawned.
func (c *Composer) Launch(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Checking Java", c.checkJava},
		{"Resolving libraries", c.downloadLibraries},
		{"Resolving assets", c.downloadAssets},
		{"Preparing game directory", c.prepareGameDir},
	}

	for i, step := range steps {
		c.sendStatus(Status{Step: step.name, Progress: float64(i) / float64(len(steps)+1), Message: step.name + "..."})
		if err := step.fn(ctx); err != nil {
			c.sendStatus(Status{Step: step.name, Message: err.Error(), Error: err})
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	if err := c.flushDirtyConfig(); err != nil {
		c.log.Warn("failed to flush instance config overlay before launch", "error", err)
	}

	cleanup, nativesDir, err := c.extractNatives()
	if err != nil {
		return fmt.Errorf("extracting natives: %w", err)
	}
	defer cleanup()

	if err := c.launchGame(ctx, nativesDir); err != nil {
		return err
	}

	if c.opts.Instance != nil && c.opts.UpdateInstance != nil {
		c.opts.Instance.IsFullyDownloaded = true
		c.opts.Instance.CachedAt = time.Now()
		_ = c.opts.UpdateInstance(c.opts.Instance)
	}

	c.sendStatus(Status{Step: "Complete", Progress: 1.0, Message: "Game closed.", IsComplete: true})
	return nil
}

func (c *Composer) sendStatus(s Status) {
	if c.statusChan != nil {
		select {
		case c.statusChan <- s:
		default:
		}
	}
}

func (c *Composer) flushDirtyConfig() error {
	if c.opts.Overlay == nil {
		return nil
	}
	return c.opts.Overlay.SaveIfDirty()
}

func (c *Composer) checkJava(ctx context.Context) error {
	if c.opts.JavaPath != "" {
		return nil
	}
	if path, ok := c.overlayString("java.path"); ok && path != "" {
		if _, err := os.Stat(path); err == nil {
			c.opts.JavaPath = path
			return nil
		}
	}
	if c.opts.Instance != nil && c.opts.Instance.JavaPath != "" {
		if _, err := os.Stat(c.opts.Instance.JavaPath); err == nil {
			c.opts.JavaPath = c.opts.Instance.JavaPath
			return nil
		}
	}

	required := 8
	if c.opts.Vspec != nil && c.opts.Vspec.JavaVersion != nil && c.opts.Vspec.JavaVersion.MajorVersion > 0 {
		required = c.opts.Vspec.JavaVersion.MajorVersion
	}

	if inst := java.NewDetector().FindBest(required); inst != nil {
		c.commitJavaPath(inst.Path)
		c.sendStatus(Status{Step: "Checking Java", Message: "Using " + java.FormatInstallation(inst)})
		return nil
	}

	configDir, _ := os.UserConfigDir()
	if configDir == "" {
		return fmt.Errorf("no suitable Java %d found and no config directory to download one into", required)
	}

	javaBaseDir := filepath.Join(configDir, "mccore", "java")
	c.sendStatus(Status{Step: "Downloading Java", Message: fmt.Sprintf("Downloading Java %d...", required)})
	exePath, err := java.NewDownloader().DownloadRuntime(ctx, required, javaBaseDir, func(msg string) {
		c.sendStatus(Status{Step: "Downloading Java", Message: msg})
	})
	if err != nil {
		return fmt.Errorf("downloading java %d: %w", required, err)
	}
	c.commitJavaPath(exePath)
	return nil
}

// overlayString reads a dotted config key (e.g. "java.path") from the
// instance's config overlay, if one is attached to this launch.
func (c *Composer) overlayString(key string) (string, bool) {
	if c.opts.Overlay == nil {
		return "", false
	}
	v, ok := c.opts.Overlay.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (c *Composer) commitJavaPath(path string) {
	c.opts.JavaPath = path
	if c.opts.Instance != nil && c.opts.UpdateInstance != nil {
		c.opts.Instance.JavaPath = path
		_ = c.opts.UpdateInstance(c.opts.Instance)
	}
}

// resolvedLibraries applies the RuleEngine and native-classifier resolution
// to every library entry, dropping platform-unsupported natives rather than
// failing the launch.
func (c *Composer) resolvedLibraries() []*vspec.ResolvedLibrary {
	if c.opts.Vspec == nil {
		return nil
	}
	var out []*vspec.ResolvedLibrary
	for _, entry := range c.opts.Vspec.Libraries {
		lib, err := vspec.ResolveLibrary(entry, c.host)
		if err != nil {
			c.log.Warn("dropping unsupported native library", "error", err)
			continue
		}
		if lib == nil {
			continue
		}
		out = append(out, lib)
	}
	return out
}

func (c *Composer) downloadLibraries(ctx context.Context) error {
	if c.opts.Vspec == nil {
		return nil
	}
	if c.opts.Instance != nil && c.opts.Instance.IsFullyDownloaded && !c.opts.Verify {
		return nil
	}

	store := download.NewHashedStore(c.cfg.LibrariesDir)
	var items []download.Item
	for _, lib := range c.resolvedLibraries() {
		if lib.SHA1 != "" {
			if ok, _ := store.Verify(lib.SHA1); ok && !c.opts.Verify {
				continue
			}
		}
		items = append(items, download.Item{
			URL:  lib.URL,
			Path: filepath.Join(c.cfg.LibrariesDir, lib.Path),
			SHA1: lib.SHA1,
			Size: lib.Size,
		})
	}

	if c.opts.Vspec.Downloads != nil && c.opts.Vspec.Downloads.Client != nil {
		client := c.opts.Vspec.Downloads.Client
		items = append(items, download.Item{
			URL:  client.URL,
			Path: c.clientJarPath(),
			SHA1: client.SHA1,
			Size: client.Size,
		})
	}

	return c.performDownload(ctx, "Downloading libraries", items, download.DefaultWorkerCount)
}

func (c *Composer) clientJarPath() string {
	id := c.opts.Vspec.Jar
	if id == "" {
		id = c.opts.Vspec.ID
	}
	return filepath.Join(c.cfg.LibrariesDir, "com", "mojang", "minecraft", id, fmt.Sprintf("minecraft-%s-client.jar", id))
}

func (c *Composer) downloadAssets(ctx context.Context) error {
	if c.opts.Vspec == nil || c.opts.Vspec.AssetIndex == nil {
		return nil
	}
	if c.opts.Instance != nil && c.opts.Instance.IsFullyDownloaded && !c.opts.Verify {
		return nil
	}

	resolver := assets.NewResolver(c.cfg.AssetsDir)
	mgr := download.NewManager(1, c.log)
	index, err := resolver.FetchIndex(ctx, c.opts.Vspec.AssetIndex, mgr)
	if err != nil {
		return err
	}

	items := resolver.DownloadItems(index)
	if err := c.performDownload(ctx, "Downloading assets", items, download.DefaultWorkerCount); err != nil {
		return err
	}

	return resolver.Materialize(c.opts.Vspec.AssetIndex.ID, index, c.gameDir())
}

func (c *Composer) gameDir() string {
	return filepath.Join(c.opts.Instance.Path, ".minecraft")
}

func (c *Composer) prepareGameDir(ctx context.Context) error {
	dirs := []string{
		c.opts.Instance.Path,
		c.gameDir(),
		filepath.Join(c.gameDir(), "mods"),
		filepath.Join(c.gameDir(), "resourcepacks"),
		filepath.Join(c.gameDir(), "saves"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExtractNatives runs the same native-library extraction Launch performs
// internally, exposed for debug tooling that wants to inspect the result
// without running a full launch.
func (c *Composer) ExtractNatives() (cleanup func(), nativesDir string, err error) {
	return c.extractNatives()
}

// extractNatives copies every native library's platform-specific jar
// contents into a scratch directory scoped to this launch, returning a
// cleanup func that removes it. The cleanup is the caller's responsibility
// to invoke via defer immediately after a successful extraction, so the
// scratch directory is removed on every exit path including a panic
// recovery upstream or an error from a later step.
func (c *Composer) extractNatives() (cleanup func(), nativesDir string, err error) {
	nativesDir = filepath.Join(c.opts.Instance.Path, "natives-"+randomSuffix())
	if err := os.MkdirAll(nativesDir, 0o755); err != nil {
		return func() {}, "", err
	}
	cleanup = func() { os.RemoveAll(nativesDir) }

	for _, lib := range c.resolvedLibraries() {
		if !lib.IsNative {
			continue
		}
		jarPath := filepath.Join(c.cfg.LibrariesDir, lib.Path)
		if err := extractJarTo(jarPath, nativesDir); err != nil {
			cleanup()
			return func() {}, "", fmt.Errorf("extracting %s: %w", lib.Path, err)
		}
	}

	return cleanup, nativesDir, nil
}

func (c *Composer) launchGame(ctx context.Context, nativesDir string) error {
	args := c.buildArguments(nativesDir)
	inst := c.opts.Instance

	cmd := exec.CommandContext(ctx, c.opts.JavaPath, args...)
	cmd.Dir = c.gameDir()

	stdout, _ := cmd.StdoutPipe()
	stderr, _ := cmd.StderrPipe()

	if err := cmd.Start(); err != nil {
		return err
	}

	c.sendStatus(Status{Step: "Playing", Message: "Game running..."})

	if c.opts.UpdateLastPlayed != nil {
		_ = c.opts.UpdateLastPlayed(inst.Name)
	}

	go c.streamLog(stdout, "stdout")
	go c.streamLog(stderr, "stderr")

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("game exited with error: %w", err)
	}
	return nil
}

func (c *Composer) streamLog(r io.Reader, streamType string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := scanner.Text()
		important := streamType == "stderr" ||
			strings.Contains(text, "[FATAL]") ||
			strings.Contains(text, "[ERROR]") ||
			strings.Contains(text, "[WARN]") ||
			strings.Contains(text, "Exception")

		if important {
			c.sendStatus(Status{Step: "Launching", LogLine: &LogLine{Text: text, Type: streamType}})
		}
	}
}

func (c *Composer) buildArguments(nativesDir string) []string {
	var args []string
	vs := c.opts.Vspec

	memMin, ok := c.overlayString("java.memory.min")
	if !ok || memMin == "" {
		memMin = "512M"
	}
	memMax, ok := c.overlayString("java.memory.max")
	if !ok || memMax == "" {
		memMax = "2G"
	}
	args = append(args, "-Xms"+memMin, "-Xmx"+memMax)

	if jvmArgs, ok := c.overlayString("java.jvmargs"); ok && strings.TrimSpace(jvmArgs) != "" {
		args = append(args, strings.Fields(jvmArgs)...)
	}

	if runtime.GOOS == "darwin" {
		args = append(args, "-XstartOnFirstThread")
	}
	args = append(args, "-Djava.library.path="+nativesDir)

	classpath := c.buildClasspath()
	substitutions := c.substitutions(nativesDir, classpath)

	if vs.Arguments != nil && len(vs.Arguments.JVM) > 0 {
		args = append(args, c.expandElements(vs.Arguments.JVM, substitutions)...)
	} else {
		args = append(args, "-cp", classpath)
	}

	args = append(args, vs.MainClass)
	args = append(args, c.buildGameArguments(substitutions)...)
	return args
}

func (c *Composer) buildClasspath() string {
	var paths []string
	for _, lib := range c.resolvedLibraries() {
		if !lib.IsClasspath {
			continue
		}
		paths = append(paths, filepath.Join(c.cfg.LibrariesDir, lib.Path))
	}
	paths = append(paths, c.clientJarPath())

	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	return strings.Join(paths, sep)
}

// substitutions builds the placeholder table used by both the modern
// structured arguments and the legacy flat minecraftArguments string.
func (c *Composer) substitutions(nativesDir, classpath string) map[string]string {
	vs := c.opts.Vspec
	acc := c.opts.Account

	playerName := "Player"
	uuid := "00000000000000000000000000000000"
	token := "0"
	online := false
	if acc != nil {
		playerName = acc.DisplayName()
		uuid = acc.UUID
		if acc.AccessToken != "" {
			token = acc.AccessToken
		}
		online = acc.Type != core.AccountTypeOffline
	}

	userType := "offline"
	versionType := launcherName + "/offline"
	if online {
		userType = "mojang"
		versionType = launcherName
	}

	assetsRoot := c.cfg.AssetsDir
	gameAssets := assetsRoot
	if vs.AssetIndex != nil {
		resolver := assets.NewResolver(c.cfg.AssetsDir)
		gameAssets = resolver.VirtualPath(vs.AssetIndex.ID)
	}

	assetsIndexName := ""
	if vs.AssetIndex != nil {
		assetsIndexName = vs.AssetIndex.ID
	}

	return map[string]string{
		"auth_player_name":  playerName,
		"auth_uuid":         uuid,
		"auth_access_token": token,
		"auth_session":      fmt.Sprintf("token:%s:%s", token, uuid),
		"user_type":         userType,
		"user_properties":   "{}",
		"version_name":      vs.ID,
		"version_type":      versionType,
		"game_directory":    c.gameDir(),
		"assets_root":       assetsRoot,
		"assets_index_name": assetsIndexName,
		"game_assets":       gameAssets,
		"natives_directory": nativesDir,
		"launcher_name":     launcherName,
		"launcher_version":  launcherVersion,
		"classpath":         classpath,
	}
}

func (c *Composer) buildGameArguments(substitutions map[string]string) []string {
	vs := c.opts.Vspec
	if vs.Arguments != nil && len(vs.Arguments.Game) > 0 {
		return c.expandElements(vs.Arguments.Game, substitutions)
	}
	if vs.MinecraftArguments != "" {
		var out []string
		for _, tok := range strings.Split(vs.MinecraftArguments, " ") {
			out = append(out, substitute(tok, substitutions))
		}
		return out
	}
	return nil
}

func (c *Composer) expandElements(elements []core.ArgumentElement, substitutions map[string]string) []string {
	var out []string
	for _, el := range elements {
		if el.Literal != "" {
			out = append(out, substitute(el.Literal, substitutions))
			continue
		}
		if !rules.Allowed(el.Rules, c.host) {
			continue
		}
		for _, v := range el.Value {
			out = append(out, substitute(v, substitutions))
		}
	}
	return out
}

func substitute(s string, substitutions map[string]string) string {
	for k, v := range substitutions {
		s = strings.ReplaceAll(s, "${"+k+"}", v)
	}
	return s
}

func (c *Composer) performDownload(ctx context.Context, stepName string, items []download.Item, workerCount int) error {
	if len(items) == 0 {
		return nil
	}

	mgr := download.NewManager(workerCount, c.log)
	progressChan := make(chan download.Progress, 10)

	go func() {
		for p := range progressChan {
			percent := 0.0
			if p.TotalBytes > 0 {
				percent = float64(p.DownloadedBytes) / float64(p.TotalBytes)
			} else if p.TotalItems > 0 {
				percent = float64(p.CompletedItems) / float64(p.TotalItems)
			}
			c.sendStatus(Status{
				Step:     stepName,
				Progress: percent,
				Message:  fmt.Sprintf("Downloading %s (%s)", p.CurrentItem, download.FormatSpeed(p.Speed)),
			})
		}
	}()

	result, err := mgr.Download(ctx, items, progressChan)
	close(progressChan)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d items failed to download", result.Failed)
	}
	return nil
}
