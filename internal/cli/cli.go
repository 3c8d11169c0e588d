package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderinc/pkg/buildinfo"
	"github.com/matzehuels/shaderinc/pkg/cache"
	"github.com/matzehuels/shaderinc/pkg/config"
	errs "github.com/matzehuels/shaderinc/pkg/errors"
	"github.com/matzehuels/shaderinc/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "shaderinc"

	// redisDialTimeout bounds the initial connection to a redis cache.
	redisDialTimeout = 3 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrReported is returned by commands that already printed their failures.
// main exits non-zero without printing it again.
var ErrReported = errors.New("failure already reported")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty discovers the nearest file.
	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "shaderinc flattens #include directives in shader sources",
		Long: `shaderinc resolves #include "file" directives in shader sources into a single
flattened document and rejects circular inclusion chains.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: nearest shaderinc.toml or shaderinc.yaml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.genCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// FormatError renders err for the terminal.
func FormatError(err error) string {
	msg := errs.UserMessage(err)
	if code := errs.GetCode(err); code != "" {
		msg = fmt.Sprintf("%s %s", StyleDim.Render(string(code)), msg)
	}
	return styleIconError.Render(iconError) + " " + msg
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig returns the project configuration, loading it on first use.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, err = config.Discover(wd)
		}
	}
	if err != nil {
		return nil, err
	}
	if cfg.Path() != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path())
	}
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	// Entries written by one release are not read by another.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	runner.OutputTTL = cfg.Cache.TTL.Duration
	return runner, nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:        cfg.Cache.RedisAddr,
			Password:    cfg.Cache.RedisPassword,
			DB:          cfg.Cache.RedisDB,
			DialTimeout: redisDialTimeout,
		})
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, or the
// XDG standard location (~/.cache/shaderinc/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
