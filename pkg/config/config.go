// Package config loads the shaderinc project configuration.
//
// A project is configured by a shaderinc.toml (or shaderinc.yaml) file in
// the shader tree. [Find] locates the nearest one by walking up from a
// directory, the way git finds its repository:
//
//	# shaderinc.toml
//	root = "shaders"
//	relative = true
//	max_depth = 32
//	extensions = [".glsl", ".vert", ".frag"]
//
//	[cache]
//	backend = "file"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//
// Relative paths in the file are resolved against the file's directory.
// Command-line flags override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/shaderinc/pkg/errors"
)

// Config file names, in lookup order.
const (
	FileTOML = "shaderinc.toml"
	FileYAML = "shaderinc.yaml"
	FileYML  = "shaderinc.yml"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// ErrNotFound is returned by Find when no config file exists up to the
// filesystem root.
var ErrNotFound = errors.New("no shaderinc config file found")

// DefaultExtensions are the file extensions `check --dir` treats as
// shader sources.
var DefaultExtensions = []string{
	".glsl", ".vert", ".frag", ".geom", ".comp", ".tesc", ".tese",
	".hlsl", ".wgsl", ".metal",
}

// Config is the project configuration.
type Config struct {
	// Root is the directory include literals resolve against.
	Root string `toml:"root" yaml:"root"`

	// Relative resolves includes against the including file's directory.
	Relative bool `toml:"relative" yaml:"relative"`

	// MaxDepth limits include nesting. 0 selects the default, -1 disables
	// the limit.
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`

	// Extensions selects the files checked by `check --dir`.
	Extensions []string `toml:"extensions" yaml:"extensions"`

	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`

	// path is the file the config was loaded from, empty for defaults.
	path string
}

// CacheConfig selects and configures the output cache.
type CacheConfig struct {
	Backend       string   `toml:"backend" yaml:"backend"`
	Dir           string   `toml:"dir" yaml:"dir"`
	RedisAddr     string   `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string   `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int      `toml:"redis_db" yaml:"redis_db"`
	TTL           Duration `toml:"ttl" yaml:"ttl"`
}

// ServerConfig configures `shaderinc serve`.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Root:       ".",
		Extensions: append([]string(nil), DefaultExtensions...),
		Cache:      CacheConfig{Backend: BackendFile},
		Server:     ServerConfig{Addr: ":8080"},
	}
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string { return c.path }

// Find returns the nearest config file in dir or one of its parents.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range []string{FileTOML, FileYAML, FileYML} {
			p := filepath.Join(abs, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotFound
		}
		abs = parent
	}
}

// Load reads and validates the config file at path. Fields missing from
// the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "%s: unsupported config format", path)
	}

	cfg.path = path
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover loads the nearest config file above dir, or returns Default if
// there is none.
func Discover(dir string) (*Config, error) {
	path, err := Find(dir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

func (c *Config) resolvePaths(dir string) {
	if c.Root != "" && !filepath.IsAbs(c.Root) {
		c.Root = filepath.Join(dir, c.Root)
	}
	if c.Cache.Dir != "" && !filepath.IsAbs(c.Cache.Dir) {
		c.Cache.Dir = filepath.Join(dir, c.Cache.Dir)
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "invalid cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.MaxDepth < -1 {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid max_depth: %d", c.MaxDepth)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid cache.ttl: %s", c.Cache.TTL)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errs.New(errs.ErrCodeInvalidConfig, "invalid extension %q (must start with a dot)", ext)
		}
	}
	return nil
}

// HasExtension reports whether name has one of the configured extensions.
func (c *Config) HasExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range c.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// EncodeTOML writes c as TOML.
func (c *Config) EncodeTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// EncodeYAML writes c as YAML.
func (c *Config) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Duration is a time.Duration written as a string ("24h", "90m") in both
// TOML and YAML files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler, used by TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
