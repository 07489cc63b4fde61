// Package config loads the user configuration shared by every skillgalaxy
// command.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/skillgalaxy/config.toml
//  3. SKILLGALAXY_* environment variables, optionally seeded from a .env file
//
// A missing config file is not an error. Unknown keys are, so that typos do
// not silently fall back to defaults.
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[layout]
//	width = 1600
//	height = 1200
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/skillgalaxy/pkg/cache"
	"github.com/matzehuels/skillgalaxy/pkg/core/layout"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
)

const (
	// Dir is the directory name under XDG_CONFIG_HOME.
	Dir = "skillgalaxy"
	// File is the config file name.
	File = "config.toml"
)

// Environment overrides.
const (
	EnvCacheBackend   = "SKILLGALAXY_CACHE_BACKEND"
	EnvRedisAddr      = "SKILLGALAXY_REDIS_ADDR"
	EnvRedisPassword  = "SKILLGALAXY_REDIS_PASSWORD"
	EnvMongoURI       = "SKILLGALAXY_MONGO_URI"
	EnvProficiencyURL = "SKILLGALAXY_PROFICIENCY_URL"
	EnvRedisDB        = "SKILLGALAXY_REDIS_DB"
)

// Config is the decoded configuration file.
type Config struct {
	Cache       CacheConfig       `toml:"cache"`
	Proficiency ProficiencyConfig `toml:"proficiency"`
	Layout      LayoutConfig      `toml:"layout"`
	Render      RenderConfig      `toml:"render"`
	Server      ServerConfig      `toml:"server"`

	// Path is the file the config was read from, empty when none existed.
	Path string `toml:"-"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ProficiencyConfig locates the solved-problem dataset. File wins over URL
// when both are set.
type ProficiencyConfig struct {
	URL      string `toml:"url"`
	File     string `toml:"file"`
	TTLHours int    `toml:"ttl_hours"`
}

// LayoutConfig holds the layout canvas and relaxation settings.
type LayoutConfig struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Iterations int     `toml:"iterations"`
	Seed       uint64  `toml:"seed"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Style string `toml:"style"`
	Fog   bool   `toml:"fog"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend:       cache.BackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "skillgalaxy",
		},
		Proficiency: ProficiencyConfig{TTLHours: int(cache.TTLHTTP / time.Hour)},
		Layout: LayoutConfig{
			Width:      layout.DefaultWidth,
			Height:     layout.DefaultHeight,
			Iterations: layout.DefaultIterations,
			Seed:       layout.DefaultSeed,
		},
		Render: RenderConfig{Style: graph.StyleGalaxy},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the config file location, honoring XDG_CONFIG_HOME.
// It returns "" when no home directory can be determined.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, Dir, File)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Variables that are already set are kept.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", p)
		}
	}
	return nil
}

// Load reads the config at path, or at [DefaultPath] when path is empty,
// then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			cfg.Path = path
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
			}
		case os.IsNotExist(err):
			if explicit {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
			}
		default:
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Cache.MongoURI = v
	}
	if v := os.Getenv(EnvProficiencyURL); v != "" {
		c.Proficiency.URL = v
	}
	if v := os.Getenv(EnvRedisDB); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvRedisDB)
		}
		c.Cache.RedisDB = db
	}
	return nil
}

// Validate checks values that would otherwise fail late in the pipeline.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	switch c.Render.Style {
	case graph.StyleGalaxy, graph.StyleSimple, graph.StyleNodeLink:
	default:
		return errors.New(errors.ErrCodeInvalidStyle, "render.style: unknown style %q", c.Render.Style)
	}
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout: width and height must be positive")
	}
	if c.Layout.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.iterations must not be negative")
	}
	if c.Proficiency.TTLHours < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "proficiency.ttl_hours must not be negative")
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   "skillgalaxy:",
		},
		Mongo: cache.MongoOptions{
			URI:      c.Cache.MongoURI,
			Database: c.Cache.MongoDatabase,
		},
	}
}

// LayoutOptions converts the layout section.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		Width:      c.Layout.Width,
		Height:     c.Layout.Height,
		Iterations: c.Layout.Iterations,
		Seed:       c.Layout.Seed,
	}
}

// ProficiencyTTL returns the HTTP cache lifetime for fetched datasets.
func (c *Config) ProficiencyTTL() time.Duration {
	return time.Duration(c.Proficiency.TTLHours) * time.Hour
}

// String renders the effective configuration as TOML, with the Redis
// password masked.
func (c *Config) String() string {
	masked := *c
	if masked.Cache.RedisPassword != "" {
		masked.Cache.RedisPassword = "****"
	}
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(masked); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return sb.String()
}
