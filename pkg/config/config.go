// Package config loads mindmap settings.
//
// Values are resolved in order, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (--config, or $XDG_CONFIG_HOME/mindmap/config.toml)
//  3. MINDMAP_* environment variables, e.g. MINDMAP_CACHE_BACKEND=redis
//  4. command line flags, applied by the CLI
//
// GROQ_API_KEY is honoured when MINDMAP_LLM_API_KEY is unset.
//
// Example file:
//
//	[server]
//	addr = ":8080"
//
//	[layout]
//	width = 1024
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/generate"
	"github.com/lectura/mindmap/pkg/mindmap"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MINDMAP"

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	LLM    LLMConfig    `toml:"llm"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" envconfig:"shutdown_timeout"`
}

// LayoutConfig holds the default container size and depth bound.
type LayoutConfig struct {
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	MaxDepth int     `toml:"max_depth" envconfig:"max_depth"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"` // file backend; empty means the XDG cache dir
	RedisAddr     string `toml:"redis_addr" envconfig:"redis_addr"`
	RedisPassword string `toml:"redis_password" envconfig:"redis_password"`
	RedisDB       int    `toml:"redis_db" envconfig:"redis_db"`
	RedisURL      string `toml:"redis_url" envconfig:"redis_url"` // wins over addr/password/db
}

// StoreConfig selects and configures mind map persistence.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"` // file backend; empty means the XDG data dir
	MongoURI string `toml:"mongo_uri" envconfig:"mongo_uri"`
	Database string `toml:"database"`
}

// LLMConfig configures the generation endpoint.
type LLMConfig struct {
	BaseURL string        `toml:"base_url" envconfig:"base_url"`
	Model   string        `toml:"model"`
	APIKey  string        `toml:"api_key" envconfig:"api_key"`
	Timeout time.Duration `toml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Layout: LayoutConfig{
			Width:    mindmap.DefaultContainerWidth,
			Height:   mindmap.DefaultContainerHeight,
			MaxDepth: mindmap.DefaultMaxDepth,
		},
		Cache: CacheConfig{Backend: CacheFile, RedisAddr: "localhost:6379"},
		Store: StoreConfig{Backend: StoreFile, Database: "mindmap"},
		LLM: LLMConfig{
			BaseURL: generate.DefaultBaseURL,
			Model:   generate.DefaultModel,
			Timeout: generate.DefaultTimeout,
		},
	}
}

// DefaultPath returns the config file looked up when no path is given.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mindmap", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mindmap", "config.toml")
}

// Load resolves the configuration. An explicit path must exist; the
// default path is optional.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFile(path, explicit); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read environment")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GROQ_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return nil
	}
	if os.IsNotExist(err) {
		return apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	meta, err := toml.Decode(string(data), c)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks backend names and the layout defaults.
func (c Config) Validate() error {
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if !slices.Contains([]string{StoreMemory, StoreFile, StoreMongo}, c.Store.Backend) {
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown store backend %q (want memory, file or mongo)", c.Store.Backend)
	}
	if c.Store.Backend == StoreMongo && c.Store.MongoURI == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "store backend mongo needs mongo_uri")
	}
	if c.LLM.BaseURL != "" {
		if err := apperr.ValidateBaseURL(c.LLM.BaseURL); err != nil {
			return err
		}
	}
	if c.Layout.MaxDepth <= 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "layout max_depth must be positive")
	}
	return apperr.ValidateContainerSize(c.Layout.Width, c.Layout.Height)
}
