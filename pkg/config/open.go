package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lectura/mindmap/pkg/cache"
	"github.com/lectura/mindmap/pkg/generate"
	"github.com/lectura/mindmap/pkg/store"
)

// DefaultCacheDir returns $XDG_CACHE_HOME/mindmap, or ~/.cache/mindmap.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "mindmap"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", "mindmap"), nil
}

// CacheDir returns the configured file cache directory.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	return DefaultCacheDir()
}

// OpenCache builds the configured cache backend.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			URL:      c.RedisURL,
		})
	}
	dir, err := c.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// OpenStore builds the configured store backend.
func (s StoreConfig) OpenStore(ctx context.Context) (store.Store, error) {
	switch s.Backend {
	case StoreMemory:
		return store.NewMemoryStore(), nil
	case StoreMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{URI: s.MongoURI, Database: s.Database})
	}
	return store.NewFileStore(s.Dir)
}

// GeneratorConfig converts the LLM section for the generate package.
func (l LLMConfig) GeneratorConfig() generate.Config {
	return generate.Config{
		BaseURL: l.BaseURL,
		Model:   l.Model,
		APIKey:  l.APIKey,
		Timeout: l.Timeout,
	}
}
