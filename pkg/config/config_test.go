package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lectura/mindmap/pkg/cache"
	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/store"
)

// isolate points every lookup at t's temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{
		"GROQ_API_KEY", "MINDMAP_LLM_API_KEY", "MINDMAP_CACHE_BACKEND",
		"MINDMAP_LAYOUT_WIDTH", "MINDMAP_SERVER_ADDR", "MINDMAP_STORE_BACKEND",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load without sources mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "mindmap", "config.toml"), `
[server]
addr = ":9090"

[layout]
width = 1024
height = 700

[cache]
backend = "none"

[llm]
model = "llama"
timeout = "5s"
`)
	t.Setenv("MINDMAP_LAYOUT_WIDTH", "1280")
	t.Setenv("GROQ_API_KEY", "groq-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Server.Addr = ":9090"
	want.Layout.Width = 1280 // env wins over file
	want.Layout.Height = 700
	want.Cache.Backend = CacheNone
	want.LLM.Model = "llama"
	want.LLM.Timeout = 5 * time.Second
	want.LLM.APIKey = "groq-key"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAPIKeyPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("MINDMAP_LLM_API_KEY", "own-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "own-key" {
		t.Errorf("APIKey = %q, want own-key", cfg.LLM.APIKey)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name    string
		content string
		env     map[string]string
		code    apperr.Code
	}{
		{"unknown key", "[cache]\nbackendd = \"file\"\n", nil, apperr.ErrCodeInvalidInput},
		{"bad toml", "[cache\n", nil, apperr.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", nil, apperr.ErrCodeInvalidInput},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n", nil, apperr.ErrCodeInvalidInput},
		{"bad size", "[layout]\nwidth = -5\n", nil, apperr.ErrCodeInvalidSize},
		{"bad env", "", map[string]string{"MINDMAP_LAYOUT_WIDTH": "wide"}, apperr.ErrCodeInvalidInput},
		{"bad base url", "[llm]\nbase_url = \"ftp://models.local\"\n", nil, apperr.ErrCodeInvalidInput},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(dir, "case", string(rune('a'+i))+".toml")
			writeFile(t, path, tt.content)
			if _, err := Load(path); !apperr.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestOpenBackends(t *testing.T) {
	dir := isolate(t)
	ctx := context.Background()

	c, err := CacheConfig{Backend: CacheNone}.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	c, err = Default().Cache.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("file backend = %T", c)
	}
	if want := filepath.Join(dir, "cache", "mindmap"); fc.Dir() != want {
		t.Errorf("cache dir = %s, want %s", fc.Dir(), want)
	}

	s, err := StoreConfig{Backend: StoreMemory}.OpenStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("memory backend = %T", s)
	}

	s, err = StoreConfig{Backend: StoreFile, Dir: filepath.Join(dir, "maps")}.OpenStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fs, ok := s.(*store.FileStore); !ok || fs.Path() != filepath.Join(dir, "maps") {
		t.Errorf("file backend = %T", s)
	}
}
