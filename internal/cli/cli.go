// Package cli implements the mindmap command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lectura/mindmap/pkg/buildinfo"
	"github.com/lectura/mindmap/pkg/cache"
	"github.com/lectura/mindmap/pkg/config"
	"github.com/lectura/mindmap/pkg/mindmap"
	"github.com/lectura/mindmap/pkg/pipeline"
	"github.com/lectura/mindmap/pkg/store"
)

const appName = "mindmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration is reloaded before each command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Mindmap lays out and renders mind maps",
		Long: `Mindmap turns hierarchical notes into top-down mind maps.

It generates mind map trees from free-form notes with an OpenAI-compatible
model, lays them out level by level, renders them to SVG, PNG, JSON or DOT,
and serves the same operations over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.mapsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner over the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache opens the configured cache. A file cache that cannot be created
// degrades to no caching; other backends fail loudly.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := c.Config.Cache.OpenCache(ctx)
	if err != nil && c.Config.Cache.Backend == config.CacheFile {
		c.Logger.Warn("file cache unavailable, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, err
}

func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	return c.Config.Store.OpenStore(ctx)
}

// setCLIDefaults applies the configured layout defaults on top of the
// pipeline defaults.
func (c *CLI) setCLIDefaults(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = c.Config.Layout.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Config.Layout.Height
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = c.Config.Layout.MaxDepth
	}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	opts.Logger = c.Logger
}

// readTree loads a tree from a file, or from stdin when input is "-".
func readTree(input string, stdin io.Reader) (*mindmap.Node, error) {
	if input == "-" {
		return mindmap.ReadTree(stdin)
	}
	return mindmap.ReadTreeFile(input)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the output base path from the output and input paths.
// Known artifact extensions are stripped from output; an empty output
// strips the extension from input. Reading stdin defaults to "mindmap".
func basePath(output, input string) string {
	if output == "" {
		if input == "-" || input == "" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	exts := slices.Collect(maps.Values(pipeline.FormatExt))
	slices.SortFunc(exts, func(a, b string) int { return len(b) - len(a) })
	for _, ext := range exts {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
