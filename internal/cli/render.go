package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lectura/mindmap/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a mind map tree to SVG, PNG, JSON or DOT",
		Long: `Render a mind map tree to one or more formats.

Formats:
  svg       the mind map (default)
  png       the SVG rasterized with rsvg-convert
  json      the layout with stats and, when framed, the viewport
  dot       the tree as a Graphviz digraph
  nodelink  the DOT graph drawn by Graphviz

By default the SVG is exactly the padded content box. --view frames it in
the container with the automatic fit; --fit frames it fit-to-width.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			c.setCLIDefaults(&opts)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: <input>)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot, nodelink (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "container width (default from config)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "container height (default from config)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "deepest level allowed (default from config)")
	cmd.Flags().BoolVar(&opts.Fit, "fit", false, "frame the output fit-to-width")
	cmd.Flags().BoolVar(&opts.View, "view", false, "frame the output with the automatic fit")
	cmd.Flags().StringVar(&opts.Title, "title", "", "document title")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background colour (e.g. #ffffff)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultPNGScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "append node ids to DOT labels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	root, err := readTree(input, stdin)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}
	opts.Tree = root

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := output == "-"
	if toStdout {
		if len(opts.Formats) != 1 {
			return fmt.Errorf("writing to stdout needs exactly one format")
		}
		out = os.Stderr
		defer func() { out = os.Stdout }()
	}

	spinner := newSpinnerWithContext(ctx, "Rendering mind map...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if toStdout {
		return writeOutput("-", result.Artifacts[opts.Formats[0]])
	}

	paths := outputPaths(output, input, opts.Formats)
	printSuccess("Rendered %s", input)
	for _, format := range opts.Formats {
		path := paths[format]
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.Stats, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	c.Logger.Debug("render timings",
		"parse", result.Stats.ParseTime,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)
	return nil
}

// outputPaths names the file for each format. A single format with an
// explicit output writes exactly there; otherwise files share a base path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + pipeline.FormatExt[f]
	}
	return paths
}
