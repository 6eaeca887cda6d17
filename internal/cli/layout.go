package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lectura/mindmap/pkg/mindmap"
	"github.com/lectura/mindmap/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute the positioned layout of a mind map tree",
		Long: `Compute the positioned layout of a mind map tree.

The input is a tree in the generator's JSON shape, either a bare root node
or {"mindMap": root}. Use "-" to read stdin. The output is a layout.json file
with node positions, edge curves and container metrics, which 'render' and
'view' also accept through the tree they were computed from.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.setCLIDefaults(&opts)
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "container width (default from config)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "container height (default from config)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "deepest level allowed (default from config)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	root, err := readTree(input, stdin)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + pipeline.FormatExt[pipeline.FormatJSON]
	}
	data, err := mindmap.MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(pipeline.LayoutStats(l), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}
