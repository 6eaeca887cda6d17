package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lectura/mindmap/pkg/generate"
	"github.com/lectura/mindmap/pkg/mindmap"
	"github.com/lectura/mindmap/pkg/store"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		title   string
		output  string
		save    bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "generate [notes.txt]",
		Short: "Generate a mind map tree from notes",
		Long: `Generate a mind map tree from free-form notes.

The notes are sent to the configured OpenAI-compatible model (Groq by
default; set GROQ_API_KEY or MINDMAP_LLM_API_KEY). A reply that is not a
usable tree falls back to a two-topic placeholder under the title.

Use "-" to read the notes from stdin. --save also stores the mind map.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], title, output, save, noCache)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "title of the root node (default: "+generate.DefaultTitle+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.json, - for stdout)")
	cmd.Flags().BoolVar(&save, "save", false, "store the generated mind map")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) newGenerator(ctx context.Context, noCache bool) (*generate.OpenAIGenerator, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return generate.NewOpenAIGenerator(c.Config.LLM.GeneratorConfig(),
		generate.WithCache(ch, nil),
		generate.WithLogger(c.Logger))
}

func (c *CLI) runGenerate(ctx context.Context, input, title, output string, save, noCache bool) error {
	content, err := readContent(input)
	if err != nil {
		return err
	}
	req := generate.Request{Title: title, Content: content}
	if err := req.Validate(); err != nil {
		return err
	}

	gen, err := c.newGenerator(ctx, noCache)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating with %s...", gen.Model()))
	spinner.Start()
	root, err := gen.Generate(ctx, req)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()
	prog.done("Generated mind map")

	data, err := mindmap.MarshalTree(root)
	if err != nil {
		return err
	}
	if output == "" {
		output = basePath("", input) + ".json"
		if input == "-" {
			output = "-"
		}
	}
	if err := writeOutput(output, data); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	if output == "-" {
		out = os.Stderr
		defer func() { out = os.Stdout }()
	} else {
		printSuccess("Generated %q", root.Text)
		printFile(output)
	}
	stats, _ := mindmap.TreeStats(root)
	printStats(stats, false)

	if save {
		st, err := c.newStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close(ctx)
		m := &store.MindMap{Title: req.RootTitle(), Root: root}
		if err := st.Save(ctx, m); err != nil {
			return fmt.Errorf("save mind map: %w", err)
		}
		printKeyValue("Saved as", m.ID)
	}
	if output != "-" {
		printNewline()
		printNextStep("Render", appName+" render "+output)
	}
	return nil
}

// readContent reads notes from a file, or from stdin when input is "-".
func readContent(input string) (string, error) {
	var (
		data []byte
		err  error
	)
	if input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return "", fmt.Errorf("read notes %s: %w", input, err)
	}
	return string(data), nil
}
