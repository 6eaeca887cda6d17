package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lectura/mindmap/pkg/mindmap"
	"github.com/lectura/mindmap/pkg/store"
)

// mapsCommand manages stored mind maps.
func (c *CLI) mapsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Manage stored mind maps",
	}

	cmd.AddCommand(c.mapsListCommand())
	cmd.AddCommand(c.mapsShowCommand())
	cmd.AddCommand(c.mapsDeleteCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)
	return fn(st)
}

func (c *CLI) mapsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored mind maps, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				all, err := st.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(all) == 0 {
					printInfo("No stored mind maps")
					return nil
				}
				fmt.Fprintln(out, mapsTable(all))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of mind maps")
	return cmd
}

func mapsTable(all []*store.MindMap) string {
	rows := make([][]string, 0, len(all))
	for _, m := range all {
		stats, _ := mindmap.TreeStats(m.Root)
		rows = append(rows, []string{m.ID, m.Title, fmt.Sprint(stats.Nodes), m.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Nodes", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func (c *CLI) mapsShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print or export the tree of a stored mind map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				m, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				data, err := mindmap.MarshalTree(m.Root)
				if err != nil {
					return err
				}
				if output == "" {
					output = "-"
				}
				if err := writeOutput(output, data); err != nil {
					return err
				}
				if output != "-" {
					printSuccess("Exported %q", m.Title)
					printFile(output)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) mapsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored mind map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}
