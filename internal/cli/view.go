package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lectura/mindmap/pkg/mindmap"
	"github.com/lectura/mindmap/pkg/pipeline"
)

const (
	wheelStep   = 120.0 // wheel delta per zoom key press or wheel notch
	panStepCols = 4     // cells panned per arrow key
	edgeSamples = 24    // points plotted per edge curve
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		id      string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "view [tree.json]",
		Short: "Explore a mind map in the terminal",
		Long: `Explore a mind map in the terminal.

Keys:
  + / -          zoom in / out (mouse wheel works too)
  arrows, hjkl   pan (or drag with the mouse)
  f              fit to width
  r              reset to the automatic fit
  q              quit

Click a node to show its full label. Pass --id to open a stored mind map
instead of a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.setCLIDefaults(&opts)
			ctx := cmd.Context()

			root, title, err := c.loadViewTree(ctx, args, id)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			l, err := runner.ComputeLayout(ctx, root, opts)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newViewModel(l, title),
				tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "open a stored mind map by id")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "container width (default from config)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "container height (default from config)")

	return cmd
}

func (c *CLI) loadViewTree(ctx context.Context, args []string, id string) (*mindmap.Node, string, error) {
	switch {
	case id != "" && len(args) > 0:
		return nil, "", fmt.Errorf("pass either a file or --id, not both")
	case id != "":
		st, err := c.newStore(ctx)
		if err != nil {
			return nil, "", err
		}
		defer st.Close(ctx)
		m, err := st.Get(ctx, id)
		if err != nil {
			return nil, "", err
		}
		return m.Root, m.Title, nil
	case len(args) == 1:
		root, err := readTree(args[0], stdin)
		if err != nil {
			return nil, "", err
		}
		return root, root.Text, nil
	}
	return nil, "", fmt.Errorf("nothing to view: pass a tree file or --id")
}

// viewModel is the bubbletea model of the terminal viewer. Terminal cells
// map linearly onto the layout's container, so one ViewTransform drives both
// the SVG framing and this view.
type viewModel struct {
	layout mindmap.Layout
	view   *mindmap.ViewTransform
	title  string
	status string
	cols   int
	rows   int
}

func newViewModel(l mindmap.Layout, title string) viewModel {
	return viewModel{layout: l, view: mindmap.NewViewTransform(), title: title, cols: 80, rows: 22}
}

func (m viewModel) Init() tea.Cmd { return nil }

// cellSize is the container size of one terminal cell in pixels.
func (m viewModel) cellSize() (float64, float64) {
	return m.layout.ContainerWidth / float64(m.cols), m.layout.ContainerHeight / float64(m.rows)
}

// toPixels maps a terminal cell to container pixels. The canvas starts on
// the second terminal row.
func (m viewModel) toPixels(x, y int) (float64, float64) {
	cw, ch := m.cellSize()
	return (float64(x) + 0.5) * cw, (float64(y-1) + 0.5) * ch
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 20)
		m.rows = max(msg.Height-2, 5)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m viewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cw, ch := m.cellSize()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "+", "=":
		m.view.Wheel(-wheelStep)
	case "-", "_":
		m.view.Wheel(wheelStep)
	case "left", "h":
		m.pan(panStepCols*cw, 0)
	case "right", "l":
		m.pan(-panStepCols*cw, 0)
	case "up", "k":
		m.pan(0, panStepCols*ch/2)
	case "down", "j":
		m.pan(0, -panStepCols*ch/2)
	case "f":
		m.view.FitToWidth(m.layout)
	case "r":
		m.view.Reset()
	}
	return m, nil
}

// pan moves the view by (dx, dy) container pixels as a drag would.
func (m viewModel) pan(dx, dy float64) {
	m.view.DragStart(0, 0)
	m.view.DragMove(dx, dy)
	m.view.DragEnd()
}

func (m *viewModel) handleMouse(msg tea.MouseMsg) {
	px, py := m.toPixels(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.view.Wheel(-wheelStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.view.Wheel(wheelStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.view.DragStart(px, py)
		vp := mindmap.NewViewport(m.layout, m.view)
		if id, ok := vp.HitTest(m.layout, px, py); ok {
			n, _ := m.layout.Node(id)
			m.status = n.Text
		} else {
			m.status = ""
		}
	case msg.Action == tea.MouseActionMotion && m.view.Dragging():
		m.view.DragMove(px, py)
	case msg.Action == tea.MouseActionRelease:
		m.view.DragEnd()
	}
}

func (m viewModel) View() string {
	vp := mindmap.NewViewport(m.layout, m.view)
	cv := drawCanvas(m.layout, vp, m.cols, m.rows)

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %.0f%%", vp.Scale*100)))
	b.WriteString("\n")
	b.WriteString(cv.render())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleValue.Render(m.status))
	} else {
		b.WriteString(StyleDim.Render("+/- zoom  arrows pan  f fit  r reset  q quit"))
	}
	return b.String()
}

// canvas is a grid of terminal cells. style 0 is blank, -1 an edge, and
// n > 0 a node at level n-1.
type canvas struct {
	cols, rows int
	cells      [][]rune
	style      [][]int
}

func newCanvas(cols, rows int) *canvas {
	cv := &canvas{cols: cols, rows: rows, cells: make([][]rune, rows), style: make([][]int, rows)}
	for y := range rows {
		cv.cells[y] = []rune(strings.Repeat(" ", cols))
		cv.style[y] = make([]int, cols)
	}
	return cv
}

func (cv *canvas) set(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= cv.cols || y >= cv.rows {
		return
	}
	cv.cells[y][x] = r
	cv.style[y][x] = style
}

// drawCanvas projects l through vp onto a cols x rows grid: edges first as
// sampled curves, then each node as its label centred on the node.
func drawCanvas(l mindmap.Layout, vp mindmap.Viewport, cols, rows int) *canvas {
	cv := newCanvas(cols, rows)
	if l.IsEmpty() {
		msg := "No mind map data available"
		for i, r := range []rune(msg) {
			cv.set((cols-len(msg))/2+i, rows/2, r, 0)
		}
		return cv
	}
	cw, ch := vp.ContainerWidth/float64(cols), vp.ContainerHeight/float64(rows)
	cell := func(x, y float64) (int, int) {
		px, py := vp.Project(x, y)
		return int(math.Floor(px / cw)), int(math.Floor(py / ch))
	}

	for _, e := range l.Edges {
		for i := 0; i <= edgeSamples; i++ {
			x, y := bezier(e, float64(i)/edgeSamples)
			cx, cy := cell(x, y)
			cv.set(cx, cy, '·', -1)
		}
	}
	for _, n := range l.Nodes {
		label := []rune(" " + n.Text + " ")
		span := max(int(math.Round(n.Width*vp.Scale/cw)), 3)
		if len(label) > span {
			label = append(label[:span-1], '…')
		}
		cx, cy := cell(n.X, n.Y)
		start := cx - len(label)/2
		for i, r := range label {
			cv.set(start+i, cy, r, n.Level+1)
		}
	}
	return cv
}

// bezier evaluates the cubic curve of e at t in [0, 1].
func bezier(e mindmap.LayoutEdge, t float64) (float64, float64) {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return a*e.X1 + b*e.C1X + c*e.C2X + d*e.X2, a*e.Y1 + b*e.C1Y + c*e.C2Y + d*e.Y2
}

// plain returns the grid without styling.
func (cv *canvas) plain() []string {
	out := make([]string, cv.rows)
	for y, row := range cv.cells {
		out[y] = string(row)
	}
	return out
}

func (cv *canvas) render() string {
	edgeStyle := lipgloss.NewStyle().Foreground(colorDim)
	lines := make([]string, cv.rows)
	for y := range cv.rows {
		var b strings.Builder
		for x := 0; x < cv.cols; {
			end := x
			for end < cv.cols && cv.style[y][end] == cv.style[y][x] {
				end++
			}
			run := string(cv.cells[y][x:end])
			switch s := cv.style[y][x]; {
			case s == -1:
				b.WriteString(edgeStyle.Render(run))
			case s > 0:
				colors := mindmap.StyleFor(s-1, nil).Colors
				b.WriteString(lipgloss.NewStyle().
					Background(lipgloss.Color(colors.Fill)).
					Foreground(lipgloss.Color(colors.Text)).
					Render(run))
			default:
				b.WriteString(run)
			}
			x = end
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
