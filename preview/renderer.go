// Package preview renders the text mock-up of the dungeon viewer: a controls
// and stats panel, the bordered glyph grid, a legend and the feature list.
package preview

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"dungeon-viewer/previewer/models"
)

// Layout widths are fixed; grids wider than gridRuleWidth overflow the rules.
const (
	ruleWidth     = 70
	panelWidth    = 65
	controlsWidth = 25
	statsWidth    = 39
	gridRuleWidth = 62
	shadeWidth    = 11
)

// DefaultHostHint points at the application hosting the real viewer
const DefaultHostHint = "Open in Godot 4.3+ and press F5 to see the actual viewer!"

const title = "DUNGEON VIEWER - VISUAL PREVIEW"

// controls are the key and mouse bindings listed in the panel's left column
var controls = []string{
	"Controls:",
	"Mouse Wheel: Zoom",
	"Right Click + Drag: Pan",
	"Arrow Keys: Pan",
	"R: Regenerate",
}

// Options configures a Renderer
type Options struct {
	// Color paints grid glyphs and legend swatches with ANSI colours
	Color bool
	// HostHint replaces DefaultHostHint when non-empty
	HostHint string
}

// Renderer composes preview reports. It holds no mutable state and is safe
// for concurrent use; concurrent writes to one sink must be serialised by
// the sink.
type Renderer struct {
	hostHint string
	palette  palette
}

// NewRenderer creates a renderer with the given options
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{hostHint: opts.HostHint}
	if r.hostHint == "" {
		r.hostHint = DefaultHostHint
	}
	if opts.Color {
		lr := lipgloss.NewRenderer(io.Discard)
		lr.SetColorProfile(termenv.ANSI256)
		r.palette = newPalette(lr)
	}
	return r
}

// Render writes the plain preview report to w
func Render(w io.Writer, stats models.GridStats, grid models.CellGrid, help []string) error {
	return NewRenderer(Options{}).Render(w, stats, grid, help)
}

// Render validates its inputs and writes the report to w. Nothing is written
// when validation fails.
func (r *Renderer) Render(w io.Writer, stats models.GridStats, grid models.CellGrid, help []string) error {
	lines, err := r.Lines(stats, grid, help)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}

// Lines validates its inputs and returns the report one line per element
func (r *Renderer) Lines(stats models.GridStats, grid models.CellGrid, help []string) ([]string, error) {
	if err := stats.Validate(); err != nil {
		return nil, err
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	lines := make([]string, 0, 32+grid.Height()+len(help))
	lines = r.banner(lines)
	lines = r.panel(lines, stats)
	lines = r.gridSection(lines, grid)
	lines = r.legend(lines)
	lines = r.features(lines, help)
	lines = r.footer(lines)
	return lines, nil
}

func (r *Renderer) banner(lines []string) []string {
	rule := strings.Repeat("=", ruleWidth)
	return append(lines, "", rule, " "+title, rule)
}

func (r *Renderer) panel(lines []string, stats models.GridStats) []string {
	statLines := []string{
		fmt.Sprintf("Grid: %dx%d", stats.Width, stats.Height),
		fmt.Sprintf("Tiles: %d (%.1f%%)", stats.OccupiedTiles, stats.OccupiedPercentage()),
		fmt.Sprintf("Rooms: %d", stats.RoomCount),
		fmt.Sprintf("Zoom: %.2fx", stats.ZoomFactor),
	}

	border := strings.Repeat("─", panelWidth)
	lines = append(lines, "", "┌"+border+"┐")
	for i := 0; i < max(len(controls), len(statLines)); i++ {
		var left, right string
		if i < len(controls) {
			left = controls[i]
		}
		if i < len(statLines) {
			right = statLines[i]
		}
		lines = append(lines, "│ "+
			runewidth.FillRight(left, controlsWidth)+
			runewidth.FillRight(right, statsWidth)+"│")
	}
	return append(lines, "└"+border+"┘")
}

func (r *Renderer) gridSection(lines []string, grid models.CellGrid) []string {
	rule := "  " + strings.Repeat("─", gridRuleWidth)
	lines = append(lines, "",
		fmt.Sprintf("  Dungeon View (sample %dx%d section):", grid.Width(), grid.Height()),
		rule)
	for _, row := range grid {
		lines = append(lines, "  │"+r.gridRow(row)+"│")
	}
	return append(lines, rule)
}

// gridRow maps a row to glyphs, painting runs of equal cells together
func (r *Renderer) gridRow(row []models.CellKind) string {
	var sb strings.Builder
	for i := 0; i < len(row); {
		j := i + 1
		for j < len(row) && row[j] == row[i] {
			j++
		}
		sb.WriteString(r.palette.paint(row[i], strings.Repeat(string(Glyph(row[i])), j-i)))
		i = j
	}
	return sb.String()
}

func (r *Renderer) legend(lines []string) []string {
	lines = append(lines, "", "  Legend:")
	for _, e := range legend {
		lines = append(lines, "  "+r.palette.paint(e.kind, e.swatch)+"  "+
			runewidth.FillRight(e.shade, shadeWidth)+"- "+e.kind.String())
	}
	return lines
}

func (r *Renderer) features(lines []string, help []string) []string {
	if len(help) == 0 {
		return lines
	}
	lines = append(lines, "", "  Interactive Features:")
	for _, h := range help {
		lines = append(lines, "  • "+h)
	}
	return lines
}

func (r *Renderer) footer(lines []string) []string {
	rule := strings.Repeat("=", ruleWidth)
	return append(lines, "", rule, " "+r.hostHint, rule, "")
}
