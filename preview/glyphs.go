package preview

import (
	"github.com/charmbracelet/lipgloss"

	"dungeon-viewer/previewer/models"
)

// Glyphs used in the grid section
const (
	GlyphWall   = '█'
	GlyphShaded = '░'
	GlyphEmpty  = ' '
)

// Glyph maps a cell classification to its display character
func Glyph(k models.CellKind) rune {
	switch k {
	case models.CellWall:
		return GlyphWall
	case models.CellRoomFloor, models.CellCorridor:
		return GlyphShaded
	default:
		return GlyphEmpty
	}
}

// legendEntry is one line of the legend block
type legendEntry struct {
	kind   models.CellKind
	shade  string
	swatch string
}

// legend follows models.CellKinds order
var legend = []legendEntry{
	{models.CellWall, "Dark Gray", "███"},
	{models.CellRoomFloor, "Light", "░░░"},
	{models.CellCorridor, "Medium", "░░░"},
	{models.CellEmpty, "Dark", "   "},
}

// palette colours glyphs by classification
type palette map[models.CellKind]lipgloss.Style

func newPalette(r *lipgloss.Renderer) palette {
	return palette{
		models.CellWall:      r.NewStyle().Foreground(lipgloss.Color("#4a4a4a")),
		models.CellRoomFloor: r.NewStyle().Foreground(lipgloss.Color("#d8d8d8")),
		models.CellCorridor:  r.NewStyle().Foreground(lipgloss.Color("#9a9a9a")),
		models.CellEmpty:     r.NewStyle().Background(lipgloss.Color("#1a1a1a")),
	}
}

// paint styles s for kind, or returns it unchanged when p is nil
func (p palette) paint(kind models.CellKind, s string) string {
	if p == nil {
		return s
	}
	style, ok := p[kind]
	if !ok {
		return s
	}
	return style.Render(s)
}
