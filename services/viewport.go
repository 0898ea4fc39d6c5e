package services

import (
	"dungeon-viewer/previewer/models"
)

// Default section size shown in the preview
const (
	DefaultSectionWidth  = 30
	DefaultSectionHeight = 20
)

// Viewport crops fixed-size sections out of larger grids
type Viewport struct {
	width  int
	height int
}

// NewViewport creates a viewport of the given section size
func NewViewport(width, height int) *Viewport {
	if width <= 0 {
		width = DefaultSectionWidth
	}
	if height <= 0 {
		height = DefaultSectionHeight
	}
	return &Viewport{width: width, height: height}
}

// Size returns the section dimensions
func (v *Viewport) Size() (int, int) {
	return v.width, v.height
}

// sectionSize shrinks the section to the grid where the grid is smaller
func (v *Viewport) sectionSize(g models.CellGrid) (int, int) {
	return min(v.width, g.Width()), min(v.height, g.Height())
}

// Crop returns the section centred on the grid, the way the viewer's camera
// centres on a freshly generated dungeon
func (v *Viewport) Crop(g models.CellGrid) models.CellGrid {
	w, h := v.sectionSize(g)
	if w == g.Width() && h == g.Height() {
		return g.Clone()
	}
	return v.crop(g, (g.Width()-w)/2, (g.Height()-h)/2, w, h)
}

// CropAt returns the section centred on centerX, centerY. Cells outside the
// grid are empty.
func (v *Viewport) CropAt(g models.CellGrid, centerX, centerY int) models.CellGrid {
	w, h := v.sectionSize(g)
	return v.crop(g, centerX-w/2, centerY-h/2, w, h)
}

func (v *Viewport) crop(g models.CellGrid, originX, originY, w, h int) models.CellGrid {
	section := make(models.CellGrid, h)
	for i := 0; i < h; i++ {
		section[i] = make([]models.CellKind, w)
		for j := 0; j < w; j++ {
			section[i][j] = g.At(originX+j, originY+i)
		}
	}
	return section
}
