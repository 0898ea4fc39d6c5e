package models

import (
	"fmt"
	"time"
)

// CellKind is the semantic class of one grid position
type CellKind int

// Cell classifications represented as integers for memory efficiency
const (
	CellEmpty CellKind = iota
	CellWall
	CellRoomFloor
	CellCorridor
)

// CellKinds lists every classification in legend order
var CellKinds = []CellKind{CellWall, CellRoomFloor, CellCorridor, CellEmpty}

// String returns the class name used in the legend
func (k CellKind) String() string {
	switch k {
	case CellWall:
		return "Walls"
	case CellRoomFloor:
		return "Rooms"
	case CellCorridor:
		return "Corridors"
	case CellEmpty:
		return "Empty Space"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the known classifications
func (k CellKind) Valid() bool {
	return k >= CellEmpty && k <= CellCorridor
}

// Occupied reports whether the cell counts towards the occupied tile total
func (k CellKind) Occupied() bool {
	return k == CellWall || k == CellRoomFloor || k == CellCorridor
}

// CellGrid is a rectangular grid of classified cells, row-major
type CellGrid [][]CellKind

// Width returns the number of columns of the first row
func (g CellGrid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the number of rows
func (g CellGrid) Height() int {
	return len(g)
}

// At returns the cell at x, y or CellEmpty when out of bounds
func (g CellGrid) At(x, y int) CellKind {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return CellEmpty
	}
	return g[y][x]
}

// Validate checks that the grid is non-empty, rectangular and holds only
// known classifications
func (g CellGrid) Validate() error {
	if len(g) == 0 || len(g[0]) == 0 {
		return &ValidationError{Field: "grid", Row: -1, Reason: "grid is empty"}
	}

	width := len(g[0])
	for i, row := range g {
		if len(row) != width {
			return &ValidationError{
				Field:  "grid",
				Row:    i,
				Reason: "row length differs from row 0",
			}
		}
		for x, k := range row {
			if !k.Valid() {
				return &ValidationError{
					Field:  "grid",
					Row:    i,
					Reason: fmt.Sprintf("unknown cell kind %d at column %d", int(k), x),
				}
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the grid
func (g CellGrid) Clone() CellGrid {
	out := make(CellGrid, len(g))
	for i, row := range g {
		out[i] = append([]CellKind(nil), row...)
	}
	return out
}

// DungeonMap is a named, stored dungeon layout
type DungeonMap struct {
	Name      string    `json:"name"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Cells     CellGrid  `json:"-"`
	Rows      []string  `json:"rows"` // Markup form of Cells for storage
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDungeonMap builds a map from a validated grid
func NewDungeonMap(name string, cells CellGrid) (*DungeonMap, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Row: -1, Reason: "map name is empty"}
	}
	if err := cells.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &DungeonMap{
		Name:      name,
		Width:     cells.Width(),
		Height:    cells.Height(),
		Cells:     cells,
		Rows:      FormatGrid(cells),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Decode rebuilds Cells from the stored markup rows
func (m *DungeonMap) Decode() error {
	cells, err := ParseGrid(m.Rows)
	if err != nil {
		return err
	}
	m.Cells = cells
	m.Width = cells.Width()
	m.Height = cells.Height()
	return nil
}
