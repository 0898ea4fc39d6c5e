package models

import (
	"fmt"
	"strings"
)

// Markup characters used to store grids as text rows
const (
	MarkWall      = '#'
	MarkRoomFloor = '.'
	MarkCorridor  = '+'
	MarkEmpty     = ' '
)

// ParseGrid builds a grid from markup rows. The preview glyphs are accepted
// too: '█' wall, '░' room floor and '▒' corridor.
func ParseGrid(rows []string) (CellGrid, error) {
	grid := make(CellGrid, 0, len(rows))
	for y, row := range rows {
		cells := make([]CellKind, 0, len(row))
		for x, r := range []rune(row) {
			switch r {
			case MarkWall, '█':
				cells = append(cells, CellWall)
			case MarkRoomFloor, '░':
				cells = append(cells, CellRoomFloor)
			case MarkCorridor, '▒':
				cells = append(cells, CellCorridor)
			case MarkEmpty:
				cells = append(cells, CellEmpty)
			default:
				return nil, &ValidationError{
					Field:  "grid",
					Row:    y,
					Reason: fmt.Sprintf("unknown cell %q at column %d", r, x),
				}
			}
		}
		grid = append(grid, cells)
	}

	if err := grid.Validate(); err != nil {
		return nil, err
	}
	return grid, nil
}

// FormatGrid renders a grid back to markup rows
func FormatGrid(g CellGrid) []string {
	rows := make([]string, len(g))
	var sb strings.Builder
	for y, row := range g {
		sb.Reset()
		for _, kind := range row {
			switch kind {
			case CellWall:
				sb.WriteByte(MarkWall)
			case CellRoomFloor:
				sb.WriteByte(MarkRoomFloor)
			case CellCorridor:
				sb.WriteByte(MarkCorridor)
			default:
				sb.WriteByte(MarkEmpty)
			}
		}
		rows[y] = sb.String()
	}
	return rows
}
