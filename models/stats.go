package models

import (
	"fmt"
	"math"
)

// Supported zoom range of the interactive viewer's camera
const (
	MinZoom = 0.25
	MaxZoom = 3.0
)

// GridStats summarises a dungeon grid for the preview panel
type GridStats struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	OccupiedTiles int     `json:"occupied_tiles"`
	TotalTiles    int     `json:"total_tiles"`
	RoomCount     int     `json:"room_count"`
	ZoomFactor    float64 `json:"zoom_factor"`
}

// OccupiedPercentage returns 100*occupied/total rounded to one decimal place
func (s GridStats) OccupiedPercentage() float64 {
	if s.TotalTiles == 0 {
		return 0
	}
	return math.Round(1000*float64(s.OccupiedTiles)/float64(s.TotalTiles)) / 10
}

// Validate checks the stats invariants
func (s GridStats) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return &ValidationError{Field: "width/height", Row: -1,
			Reason: fmt.Sprintf("dimensions %dx%d must be positive", s.Width, s.Height)}
	case s.TotalTiles != s.Width*s.Height:
		return &ValidationError{Field: "total_tiles", Row: -1,
			Reason: fmt.Sprintf("total %d does not equal %d*%d", s.TotalTiles, s.Width, s.Height)}
	case s.OccupiedTiles < 0 || s.OccupiedTiles > s.TotalTiles:
		return &ValidationError{Field: "occupied_tiles", Row: -1,
			Reason: fmt.Sprintf("occupied %d outside [0, %d]", s.OccupiedTiles, s.TotalTiles)}
	case s.RoomCount < 0:
		return &ValidationError{Field: "room_count", Row: -1,
			Reason: fmt.Sprintf("room count %d is negative", s.RoomCount)}
	case math.IsNaN(s.ZoomFactor) || s.ZoomFactor < MinZoom || s.ZoomFactor > MaxZoom:
		return &ValidationError{Field: "zoom_factor", Row: -1,
			Reason: fmt.Sprintf("zoom %.2f outside [%.2f, %.2f]", s.ZoomFactor, MinZoom, MaxZoom)}
	}
	return nil
}

// ClampZoom clamps a zoom factor into the supported range
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1.0
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// CountOccupied returns the number of non-empty cells
func CountOccupied(g CellGrid) int {
	n := 0
	for _, row := range g {
		for _, kind := range row {
			if kind.Occupied() {
				n++
			}
		}
	}
	return n
}

// StatsFor derives validated stats for a whole grid
func StatsFor(g CellGrid, zoom float64) (GridStats, error) {
	if err := g.Validate(); err != nil {
		return GridStats{}, err
	}

	stats := GridStats{
		Width:         g.Width(),
		Height:        g.Height(),
		OccupiedTiles: CountOccupied(g),
		TotalTiles:    g.Width() * g.Height(),
		RoomCount:     len(FindRooms(g)),
		ZoomFactor:    zoom,
	}
	if err := stats.Validate(); err != nil {
		return GridStats{}, err
	}
	return stats, nil
}
