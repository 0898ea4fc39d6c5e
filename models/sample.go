package models

// sampleRows is the 30x20 dungeon section shown by the viewer preview
var sampleRows = []string{
	"                              ",
	"   #######      #######       ",
	"   #.....#      #.....#       ",
	"   #.....#      #.....#       ",
	"   #.....#####  #.....#       ",
	"   #.....++++###......#       ",
	"   #######.....#......#       ",
	"         #.....#......#       ",
	"         #.....###########    ",
	"         #...............#    ",
	"         ########........#    ",
	"                #........#    ",
	"         #######........#     ",
	"         #.........#####      ",
	"         #.....#+++#          ",
	"         #.....########       ",
	"         #............#       ",
	"         ###########++#       ",
	"                   #++#       ",
	"                   ####       ",
}

// SampleGrid returns a fresh copy of the sample dungeon section
func SampleGrid() CellGrid {
	g, err := ParseGrid(sampleRows)
	if err != nil {
		panic("models: sample grid is malformed: " + err.Error())
	}
	return g
}

// SampleStats returns the statistics of the full 40x40 sample dungeon
func SampleStats() GridStats {
	return GridStats{
		Width:         40,
		Height:        40,
		OccupiedTiles: 287,
		TotalTiles:    1600,
		RoomCount:     34,
		ZoomFactor:    1.0,
	}
}

// SampleHelpText returns the feature list of the interactive viewer
func SampleHelpText() []string {
	return []string{
		"Scroll mouse wheel to zoom in/out (0.25x - 3.0x)",
		"Right-click and drag to pan around the dungeon",
		"Use arrow keys for precise panning",
		"Press R to generate a new random dungeon",
		"Camera automatically centers on the generated dungeon",
	}
}
