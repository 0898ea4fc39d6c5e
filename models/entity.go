package models

// Position is a cell coordinate within a grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Room is one connected area of room-floor cells
type Room struct {
	ID    int      `json:"id"`
	Min   Position `json:"min"` // Top-left corner of the bounding box
	Max   Position `json:"max"` // Bottom-right corner, inclusive
	Tiles int      `json:"tiles"`
}

// Width returns the bounding box width
func (r Room) Width() int {
	return r.Max.X - r.Min.X + 1
}

// Height returns the bounding box height
func (r Room) Height() int {
	return r.Max.Y - r.Min.Y + 1
}

// FindRooms labels 4-connected regions of room floor, scanning row-major
func FindRooms(g CellGrid) []Room {
	seen := make([][]bool, len(g))
	for i, row := range g {
		seen[i] = make([]bool, len(row))
	}

	var rooms []Room
	var stack []Position
	for y, row := range g {
		for x, kind := range row {
			if kind != CellRoomFloor || seen[y][x] {
				continue
			}

			room := Room{ID: len(rooms) + 1, Min: Position{x, y}, Max: Position{x, y}}
			seen[y][x] = true
			stack = append(stack[:0], Position{x, y})

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				room.Tiles++
				room.Min.X = min(room.Min.X, p.X)
				room.Min.Y = min(room.Min.Y, p.Y)
				room.Max.X = max(room.Max.X, p.X)
				room.Max.Y = max(room.Max.Y, p.Y)

				for _, n := range [4]Position{{p.X + 1, p.Y}, {p.X - 1, p.Y}, {p.X, p.Y + 1}, {p.X, p.Y - 1}} {
					if n.Y < 0 || n.Y >= len(g) || n.X < 0 || n.X >= len(g[n.Y]) {
						continue
					}
					if seen[n.Y][n.X] || g[n.Y][n.X] != CellRoomFloor {
						continue
					}
					seen[n.Y][n.X] = true
					stack = append(stack, n)
				}
			}

			rooms = append(rooms, room)
		}
	}
	return rooms
}
