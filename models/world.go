package models

// CellType represents the content of a single maze cell
type CellType int

// Cell types, stored as integers so a grid serializes as a compact matrix
const (
	CellOpen CellType = iota
	CellWall
)

const (
	// BaseGridSize is the side of the level 1 grid
	BaseGridSize = 7
	// MaxGridSize caps the grid side for deep levels
	MaxGridSize = 101
)

// GridSizeForLevel returns the (odd) side length of the grid for a level
func GridSizeForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	size := BaseGridSize + 2*(level-1)
	if size > MaxGridSize {
		size = MaxGridSize
	}
	return size
}

// Grid represents the maze map, indexed as Cells[y][x]
type Grid struct {
	Cols  int          `json:"cols"`
	Rows  int          `json:"rows"`
	Cells [][]CellType `json:"cells"`
}

// NewGrid creates a grid filled with walls
func NewGrid(cols, rows int) *Grid {
	cells := make([][]CellType, rows)
	for y := range cells {
		cells[y] = make([]CellType, cols)
		for x := range cells[y] {
			cells[y][x] = CellWall
		}
	}
	return &Grid{Cols: cols, Rows: rows, Cells: cells}
}

// InBounds reports whether a coordinate lies inside the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Cols && y >= 0 && y < g.Rows
}

// IsOpen reports whether the cell is in bounds and walkable
func (g *Grid) IsOpen(x, y int) bool {
	return g.InBounds(x, y) && g.Cells[y][x] == CellOpen
}

// IsWall reports whether the cell is in bounds and a wall
func (g *Grid) IsWall(x, y int) bool {
	return g.InBounds(x, y) && g.Cells[y][x] == CellWall
}

// Set changes a cell; out of bounds writes are ignored
func (g *Grid) Set(x, y int, t CellType) {
	if g.InBounds(x, y) {
		g.Cells[y][x] = t
	}
}

// Open marks a cell walkable
func (g *Grid) Open(x, y int) {
	g.Set(x, y, CellOpen)
}

// Start returns the player's spawn cell
func (g *Grid) Start() Position {
	return Position{X: 0, Y: 0}
}

// Exit returns the goal cell in the opposite corner
func (g *Grid) Exit() Position {
	return Position{X: g.Cols - 1, Y: g.Rows - 1}
}

// OpenNeighbors counts the walkable 4-neighbours of a cell
func (g *Grid) OpenNeighbors(p Position) int {
	n := 0
	for _, d := range Directions {
		if g.IsOpen(p.X+d.X, p.Y+d.Y) {
			n++
		}
	}
	return n
}

// CountWalls returns the number of wall cells
func (g *Grid) CountWalls() int {
	n := 0
	for y := range g.Cells {
		for x := range g.Cells[y] {
			if g.Cells[y][x] == CellWall {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	cells := make([][]CellType, len(g.Cells))
	for y := range g.Cells {
		cells[y] = append([]CellType(nil), g.Cells[y]...)
	}
	return &Grid{Cols: g.Cols, Rows: g.Rows, Cells: cells}
}

// WallTier is the material used to draw a wall cell
type WallTier int

// Wall tiers
const (
	WallBrick WallTier = iota + 1
	WallStone
	WallRuins
)

// String returns the material name of the tier
func (t WallTier) String() string {
	switch t {
	case WallBrick:
		return "brick"
	case WallStone:
		return "stone"
	case WallRuins:
		return "ruins"
	default:
		return "unknown"
	}
}

// WallTypeMap maps wall cells to their material tier
type WallTypeMap map[Position]WallTier

// FogState tells a renderer how much of a cell the player knows about
type FogState int

// Fog states
const (
	FogUnseen FogState = iota
	FogSeen
	FogVisible
)
