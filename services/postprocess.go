package services

import (
	"maze-daze/server/config"
	"maze-daze/server/models"
)

// Room entrance sides, clockwise from east
const (
	SideEast = iota
	SideSouth
	SideWest
	SideNorth
)

// LevelPostProcessor reshapes a freshly carved maze according to the level
type LevelPostProcessor struct {
	tuning config.Tuning
}

// NewLevelPostProcessor creates a post-processor for the given tuning
func NewLevelPostProcessor(tuning config.Tuning) *LevelPostProcessor {
	return &LevelPostProcessor{tuning: tuning}
}

// Apply runs every level-gated mutation in pipeline order and returns the
// rooms that were injected
func (pp *LevelPostProcessor) Apply(grid *models.Grid, level int, rng Rand) []models.Room {
	var rooms []models.Room
	if level >= pp.tuning.RoomLevel {
		rooms = pp.ApplyRooms(grid, level, rng)
		pp.WidenPaths(grid, level, rng)
	}
	EnsureExitArea(grid)
	return rooms
}

// ApplyRooms turns some dead-end-ish cells into square rooms. A candidate is
// an open cell with at most two open neighbours whose footprint does not
// overlap a room placed earlier.
func (pp *LevelPostProcessor) ApplyRooms(grid *models.Grid, level int, rng Rand) []models.Room {
	if level < pp.tuning.RoomLevel {
		return nil
	}

	var rooms []models.Room
	for y := 3; y < grid.Rows-3; y++ {
		for x := 3; x < grid.Cols-3; x++ {
			center := models.Position{X: x, Y: y}
			if !grid.IsOpen(x, y) || grid.OpenNeighbors(center) > 2 {
				continue
			}
			if rng.Float64() >= pp.tuning.RoomChance {
				continue
			}

			kind := pickRoomKind(rng)
			size := kind.Config().BaseSize + pp.tuning.RoomSizeBonus
			if overlapsAny(rooms, models.Room{Center: center, Size: size}) {
				continue
			}

			side := rng.Intn(4)
			entrance, _ := CarveRoom(grid, center, size, side)
			rooms = append(rooms, models.Room{Center: center, Size: size, Kind: kind, Entrance: entrance})
		}
	}
	return rooms
}

// pickRoomKind rolls each kind's rarity in registry order; the first hit
// wins and common is the fallback
func pickRoomKind(rng Rand) models.RoomKind {
	for _, k := range models.RoomKinds {
		if rng.Float64() < k.Config().Rarity {
			return k
		}
	}
	return models.RoomKinds[0]
}

func overlapsAny(rooms []models.Room, candidate models.Room) bool {
	for _, r := range rooms {
		if r.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// CarveRoom carves a size x size room around center: perimeter walls, open
// interior and a single entrance in the middle of the chosen side. Cells on
// the grid border are never touched. It returns the entrance cell and
// whether it could be breached.
func CarveRoom(grid *models.Grid, center models.Position, size, side int) (models.Position, bool) {
	half := size / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			x, y := center.X+dx, center.Y+dy
			if !interior(grid, x, y) {
				continue
			}
			if abs(dx) == half || abs(dy) == half {
				grid.Set(x, y, models.CellWall)
			} else {
				grid.Open(x, y)
			}
		}
	}

	entrance := center
	switch side {
	case SideEast:
		entrance.X += half
	case SideSouth:
		entrance.Y += half
	case SideWest:
		entrance.X -= half
	default:
		entrance.Y -= half
	}
	if !interior(grid, entrance.X, entrance.Y) {
		return entrance, false
	}
	grid.Open(entrance.X, entrance.Y)
	return entrance, true
}

func interior(grid *models.Grid, x, y int) bool {
	return x > 0 && x < grid.Cols-1 && y > 0 && y < grid.Rows-1
}

// WidenPaths opens cells to the right of, below and diagonally below-right
// of open cells at a level-scaled probability. Decisions are taken on a
// snapshot so newly opened cells do not cascade. It only ever opens cells,
// so it cannot disconnect anything.
func (pp *LevelPostProcessor) WidenPaths(grid *models.Grid, level int, rng Rand) {
	if level < pp.tuning.RoomLevel {
		return
	}
	prob := pp.tuning.WidenChance(level)
	snapshot := grid.Clone()

	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			if !snapshot.IsOpen(x, y) {
				continue
			}
			if x+1 < grid.Cols && rng.Float64() < prob {
				grid.Open(x+1, y)
			}
			if y+1 < grid.Rows && rng.Float64() < prob {
				grid.Open(x, y+1)
			}
			if x+1 < grid.Cols && y+1 < grid.Rows && rng.Float64() < prob*0.5 {
				grid.Open(x+1, y+1)
			}
		}
	}
}

// EnsureExitArea opens the 3x3 block that has the exit as its corner so the
// goal is never reachable only diagonally
func EnsureExitArea(grid *models.Grid) {
	exit := grid.Exit()
	for dy := 0; dy < 3; dy++ {
		for dx := 0; dx < 3; dx++ {
			grid.Open(exit.X-dx, exit.Y-dy)
		}
	}
}

// AssignWallTypes maps every wall cell to the material tier of the level.
// It is a pure function of the grid and the level.
func (pp *LevelPostProcessor) AssignWallTypes(grid *models.Grid, level int) models.WallTypeMap {
	tier := models.WallTier(pp.tuning.WallTierLevel(level))
	walls := make(models.WallTypeMap)
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			if grid.Cells[y][x] == models.CellWall {
				walls[models.Position{X: x, Y: y}] = tier
			}
		}
	}
	return walls
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
