package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maze-daze/server/config"
	"maze-daze/server/models"
)

func perimeter(center models.Position, size int) []models.Position {
	half := size / 2
	var cells []models.Position
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			if abs(dx) == half || abs(dy) == half {
				cells = append(cells, models.Position{X: center.X + dx, Y: center.Y + dy})
			}
		}
	}
	return cells
}

func TestCarveRoomLeavesSingleEntrance(t *testing.T) {
	center := models.Position{X: 10, Y: 10}
	cases := []struct {
		name     string
		side     int
		entrance models.Position
	}{
		{"east", SideEast, models.Position{X: 12, Y: 10}},
		{"south", SideSouth, models.Position{X: 10, Y: 12}},
		{"west", SideWest, models.Position{X: 8, Y: 10}},
		{"north", SideNorth, models.Position{X: 10, Y: 8}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			size := models.GridSizeForLevel(25)
			grid := Generate(size, size, NewRand(25))

			entrance, ok := CarveRoom(grid, center, 5, c.side)
			require.True(t, ok)
			assert.Equal(t, c.entrance, entrance)

			var open []models.Position
			for _, p := range perimeter(center, 5) {
				if grid.IsOpen(p.X, p.Y) {
					open = append(open, p)
				}
			}
			assert.Equal(t, []models.Position{c.entrance}, open)

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					assert.True(t, grid.IsOpen(center.X+dx, center.Y+dy))
				}
			}
		})
	}
}

func TestCarveRoomNeverTouchesBorder(t *testing.T) {
	grid := models.NewGrid(9, 9)
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			grid.Open(x, y)
		}
	}

	entrance, ok := CarveRoom(grid, models.Position{X: 2, Y: 2}, 5, SideWest)
	assert.False(t, ok)
	assert.Equal(t, models.Position{X: 0, Y: 2}, entrance)
	for i := 0; i < 9; i++ {
		assert.True(t, grid.IsOpen(0, i))
		assert.True(t, grid.IsOpen(i, 0))
	}
	assert.True(t, grid.IsWall(4, 2), "east wall of the room")
}

func TestEnsureExitArea(t *testing.T) {
	grid := models.NewGrid(7, 7)
	EnsureExitArea(grid)

	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			want := x >= 4 && y >= 4
			assert.Equal(t, want, grid.IsOpen(x, y), "cell %d,%d", x, y)
		}
	}
	assert.True(t, grid.IsOpen(grid.Cols-2, grid.Rows-2), "placement fallback cell")
}

func TestAssignWallTypes(t *testing.T) {
	pp := NewLevelPostProcessor(config.DefaultTuning())
	cases := []struct {
		level int
		tier  models.WallTier
	}{
		{1, models.WallBrick},
		{15, models.WallBrick},
		{16, models.WallStone},
		{25, models.WallStone},
		{26, models.WallRuins},
		{60, models.WallRuins},
	}
	for _, c := range cases {
		grid := Generate(11, 11, NewRand(int64(c.level)))
		walls := pp.AssignWallTypes(grid, c.level)

		assert.Len(t, walls, grid.CountWalls())
		for p, tier := range walls {
			require.True(t, grid.IsWall(p.X, p.Y))
			assert.Equal(t, c.tier, tier, "level %d", c.level)
		}
		assert.Equal(t, walls, pp.AssignWallTypes(grid, c.level), "idempotent")
	}
}

func TestApplyBelowRoomLevelOnlyOpensExitArea(t *testing.T) {
	pp := NewLevelPostProcessor(config.DefaultTuning())
	grid := Generate(15, 15, NewRand(5))
	want := grid.Clone()
	EnsureExitArea(want)

	rooms := pp.Apply(grid, 19, NewRand(5))
	assert.Empty(t, rooms)
	assert.Equal(t, want.Cells, grid.Cells)
}

func TestApplyRoomsDoNotOverlap(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.RoomChance = 1
	pp := NewLevelPostProcessor(tuning)
	size := models.GridSizeForLevel(30)
	grid := Generate(size, size, NewRand(30))

	rooms := pp.ApplyRooms(grid, 30, NewRand(30))
	require.NotEmpty(t, rooms)

	for i, a := range rooms {
		assert.Equal(t, a.Kind.Config().BaseSize+tuning.RoomSizeBonus, a.Size)
		assert.True(t, grid.IsOpen(a.Center.X, a.Center.Y))
		for _, b := range rooms[i+1:] {
			reach := a.Size/2 + b.Size/2
			overlap := abs(a.Center.X-b.Center.X) <= reach && abs(a.Center.Y-b.Center.Y) <= reach
			assert.False(t, overlap, "rooms at %v and %v overlap", a.Center, b.Center)
		}
	}
}

func TestWidenPathsOnlyOpens(t *testing.T) {
	pp := NewLevelPostProcessor(config.DefaultTuning())
	grid := Generate(31, 31, NewRand(11))
	before := grid.Clone()

	pp.WidenPaths(grid, 25, NewRand(11))

	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			if before.IsOpen(x, y) {
				assert.True(t, grid.IsOpen(x, y))
			}
		}
	}
	assert.Less(t, grid.CountWalls(), before.CountWalls())

	unchanged := before.Clone()
	pp.WidenPaths(unchanged, 10, NewRand(11))
	assert.Equal(t, before.Cells, unchanged.Cells, "no widening below the room level")
}
