package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"

	"maze-daze/server/config"
	"maze-daze/server/models"
)

func TestRandomOpenCellHonorsExclusions(t *testing.T) {
	grid := Generate(7, 7, NewRand(2))
	EnsureExitArea(grid)
	placer := NewEntityPlacer(config.DefaultTuning(), NewRand(2))

	exclude := mapset.New[models.Position]()
	exclude.Put(models.Position{X: 0, Y: 0})
	exclude.Put(models.Position{X: 6, Y: 6})

	for i := 0; i < 500; i++ {
		p, ok := placer.RandomOpenCell(grid, exclude)
		require.True(t, ok)
		assert.NotEqual(t, models.Position{X: 0, Y: 0}, p)
		assert.NotEqual(t, models.Position{X: 6, Y: 6}, p)
		assert.True(t, grid.IsOpen(p.X, p.Y))
		assert.False(t, p.X <= 1 && p.Y <= 1, "start block %v", p)
	}
}

func TestRandomOpenCellFallback(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.MaxPlacementAttempts = 10
	placer := NewEntityPlacer(tuning, NewRand(1))
	grid := models.NewGrid(7, 7)

	p, ok := placer.RandomOpenCell(grid, mapset.New[models.Position]())
	assert.False(t, ok)
	assert.Equal(t, models.Position{X: 5, Y: 5}, p)
}

func TestPlaceAllKeepsEntitiesApart(t *testing.T) {
	tuning := config.DefaultTuning()
	level := 30
	size := models.GridSizeForLevel(level)
	rng := NewRand(30)
	grid := Generate(size, size, rng)
	pp := NewLevelPostProcessor(tuning)
	rooms := pp.Apply(grid, level, rng)

	state := &models.LevelState{Level: level, Grid: grid, Rooms: rooms}
	NewEntityPlacer(tuning, rng).PlaceAll(state)

	require.GreaterOrEqual(t, len(state.Treasures), 2)
	assert.Equal(t, models.ItemKey, state.Treasures[0].Kind)
	assert.Equal(t, models.ItemBook, state.Treasures[1].Kind)
	assert.Len(t, state.NPCs, 3)
	assert.Len(t, state.Enemies, 2)

	taken := mapset.New[models.Position]()
	taken.Put(grid.Start())
	taken.Put(grid.Exit())
	for _, tr := range state.Treasures {
		assert.False(t, taken.Has(tr.Pos), "treasure %s on a taken cell", tr.Kind)
		assert.True(t, grid.IsOpen(tr.Pos.X, tr.Pos.Y))
		taken.Put(tr.Pos)
	}
	for i, n := range state.NPCs {
		assert.Equal(t, i, n.Index)
		assert.Equal(t, n.Kind.Config().Role, n.Role)
		assert.False(t, taken.Has(n.Pos), "npc %d on a taken cell", i)
		taken.Put(n.Pos)
	}
	for _, e := range state.Enemies {
		assert.True(t, grid.IsOpen(e.Pos.X, e.Pos.Y))
		assert.NotEqual(t, grid.Start(), e.Pos)
		assert.Equal(t, e.Kind.Config().Stats, e.Stats)
	}
}

func TestPlaceAllEarlyLevel(t *testing.T) {
	grid := Generate(7, 7, NewRand(4))
	EnsureExitArea(grid)
	state := &models.LevelState{Level: 1, Grid: grid}
	NewEntityPlacer(config.DefaultTuning(), NewRand(4)).PlaceAll(state)

	require.Len(t, state.Treasures, 1)
	assert.Equal(t, models.ItemKey, state.Treasures[0].Kind)
	assert.Empty(t, state.NPCs)
	assert.Empty(t, state.Enemies)
}
