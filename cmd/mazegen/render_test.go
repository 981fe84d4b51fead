package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maze-daze/server/config"
	"maze-daze/server/models"
	"maze-daze/server/services"
)

func TestRenderSmallLevel(t *testing.T) {
	grid := models.NewGrid(3, 3)
	for i := 0; i < 3; i++ {
		grid.Open(i, 0)
		grid.Open(2, i)
	}
	state := &models.LevelState{
		Level: 1,
		Grid:  grid,
		WallTypes: models.WallTypeMap{
			{X: 0, Y: 1}: models.WallStone,
			{X: 1, Y: 1}: models.WallRuins,
		},
		Treasures: []*models.Treasure{
			{Kind: models.ItemKey, Pos: models.Position{X: 1, Y: 0}},
			{Kind: models.ItemCoin, Pos: models.Position{X: 2, Y: 1}, Collected: true},
		},
		Enemies: []*models.Enemy{{Pos: models.Position{X: 2, Y: 1}, Defeated: true}},
	}

	want := strings.Join([]string{
		"-----",
		"|SK |",
		"|%& |",
		"|##E|",
		"-----",
		"",
	}, "\n")
	assert.Equal(t, want, render(state))
}

func TestRenderGeneratedLevel(t *testing.T) {
	session := services.NewLevelSession(config.DefaultTuning(), services.NewRand(7), nil)
	session.InitLevel(12)
	state := session.State()
	require.NotNil(t, state)

	lines := strings.Split(strings.TrimSuffix(render(state), "\n"), "\n")
	require.Len(t, lines, state.Grid.Rows+2)
	for _, line := range lines {
		assert.Len(t, line, state.Grid.Cols+2)
	}
	assert.Equal(t, byte('S'), lines[1][1])
	assert.Equal(t, byte('E'), lines[state.Grid.Rows][state.Grid.Cols])
	assert.Contains(t, render(state), "K")
}
