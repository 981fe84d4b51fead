package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"maze-daze/server/config"
	"maze-daze/server/models"
)

var t0 = time.Unix(1_700_000_000, 0)

// corridorSession returns a ready level 1 session whose grid is replaced by
// an L shaped corridor: the top row and the right column are open, the rest
// is wall. The level starts empty of entities.
func corridorSession(t *testing.T) *LevelSession {
	t.Helper()
	s := NewLevelSession(config.DefaultTuning(), NewRand(1), nil)
	s.InitLevel(1)
	require.Equal(t, PhaseReady, s.Phase())

	grid := models.NewGrid(7, 7)
	for i := 0; i < 7; i++ {
		grid.Open(i, 0)
		grid.Open(6, i)
	}
	s.state.Grid = grid
	s.state.Rooms = nil
	s.state.Treasures = nil
	s.state.NPCs = nil
	s.state.Enemies = nil
	s.state.WallTypes = s.post.AssignWallTypes(grid, 1)
	s.state.Visited = s.vision.Reset(grid)
	s.player = grid.Start()
	return s
}

// walk issues moves one second apart so throttling never kicks in
func walk(s *LevelSession, start time.Time, dirs ...Direction) []MoveResult {
	results := make([]MoveResult, 0, len(dirs))
	for i, d := range dirs {
		results = append(results, s.Move(d, start.Add(time.Duration(i+1)*time.Second)))
	}
	return results
}

func repeat(d Direction, n int) []Direction {
	dirs := make([]Direction, n)
	for i := range dirs {
		dirs[i] = d
	}
	return dirs
}
