package services

import (
	"math"

	"maze-daze/server/messages"
	"maze-daze/server/models"
)

// SightRadius is the radius, in cells, of what the player currently sees.
// It shrinks with the level and stops shrinking once the camera follows.
func (s *LevelSession) SightRadius() float64 {
	level := s.Level()
	if level > s.tuning.CameraFollowLevel {
		level = s.tuning.CameraFollowLevel
	}
	return math.Max(2.5, 7-float64(level)*0.3)
}

// FogAt classifies a cell for the fog renderer
func (s *LevelSession) FogAt(p models.Position) models.FogState {
	r := s.SightRadius()
	dx, dy := float64(p.X-s.player.X), float64(p.Y-s.player.Y)
	if dx*dx+dy*dy <= r*r {
		return models.FogVisible
	}
	if s.state.Visited.Has(p) {
		return models.FogSeen
	}
	return models.FogUnseen
}

// View builds the renderer input for the current frame. Treasures and NPCs
// are only included once their cell has been seen, enemies only while they
// are in sight.
func (s *LevelSession) View() *messages.LevelView {
	state := s.state
	if state == nil {
		return &messages.LevelView{}
	}
	grid := state.Grid

	fog := make([][]models.FogState, grid.Rows)
	for y := range fog {
		fog[y] = make([]models.FogState, grid.Cols)
		for x := range fog[y] {
			fog[y][x] = s.FogAt(models.Position{X: x, Y: y})
		}
	}
	known := func(p models.Position) bool {
		return fog[p.Y][p.X] != models.FogUnseen
	}

	view := &messages.LevelView{
		Level:        state.Level,
		Cols:         grid.Cols,
		Rows:         grid.Rows,
		CellSize:     state.CellSize,
		CameraFollow: state.CameraFollow,
		SightRadius:  s.SightRadius(),
		Player:       s.player,
		Exit:         grid.Exit(),
		HP:           s.hp,
		Coins:        s.coins,
		HasKey:       s.hasKey,
		HasBook:      s.hasBook,
		Tiles:        grid.Clone().Cells,
		Fog:          fog,
		WallTypes:    state.WallTypes,
		Rooms:        state.Rooms,
		Treasures:    []models.Treasure{},
		NPCs:         []models.NPC{},
		Enemies:      []models.Enemy{},
		Visited:      state.Visited.Cells(),
	}
	if view.Rooms == nil {
		view.Rooms = []models.Room{}
	}
	if view.Visited == nil {
		view.Visited = []models.Position{}
	}

	for _, t := range state.Treasures {
		if !t.Collected && known(t.Pos) {
			view.Treasures = append(view.Treasures, *t)
		}
	}
	for _, n := range state.NPCs {
		if known(n.Pos) {
			view.NPCs = append(view.NPCs, *n)
		}
	}
	for _, e := range state.Enemies {
		if !e.Defeated && grid.InBounds(e.Pos.X, e.Pos.Y) && fog[e.Pos.Y][e.Pos.X] == models.FogVisible {
			view.Enemies = append(view.Enemies, *e)
		}
	}
	return view
}
