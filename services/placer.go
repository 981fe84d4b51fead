package services

import (
	log "github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"maze-daze/server/config"
	"maze-daze/server/models"
)

// EntityPlacer seeds items, NPCs and enemies onto open cells
type EntityPlacer struct {
	tuning config.Tuning
	rng    Rand
}

// NewEntityPlacer creates a placer drawing from rng
func NewEntityPlacer(tuning config.Tuning, rng Rand) *EntityPlacer {
	return &EntityPlacer{tuning: tuning, rng: rng}
}

// RandomOpenCell samples random coordinates until one is open, not excluded
// and outside the 2x2 start block. After MaxPlacementAttempts misses it
// falls back to the cell diagonally next to the exit and reports false.
func (ep *EntityPlacer) RandomOpenCell(grid *models.Grid, exclude mapset.Set[models.Position]) (models.Position, bool) {
	for attempt := 0; attempt < ep.tuning.MaxPlacementAttempts; attempt++ {
		p := models.Position{X: ep.rng.Intn(grid.Cols), Y: ep.rng.Intn(grid.Rows)}
		if !grid.IsOpen(p.X, p.Y) || (p.X <= 1 && p.Y <= 1) || exclude.Has(p) {
			continue
		}
		return p, true
	}

	fallback := models.Position{X: grid.Cols - 2, Y: grid.Rows - 2}
	log.WithFields(log.Fields{
		"cols":     grid.Cols,
		"rows":     grid.Rows,
		"attempts": ep.tuning.MaxPlacementAttempts,
		"fallback": fallback,
	}).Warn("Placement exhausted, using fallback cell")
	return fallback, false
}

// PlaceAll populates state in exclusion order: key, book, room contents,
// NPCs, enemies
func (ep *EntityPlacer) PlaceAll(state *models.LevelState) {
	taken := ep.PlaceTreasures(state)
	ep.PlaceRoomContents(state, taken)
	ep.PlaceNPCs(state, taken)
	ep.PlaceEnemies(state)
}

// PlaceTreasures places the key (excluding start and exit) and, from the
// book level on, the book (also excluding the key). The returned set holds
// every cell taken so far, start and exit included.
func (ep *EntityPlacer) PlaceTreasures(state *models.LevelState) mapset.Set[models.Position] {
	grid := state.Grid
	taken := mapset.New[models.Position]()
	taken.Put(grid.Start())
	taken.Put(grid.Exit())

	keyPos, _ := ep.RandomOpenCell(grid, taken)
	state.Treasures = append(state.Treasures, &models.Treasure{Kind: models.ItemKey, Pos: keyPos})
	taken.Put(keyPos)

	if state.Level >= ep.tuning.BookLevel {
		bookPos, _ := ep.RandomOpenCell(grid, taken)
		state.Treasures = append(state.Treasures, &models.Treasure{Kind: models.ItemBook, Pos: bookPos})
		taken.Put(bookPos)
	}
	return taken
}

// PlaceRoomContents drops each room's content roll on its center cell,
// skipping centers that are already taken
func (ep *EntityPlacer) PlaceRoomContents(state *models.LevelState, taken mapset.Set[models.Position]) {
	for _, room := range state.Rooms {
		contents := room.Kind.Config().Contents
		if len(contents) == 0 {
			continue
		}
		kind := contents[ep.rng.Intn(len(contents))]
		if kind == "" || taken.Has(room.Center) || !state.Grid.IsOpen(room.Center.X, room.Center.Y) {
			continue
		}
		state.Treasures = append(state.Treasures, &models.Treasure{Kind: kind, Pos: room.Center})
		taken.Put(room.Center)
	}
}

// PlaceNPCs spawns min(MaxNPCs, level/NPCEvery) NPCs from the NPC level on;
// each one excludes everything placed before it
func (ep *EntityPlacer) PlaceNPCs(state *models.LevelState, taken mapset.Set[models.Position]) {
	count := ep.tuning.NPCCount(state.Level)
	for i := 0; i < count; i++ {
		pos, _ := ep.RandomOpenCell(state.Grid, taken)
		kind := models.NPCKinds[ep.rng.Intn(len(models.NPCKinds))]
		state.NPCs = append(state.NPCs, &models.NPC{
			Index: i,
			Kind:  kind,
			Role:  kind.Config().Role,
			Pos:   pos,
		})
		taken.Put(pos)
	}
}

// PlaceEnemies spawns level/EnemyEvery enemies from the enemy level on.
// Only the start guard applies; overlaps are resolved when things move.
func (ep *EntityPlacer) PlaceEnemies(state *models.LevelState) {
	count := ep.tuning.EnemyCount(state.Level)
	none := mapset.New[models.Position]()
	for i := 0; i < count; i++ {
		kind := models.EnemyKinds[ep.rng.Intn(len(models.EnemyKinds))]
		cfg := kind.Config()
		pos, _ := ep.RandomOpenCell(state.Grid, none)
		state.Enemies = append(state.Enemies, &models.Enemy{
			Kind:     kind,
			Behavior: cfg.Behavior,
			Pos:      pos,
			Stats:    cfg.Stats,
		})
	}
}
