package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maze-daze/server/config"
	"maze-daze/server/models"
	"maze-daze/server/persistence"
)

func newTestStore(t *testing.T) *persistence.JSONStore {
	t.Helper()
	store, err := persistence.NewJSONStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return store
}

func newPlayer(id string) *models.Player {
	return &models.Player{ID: id, Username: "user-" + id, Progress: models.Progress{Level: 1, HP: 100}}
}

// useCorridor swaps the player's level for the corridor fixture
func useCorridor(t *testing.T, ws *WorldService, id string) *LevelSession {
	t.Helper()
	slot, err := ws.slot(id)
	require.NoError(t, err)
	corridor := corridorSession(t)
	slot.mu.Lock()
	slot.session = corridor
	slot.mu.Unlock()
	return corridor
}

func TestWorldUnknownPlayer(t *testing.T) {
	ws := NewWorldService(newTestStore(t), config.DefaultTuning(), 1)

	_, err := ws.MovePlayer("ghost", "north")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = ws.GetLevelView("ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = ws.SaveProgress("ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.ErrorIs(t, ws.RemovePlayer("ghost"), ErrPlayerNotFound)
}

func TestWorldAddPlayerStartsLevelOne(t *testing.T) {
	ws := NewWorldService(newTestStore(t), config.DefaultTuning(), 1)
	player := newPlayer("p1")

	_, err := ws.AddPlayer(player)
	require.NoError(t, err)
	assert.True(t, ws.HasPlayer("p1"))

	view, err := ws.GetLevelView("p1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Level)
	assert.Equal(t, 7, view.Cols)
	assert.Equal(t, models.Position{}, view.Player)

	_, err = ws.MovePlayer("p1", "sideways")
	assert.Error(t, err)
}

func TestWorldSaveAndResume(t *testing.T) {
	store := newTestStore(t)
	ws := NewWorldService(store, config.DefaultTuning(), 1)
	player := newPlayer("p1")
	_, err := ws.AddPlayer(player)
	require.NoError(t, err)

	corridor := useCorridor(t, ws, "p1")
	corridor.state.Treasures = []*models.Treasure{{Kind: models.ItemCoin, Pos: models.Position{X: 1, Y: 0}}}
	out, err := ws.MovePlayer("p1", "east")
	require.NoError(t, err)
	require.True(t, out.Result.Moved)
	assert.Equal(t, 100, out.HP)

	level, err := ws.SaveProgress("p1")
	require.NoError(t, err)
	assert.Equal(t, 1, level)
	require.NoError(t, ws.RemovePlayer("p1"))
	assert.False(t, ws.HasPlayer("p1"))

	saved, err := store.LoadPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Progress.Coins)
	assert.False(t, saved.Progress.SavedAt.IsZero())

	again := NewWorldService(store, config.DefaultTuning(), 2)
	_, err = again.AddPlayer(saved)
	require.NoError(t, err)

	view, err := again.GetLevelView("p1")
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 1, Y: 0}, view.Player)
	assert.Equal(t, 1, view.Coins)
	assert.Equal(t, corridor.State().Grid.Cells, view.Tiles, "the saved layout is resumed")
	assert.Empty(t, view.Treasures, "the coin stays collected")
}

func TestWorldRegeneratesWithoutSavedLevel(t *testing.T) {
	ws := NewWorldService(newTestStore(t), config.DefaultTuning(), 1)
	player := newPlayer("p1")
	player.Progress = models.Progress{Level: 4, HP: 60, Coins: 3}

	_, err := ws.AddPlayer(player)
	require.NoError(t, err)

	progress, err := ws.GetProgress("p1")
	require.NoError(t, err)
	assert.Equal(t, 4, progress.Level)
	assert.Equal(t, 60, progress.HP)
	assert.Equal(t, 3, progress.Coins)
}

func TestWorldCompletingLevelAdvancesAndSaves(t *testing.T) {
	store := newTestStore(t)
	ws := NewWorldService(store, config.DefaultTuning(), 1)
	_, err := ws.AddPlayer(newPlayer("p1"))
	require.NoError(t, err)

	corridor := useCorridor(t, ws, "p1")
	corridor.player = models.Position{X: 6, Y: 5}
	corridor.hasKey = true

	out, err := ws.MovePlayer("p1", "south")
	require.NoError(t, err)
	assert.True(t, out.Result.Won)
	assert.Equal(t, 1, out.Completed)
	assert.Equal(t, models.Position{}, out.Result.Position)

	progress, err := ws.GetProgress("p1")
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Level)

	saved, err := store.LoadPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Progress.Level)
	level, err := store.LoadLevel("p1")
	require.NoError(t, err)
	assert.Equal(t, 2, level.Level)
}

func TestWorldRestart(t *testing.T) {
	ws := NewWorldService(newTestStore(t), config.DefaultTuning(), 1)
	player := newPlayer("p1")
	player.Progress.Level = 9
	_, err := ws.AddPlayer(player)
	require.NoError(t, err)

	_, err = ws.RestartPlayer("p1")
	require.NoError(t, err)
	progress, err := ws.GetProgress("p1")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Level)
}

func TestWorldTickNotifiesMovedEnemies(t *testing.T) {
	ws := NewWorldService(newTestStore(t), config.DefaultTuning(), 1)
	_, err := ws.AddPlayer(newPlayer("p1"))
	require.NoError(t, err)
	_, err = ws.AddPlayer(newPlayer("p2"))
	require.NoError(t, err)

	corridor := useCorridor(t, ws, "p1")
	corridor.state.Enemies = []*models.Enemy{hunterAt(models.Position{X: 4, Y: 0})}

	var mu sync.Mutex
	var changed []string
	ws.OnChange(func(id string) {
		mu.Lock()
		defer mu.Unlock()
		changed = append(changed, id)
	})

	ws.tick(time.Now())
	assert.Equal(t, []string{"p1"}, changed)
}

func TestWorldSetTuningReachesSessions(t *testing.T) {
	ws := NewWorldService(newTestStore(t), config.DefaultTuning(), 1)
	_, err := ws.AddPlayer(newPlayer("p1"))
	require.NoError(t, err)

	tuning := config.DefaultTuning()
	tuning.PlayerHP = 7
	updates := make(chan config.Tuning, 1)
	updates <- tuning
	close(updates)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ws.ApplyTuningUpdates(ctx, updates)

	assert.Equal(t, 7, ws.Tuning().PlayerHP)
	_, err = ws.RestartPlayer("p1")
	require.NoError(t, err)
	progress, err := ws.GetProgress("p1")
	require.NoError(t, err)
	assert.Equal(t, 7, progress.HP)
}

func TestWorldRejoinBeforeRemoveKeepsSession(t *testing.T) {
	store := newTestStore(t)
	ws := NewWorldService(store, config.DefaultTuning(), 1)
	player := newPlayer("p1")

	_, err := ws.AddPlayer(player)
	require.NoError(t, err)
	useCorridor(t, ws, "p1")

	// a new connection joins while the old one is still logging out
	_, err = ws.AddPlayer(player)
	require.NoError(t, err)
	require.NoError(t, ws.RemovePlayer("p1"))

	require.True(t, ws.HasPlayer("p1"))
	out, err := ws.MovePlayer("p1", "east")
	require.NoError(t, err)
	assert.True(t, out.Result.Moved)

	require.NoError(t, ws.RemovePlayer("p1"))
	assert.False(t, ws.HasPlayer("p1"))
	assert.ErrorIs(t, ws.RemovePlayer("p1"), ErrPlayerNotFound)

	saved, err := store.LoadPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 1, Y: 0}, saved.Progress.Position)
}
