package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maze-daze/server/config"
)

func TestGetOrCreatePlayerCreatesNewRun(t *testing.T) {
	store := newTestStore(t)
	world := NewWorldService(store, config.DefaultTuning(), 1)
	ps := NewPlayerService(world, store)

	player, _, err := ps.GetOrCreatePlayer("  alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", player.Username)
	_, err = uuid.Parse(player.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, player.Progress.Level)
	assert.Equal(t, 100, player.Progress.HP)
	assert.True(t, world.HasPlayer(player.ID))

	stored, err := store.LoadPlayerByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, player.ID, stored.ID)

	again, _, err := ps.GetOrCreatePlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, player.ID, again.ID)

	got, err := ps.GetPlayer(player.ID)
	require.NoError(t, err)
	assert.Same(t, player, got)
}

func TestGetOrCreatePlayerRejectsBadNames(t *testing.T) {
	store := newTestStore(t)
	ps := NewPlayerService(NewWorldService(store, config.DefaultTuning(), 1), store)

	for _, name := range []string{"", "   ", strings.Repeat("x", 33)} {
		_, _, err := ps.GetOrCreatePlayer(name)
		assert.ErrorIs(t, err, ErrInvalidUsername, "name %q", name)
	}
}

func TestLogoutSavesAndReloads(t *testing.T) {
	store := newTestStore(t)
	world := NewWorldService(store, config.DefaultTuning(), 1)
	ps := NewPlayerService(world, store)

	player, _, err := ps.GetOrCreatePlayer("bob")
	require.NoError(t, err)
	corridor := useCorridor(t, world, player.ID)
	corridor.player = corridor.State().Grid.Start()
	_, err = world.MovePlayer(player.ID, "east")
	require.NoError(t, err)

	require.NoError(t, ps.Logout(player.ID))
	assert.False(t, world.HasPlayer(player.ID))
	_, err = ps.GetPlayer(player.ID)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	// a fresh server picks the run up from storage
	world2 := NewWorldService(store, config.DefaultTuning(), 1)
	ps2 := NewPlayerService(world2, store)
	back, _, err := ps2.GetOrCreatePlayer("bob")
	require.NoError(t, err)
	assert.Equal(t, player.ID, back.ID)

	progress, err := world2.GetProgress(back.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Position.X)
	assert.Equal(t, 0, progress.Position.Y)
}

func TestLogoutUnknownPlayer(t *testing.T) {
	store := newTestStore(t)
	ps := NewPlayerService(NewWorldService(store, config.DefaultTuning(), 1), store)
	assert.ErrorIs(t, ps.Logout("nobody"), ErrPlayerNotFound)
}

func TestLogoutKeepsPlayerHeldByAnotherLogin(t *testing.T) {
	store := newTestStore(t)
	world := NewWorldService(store, config.DefaultTuning(), 1)
	ps := NewPlayerService(world, store)

	first, _, err := ps.GetOrCreatePlayer("erin")
	require.NoError(t, err)
	second, _, err := ps.GetOrCreatePlayer("erin")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	require.NoError(t, ps.Logout(first.ID))
	assert.True(t, world.HasPlayer(first.ID))
	_, err = ps.GetPlayer(first.ID)
	assert.NoError(t, err)

	require.NoError(t, ps.Logout(first.ID))
	assert.False(t, world.HasPlayer(first.ID))
	_, err = ps.GetPlayer(first.ID)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
