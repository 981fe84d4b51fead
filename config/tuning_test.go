package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTuningOverlaysDefaults(t *testing.T) {
	tuning, err := ParseTuning([]byte("room_level: 30\nplayer_hp: 50\n"))
	require.NoError(t, err)

	want := DefaultTuning()
	want.RoomLevel = 30
	want.PlayerHP = 50
	assert.Equal(t, want, tuning)
}

func TestParseTuningRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":        "room_level: [",
		"no attempts":     "max_generation_attempts: 0",
		"chance too high": "room_chance: 1.5",
		"zero divisor":    "memory_radius_divisor: 0",
		"dead player":     "player_hp: 0",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTuning([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadTuning(t *testing.T) {
	tuning, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)

	_, err = LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTuningFormulas(t *testing.T) {
	tuning := DefaultTuning()

	assert.Equal(t, 1, tuning.WallTierLevel(15))
	assert.Equal(t, 2, tuning.WallTierLevel(16))
	assert.Equal(t, 2, tuning.WallTierLevel(25))
	assert.Equal(t, 3, tuning.WallTierLevel(26))

	assert.Equal(t, 1, tuning.MemoryRadius(1))
	assert.Equal(t, 1, tuning.MemoryRadius(5))
	assert.Equal(t, 4, tuning.MemoryRadius(20))

	assert.Equal(t, 125, tuning.MoveDelayMs(1))
	assert.Equal(t, 80, tuning.MoveDelayMs(10))
	assert.Equal(t, 60, tuning.MoveDelayMs(14))
	assert.Equal(t, 60, tuning.MoveDelayMs(40))

	assert.Equal(t, 0, tuning.EnemyCount(14))
	assert.Equal(t, 1, tuning.EnemyCount(15))
	assert.Equal(t, 2, tuning.EnemyCount(30))

	assert.Equal(t, 0, tuning.NPCCount(24))
	assert.Equal(t, 2, tuning.NPCCount(25))
	assert.Equal(t, 3, tuning.NPCCount(90))

	assert.InDelta(t, 0.4, tuning.WidenChance(20), 1e-9)
	assert.InDelta(t, 0.5, tuning.WidenChance(25), 1e-9)
	assert.InDelta(t, 0.6, tuning.WidenChance(60), 1e-9)

	assert.InDelta(t, 400.0/7, tuning.CellSize(1, 7), 1e-9)
	assert.InDelta(t, 25, tuning.CellSize(16, 37), 1e-9)
}

func TestTuningWatcherPublishesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("room_level: 20\n"), 0644))

	w, err := NewTuningWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("room_level: 40\n"), 0644))

	select {
	case tuning := <-w.Updates:
		assert.Equal(t, 40, tuning.RoomLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("no tuning update received")
	}
}

func TestTuningWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	w, err := NewTuningWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, open := <-w.Updates
	assert.False(t, open)
}
