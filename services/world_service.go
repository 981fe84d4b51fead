package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"maze-daze/server/config"
	"maze-daze/server/messages"
	"maze-daze/server/models"
	"maze-daze/server/persistence"
)

// ErrPlayerNotFound is returned for players that are not in the world
var ErrPlayerNotFound = errors.New("player not found")

// playerSlot pairs a connected player with their level session. refs counts
// the AddPlayer calls not yet matched by RemovePlayer and is guarded by the
// world mutex.
type playerSlot struct {
	mu      sync.Mutex
	player  *models.Player
	session *LevelSession
	refs    int
}

// MoveOutcome is what the world reports back for a move request
type MoveOutcome struct {
	Result    MoveResult
	HP        int
	Completed int      // level that was just finished, 0 if none
	Chapter   *Chapter // chapter unlocked by the new level, if any
}

// WorldService hosts one level session per connected player
type WorldService struct {
	players    map[string]*playerSlot
	db         persistence.Storage
	tuning     config.Tuning
	seed       int64
	onChange   func(playerID string)
	worldMutex sync.RWMutex
}

// NewWorldService creates a new world service. A non-zero seed makes every
// session generate the same sequence of levels.
func NewWorldService(db persistence.Storage, tuning config.Tuning, seed int64) *WorldService {
	return &WorldService{
		players: make(map[string]*playerSlot),
		db:      db,
		tuning:  tuning,
		seed:    seed,
	}
}

// OnChange registers a callback run when a player's level changed outside
// of a request, e.g. enemies moved
func (ws *WorldService) OnChange(fn func(playerID string)) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()
	ws.onChange = fn
}

// Tuning returns the tuning new sessions are created with
func (ws *WorldService) Tuning() config.Tuning {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()
	return ws.tuning
}

// AddPlayer adds a player to the world. The saved level layout is resumed
// when it matches the saved progress, otherwise the saved level is
// regenerated. It returns the chapter unlocked by the entered level. A player
// already in the world keeps their session; every AddPlayer must be matched
// by one RemovePlayer.
func (ws *WorldService) AddPlayer(player *models.Player) (*Chapter, error) {
	if ws.retain(player) {
		return nil, nil
	}

	tuning := ws.Tuning()
	session := NewLevelSession(tuning, NewRand(ws.seed), nil)
	chapter := ws.enterLevel(session, player)

	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()
	if slot, exists := ws.players[player.ID]; exists {
		// another connection of the same player got here first
		slot.refs++
		return nil, nil
	}
	ws.players[player.ID] = &playerSlot{player: player, session: session, refs: 1}
	log.WithFields(log.Fields{"player": player.Username, "level": session.Level()}).Info("Player entered the maze")
	return chapter, nil
}

// retain takes another reference on an existing slot
func (ws *WorldService) retain(player *models.Player) bool {
	ws.worldMutex.Lock()
	slot, exists := ws.players[player.ID]
	if exists {
		slot.refs++
	}
	ws.worldMutex.Unlock()
	if !exists {
		return false
	}

	slot.mu.Lock()
	slot.player = player
	slot.mu.Unlock()
	return true
}

func (ws *WorldService) enterLevel(session *LevelSession, player *models.Player) *Chapter {
	progress := player.Progress
	if progress.Level < 1 {
		return session.InitLevel(1)
	}

	state, err := ws.db.LoadLevel(player.ID)
	switch {
	case err == nil:
		resumeErr := session.Resume(state, progress)
		if resumeErr == nil {
			log.WithFields(log.Fields{"player": player.Username, "level": progress.Level}).Info("Resumed saved level")
			return nil
		}
		log.WithError(resumeErr).WithField("player", player.Username).Warn("Saved level unusable, regenerating")
	case !errors.Is(err, persistence.ErrNotFound):
		log.WithError(err).WithField("player", player.Username).Warn("Failed to load saved level")
	}
	return session.Restore(progress)
}

// RemovePlayer saves the player's progress and releases one reference on
// their slot. The slot leaves the world with the last reference, so a
// connection that re-joined meanwhile keeps playing.
func (ws *WorldService) RemovePlayer(playerID string) error {
	slot, err := ws.slot(playerID)
	if err != nil {
		return err
	}
	saveErr := ws.save(slot)

	ws.worldMutex.Lock()
	slot.refs--
	if slot.refs <= 0 && ws.players[playerID] == slot {
		delete(ws.players, playerID)
	}
	ws.worldMutex.Unlock()
	return saveErr
}

// HasPlayer reports whether the player is in the world
func (ws *WorldService) HasPlayer(playerID string) bool {
	_, err := ws.slot(playerID)
	return err == nil
}

// MovePlayer processes a player movement request. Reaching the exit with
// the key advances to the next level and saves the run.
func (ws *WorldService) MovePlayer(playerID string, direction string) (*MoveOutcome, error) {
	slot, err := ws.slot(playerID)
	if err != nil {
		return nil, err
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	slot.mu.Lock()
	res := slot.session.Move(dir, time.Now())
	out := &MoveOutcome{Result: res}
	if res.Won {
		out.Completed = slot.session.Level()
		out.Chapter = slot.session.Advance()
		out.Result.Position = slot.session.Player()
		log.WithFields(log.Fields{"player": slot.player.Username, "level": out.Completed}).Info("Level completed")
	}
	out.HP = slot.session.HP()
	slot.mu.Unlock()

	if res.Won {
		if err := ws.save(slot); err != nil {
			log.WithError(err).WithField("player", slot.player.Username).Error("Failed to save after level completion")
		}
	}
	return out, nil
}

// RestartPlayer sends the player back to level 1
func (ws *WorldService) RestartPlayer(playerID string) (*Chapter, error) {
	slot, err := ws.slot(playerID)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	chapter := slot.session.Restart()
	slot.mu.Unlock()
	return chapter, nil
}

// SaveProgress persists the player's progress and level layout. It returns
// the saved level.
func (ws *WorldService) SaveProgress(playerID string) (int, error) {
	slot, err := ws.slot(playerID)
	if err != nil {
		return 0, err
	}
	if err := ws.save(slot); err != nil {
		return 0, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.player.Progress.Level, nil
}

func (ws *WorldService) save(slot *playerSlot) error {
	slot.mu.Lock()
	now := time.Now()
	progress := slot.session.Snapshot()
	progress.SavedAt = now
	slot.player.Progress = progress
	slot.player.UpdatedAt = now
	player := *slot.player
	state := slot.session.State()
	var level *models.LevelState
	if state != nil {
		level = cloneLevel(state)
	}
	slot.mu.Unlock()

	if err := ws.db.SavePlayer(&player); err != nil {
		return fmt.Errorf("failed to save player %s: %w", player.ID, err)
	}
	if level == nil {
		return nil
	}
	if err := ws.db.SaveLevel(player.ID, level); err != nil {
		return fmt.Errorf("failed to save level of player %s: %w", player.ID, err)
	}
	return nil
}

// GetLevelView builds the renderer input for a player
func (ws *WorldService) GetLevelView(playerID string) (*messages.LevelView, error) {
	slot, err := ws.slot(playerID)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.session.View(), nil
}

// GetProgress returns a snapshot of the player's current run
func (ws *WorldService) GetProgress(playerID string) (models.Progress, error) {
	slot, err := ws.slot(playerID)
	if err != nil {
		return models.Progress{}, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.session.Snapshot(), nil
}

// SetTuning applies a new tuning to every session; levels in progress keep
// their layout
func (ws *WorldService) SetTuning(tuning config.Tuning) {
	ws.worldMutex.Lock()
	ws.tuning = tuning
	slots := make([]*playerSlot, 0, len(ws.players))
	for _, slot := range ws.players {
		slots = append(slots, slot)
	}
	ws.worldMutex.Unlock()

	for _, slot := range slots {
		slot.mu.Lock()
		slot.session.SetTuning(tuning)
		slot.mu.Unlock()
	}
	log.WithField("players", len(slots)).Info("Tuning applied")
}

// ApplyTuningUpdates applies tunings from updates until the channel closes
// or ctx is done
func (ws *WorldService) ApplyTuningUpdates(ctx context.Context, updates <-chan config.Tuning) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-updates:
			if !ok {
				return
			}
			ws.SetTuning(t)
		}
	}
}

// Run steps enemies of every session until ctx is done and reports changed
// levels through the OnChange callback
func (ws *WorldService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ws.tick(now)
		}
	}
}

func (ws *WorldService) tick(now time.Time) {
	ws.worldMutex.RLock()
	onChange := ws.onChange
	ids := make([]string, 0, len(ws.players))
	slots := make([]*playerSlot, 0, len(ws.players))
	for id, slot := range ws.players {
		ids = append(ids, id)
		slots = append(slots, slot)
	}
	ws.worldMutex.RUnlock()

	for i, slot := range slots {
		slot.mu.Lock()
		moved := slot.session.UpdateEnemies(now)
		slot.mu.Unlock()
		if moved && onChange != nil {
			onChange(ids[i])
		}
	}
}

func (ws *WorldService) slot(playerID string) (*playerSlot, error) {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()

	slot, exists := ws.players[playerID]
	if !exists {
		return nil, fmt.Errorf("player %s: %w", playerID, ErrPlayerNotFound)
	}
	return slot, nil
}

// cloneLevel copies the parts of a level that keep changing during play so
// storage never sees a level mid-move
func cloneLevel(state *models.LevelState) *models.LevelState {
	c := *state
	c.Grid = state.Grid.Clone()
	c.Treasures = make([]*models.Treasure, len(state.Treasures))
	for i, t := range state.Treasures {
		copied := *t
		c.Treasures[i] = &copied
	}
	c.NPCs = make([]*models.NPC, len(state.NPCs))
	for i, n := range state.NPCs {
		copied := *n
		c.NPCs[i] = &copied
	}
	c.Enemies = make([]*models.Enemy, len(state.Enemies))
	for i, e := range state.Enemies {
		copied := *e
		c.Enemies[i] = &copied
	}
	c.Visited = models.NewVisitedSet(state.Visited.Cells()...)
	return &c
}
