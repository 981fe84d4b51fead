package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"maze-daze/server/models"
	"maze-daze/server/persistence"
)

// ErrInvalidUsername is returned for empty or oversized usernames
var ErrInvalidUsername = errors.New("invalid username")

const maxUsernameLength = 32

// PlayerService manages player accounts and hands them to the world
type PlayerService struct {
	players map[string]*models.Player
	world   *WorldService
	db      persistence.Storage
	mutex   sync.RWMutex
}

// NewPlayerService creates a new player service
func NewPlayerService(world *WorldService, db persistence.Storage) *PlayerService {
	return &PlayerService{
		players: make(map[string]*models.Player),
		world:   world,
		db:      db,
	}
}

// GetOrCreatePlayer gets an existing player or creates a new one, then
// places them in the world. It returns the story chapter unlocked by the
// level the player enters, if any.
func (ps *PlayerService) GetOrCreatePlayer(username string) (*models.Player, *Chapter, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLength {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	player, err := ps.lookup(username)
	if err != nil {
		return nil, nil, err
	}

	chapter, err := ps.world.AddPlayer(player)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add player to world: %w", err)
	}
	return player, chapter, nil
}

func (ps *PlayerService) lookup(username string) (*models.Player, error) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	// Check if player already exists in memory
	for _, player := range ps.players {
		if player.Username == username {
			return player, nil
		}
	}

	player, err := ps.db.LoadPlayerByUsername(username)
	switch {
	case err == nil:
		log.WithFields(log.Fields{"player": username, "level": player.Progress.Level}).Info("Loaded player")
	case errors.Is(err, persistence.ErrNotFound):
		now := time.Now()
		player = &models.Player{
			ID:       uuid.NewString(),
			Username: username,
			Progress: models.Progress{
				Level: 1,
				HP:    ps.world.Tuning().PlayerHP,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := ps.db.SavePlayer(player); err != nil {
			return nil, fmt.Errorf("failed to save new player to database: %w", err)
		}
		log.WithField("player", username).Info("Created player")
	default:
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	ps.players[player.ID] = player
	return player, nil
}

// GetPlayer retrieves a player by ID
func (ps *PlayerService) GetPlayer(playerID string) (*models.Player, error) {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	player, exists := ps.players[playerID]
	if !exists {
		return nil, fmt.Errorf("player %s: %w", playerID, ErrPlayerNotFound)
	}
	return player, nil
}

// Logout saves the player's run and releases the hold taken by
// GetOrCreatePlayer. The player is forgotten once no connection holds them.
func (ps *PlayerService) Logout(playerID string) error {
	err := ps.world.RemovePlayer(playerID)

	ps.mutex.Lock()
	if !ps.world.HasPlayer(playerID) {
		delete(ps.players, playerID)
	}
	ps.mutex.Unlock()
	return err
}
