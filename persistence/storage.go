package persistence

import (
	"errors"

	"maze-daze/server/models"
)

// ErrNotFound is returned when a player or level is not stored
var ErrNotFound = errors.New("not found")

// Storage defines the interface for data persistence
type Storage interface {
	SavePlayer(player *models.Player) error
	LoadPlayer(playerID string) (*models.Player, error)
	LoadPlayerByUsername(username string) (*models.Player, error)
	SaveLevel(playerID string, level *models.LevelState) error
	LoadLevel(playerID string) (*models.LevelState, error)
	Close() error
}
