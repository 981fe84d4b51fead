package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"maze-daze/server/models"
)

// JSONStore handles data persistence using a local JSON file
type JSONStore struct {
	filePath  string
	mutex     sync.RWMutex
	fileMutex sync.Mutex // serializes writes of the file
	data      *JSONData
}

// JSONData represents the structure of the JSON database
type JSONData struct {
	Players map[string]*models.Player     `json:"players"`
	Levels  map[string]*models.LevelState `json:"levels"` // keyed by player ID
}

// NewJSONStore creates a new JSON storage manager
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Players: make(map[string]*models.Player),
			Levels:  make(map[string]*models.LevelState),
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	return store, nil
}

// loadFromFile loads data from the JSON file
func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Players == nil {
		js.data.Players = make(map[string]*models.Player)
	}
	if js.data.Levels == nil {
		js.data.Levels = make(map[string]*models.LevelState)
	}
	return nil
}

// saveToFile writes the whole database through a temp file and a rename
func (js *JSONStore) saveToFile() error {
	js.fileMutex.Lock()
	defer js.fileMutex.Unlock()

	js.mutex.RLock()
	data, err := json.MarshalIndent(js.data, "", "  ")
	js.mutex.RUnlock()
	if err != nil {
		return err
	}

	tmp := js.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, js.filePath)
}

// SavePlayer saves a player to the store
func (js *JSONStore) SavePlayer(player *models.Player) error {
	copied := *player
	js.mutex.Lock()
	js.data.Players[player.ID] = &copied
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadPlayer loads a player by ID
func (js *JSONStore) LoadPlayer(playerID string) (*models.Player, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	player, exists := js.data.Players[playerID]
	if !exists {
		return nil, fmt.Errorf("player with ID %s: %w", playerID, ErrNotFound)
	}

	copied := *player
	return &copied, nil
}

// LoadPlayerByUsername loads a player by username
func (js *JSONStore) LoadPlayerByUsername(username string) (*models.Player, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	for _, player := range js.data.Players {
		if player.Username == username {
			copied := *player
			return &copied, nil
		}
	}

	return nil, fmt.Errorf("player with username %s: %w", username, ErrNotFound)
}

// SaveLevel archives the current level layout of a player
func (js *JSONStore) SaveLevel(playerID string, level *models.LevelState) error {
	// round-trip through JSON so the store never aliases live session state
	raw, err := json.Marshal(level)
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}
	var copied models.LevelState
	if err := json.Unmarshal(raw, &copied); err != nil {
		return fmt.Errorf("failed to copy level: %w", err)
	}

	js.mutex.Lock()
	js.data.Levels[playerID] = &copied
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadLevel loads the archived level layout of a player
func (js *JSONStore) LoadLevel(playerID string) (*models.LevelState, error) {
	js.mutex.RLock()
	level, exists := js.data.Levels[playerID]
	js.mutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("level for player %s: %w", playerID, ErrNotFound)
	}

	raw, err := json.Marshal(level)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal level: %w", err)
	}
	var copied models.LevelState
	if err := json.Unmarshal(raw, &copied); err != nil {
		return nil, fmt.Errorf("failed to copy level: %w", err)
	}
	return &copied, nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}
