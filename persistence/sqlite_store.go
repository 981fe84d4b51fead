package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"maze-daze/server/models"
)

// SQLiteStore keeps players and levels in a single SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY between our own goroutines
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		level INTEGER NOT NULL,
		progress TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS levels (
		player_id TEXT PRIMARY KEY REFERENCES players(id) ON DELETE CASCADE,
		level INTEGER NOT NULL,
		state TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SavePlayer inserts or updates a player
func (s *SQLiteStore) SavePlayer(player *models.Player) error {
	progressJSON, err := json.Marshal(player.Progress)
	if err != nil {
		return fmt.Errorf("failed to marshal player progress: %w", err)
	}

	now := time.Now().UTC()
	created := player.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err = s.db.Exec(`
	INSERT INTO players (id, username, level, progress, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		level = excluded.level,
		progress = excluded.progress,
		updated_at = excluded.updated_at
	`, player.ID, player.Username, player.Progress.Level, string(progressJSON), created, now)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

// LoadPlayer loads a player by ID
func (s *SQLiteStore) LoadPlayer(playerID string) (*models.Player, error) {
	row := s.db.QueryRow(`SELECT id, username, progress, created_at, updated_at FROM players WHERE id = ?`, playerID)
	return scanSQLitePlayer(row, "ID "+playerID)
}

// LoadPlayerByUsername loads a player by username
func (s *SQLiteStore) LoadPlayerByUsername(username string) (*models.Player, error) {
	row := s.db.QueryRow(`SELECT id, username, progress, created_at, updated_at FROM players WHERE username = ?`, username)
	return scanSQLitePlayer(row, "username "+username)
}

func scanSQLitePlayer(row *sql.Row, lookup string) (*models.Player, error) {
	var player models.Player
	var progressJSON string
	if err := row.Scan(&player.ID, &player.Username, &progressJSON, &player.CreatedAt, &player.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player with %s: %w", lookup, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if err := json.Unmarshal([]byte(progressJSON), &player.Progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player progress: %w", err)
	}
	return &player, nil
}

// SaveLevel archives the current level layout of a player
func (s *SQLiteStore) SaveLevel(playerID string, level *models.LevelState) error {
	stateJSON, err := json.Marshal(level)
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	_, err = s.db.Exec(`
	INSERT INTO levels (player_id, level, state, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (player_id) DO UPDATE SET
		level = excluded.level,
		state = excluded.state,
		updated_at = excluded.updated_at
	`, playerID, level.Level, string(stateJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save level: %w", err)
	}
	return nil
}

// LoadLevel loads the archived level layout of a player
func (s *SQLiteStore) LoadLevel(playerID string) (*models.LevelState, error) {
	var stateJSON string
	err := s.db.QueryRow(`SELECT state FROM levels WHERE player_id = ?`, playerID).Scan(&stateJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("level for player %s: %w", playerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load level: %w", err)
	}

	var level models.LevelState
	if err := json.Unmarshal([]byte(stateJSON), &level); err != nil {
		return nil, fmt.Errorf("failed to unmarshal level: %w", err)
	}
	return &level, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	log.Info("Closing sqlite database...")
	return s.db.Close()
}
