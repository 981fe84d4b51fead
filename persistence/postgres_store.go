package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	log "github.com/sirupsen/logrus"

	"maze-daze/server/models"
)

// PostgresStore handles database operations using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema initializes the database schema
func (dm *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		level INTEGER NOT NULL,
		progress JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS levels (
		player_id TEXT PRIMARY KEY REFERENCES players(id) ON DELETE CASCADE,
		level INTEGER NOT NULL,
		cols INTEGER NOT NULL,
		rows INTEGER NOT NULL,
		state JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := dm.db.Exec(schema)
	return err
}

// SavePlayer saves a player to the database
func (dm *PostgresStore) SavePlayer(player *models.Player) error {
	progressJSON, err := json.Marshal(player.Progress)
	if err != nil {
		return fmt.Errorf("failed to marshal player progress: %w", err)
	}

	query := `
	INSERT INTO players (id, username, level, progress, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (id)
	DO UPDATE SET
		level = $3, progress = $4,
		updated_at = NOW()
	`

	_, err = dm.db.Exec(query,
		player.ID, player.Username, player.Progress.Level,
		string(progressJSON), player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}

	return nil
}

// LoadPlayer loads a player from the database by ID
func (dm *PostgresStore) LoadPlayer(playerID string) (*models.Player, error) {
	query := `SELECT id, username, progress, created_at, updated_at FROM players WHERE id = $1`
	return dm.scanPlayer(dm.db.QueryRow(query, playerID), "ID "+playerID)
}

// LoadPlayerByUsername loads a player from the database by username
func (dm *PostgresStore) LoadPlayerByUsername(username string) (*models.Player, error) {
	query := `SELECT id, username, progress, created_at, updated_at FROM players WHERE username = $1`
	return dm.scanPlayer(dm.db.QueryRow(query, username), "username "+username)
}

func (dm *PostgresStore) scanPlayer(row *sql.Row, lookup string) (*models.Player, error) {
	var player models.Player
	var progressJSON string

	err := row.Scan(&player.ID, &player.Username, &progressJSON, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
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
func (dm *PostgresStore) SaveLevel(playerID string, level *models.LevelState) error {
	stateJSON, err := json.Marshal(level)
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	query := `
	INSERT INTO levels (player_id, level, cols, rows, state)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (player_id)
	DO UPDATE SET
		level = $2, cols = $3, rows = $4, state = $5,
		updated_at = NOW()
	`

	_, err = dm.db.Exec(query,
		playerID, level.Level, level.Grid.Cols, level.Grid.Rows,
		string(stateJSON))
	if err != nil {
		return fmt.Errorf("failed to save level: %w", err)
	}

	return nil
}

// LoadLevel loads the archived level layout of a player
func (dm *PostgresStore) LoadLevel(playerID string) (*models.LevelState, error) {
	query := `SELECT state FROM levels WHERE player_id = $1`

	var stateJSON string
	err := dm.db.QueryRow(query, playerID).Scan(&stateJSON)
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

// Close closes the database connection
func (dm *PostgresStore) Close() error {
	log.Info("Closing database connection...")
	return dm.db.Close()
}
