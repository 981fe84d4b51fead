package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Position is a cell coordinate on the grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position shifted by d
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// MarshalText encodes the position as "x_y" so it can key JSON objects
func (p Position) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d_%d", p.X, p.Y)), nil
}

// UnmarshalText decodes the "x_y" form
func (p *Position) UnmarshalText(text []byte) error {
	if _, err := fmt.Sscanf(string(text), "%d_%d", &p.X, &p.Y); err != nil {
		return fmt.Errorf("invalid position %q: %w", string(text), err)
	}
	return nil
}

type plainPosition Position

// MarshalJSON keeps the object form for plain fields; MarshalText only
// applies to map keys
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(plainPosition(p))
}

// UnmarshalJSON decodes the object form
func (p *Position) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, (*plainPosition)(p))
}

// Directions are the four orthogonal unit steps
var Directions = [4]Position{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// Player is the persisted profile of a connected player
type Player struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress is the plain-data snapshot handed to persistence
type Progress struct {
	Level            int       `json:"level"`
	HasKey           bool      `json:"has_key"`
	HasBook          bool      `json:"has_book"`
	HP               int       `json:"hp"`
	Coins            int       `json:"coins"`
	Position         Position  `json:"position"`
	Collected        []bool    `json:"collected"` // per treasure of the current level
	UnlockedStories  []string  `json:"unlocked_stories"`
	RecordingStarted bool      `json:"recording_started"`
	SavedAt          time.Time `json:"saved_at"`
}

// Treasure is an item lying on the level
type Treasure struct {
	Kind      ItemKind `json:"kind"`
	Pos       Position `json:"pos"`
	Collected bool     `json:"collected"`
}

// NPC is a non-playable character spawned on the level
type NPC struct {
	Index       int      `json:"index"`
	Kind        NPCKind  `json:"kind"`
	Role        NPCRole  `json:"role"`
	Pos         Position `json:"pos"`
	DialogShown bool     `json:"dialog_shown"`
}

// Enemy is a hostile entity with a stat snapshot taken at spawn time
type Enemy struct {
	Kind       EnemyKind     `json:"kind"`
	Behavior   EnemyBehavior `json:"behavior"`
	Pos        Position      `json:"pos"`
	Stats      EnemyStats    `json:"stats"`
	LastUpdate time.Time     `json:"last_update"`
	Defeated   bool          `json:"defeated"`
}
