package messages

import (
	"encoding/json"

	"maze-daze/server/models"
)

// MessageType defines the type of message being sent
type MessageType string

const (
	MessageTypeLogin         MessageType = "login"
	MessageTypeLoginSuccess  MessageType = "login_success"
	MessageTypeMove          MessageType = "move"
	MessageTypeMoveResult    MessageType = "move_result"
	MessageTypeRestart       MessageType = "restart"
	MessageTypeSave          MessageType = "save"
	MessageTypeSaved         MessageType = "saved"
	MessageTypeUpdate        MessageType = "update"
	MessageTypeStory         MessageType = "story"
	MessageTypeDialog        MessageType = "dialog"
	MessageTypeLevelComplete MessageType = "level_complete"
	MessageTypeError         MessageType = "error"
	MessageTypeNotice        MessageType = "notice"
)

// BaseMessage is the envelope of every outgoing message
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// InboundMessage is the envelope of every incoming message; the payload is
// decoded once the type is known
type InboundMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// LoginMessage represents a login request
type LoginMessage struct {
	Username string `json:"username"`
}

// LoginSuccessMessage represents a successful login response
type LoginSuccessMessage struct {
	PlayerID string `json:"player_id"`
	Level    int    `json:"level"`
	Message  string `json:"message"`
}

// MoveMessage represents a player movement request
type MoveMessage struct {
	Direction string `json:"direction"` // north, east, south, west
}

// MoveResultMessage reports how a move request was handled
type MoveResultMessage struct {
	Moved     bool              `json:"moved"`
	Blocked   bool              `json:"blocked"`
	Reason    string            `json:"reason,omitempty"`
	Position  models.Position   `json:"position"`
	Collected []models.ItemKind `json:"collected,omitempty"`
	Sounds    []string          `json:"sounds,omitempty"`
	Damage    int               `json:"damage,omitempty"`
	HP        int               `json:"hp"`
	Died      bool              `json:"died,omitempty"`
	Won       bool              `json:"won,omitempty"`
}

// StoryMessage carries a story chapter unlocked by reaching a level
type StoryMessage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// DialogMessage carries an NPC line
type DialogMessage struct {
	NPC  string `json:"npc"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// LevelCompleteMessage announces that the exit was reached
type LevelCompleteMessage struct {
	Level     int `json:"level"`
	NextLevel int `json:"next_level"`
}

// NoticeMessage is a server announcement sent to every client
type NoticeMessage struct {
	Message string `json:"message"`
}

// SavedMessage acknowledges a save request
type SavedMessage struct {
	Level int `json:"level"`
}

// LevelView is what a renderer needs to draw one frame of a level
type LevelView struct {
	Level        int                 `json:"level"`
	Cols         int                 `json:"cols"`
	Rows         int                 `json:"rows"`
	CellSize     float64             `json:"cell_size"`
	CameraFollow bool                `json:"camera_follow"`
	SightRadius  float64             `json:"sight_radius"`
	Player       models.Position     `json:"player"`
	Exit         models.Position     `json:"exit"`
	HP           int                 `json:"hp"`
	Coins        int                 `json:"coins"`
	HasKey       bool                `json:"has_key"`
	HasBook      bool                `json:"has_book"`
	Tiles        [][]models.CellType `json:"tiles"`
	Fog          [][]models.FogState `json:"fog"`
	WallTypes    models.WallTypeMap  `json:"wall_types"`
	Rooms        []models.Room       `json:"rooms"`
	Treasures    []models.Treasure   `json:"treasures"`
	NPCs         []models.NPC        `json:"npcs"`
	Enemies      []models.Enemy      `json:"enemies"`
	Visited      []models.Position   `json:"visited"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
