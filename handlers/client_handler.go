package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"maze-daze/server/messages"
	"maze-daze/server/models"
	"maze-daze/server/network"
	"maze-daze/server/services"
)

// Error codes sent to clients
const (
	CodeBadMessage      = "BAD_MESSAGE"
	CodeUnknownType     = "UNKNOWN_MESSAGE_TYPE"
	CodeNotLoggedIn     = "NOT_LOGGED_IN"
	CodeAlreadyLoggedIn = "ALREADY_LOGGED_IN"
	CodeInvalidUsername = "INVALID_USERNAME"
	CodeLoginFailed     = "LOGIN_FAILED"
	CodeMoveFailed      = "MOVE_FAILED"
	CodeRestartFailed   = "RESTART_FAILED"
	CodeSaveFailed      = "SAVE_FAILED"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	conn          *network.Connection
	playerService *services.PlayerService
	worldService  *services.WorldService
	clientManager *ClientManager
	player        *models.Player
}

// HandleClientConnection serves a client until its connection closes
func HandleClientConnection(wsConn *websocket.Conn, playerService *services.PlayerService, worldService *services.WorldService, clientManager *ClientManager) {
	clientManager.active.Add(1)
	defer clientManager.active.Done()

	conn := network.NewConnection(wsConn)
	handler := &ClientHandler{
		conn:          conn,
		playerService: playerService,
		worldService:  worldService,
		clientManager: clientManager,
	}
	log.WithField("remote", conn.RemoteAddr()).Info("New connection")

	go conn.WritePump()
	conn.ReadPump(handler)

	if handler.player == nil {
		return
	}
	// a newer connection of the same player stays registered and keeps its
	// own hold on the world session
	if !clientManager.RemoveClient(handler.player.ID, handler) {
		log.WithField("player", handler.player.Username).Debug("Connection was replaced")
	}
	if err := playerService.Logout(handler.player.ID); err != nil {
		log.WithError(err).WithField("player", handler.player.Username).Error("Failed to save on disconnect")
	}
	log.WithField("player", handler.player.Username).Info("Player disconnected")
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var msg messages.InboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.WithError(err).Debug("Error unmarshaling message")
		h.sendError(CodeBadMessage, "Malformed message")
		return
	}

	if msg.Type != messages.MessageTypeLogin && h.player == nil {
		h.sendError(CodeNotLoggedIn, "Log in first")
		return
	}

	switch msg.Type {
	case messages.MessageTypeLogin:
		h.handleLogin(msg.Payload)
	case messages.MessageTypeMove:
		h.handleMove(msg.Payload)
	case messages.MessageTypeRestart:
		h.handleRestart()
	case messages.MessageTypeSave:
		h.handleSave()
	default:
		log.WithField("type", msg.Type).Debug("Unknown message type")
		h.sendError(CodeUnknownType, "Unknown message type received")
	}
}

// handleLogin handles login requests
func (h *ClientHandler) handleLogin(payload json.RawMessage) {
	if h.player != nil {
		h.sendError(CodeAlreadyLoggedIn, "Already logged in")
		return
	}

	var loginMsg messages.LoginMessage
	if err := json.Unmarshal(payload, &loginMsg); err != nil {
		h.sendError(CodeBadMessage, "Malformed login payload")
		return
	}

	player, chapter, err := h.playerService.GetOrCreatePlayer(loginMsg.Username)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUsername) {
			h.sendError(CodeInvalidUsername, err.Error())
			return
		}
		log.WithError(err).WithField("username", loginMsg.Username).Error("Error getting/creating player")
		h.sendError(CodeLoginFailed, "Failed to log in")
		return
	}

	h.player = player
	h.clientManager.AddClient(player.ID, h)

	progress, err := h.worldService.GetProgress(player.ID)
	if err != nil {
		h.sendError(CodeLoginFailed, "Failed to log in")
		return
	}
	h.send(messages.MessageTypeLoginSuccess, messages.LoginSuccessMessage{
		PlayerID: player.ID,
		Level:    progress.Level,
		Message:  "Login successful",
	})
	h.sendChapter(chapter)
	h.sendUpdate()
}

// handleMove handles player movement requests
func (h *ClientHandler) handleMove(payload json.RawMessage) {
	var moveMsg messages.MoveMessage
	if err := json.Unmarshal(payload, &moveMsg); err != nil {
		h.sendError(CodeBadMessage, "Malformed move payload")
		return
	}

	out, err := h.worldService.MovePlayer(h.player.ID, moveMsg.Direction)
	if err != nil {
		h.sendError(CodeMoveFailed, err.Error())
		return
	}

	res := out.Result
	h.send(messages.MessageTypeMoveResult, messages.MoveResultMessage{
		Moved:     res.Moved,
		Blocked:   res.Blocked,
		Reason:    string(res.Reason),
		Position:  res.Position,
		Collected: res.Collected,
		Sounds:    res.Sounds,
		Damage:    res.Damage,
		HP:        out.HP,
		Died:      res.Died,
		Won:       res.Won,
	})
	for _, d := range res.Dialogs {
		h.send(messages.MessageTypeDialog, messages.DialogMessage{
			NPC:  d.NPC,
			Role: string(d.Role),
			Text: d.Text,
		})
	}
	if out.Completed > 0 {
		h.send(messages.MessageTypeLevelComplete, messages.LevelCompleteMessage{
			Level:     out.Completed,
			NextLevel: out.Completed + 1,
		})
	}
	h.sendChapter(out.Chapter)

	if res.Moved || res.Died || res.Won {
		h.sendUpdate()
	}
}

// handleRestart sends the player back to the first level
func (h *ClientHandler) handleRestart() {
	chapter, err := h.worldService.RestartPlayer(h.player.ID)
	if err != nil {
		h.sendError(CodeRestartFailed, err.Error())
		return
	}
	h.sendChapter(chapter)
	h.sendUpdate()
}

// handleSave persists the run on request
func (h *ClientHandler) handleSave() {
	level, err := h.worldService.SaveProgress(h.player.ID)
	if err != nil {
		log.WithError(err).WithField("player", h.player.Username).Error("Save failed")
		h.sendError(CodeSaveFailed, "Failed to save progress")
		return
	}
	h.send(messages.MessageTypeSaved, messages.SavedMessage{Level: level})
}

// sendUpdate sends the current level view to the player
func (h *ClientHandler) sendUpdate() {
	if h.player == nil {
		return
	}
	view, err := h.worldService.GetLevelView(h.player.ID)
	if err != nil {
		log.WithError(err).Debug("No level view")
		return
	}
	h.send(messages.MessageTypeUpdate, view)
}

func (h *ClientHandler) sendChapter(chapter *services.Chapter) {
	if chapter == nil {
		return
	}
	h.send(messages.MessageTypeStory, messages.StoryMessage{
		ID:    chapter.ID,
		Title: chapter.Title,
		Text:  chapter.Text,
	})
}

func (h *ClientHandler) sendError(code, message string) {
	h.send(messages.MessageTypeError, messages.ErrorMessage{Code: code, Message: message})
}

func (h *ClientHandler) send(t messages.MessageType, payload interface{}) {
	msg := messages.BaseMessage{Type: t, Payload: payload}
	if err := h.conn.SendMessage(msg); err != nil {
		log.WithError(err).WithField("type", t).Debug("Error sending message")
	}
}
