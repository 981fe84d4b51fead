package services

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"maze-daze/server/models"
)

// Direction is a single orthogonal step
type Direction int

// Directions a player can move in
const (
	North Direction = iota
	East
	South
	West
)

// ParseDirection maps a direction name to a Direction
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "north", "up":
		return North, nil
	case "east", "right":
		return East, nil
	case "south", "down":
		return South, nil
	case "west", "left":
		return West, nil
	default:
		return 0, fmt.Errorf("invalid direction %q", name)
	}
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Delta returns the unit step of the direction
func (d Direction) Delta() models.Position {
	if !d.Valid() {
		return models.Position{}
	}
	return models.Directions[d]
}

// MoveReason explains why a move was not applied
type MoveReason string

// Move rejection reasons
const (
	ReasonNone        MoveReason = ""
	ReasonOutOfBounds MoveReason = "out_of_bounds"
	ReasonWall        MoveReason = "wall"
	ReasonExitLocked  MoveReason = "exit_locked"
	ReasonThrottled   MoveReason = "throttled"
	ReasonNotReady    MoveReason = "not_ready"
	ReasonBadInput    MoveReason = "invalid_direction"
)

// MoveResult is the structured outcome of a move request
type MoveResult struct {
	Moved     bool              `json:"moved"`
	Blocked   bool              `json:"blocked"`
	Reason    MoveReason        `json:"reason,omitempty"`
	Position  models.Position   `json:"position"`
	Collected []models.ItemKind `json:"collected,omitempty"`
	Sounds    []string          `json:"sounds,omitempty"` // cues for the collected items
	Dialogs   []Dialog          `json:"dialogs,omitempty"`
	Revealed  int               `json:"revealed"`
	Damage    int               `json:"damage,omitempty"`
	Died      bool              `json:"died,omitempty"`
	Won       bool              `json:"won,omitempty"`
}

// IsValidMove reports whether (x, y) is inside the grid and open
func (s *LevelSession) IsValidMove(x, y int) bool {
	return s.state != nil && s.state.Grid.IsOpen(x, y)
}

// MoveDelay is the minimum time between two accepted moves on the level
func (s *LevelSession) MoveDelay() time.Duration {
	return time.Duration(s.tuning.MoveDelayMs(s.Level())) * time.Millisecond
}

// Move steps the player one cell. Rejected moves are reported through the
// result, never as an error. An accepted move records the visit, collects
// treasures, talks to NPCs, resolves enemy contact and checks for the win.
func (s *LevelSession) Move(dir Direction, now time.Time) MoveResult {
	if s.state == nil || s.phase != PhaseReady {
		return MoveResult{Reason: ReasonNotReady, Position: s.player}
	}
	if !dir.Valid() {
		return MoveResult{Reason: ReasonBadInput, Position: s.player}
	}
	if !s.lastMove.IsZero() && now.Sub(s.lastMove) < s.MoveDelay() {
		return MoveResult{Reason: ReasonThrottled, Position: s.player}
	}

	grid := s.state.Grid
	target := s.player.Add(dir.Delta())
	if !grid.InBounds(target.X, target.Y) {
		return MoveResult{Reason: ReasonOutOfBounds, Position: s.player}
	}
	if !s.IsValidMove(target.X, target.Y) {
		return MoveResult{Reason: ReasonWall, Position: s.player}
	}
	if target == grid.Exit() && !s.hasKey {
		return MoveResult{Blocked: true, Reason: ReasonExitLocked, Position: s.player}
	}

	s.player = target
	s.lastMove = now
	res := MoveResult{Moved: true, Position: target}
	res.Revealed = s.vision.RecordVisit(target, s.state.Level, s.hasBook)

	s.collect(&res)
	s.interact(&res)
	s.resolveContact(&res)
	if res.Died {
		return res
	}

	res.Won = s.player == grid.Exit() && s.hasKey
	return res
}

func (s *LevelSession) collect(res *MoveResult) {
	t := s.state.TreasureAt(s.player)
	if t == nil {
		return
	}
	t.Collected = true
	res.Collected = append(res.Collected, t.Kind)

	cfg := t.Kind.Config()
	if cfg.Sound != "" {
		res.Sounds = append(res.Sounds, cfg.Sound)
	}
	switch cfg.Action {
	case models.ActionCollectKey:
		s.hasKey = true
	case models.ActionCollectBook:
		s.hasBook = true
		s.vision.StartRecording(s.player)
	case models.ActionCollectChest, models.ActionCollectCoin:
		s.coins += cfg.Coins
	}
}

func (s *LevelSession) interact(res *MoveResult) {
	npc := s.state.NPCAt(s.player)
	if npc == nil || npc.DialogShown {
		return
	}
	npc.DialogShown = true
	res.Dialogs = append(res.Dialogs, s.story.Interact(npc, s.rng))
}

// resolveContact applies enemy damage; an enemy that hits the player is
// spent. Running out of HP restarts the level with full health.
func (s *LevelSession) resolveContact(res *MoveResult) {
	e := s.state.EnemyAt(s.player)
	if e == nil {
		return
	}
	e.Defeated = true
	s.hp -= e.Stats.Damage
	res.Damage += e.Stats.Damage

	if s.hp > 0 {
		return
	}
	level := s.state.Level
	log.WithFields(log.Fields{"level": level, "enemy": e.Kind}).Info("Player defeated, restarting level")
	s.hp = s.tuning.PlayerHP
	s.InitLevel(level)
	res.Died = true
	res.Position = s.player
}
