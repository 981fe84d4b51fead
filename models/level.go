package models

// GenerationOutcome records how the connectivity check concluded
type GenerationOutcome string

// Generation outcomes
const (
	OutcomeOK      GenerationOutcome = "ok"
	OutcomeRetried GenerationOutcome = "retry"
	OutcomeForced  GenerationOutcome = "forced"
)

// LevelState aggregates everything a level is made of. It is replaced as a
// whole when a level is (re)generated; field names and shapes are stable
// across levels.
type LevelState struct {
	Level        int               `json:"level"`
	Grid         *Grid             `json:"grid"`
	WallTypes    WallTypeMap       `json:"wall_types"`
	Rooms        []Room            `json:"rooms"`
	Treasures    []*Treasure       `json:"treasures"`
	NPCs         []*NPC            `json:"npcs"`
	Enemies      []*Enemy          `json:"enemies"`
	Visited      *VisitedSet       `json:"visited"`
	CellSize     float64           `json:"cell_size"`
	CameraFollow bool              `json:"camera_follow"`
	Attempts     int               `json:"attempts"`
	Outcome      GenerationOutcome `json:"outcome"`
}

// TreasureAt returns the uncollected treasure lying on p, if any
func (l *LevelState) TreasureAt(p Position) *Treasure {
	for _, t := range l.Treasures {
		if !t.Collected && t.Pos == p {
			return t
		}
	}
	return nil
}

// NPCAt returns the NPC standing on p, if any
func (l *LevelState) NPCAt(p Position) *NPC {
	for _, n := range l.NPCs {
		if n.Pos == p {
			return n
		}
	}
	return nil
}

// EnemyAt returns the active enemy standing on p, if any
func (l *LevelState) EnemyAt(p Position) *Enemy {
	for _, e := range l.Enemies {
		if !e.Defeated && e.Pos == p {
			return e
		}
	}
	return nil
}
