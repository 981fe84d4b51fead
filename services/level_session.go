package services

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"maze-daze/server/config"
	"maze-daze/server/models"
)

// Phase is the setup stage a level is in
type Phase int

// Level setup phases
const (
	PhaseUninitialized Phase = iota
	PhaseGenerating
	PhaseConnectivityChecked
	PhasePostProcessed
	PhaseEntitiesPlaced
	PhaseReady
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseGenerating:
		return "generating"
	case PhaseConnectivityChecked:
		return "connectivity_checked"
	case PhasePostProcessed:
		return "post_processed"
	case PhaseEntitiesPlaced:
		return "entities_placed"
	case PhaseReady:
		return "ready"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// LevelSession owns the authoritative LevelState of one player and runs
// level setup, movement and progression on it. It is not safe for
// concurrent use; callers serialize access.
type LevelSession struct {
	tuning config.Tuning
	rng    Rand
	story  *StoryBook
	post   *LevelPostProcessor
	placer *EntityPlacer
	vision *VisibilityTracker

	// generate carves the raw maze for one build attempt
	generate func(cols, rows int, rng Rand) *models.Grid

	state    *models.LevelState
	phase    Phase
	player   models.Position
	hasKey   bool
	hasBook  bool
	hp       int
	coins    int
	lastMove time.Time
}

// NewLevelSession creates a session; story may be nil
func NewLevelSession(tuning config.Tuning, rng Rand, story *StoryBook) *LevelSession {
	if story == nil {
		story = NewStoryBook()
	}
	return &LevelSession{
		tuning:   tuning,
		rng:      rng,
		story:    story,
		post:     NewLevelPostProcessor(tuning),
		placer:   NewEntityPlacer(tuning, rng),
		vision:   NewVisibilityTracker(tuning),
		generate: Generate,
		hp:       tuning.PlayerHP,
	}
}

// SetTuning swaps the tuning; it applies from the next level setup on
func (s *LevelSession) SetTuning(tuning config.Tuning) {
	s.tuning = tuning
	s.post = NewLevelPostProcessor(tuning)
	s.placer = NewEntityPlacer(tuning, s.rng)
	recording := s.vision.RecordingStarted()
	visited := s.vision.Visited()
	s.vision = NewVisibilityTracker(tuning)
	s.vision.SetRecordingStarted(recording)
	if s.state != nil {
		s.vision.Attach(s.state.Grid, visited)
	}
}

// InitLevel discards the current level and builds a new one. It returns
// the story chapter unlocked by reaching the level, if any.
func (s *LevelSession) InitLevel(level int) *Chapter {
	if level < 1 {
		level = 1
	}
	s.phase = PhaseUninitialized

	grid, rooms, attempts, outcome := s.buildGrid(level)
	s.phase = PhaseConnectivityChecked

	state := &models.LevelState{
		Level:        level,
		Grid:         grid,
		Rooms:        rooms,
		WallTypes:    s.post.AssignWallTypes(grid, level),
		CellSize:     s.tuning.CellSize(level, grid.Cols),
		CameraFollow: level >= s.tuning.CameraFollowLevel,
		Attempts:     attempts,
		Outcome:      outcome,
	}
	s.phase = PhasePostProcessed

	s.placer.PlaceAll(state)
	s.phase = PhaseEntitiesPlaced

	s.player = grid.Start()
	s.hasKey = false
	s.hasBook = false
	s.lastMove = time.Time{}
	state.Visited = s.vision.Reset(grid)
	s.state = state
	s.phase = PhaseReady

	log.WithFields(log.Fields{
		"level":     level,
		"size":      grid.Cols,
		"attempts":  attempts,
		"outcome":   outcome,
		"rooms":     len(rooms),
		"treasures": len(state.Treasures),
		"npcs":      len(state.NPCs),
		"enemies":   len(state.Enemies),
	}).Info("Level ready")

	return s.story.CheckLevel(level)
}

// buildGrid runs generate + post-process + connectivity check until the
// level is solvable or the attempt ceiling is hit, then forces a path
func (s *LevelSession) buildGrid(level int) (*models.Grid, []models.Room, int, models.GenerationOutcome) {
	size := models.GridSizeForLevel(level)
	var grid *models.Grid
	var rooms []models.Room

	for attempt := 1; attempt <= s.tuning.MaxGenerationAttempts; attempt++ {
		s.phase = PhaseGenerating
		grid = s.generate(size, size, s.rng)
		rooms = s.post.Apply(grid, level, s.rng)

		if IsReachable(grid, grid.Start(), grid.Exit()) {
			outcome := models.OutcomeOK
			if attempt > 1 {
				outcome = models.OutcomeRetried
			}
			return grid, rooms, attempt, outcome
		}
		log.WithFields(log.Fields{"level": level, "attempt": attempt}).Debug("Level unsolvable, regenerating")
	}

	path := ForcePath(grid, grid.Start(), grid.Exit())
	log.WithFields(log.Fields{
		"level":    level,
		"attempts": s.tuning.MaxGenerationAttempts,
		"path_len": len(path),
	}).Warn("Generation attempts exhausted, forced a path to the exit")
	return grid, rooms, s.tuning.MaxGenerationAttempts, models.OutcomeForced
}

// Advance moves on to the next level
func (s *LevelSession) Advance() *Chapter {
	return s.InitLevel(s.Level() + 1)
}

// Restart drops all progress and goes back to level 1
func (s *LevelSession) Restart() *Chapter {
	s.hp = s.tuning.PlayerHP
	s.coins = 0
	return s.InitLevel(1)
}

// State returns the authoritative level state; nil before the first
// InitLevel
func (s *LevelSession) State() *models.LevelState {
	return s.state
}

// Phase returns the setup stage of the current level
func (s *LevelSession) Phase() Phase {
	return s.phase
}

// Level returns the current level number, 0 before the first InitLevel
func (s *LevelSession) Level() int {
	if s.state == nil {
		return 0
	}
	return s.state.Level
}

// Player returns the player's cell
func (s *LevelSession) Player() models.Position {
	return s.player
}

// HasKey reports whether the exit is unlocked
func (s *LevelSession) HasKey() bool {
	return s.hasKey
}

// HasBook reports whether extended memory is held on this level
func (s *LevelSession) HasBook() bool {
	return s.hasBook
}

// HP returns the player's health
func (s *LevelSession) HP() int {
	return s.hp
}

// Coins returns the collected coin score
func (s *LevelSession) Coins() int {
	return s.coins
}

// Story returns the session's story book
func (s *LevelSession) Story() *StoryBook {
	return s.story
}

// Snapshot exports the plain-data progress of the run
func (s *LevelSession) Snapshot() models.Progress {
	p := models.Progress{
		Level:            s.Level(),
		HasKey:           s.hasKey,
		HasBook:          s.hasBook,
		HP:               s.hp,
		Coins:            s.coins,
		Position:         s.player,
		UnlockedStories:  s.story.Unlocked(),
		RecordingStarted: s.vision.RecordingStarted(),
	}
	if s.state != nil {
		p.Collected = make([]bool, len(s.state.Treasures))
		for i, t := range s.state.Treasures {
			p.Collected[i] = t.Collected
		}
	}
	return p
}

// Restore applies saved progress and generates a fresh layout for the
// saved level. Per-level flags (key, book, collected) start over.
func (s *LevelSession) Restore(p models.Progress) *Chapter {
	s.applyRunProgress(p)
	return s.InitLevel(p.Level)
}

// Resume continues a saved level layout exactly where it was left
func (s *LevelSession) Resume(state *models.LevelState, p models.Progress) error {
	if err := validateLevel(state, p.Level); err != nil {
		return err
	}
	s.applyRunProgress(p)

	if len(p.Collected) == len(state.Treasures) {
		for i, t := range state.Treasures {
			t.Collected = p.Collected[i]
		}
	}
	s.state = state
	s.hasKey = p.HasKey
	s.hasBook = p.HasBook
	s.lastMove = time.Time{}
	s.player = state.Grid.Start()
	if state.Grid.IsOpen(p.Position.X, p.Position.Y) {
		s.player = p.Position
	}
	s.vision.Attach(state.Grid, state.Visited)
	s.phase = PhaseReady
	return nil
}

func (s *LevelSession) applyRunProgress(p models.Progress) {
	s.story = NewStoryBook(p.UnlockedStories...)
	s.vision.SetRecordingStarted(p.RecordingStarted)
	s.coins = p.Coins
	s.hp = p.HP
	if s.hp <= 0 {
		s.hp = s.tuning.PlayerHP
	}
}

func validateLevel(state *models.LevelState, level int) error {
	switch {
	case state == nil:
		return errors.New("no saved level")
	case state.Grid == nil || len(state.Grid.Cells) != state.Grid.Rows:
		return errors.New("saved level has a malformed grid")
	case state.Level != level:
		return fmt.Errorf("saved level %d does not match progress level %d", state.Level, level)
	case state.Visited == nil:
		return errors.New("saved level has no visited set")
	}
	for _, row := range state.Grid.Cells {
		if len(row) != state.Grid.Cols {
			return errors.New("saved level has a malformed grid")
		}
	}
	return nil
}
