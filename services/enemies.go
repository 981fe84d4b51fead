package services

import (
	"time"

	"maze-daze/server/models"
)

// UpdateEnemies advances every active enemy whose step interval elapsed and
// reports whether any of them moved. Chasers head for the player when they
// are within aggro radius; everything else wanders. Enemies never enter the
// player's cell, contact only happens when the player walks into one.
func (s *LevelSession) UpdateEnemies(now time.Time) bool {
	if s.state == nil || s.phase != PhaseReady {
		return false
	}
	interval := time.Duration(s.tuning.EnemyStepMs) * time.Millisecond
	moved := false

	for _, e := range s.state.Enemies {
		if e.Defeated || now.Sub(e.LastUpdate) < interval {
			continue
		}
		e.LastUpdate = now

		if e.Behavior == models.BehaviorChase && s.inAggro(e) && s.stepToward(e) {
			moved = true
			continue
		}
		if s.wander(e) {
			moved = true
		}
	}
	return moved
}

func (s *LevelSession) inAggro(e *models.Enemy) bool {
	if e.Stats.AggroRadius <= 0 {
		return true
	}
	return abs(s.player.X-e.Pos.X)+abs(s.player.Y-e.Pos.Y) <= e.Stats.AggroRadius
}

// stepToward tries the axis with the larger gap first, then the other one
func (s *LevelSession) stepToward(e *models.Enemy) bool {
	dx, dy := s.player.X-e.Pos.X, s.player.Y-e.Pos.Y
	steps := []models.Position{{X: sign(dx)}, {Y: sign(dy)}}
	if abs(dy) > abs(dx) {
		steps[0], steps[1] = steps[1], steps[0]
	}
	for _, d := range steps {
		if d == (models.Position{}) {
			continue
		}
		if s.enemyCanEnter(e.Pos.Add(d)) {
			e.Pos = e.Pos.Add(d)
			return true
		}
	}
	return false
}

func (s *LevelSession) wander(e *models.Enemy) bool {
	dirs := models.Directions
	s.rng.Shuffle(len(dirs), func(i, j int) {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	})
	for _, d := range dirs {
		if s.enemyCanEnter(e.Pos.Add(d)) {
			e.Pos = e.Pos.Add(d)
			return true
		}
	}
	return false
}

// enemyCanEnter rejects walls, the player's cell and cells held by another
// active enemy
func (s *LevelSession) enemyCanEnter(p models.Position) bool {
	if !s.state.Grid.IsOpen(p.X, p.Y) || p == s.player {
		return false
	}
	return s.state.EnemyAt(p) == nil
}
