package services

import (
	"maze-daze/server/config"
	"maze-daze/server/models"
)

// VisibilityTracker maintains the cells revealed to the player. The
// recording flag outlives levels: once extended memory has been used, every
// later level keeps recording the disk around the player.
type VisibilityTracker struct {
	tuning           config.Tuning
	cols, rows       int
	visited          *models.VisitedSet
	recordingStarted bool
}

// NewVisibilityTracker creates a tracker with an empty memory
func NewVisibilityTracker(tuning config.Tuning) *VisibilityTracker {
	return &VisibilityTracker{tuning: tuning, visited: models.NewVisitedSet()}
}

// Reset forgets everything for a freshly generated grid. When recording has
// started the start cell is remembered right away.
func (vt *VisibilityTracker) Reset(grid *models.Grid) *models.VisitedSet {
	vt.cols, vt.rows = grid.Cols, grid.Rows
	if vt.recordingStarted {
		vt.visited = models.NewVisitedSet(grid.Start())
	} else {
		vt.visited = models.NewVisitedSet()
	}
	return vt.visited
}

// Attach adopts an existing memory, used when a saved level is resumed
func (vt *VisibilityTracker) Attach(grid *models.Grid, visited *models.VisitedSet) {
	vt.cols, vt.rows = grid.Cols, grid.Rows
	vt.visited = visited
}

// RecordVisit remembers the player's cell and, with extended memory, the
// Euclidean disk of radius max(1, level/divisor) around it. It returns how
// many cells were new.
func (vt *VisibilityTracker) RecordVisit(pos models.Position, level int, hasExtendedMemory bool) int {
	added := 0
	if vt.visited.Add(pos) {
		added++
	}

	if hasExtendedMemory || vt.recordingStarted {
		r := vt.tuning.MemoryRadius(level)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r*r {
					continue
				}
				x, y := pos.X+dx, pos.Y+dy
				if x < 0 || x >= vt.cols || y < 0 || y >= vt.rows {
					continue
				}
				if vt.visited.Add(models.Position{X: x, Y: y}) {
					added++
				}
			}
		}
	}

	if hasExtendedMemory {
		vt.recordingStarted = true
	}
	return added
}

// StartRecording turns extended memory on for the rest of the run; an empty
// memory is seeded with pos
func (vt *VisibilityTracker) StartRecording(pos models.Position) {
	vt.recordingStarted = true
	if vt.visited.Size() == 0 {
		vt.visited.Add(pos)
	}
}

// RecordingStarted reports whether extended memory was ever activated
func (vt *VisibilityTracker) RecordingStarted() bool {
	return vt.recordingStarted
}

// SetRecordingStarted restores the flag from a saved run
func (vt *VisibilityTracker) SetRecordingStarted(started bool) {
	vt.recordingStarted = started
}

// Visited returns the current memory
func (vt *VisibilityTracker) Visited() *models.VisitedSet {
	return vt.visited
}
