package models

import (
	"encoding/json"

	"github.com/zyedidia/generic/mapset"
)

// VisitedSet is the player's memory of explored cells. Insertion order is
// kept so snapshots are stable; membership goes through the set.
type VisitedSet struct {
	seen  mapset.Set[Position]
	cells []Position
}

// NewVisitedSet creates a visited set seeded with the given cells
func NewVisitedSet(seed ...Position) *VisitedSet {
	v := &VisitedSet{seen: mapset.New[Position]()}
	for _, p := range seed {
		v.Add(p)
	}
	return v
}

// Add inserts p and reports whether it was new
func (v *VisitedSet) Add(p Position) bool {
	if v.seen.Has(p) {
		return false
	}
	v.seen.Put(p)
	v.cells = append(v.cells, p)
	return true
}

// Has reports membership
func (v *VisitedSet) Has(p Position) bool {
	return v.seen.Has(p)
}

// Size returns the number of remembered cells
func (v *VisitedSet) Size() int {
	return v.seen.Size()
}

// Cells returns the remembered cells in insertion order
func (v *VisitedSet) Cells() []Position {
	return append([]Position(nil), v.cells...)
}

// MarshalJSON encodes the set as an array
func (v *VisitedSet) MarshalJSON() ([]byte, error) {
	if v.cells == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.cells)
}

// UnmarshalJSON decodes an array, dropping duplicates
func (v *VisitedSet) UnmarshalJSON(data []byte) error {
	var cells []Position
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	v.seen = mapset.New[Position]()
	v.cells = nil
	for _, p := range cells {
		v.Add(p)
	}
	return nil
}
