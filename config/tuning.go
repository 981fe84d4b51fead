package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning gathers every level threshold, probability and attempt ceiling of
// the generation pipeline. The zero value is not usable; start from
// DefaultTuning.
type Tuning struct {
	MaxGenerationAttempts int `yaml:"max_generation_attempts"`
	MaxPlacementAttempts  int `yaml:"max_placement_attempts"`

	// Rooms and corridor widening share one threshold
	RoomLevel         int     `yaml:"room_level"`
	RoomChance        float64 `yaml:"room_chance"`
	RoomSizeBonus     int     `yaml:"room_size_bonus"`
	WidenBase         float64 `yaml:"widen_base"`
	WidenPerLevel     float64 `yaml:"widen_per_level"`
	WidenMax          float64 `yaml:"widen_max"`
	StoneWallLevel    int     `yaml:"stone_wall_level"`
	RuinsWallLevel    int     `yaml:"ruins_wall_level"`
	BookLevel         int     `yaml:"book_level"`
	EnemyLevel        int     `yaml:"enemy_level"`
	EnemyEvery        int     `yaml:"enemy_every"`
	NPCLevel          int     `yaml:"npc_level"`
	NPCEvery          int     `yaml:"npc_every"`
	MaxNPCs           int     `yaml:"max_npcs"`
	CameraFollowLevel int     `yaml:"camera_follow_level"`

	MemoryRadiusDivisor int     `yaml:"memory_radius_divisor"`
	MoveDelayBaseMs     int     `yaml:"move_delay_base_ms"`
	MoveDelayPerLevelMs int     `yaml:"move_delay_per_level_ms"`
	MoveDelayMinMs      int     `yaml:"move_delay_min_ms"`
	EnemyStepMs         int     `yaml:"enemy_step_ms"`
	PlayerHP            int     `yaml:"player_hp"`
	BoardPixels         float64 `yaml:"board_pixels"`
	FollowCellSize      float64 `yaml:"follow_cell_size"`
}

// DefaultTuning returns the built-in values
func DefaultTuning() Tuning {
	return Tuning{
		MaxGenerationAttempts: 30,
		MaxPlacementAttempts:  1000,

		RoomLevel:         20,
		RoomChance:        0.25,
		RoomSizeBonus:     2,
		WidenBase:         0.4,
		WidenPerLevel:     0.02,
		WidenMax:          0.6,
		StoneWallLevel:    16,
		RuinsWallLevel:    26,
		BookLevel:         10,
		EnemyLevel:        15,
		EnemyEvery:        15,
		NPCLevel:          25,
		NPCEvery:          10,
		MaxNPCs:           3,
		CameraFollowLevel: 15,

		MemoryRadiusDivisor: 5,
		MoveDelayBaseMs:     130,
		MoveDelayPerLevelMs: 5,
		MoveDelayMinMs:      60,
		EnemyStepMs:         500,
		PlayerHP:            100,
		BoardPixels:         400,
		FollowCellSize:      25,
	}
}

// ParseTuning overlays YAML data on the defaults. Keys missing from the
// document keep their default value.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("unmarshal tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// LoadTuning reads a tuning file; an empty path yields the defaults
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return DefaultTuning(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning %s: %w", path, err)
	}
	return ParseTuning(data)
}

// Validate rejects values that would break the pipeline guarantees
func (t Tuning) Validate() error {
	if t.MaxGenerationAttempts < 1 {
		return fmt.Errorf("max_generation_attempts must be >= 1, got %d", t.MaxGenerationAttempts)
	}
	if t.MaxPlacementAttempts < 1 {
		return fmt.Errorf("max_placement_attempts must be >= 1, got %d", t.MaxPlacementAttempts)
	}
	if t.RoomChance < 0 || t.RoomChance > 1 {
		return fmt.Errorf("room_chance must be within [0,1], got %v", t.RoomChance)
	}
	if t.WidenMax < 0 || t.WidenMax > 1 {
		return fmt.Errorf("widen_max must be within [0,1], got %v", t.WidenMax)
	}
	if t.MemoryRadiusDivisor < 1 {
		return fmt.Errorf("memory_radius_divisor must be >= 1, got %d", t.MemoryRadiusDivisor)
	}
	if t.EnemyEvery < 1 || t.NPCEvery < 1 {
		return fmt.Errorf("enemy_every and npc_every must be >= 1")
	}
	if t.PlayerHP < 1 {
		return fmt.Errorf("player_hp must be >= 1, got %d", t.PlayerHP)
	}
	return nil
}

// WallTierLevel returns the tier number for a level
func (t Tuning) WallTierLevel(level int) int {
	switch {
	case level >= t.RuinsWallLevel:
		return 3
	case level >= t.StoneWallLevel:
		return 2
	default:
		return 1
	}
}

// MemoryRadius is the extended-memory disk radius for a level
func (t Tuning) MemoryRadius(level int) int {
	r := level / t.MemoryRadiusDivisor
	if r < 1 {
		r = 1
	}
	return r
}

// WidenChance is the per-cell corridor widening probability for a level
func (t Tuning) WidenChance(level int) float64 {
	p := t.WidenBase + float64(level-t.RoomLevel)*t.WidenPerLevel
	if p > t.WidenMax {
		p = t.WidenMax
	}
	if p < 0 {
		p = 0
	}
	return p
}

// MoveDelayMs is the minimum time between two accepted player moves
func (t Tuning) MoveDelayMs(level int) int {
	d := t.MoveDelayBaseMs - level*t.MoveDelayPerLevelMs
	if d < t.MoveDelayMinMs {
		d = t.MoveDelayMinMs
	}
	return d
}

// NPCCount is the number of NPCs spawned on a level
func (t Tuning) NPCCount(level int) int {
	if level < t.NPCLevel {
		return 0
	}
	n := level / t.NPCEvery
	if n > t.MaxNPCs {
		n = t.MaxNPCs
	}
	return n
}

// EnemyCount is the number of enemies spawned on a level
func (t Tuning) EnemyCount(level int) int {
	if level < t.EnemyLevel {
		return 0
	}
	return level / t.EnemyEvery
}

// CellSize is the pixel size hint for renderers
func (t Tuning) CellSize(level, cols int) float64 {
	if level > t.CameraFollowLevel {
		return t.FollowCellSize
	}
	return t.BoardPixels / float64(cols)
}
