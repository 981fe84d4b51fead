package models

// ItemKind identifies a collectible item
type ItemKind string

// Item kinds
const (
	ItemKey   ItemKind = "key"
	ItemBook  ItemKind = "book"
	ItemChest ItemKind = "chest"
	ItemCoin  ItemKind = "coin"
)

// ItemAction is the effect applied when an item is collected
type ItemAction string

// Item actions
const (
	ActionCollectKey   ItemAction = "collect_key"
	ActionCollectBook  ItemAction = "collect_book"
	ActionCollectChest ItemAction = "collect_chest"
	ActionCollectCoin  ItemAction = "collect_coin"
)

// ItemConfig is the static record of an item kind
type ItemConfig struct {
	Name   string     `json:"name"`
	Action ItemAction `json:"action"`
	Sound  string     `json:"sound"`
	Coins  int        `json:"coins"`
}

// Config returns the registry record of the item kind
func (k ItemKind) Config() ItemConfig {
	switch k {
	case ItemKey:
		return ItemConfig{Name: "Key", Action: ActionCollectKey, Sound: "get"}
	case ItemBook:
		return ItemConfig{Name: "Book of Knowledge", Action: ActionCollectBook, Sound: "get"}
	case ItemChest:
		return ItemConfig{Name: "Chest", Action: ActionCollectChest, Sound: "get", Coins: 10}
	case ItemCoin:
		return ItemConfig{Name: "Coin", Action: ActionCollectCoin, Sound: "get", Coins: 1}
	default:
		return ItemConfig{Name: string(k)}
	}
}

// NPCKind identifies a non-playable character
type NPCKind string

// NPC kinds
const (
	NPCWanderer NPCKind = "wanderer"
	NPCGuardian NPCKind = "guardian"
	NPCShadow   NPCKind = "shadow"
)

// NPCKinds lists every NPC kind in spawn-table order
var NPCKinds = []NPCKind{NPCWanderer, NPCGuardian, NPCShadow}

// NPCRole describes what an NPC does for the player
type NPCRole string

// NPC roles
const (
	RoleGuide      NPCRole = "guide"
	RoleGatekeeper NPCRole = "gatekeeper"
	RoleWatcher    NPCRole = "watcher"
)

// NPCConfig is the static record of an NPC kind
type NPCConfig struct {
	Name    string   `json:"name"`
	Role    NPCRole  `json:"role"`
	Dialogs []string `json:"dialogs"`
}

// Config returns the registry record of the NPC kind
func (k NPCKind) Config() NPCConfig {
	switch k {
	case NPCWanderer:
		return NPCConfig{
			Name: "Wanderer",
			Role: RoleGuide,
			Dialogs: []string{
				"Who are you, drifter of the maze?",
				"I remember these walls... so many years...",
				"If you seek the exit, be careful...",
			},
		}
	case NPCGuardian:
		return NPCConfig{
			Name: "Guardian",
			Role: RoleGatekeeper,
			Dialogs: []string{
				"Welcome to my home...",
				"The key opens more than doors.",
				"Find every part of the story and you will learn the truth.",
			},
		}
	case NPCShadow:
		return NPCConfig{
			Name: "Shadow",
			Role: RoleWatcher,
			Dialogs: []string{
				"You can see me? That is a good sign.",
				"The maze lives... grows... changes.",
				"Every level holds a new truth.",
			},
		}
	default:
		return NPCConfig{Name: string(k)}
	}
}

// EnemyKind identifies a hostile entity
type EnemyKind string

// Enemy kinds
const (
	EnemyGhost  EnemyKind = "ghost"
	EnemyHunter EnemyKind = "hunter"
)

// EnemyKinds lists every enemy kind in spawn-table order
var EnemyKinds = []EnemyKind{EnemyGhost, EnemyHunter}

// EnemyBehavior selects how an enemy moves
type EnemyBehavior string

// Enemy behaviors
const (
	BehaviorPatrol EnemyBehavior = "patrol"
	BehaviorChase  EnemyBehavior = "chase"
)

// EnemyStats holds the per-instance combat numbers
type EnemyStats struct {
	Speed       float64 `json:"speed"`
	Damage      int     `json:"damage"`
	AggroRadius int     `json:"aggro_radius"`
}

// EnemyConfig is the static record of an enemy kind
type EnemyConfig struct {
	Name     string        `json:"name"`
	Behavior EnemyBehavior `json:"behavior"`
	Stats    EnemyStats    `json:"stats"`
}

// Config returns the registry record of the enemy kind
func (k EnemyKind) Config() EnemyConfig {
	switch k {
	case EnemyGhost:
		return EnemyConfig{Name: "Ghost", Behavior: BehaviorPatrol, Stats: EnemyStats{Speed: 0.5, Damage: 10}}
	case EnemyHunter:
		return EnemyConfig{Name: "Hunter", Behavior: BehaviorChase, Stats: EnemyStats{Speed: 0.7, Damage: 15, AggroRadius: 5}}
	default:
		return EnemyConfig{Name: string(k), Behavior: BehaviorPatrol}
	}
}

// RoomKind classifies an injected room
type RoomKind string

// Room kinds
const (
	RoomCommon   RoomKind = "common"
	RoomTreasure RoomKind = "treasure"
	RoomDwelling RoomKind = "dwelling"
)

// RoomKinds lists every room kind; the first entry is the fallback
var RoomKinds = []RoomKind{RoomCommon, RoomTreasure, RoomDwelling}

// RoomConfig is the static record of a room kind
type RoomConfig struct {
	BaseSize int        `json:"base_size"`
	Rarity   float64    `json:"rarity"`
	Contents []ItemKind `json:"contents"` // empty entry means nothing
}

// Config returns the registry record of the room kind
func (k RoomKind) Config() RoomConfig {
	switch k {
	case RoomCommon:
		return RoomConfig{BaseSize: 3, Rarity: 0.7, Contents: []ItemKind{ItemCoin, ""}}
	case RoomTreasure:
		return RoomConfig{BaseSize: 3, Rarity: 0.2, Contents: []ItemKind{ItemChest}}
	case RoomDwelling:
		return RoomConfig{BaseSize: 5, Rarity: 0.1}
	default:
		return RoomConfig{BaseSize: 3}
	}
}

// Room is a square chamber carved into the maze
type Room struct {
	Center   Position `json:"center"`
	Size     int      `json:"size"`
	Kind     RoomKind `json:"kind"`
	Entrance Position `json:"entrance"`
}

// Contains reports whether p lies inside the room footprint, walls included
func (r Room) Contains(p Position) bool {
	half := r.Size / 2
	return p.X >= r.Center.X-half && p.X <= r.Center.X+half &&
		p.Y >= r.Center.Y-half && p.Y <= r.Center.Y+half
}

// Overlaps reports whether the footprints of r and o share a cell
func (r Room) Overlaps(o Room) bool {
	half := o.Size / 2
	for y := o.Center.Y - half; y <= o.Center.Y+half; y++ {
		for x := o.Center.X - half; x <= o.Center.X+half; x++ {
			if r.Contains(Position{X: x, Y: y}) {
				return true
			}
		}
	}
	return false
}
