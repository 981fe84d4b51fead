package services

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"maze-daze/server/models"
)

// Chapter is a story text unlocked when a level is first reached
type Chapter struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Dialog is a line spoken by an NPC
type Dialog struct {
	NPC   string         `json:"npc"`
	Role  models.NPCRole `json:"role"`
	Index int            `json:"index"`
	Text  string         `json:"text"`
}

var chapters = map[int]Chapter{
	10: {Title: "CHAPTER I: THE BOOK OF KNOWLEDGE", Text: "You found an ancient book that lights the way through the dark..."},
	15: {Title: "CHAPTER II: THE FOLLOWING EYE", Text: "Your sight sharpens... the camera now follows you."},
	25: {Title: "CHAPTER III: THE MEETING", Text: "You are not alone in the maze... the dwellers of a lost world are ready to help."},
	50: {Title: "FINALE: THE EXIT", Text: "You are close to solving the maze... the final level awaits."},
}

// StoryBook tracks which chapters and NPC encounters the player unlocked
type StoryBook struct {
	unlocked mapset.Set[string]
}

// NewStoryBook creates a story book with previously unlocked ids
func NewStoryBook(unlocked ...string) *StoryBook {
	sb := &StoryBook{unlocked: mapset.New[string]()}
	for _, id := range unlocked {
		sb.unlocked.Put(id)
	}
	return sb
}

// CheckLevel unlocks the chapter of a level the first time it is reached
func (sb *StoryBook) CheckLevel(level int) *Chapter {
	ch, ok := chapters[level]
	if !ok {
		return nil
	}
	id := fmt.Sprintf("level_%d", level)
	if sb.unlocked.Has(id) {
		return nil
	}
	sb.unlocked.Put(id)
	ch.ID = id
	return &ch
}

// Interact picks a dialog line of the NPC and unlocks its encounter
func (sb *StoryBook) Interact(npc *models.NPC, rng Rand) Dialog {
	cfg := npc.Kind.Config()
	d := Dialog{NPC: cfg.Name, Role: cfg.Role, Index: npc.Index}
	if len(cfg.Dialogs) > 0 {
		d.Text = cfg.Dialogs[rng.Intn(len(cfg.Dialogs))]
	}
	sb.unlocked.Put(fmt.Sprintf("npc_%d", npc.Index))
	return d
}

// Unlocked returns the unlocked ids, sorted
func (sb *StoryBook) Unlocked() []string {
	ids := make([]string, 0, sb.unlocked.Size())
	sb.unlocked.Each(func(id string) {
		ids = append(ids, id)
	})
	sort.Strings(ids)
	return ids
}
