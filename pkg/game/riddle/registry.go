// Package riddle holds the static riddle registry and the linear stage graph
// every riddle follows. A riddle's last stage is its completion screen; the
// player reaches it by advancing from the stage before.
package riddle

import (
	"slices"

	"github.com/leonelquinteros/gotext"
)

// dynamicGet translates message IDs that are not string literals.
var dynamicGet = gotext.Get

// Meta describes one riddle for routing and status displays.
type Meta struct {
	ID          string
	Name        string
	Path        string
	TotalStages int
	StageLabels []string
}

var registry = []Meta{
	{
		ID:          "the-cave",
		Name:        "The Cave",
		Path:        "/the-cave",
		TotalStages: 4,
		StageLabels: []string{"Entrance", "Narrow Passage", "The Light", "Completed"},
	},
	{
		ID:          "spider-lair",
		Name:        "Spider Lair",
		Path:        "/spider-lair",
		TotalStages: 12,
		StageLabels: []string{
			"Entrance", "Passcode", "Lyrics", "Skarrsinger",
			"Acts", "Aids", "Friends", "Creature",
			"Slab", "Mite", "Git Gud", "Completed",
		},
	},
	{
		ID:          "outer-wilds",
		Name:        "Outer Wilds",
		Path:        "/eye-signal-locator",
		TotalStages: 11,
		StageLabels: []string{
			"Entrance", "End of the Loop", "Reckless Traveler", "Quantum Imaging",
			"Ancient Architects", "Ultimate Power", "Ghost Matter River", "Quantum Entanglement",
			"Blind Terror", "Coordinates", "Completed",
		},
	},
	{
		ID:          "expedition-33",
		Name:        "Expedition 33",
		Path:        "/xp-33",
		TotalStages: 10,
		StageLabels: []string{
			"Entrance", "The Engineer", "Esquie Rest", "Reactive Parry",
			"Antagonist", "Team Builder", "Fading Memory", "Simon's Melody",
			"The Final Choice", "Completed",
		},
	},
}

// Registry returns every riddle in display order.
func Registry() []Meta {
	out := make([]Meta, len(registry))
	for i, m := range registry {
		m.StageLabels = slices.Clone(m.StageLabels)
		out[i] = m
	}
	return out
}

// Lookup finds a riddle by ID.
func Lookup(id string) (Meta, bool) {
	for _, m := range registry {
		if m.ID == id {
			m.StageLabels = slices.Clone(m.StageLabels)
			return m, true
		}
	}
	return Meta{}, false
}

// IDs returns the riddle IDs in display order.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, m := range registry {
		ids[i] = m.ID
	}
	return ids
}

// DisplayName is the translated riddle name.
func (m Meta) DisplayName() string {
	return dynamicGet(m.Name)
}

// FinalStage is the index of the completion screen.
func (m Meta) FinalStage() int {
	return m.TotalStages - 1
}

// IsCompleted returns true once stage has reached the completion screen.
func (m Meta) IsCompleted(stage int) bool {
	return stage >= m.FinalStage()
}

// NextStage returns the stage after stage and true, or stage and false when
// the riddle is already complete.
func (m Meta) NextStage(stage int) (int, bool) {
	stage = m.Clamp(stage)
	if m.IsCompleted(stage) {
		return stage, false
	}
	return stage + 1, true
}

// Clamp limits stage to the riddle's range.
func (m Meta) Clamp(stage int) int {
	return max(0, min(stage, m.FinalStage()))
}

// StageLabel returns the translated label for stage. Stages past the end of
// the label list read as completed.
func (m Meta) StageLabel(stage int) string {
	if stage < 0 {
		stage = 0
	}
	if stage >= len(m.StageLabels) {
		return gotext.Get("Completed")
	}
	return dynamicGet(m.StageLabels[stage])
}
