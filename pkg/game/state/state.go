// Package state defines the persisted game record shared by every riddle.
package state

// StorageKey is the single well-known key the game state document lives under.
const StorageKey = "tr_gamestate"

// AdminSettings holds the flags toggled from the admin dashboard.
type AdminSettings struct {
	BypassPinOnLocalhost bool `json:"bypassPinOnLocalhost"`
	DevToolsEnabled      bool `json:"devToolsEnabled"`
}

// AdminSettingsPatch is a partial update of AdminSettings. Nil fields are
// left untouched when applied.
type AdminSettingsPatch struct {
	BypassPinOnLocalhost *bool
	DevToolsEnabled      *bool
}

// Apply shallow-merges the patch into s and returns the result.
func (p AdminSettingsPatch) Apply(s AdminSettings) AdminSettings {
	if p.BypassPinOnLocalhost != nil {
		s.BypassPinOnLocalhost = *p.BypassPinOnLocalhost
	}
	if p.DevToolsEnabled != nil {
		s.DevToolsEnabled = *p.DevToolsEnabled
	}
	return s
}

// GameState represents the persisted progress of a player across riddles.
type GameState struct {
	// RiddleProgress maps a riddle id to its current stage. A missing key
	// means stage 0.
	RiddleProgress map[string]int `json:"riddleProgress"`

	// Inventory is reserved for collected items, in pick-up order.
	Inventory []string `json:"inventory"`

	AdminSettings AdminSettings `json:"adminSettings"`
}

// Default returns the state used before anything has been saved.
func Default() GameState {
	return GameState{
		RiddleProgress: map[string]int{},
		Inventory:      []string{},
		AdminSettings: AdminSettings{
			BypassPinOnLocalhost: true,
			DevToolsEnabled:      false,
		},
	}
}

// Normalize replaces nil collections with empty ones and clamps negative
// stages to zero.
func (g *GameState) Normalize() {
	if g.RiddleProgress == nil {
		g.RiddleProgress = map[string]int{}
	}
	if g.Inventory == nil {
		g.Inventory = []string{}
	}
	for id, stage := range g.RiddleProgress {
		if stage < 0 {
			g.RiddleProgress[id] = 0
		}
	}
}

// Clone returns a deep copy so callers can mutate the result freely.
func (g GameState) Clone() GameState {
	out := GameState{
		RiddleProgress: make(map[string]int, len(g.RiddleProgress)),
		Inventory:      append([]string{}, g.Inventory...),
		AdminSettings:  g.AdminSettings,
	}
	for id, stage := range g.RiddleProgress {
		out.RiddleProgress[id] = stage
	}
	return out
}

// Stage returns the stored stage for a riddle, or 0 if absent.
func (g GameState) Stage(riddleID string) int {
	return g.RiddleProgress[riddleID]
}
