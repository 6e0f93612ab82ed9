package state

import (
	"encoding/json"
	"testing"
)

func TestDefault(t *testing.T) {
	g := Default()
	if g.RiddleProgress == nil || len(g.RiddleProgress) != 0 {
		t.Errorf("RiddleProgress = %v, want empty map", g.RiddleProgress)
	}
	if g.Inventory == nil || len(g.Inventory) != 0 {
		t.Errorf("Inventory = %v, want empty slice", g.Inventory)
	}
	if !g.AdminSettings.BypassPinOnLocalhost {
		t.Error("BypassPinOnLocalhost = false, want true")
	}
	if g.AdminSettings.DevToolsEnabled {
		t.Error("DevToolsEnabled = true, want false")
	}
}

func TestGameState_JSONLayout(t *testing.T) {
	g := Default()
	g.RiddleProgress["the-cave"] = 2
	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"riddleProgress":{"the-cave":2},"inventory":[],"adminSettings":{"bypassPinOnLocalhost":true,"devToolsEnabled":false}}`
	if string(raw) != want {
		t.Errorf("json = %s, want %s", raw, want)
	}
}

func TestNormalize(t *testing.T) {
	g := GameState{RiddleProgress: map[string]int{"a": -3, "b": 2}}
	g.Normalize()
	if g.Inventory == nil {
		t.Error("Inventory = nil after Normalize")
	}
	if g.Stage("a") != 0 {
		t.Errorf("Stage(a) = %d, want 0", g.Stage("a"))
	}
	if g.Stage("b") != 2 {
		t.Errorf("Stage(b) = %d, want 2", g.Stage("b"))
	}

	var empty GameState
	empty.Normalize()
	if empty.RiddleProgress == nil {
		t.Error("RiddleProgress = nil after Normalize")
	}
}

func TestClone_Independent(t *testing.T) {
	g := Default()
	g.RiddleProgress["a"] = 1
	g.Inventory = append(g.Inventory, "lantern")

	c := g.Clone()
	c.RiddleProgress["a"] = 5
	c.Inventory[0] = "rope"

	if g.Stage("a") != 1 {
		t.Errorf("original Stage(a) = %d, want 1", g.Stage("a"))
	}
	if g.Inventory[0] != "lantern" {
		t.Errorf("original Inventory[0] = %q, want lantern", g.Inventory[0])
	}
}

func TestAdminSettingsPatch_Apply(t *testing.T) {
	on := true
	s := AdminSettings{BypassPinOnLocalhost: true}

	s = AdminSettingsPatch{DevToolsEnabled: &on}.Apply(s)
	if !s.DevToolsEnabled || !s.BypassPinOnLocalhost {
		t.Errorf("after patch = %+v, want both true", s)
	}

	s = AdminSettingsPatch{}.Apply(s)
	if !s.DevToolsEnabled {
		t.Error("empty patch cleared DevToolsEnabled")
	}
}
