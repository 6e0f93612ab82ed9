package terminal

import (
	"reflect"
	"testing"
)

func TestCenter(t *testing.T) {
	if got := Center("abc", 9); got != "   abc" {
		t.Errorf("Center(abc, 9) = %q, want %q", got, "   abc")
	}
	if got := Center("toolong", 3); got != "toolong" {
		t.Errorf("Center(toolong, 3) = %q, want unchanged", got)
	}
}

func TestRule(t *testing.T) {
	if got := Rule('─', 3); got != "───" {
		t.Errorf("Rule = %q", got)
	}
	if got := Rule('-', 0); got != "" {
		t.Errorf("Rule(0) = %q, want empty", got)
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("The ceiling lowers. You cannot walk upright.", 20)
	want := []string{"The ceiling lowers.", "You cannot walk", "upright."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %q, want %q", got, want)
	}
	if got := Wrap("   ", 10); got != nil {
		t.Errorf("Wrap(blank) = %q, want nil", got)
	}
	if got := Wrap("supercalifragilistic x", 5); !reflect.DeepEqual(got, []string{"supercalifragilistic", "x"}) {
		t.Errorf("Wrap(long word) = %q", got)
	}
}
