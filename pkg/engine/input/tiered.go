package input

import (
	"sort"
	"strings"
	"time"

	"riddlebox/pkg/engine/audio"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceTerminal
)

// Action represents a high‑level intent in a riddle.
type Action int

const (
	ActionNone Action = iota

	ActionSubmit // Answer text or confirm the current stage
	ActionHint
	ActionQuit
	ActionSkip // Dev tools: advance without answering
	ActionStatus
)

// Intent is the 4th‑layer, high‑level description of what the player wants to do.
// Text carries the answer for ActionSubmit.
type Intent struct {
	Action Action
	Text   string
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "enter", "arrow_up", or a typed line).
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after debouncing/deduplication.
// Terminal reads are already one event per line or key, so this is a thin
// normalisation step.
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event, trimming
// surrounding whitespace from typed lines.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   strings.TrimSpace(raw.Code),
	}
}

// reserved codes can never be rebound.
var reserved = map[string]bool{
	"enter":  true,
	"ctrl_c": true,
}

// bindings maps command codes to actions (3rd-layer bindings). Codes that do
// not match a binding are answers.
var bindings = map[string]Action{
	"?":     ActionHint,
	":hint": ActionHint,

	":quit":  ActionQuit,
	":q":     ActionQuit,
	"escape": ActionQuit,
	"ctrl_c": ActionQuit,

	":skip": ActionSkip,

	":status": ActionStatus,

	"enter": ActionSubmit,
}

// MapToIntent is the 3rd+4th layer: it applies the current bindings to a
// debounced input and returns a high‑level Intent. Unbound codes are
// submitted as answer text; bindings are matched case-insensitively.
func MapToIntent(ev DebouncedInput) Intent {
	if act, ok := bindings[strings.ToLower(ev.Code)]; ok {
		return Intent{Action: act}
	}
	if ev.Code == "" {
		return Intent{Action: ActionSubmit}
	}
	return Intent{Action: ActionSubmit, Text: ev.Code}
}

// Dispatcher runs raw inputs through the layers and reports every input as a
// key press on the interaction bus, which is what unblocks audio playback.
type Dispatcher struct {
	Bus *audio.Interactions
	Now func() time.Time
}

// Line turns a typed line into an Intent.
func (d Dispatcher) Line(line string) Intent {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return d.Feed(RawInput{Device: DeviceTerminal, Code: line, Timestamp: now()})
}

// Feed maps raw to an Intent, dispatching a KeyDown first.
func (d Dispatcher) Feed(raw RawInput) Intent {
	if d.Bus != nil {
		d.Bus.Dispatch(audio.KeyDown)
	}
	return MapToIntent(NewDebouncedInput(raw))
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionSubmit:
		return "Submit"
	case ActionHint:
		return "Hint"
	case ActionQuit:
		return "Quit"
	case ActionSkip:
		return "Skip"
	case ActionStatus:
		return "Status"
	default:
		return "None"
	}
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Ensure stable ordering of codes within each action so UI doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

// SetSingleBinding replaces all bindings for the given action with a single
// code. Reserved codes keep their bindings and cannot be taken.
func SetSingleBinding(action Action, code string) {
	for c, a := range bindings {
		if reserved[c] {
			continue
		}
		if a == action {
			delete(bindings, c)
		}
	}
	code = strings.ToLower(strings.TrimSpace(code))
	if code != "" && !reserved[code] {
		bindings[code] = action
	}
}
