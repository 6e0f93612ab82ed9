package renderer

import (
	"riddlebox/pkg/game/admin"
	"riddlebox/pkg/game/session"
	"riddlebox/pkg/game/stages"
	"riddlebox/pkg/game/state"
)

// TextStyle represents different text styling options
type TextStyle int

const (
	StyleNormal TextStyle = iota
	StyleTitle
	StyleRiddle
	StyleAction
	StyleActionShort
	StyleDenied
	StyleSuccess
	StyleHint
	StyleSubtle
)

// Frame is everything one screen of a riddle shows.
type Frame struct {
	Riddle string
	Label  string
	Stage  int
	Total  int

	Current stages.Stage
	Pin     *stages.PinEntry
	Choice  *stages.ChoiceRound
	Fill    *stages.FillRound
	Hint    *stages.HintTimer

	// Message is feedback from the last submission.
	Message string
	Wrong   bool
}

// FrameOf captures the visible state of s after out.
func FrameOf(s *session.Session, out session.Outcome) Frame {
	def := s.Riddle()
	return Frame{
		Riddle:  def.DisplayName(),
		Label:   s.Label(),
		Stage:   s.Stage(),
		Total:   def.TotalStages,
		Current: s.Current(),
		Pin:     s.PinEntry(),
		Choice:  s.ChoiceRound(),
		Fill:    s.FillRound(),
		Hint:    s.HintTimer(),
		Message: out.Message,
		Wrong:   out.Wrong,
	}
}

// Renderer defines the interface for riddle rendering backends.
type Renderer interface {
	// Init initializes the renderer (colors, layout width, etc.)
	Init()

	// Clear clears the display
	Clear()

	// RenderFrame renders the current stage with its feedback and hint
	RenderFrame(f Frame)

	// RenderStatus renders the progress table of every riddle
	RenderStatus(rows []admin.Row)

	// RenderSettings renders the admin flags
	RenderSettings(s state.AdminSettings)

	// StyleText applies a style to text and returns the styled string
	StyleText(text string, style TextStyle) string

	// FormatText formats a message with the renderer's markup system
	FormatText(msg string, args ...any) string

	// ShowMessage displays a message to the user
	ShowMessage(msg string)
}

// Current holds the active renderer instance
var Current Renderer

// SetRenderer sets the active renderer
func SetRenderer(r Renderer) {
	Current = r
}

// Init initializes the current renderer
func Init() {
	if Current != nil {
		Current.Init()
	}
}

// Clear clears the display using the current renderer
func Clear() {
	if Current != nil {
		Current.Clear()
	}
}

// RenderFrame renders a riddle frame
func RenderFrame(f Frame) {
	if Current != nil {
		Current.RenderFrame(f)
	}
}

// RenderStatus renders the progress table
func RenderStatus(rows []admin.Row) {
	if Current != nil {
		Current.RenderStatus(rows)
	}
}

// RenderSettings renders the admin flags
func RenderSettings(s state.AdminSettings) {
	if Current != nil {
		Current.RenderSettings(s)
	}
}

// StyleText applies a style to text
func StyleText(text string, style TextStyle) string {
	if Current != nil {
		return Current.StyleText(text, style)
	}
	return text
}

// FormatText formats a message with markup
func FormatText(msg string, args ...any) string {
	if Current != nil {
		return Current.FormatText(msg, args...)
	}
	return msg
}

// ShowMessage displays a message using the current renderer
func ShowMessage(msg string) {
	if Current != nil {
		Current.ShowMessage(msg)
	}
}
