// Package stages defines the kinds of stage a riddle is built from and the
// per-kind answer checking.
package stages

import "time"

// Kind identifies how a stage is answered.
type Kind int

const (
	KindWelcome Kind = iota
	KindContinue
	KindText
	KindPin
	KindChoice
	KindFillWords
	KindCongrats
)

func (k Kind) String() string {
	switch k {
	case KindWelcome:
		return "welcome"
	case KindContinue:
		return "continue"
	case KindText:
		return "text"
	case KindPin:
		return "pin"
	case KindChoice:
		return "choice"
	case KindFillWords:
		return "fill-words"
	case KindCongrats:
		return "congrats"
	default:
		return "unknown"
	}
}

// Hint is optional help that unlocks after a cooldown.
type Hint struct {
	Text     string
	Cooldown time.Duration
}

// Stage is one step of a riddle.
type Stage interface {
	Title() string
	Prompt() string
	Kind() Kind
	Hint() (Hint, bool)
}

// Base carries the fields every stage kind shares.
type Base struct {
	Name         string
	Text         string
	HintText     string
	HintCooldown time.Duration
}

func (b Base) Title() string  { return b.Name }
func (b Base) Prompt() string { return b.Text }

// Hint returns the stage hint, if it has one.
func (b Base) Hint() (Hint, bool) {
	if b.HintText == "" {
		return Hint{}, false
	}
	return Hint{Text: b.HintText, Cooldown: b.HintCooldown}, true
}

// Welcome is the first stage of a riddle; any confirmation advances.
type Welcome struct {
	Base
	Button string
}

func (Welcome) Kind() Kind { return KindWelcome }

// Continue is a narrative stage; any confirmation advances.
type Continue struct {
	Base
	Button string
}

func (Continue) Kind() Kind { return KindContinue }

// Congrats is the terminal view of a completed riddle.
type Congrats struct {
	Base
}

func (Congrats) Kind() Kind { return KindCongrats }

var (
	_ Stage = Welcome{}
	_ Stage = Continue{}
	_ Stage = Congrats{}
	_ Stage = TextAnswer{}
	_ Stage = PinAnswer{}
	_ Stage = MultipleChoice{}
	_ Stage = FillWords{}
)
