package stages

// PinAnswer is answered on a digit pad. The entry is checked as soon as it
// reaches the PIN's length.
type PinAnswer struct {
	Base
	Pin string
}

func (PinAnswer) Kind() Kind { return KindPin }

// NewEntry starts an empty entry for the stage.
func (s PinAnswer) NewEntry() *PinEntry {
	return &PinEntry{pin: s.Pin}
}

// PinResult is the outcome of pressing a key on the pad.
type PinResult int

const (
	PinIncomplete PinResult = iota
	PinCorrect
	PinWrong
)

func (r PinResult) String() string {
	switch r {
	case PinCorrect:
		return "correct"
	case PinWrong:
		return "wrong"
	default:
		return "incomplete"
	}
}

// PinEntry accumulates digits for one PinAnswer.
type PinEntry struct {
	pin    string
	digits []byte
}

// Digit appends d. Non-digits are ignored, as is input after a correct entry.
// A wrong full-length entry is cleared so the player can start over.
func (e *PinEntry) Digit(d rune) PinResult {
	if d < '0' || d > '9' || e.solved() {
		return e.status()
	}
	e.digits = append(e.digits, byte(d))
	if len(e.digits) < len(e.pin) {
		return PinIncomplete
	}
	if string(e.digits) == e.pin {
		return PinCorrect
	}
	e.digits = e.digits[:0]
	return PinWrong
}

// Enter feeds every rune of s through Digit and returns the last result that
// was not incomplete, or PinIncomplete.
func (e *PinEntry) Enter(s string) PinResult {
	result := PinIncomplete
	for _, r := range s {
		if res := e.Digit(r); res != PinIncomplete {
			result = res
			if res == PinCorrect {
				break
			}
		}
	}
	return result
}

// Backspace removes the last digit.
func (e *PinEntry) Backspace() {
	if len(e.digits) > 0 && !e.solved() {
		e.digits = e.digits[:len(e.digits)-1]
	}
}

// Len is the number of digits entered so far.
func (e *PinEntry) Len() int { return len(e.digits) }

// Size is the PIN length.
func (e *PinEntry) Size() int { return len(e.pin) }

func (e *PinEntry) solved() bool {
	return len(e.pin) > 0 && string(e.digits) == e.pin
}

func (e *PinEntry) status() PinResult {
	if e.solved() {
		return PinCorrect
	}
	return PinIncomplete
}
