package stages

import (
	"math/rand/v2"

	"github.com/zyedidia/generic/mapset"
)

// Choice is one option of a MultipleChoice stage.
type Choice struct {
	Label   string
	Correct bool
}

// MultipleChoice is answered by picking one of Choices. Several may be correct.
type MultipleChoice struct {
	Base
	Choices []Choice
}

func (MultipleChoice) Kind() Kind { return KindChoice }

// NewRound shuffles the choices with rng. A nil rng uses the global source.
func (s MultipleChoice) NewRound(rng *rand.Rand) *ChoiceRound {
	order := make([]Choice, len(s.Choices))
	copy(order, s.Choices)
	swap := func(i, j int) { order[i], order[j] = order[j], order[i] }
	if rng != nil {
		rng.Shuffle(len(order), swap)
	} else {
		rand.Shuffle(len(order), swap)
	}
	return &ChoiceRound{order: order, disabled: mapset.New[int](), picked: -1}
}

// PickResult is the outcome of picking a choice.
type PickResult int

const (
	PickIgnored PickResult = iota
	PickWrong
	PickCorrect
)

// ChoiceRound tracks one attempt at a MultipleChoice stage. Wrong picks are
// disabled; once a correct choice is picked the round is over.
type ChoiceRound struct {
	order    []Choice
	disabled mapset.Set[int]
	picked   int
}

// Choices returns the shuffled choices.
func (r *ChoiceRound) Choices() []Choice {
	return r.order
}

// Pick selects the choice at index i of Choices. Out-of-range, disabled and
// post-solution picks are ignored.
func (r *ChoiceRound) Pick(i int) PickResult {
	if i < 0 || i >= len(r.order) || r.disabled.Has(i) || r.picked >= 0 {
		return PickIgnored
	}
	if r.order[i].Correct {
		r.picked = i
		return PickCorrect
	}
	r.disabled.Put(i)
	return PickWrong
}

// Disabled reports whether choice i was already picked wrongly.
func (r *ChoiceRound) Disabled(i int) bool {
	return r.disabled.Has(i)
}

// Solved returns the correct choice that ended the round.
func (r *ChoiceRound) Solved() (Choice, bool) {
	if r.picked < 0 {
		return Choice{}, false
	}
	return r.order[r.picked], true
}
