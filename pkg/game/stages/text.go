package stages

import (
	"slices"

	"riddlebox/pkg/game/fuzzy"
)

// DefaultErrorMessage is shown for a wrong text answer when the stage sets none.
const DefaultErrorMessage = "Wrong answer. Try again."

// TextAnswer accepts a typed answer that is close enough to one of Accepted.
// With ExactOnly set, only a normalised exact match counts; that suits
// answers like "22" where every near miss is simply wrong.
type TextAnswer struct {
	Base
	Accepted     []string
	Threshold    float64 // zero means fuzzy.DefaultThreshold
	ExactOnly    bool
	ErrorMessage string
}

func (TextAnswer) Kind() Kind { return KindText }

// Check reports whether input answers the stage.
func (s TextAnswer) Check(input string) bool {
	if s.ExactOnly {
		return slices.Contains(s.Accepted, fuzzy.Normalize(input))
	}
	return fuzzy.Matcher{Threshold: s.Threshold}.Matches(input, s.Accepted)
}

// Error is the message for a wrong answer.
func (s TextAnswer) Error() string {
	if s.ErrorMessage == "" {
		return DefaultErrorMessage
	}
	return s.ErrorMessage
}

// WithThreshold returns a copy using threshold unless the stage already sets
// its own.
func (s TextAnswer) WithThreshold(threshold float64) TextAnswer {
	if s.Threshold == 0 {
		s.Threshold = threshold
	}
	return s
}
