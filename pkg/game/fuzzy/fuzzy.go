// Package fuzzy decides whether typed answers are close enough to accepted ones.
//
// Similarity is measured on character histograms, so character order is
// ignored: "tac" and "cat" are identical.
package fuzzy

import "strings"

// DefaultThreshold is the minimum similarity a fuzzy match needs.
const DefaultThreshold = 0.6

// HistogramSimilarity compares the character frequency distributions of a
// and b. It returns shared/total where, for every character in either
// string, shared accumulates the smaller count and total the larger one.
// Two empty strings have similarity 0.
func HistogramSimilarity(a, b string) float64 {
	freqA := histogram(a)
	freqB := histogram(b)

	shared, total := 0, 0
	for ch, countA := range freqA {
		countB := freqB[ch]
		shared += min(countA, countB)
		total += max(countA, countB)
	}
	for ch, countB := range freqB {
		if _, seen := freqA[ch]; !seen {
			total += countB
		}
	}

	if total == 0 {
		return 0
	}
	return float64(shared) / float64(total)
}

// IsCloseEnough reports whether input matches any accepted answer. Input is
// lowercased and trimmed; an exact match wins regardless of threshold,
// otherwise any answer with similarity >= threshold matches.
func IsCloseEnough(input string, accepted []string, threshold float64) bool {
	normalized := Normalize(input)

	for _, answer := range accepted {
		if normalized == answer {
			return true
		}
	}
	for _, answer := range accepted {
		if HistogramSimilarity(normalized, answer) >= threshold {
			return true
		}
	}
	return false
}

// Match is IsCloseEnough with DefaultThreshold.
func Match(input string, accepted []string) bool {
	return IsCloseEnough(input, accepted, DefaultThreshold)
}

// Normalize lowercases s and trims surrounding whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// Matcher carries a per-use threshold. The zero value uses DefaultThreshold.
type Matcher struct {
	Threshold float64
}

// Matches reports whether input is close enough to any of accepted.
func (m Matcher) Matches(input string, accepted []string) bool {
	threshold := m.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return IsCloseEnough(input, accepted, threshold)
}

func histogram(s string) map[rune]int {
	freq := make(map[rune]int, len(s))
	for _, ch := range s {
		freq[ch]++
	}
	return freq
}
