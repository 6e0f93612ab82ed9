package stages

import (
	"strings"
)

// Token is one word of a line with its trailing punctuation split off.
type Token struct {
	Word     string
	Trailing string
}

// TokenizeLine splits line on single spaces and strips trailing ?,!. from
// each word. A word made only of punctuation keeps it as the word.
func TokenizeLine(line string) []Token {
	raw := strings.Split(line, " ")
	tokens := make([]Token, 0, len(raw))
	for _, w := range raw {
		word := strings.TrimRight(w, "?,!.")
		if word == "" {
			tokens = append(tokens, Token{Word: w})
			continue
		}
		tokens = append(tokens, Token{Word: word, Trailing: w[len(word):]})
	}
	return tokens
}

// FillWords is answered by typing every word of Lines in order.
type FillWords struct {
	Base
	Lines []string
}

func (FillWords) Kind() Kind { return KindFillWords }

// NewRound starts an attempt with no words filled in.
func (s FillWords) NewRound() *FillRound {
	r := &FillRound{}
	for _, line := range s.Lines {
		tokens := TokenizeLine(line)
		r.lines = append(r.lines, tokens)
		r.total += len(tokens)
	}
	return r
}

// FillRound tracks which words have been typed.
type FillRound struct {
	lines [][]Token
	total int
	done  int
}

// Submit completes the next words from input, comparing case-insensitively
// and ignoring typed trailing punctuation. It stops at the first mismatch and
// returns how many words were completed.
func (r *FillRound) Submit(input string) int {
	n := 0
	for _, typed := range strings.Fields(input) {
		next, ok := r.Next()
		if !ok {
			break
		}
		word := strings.TrimRight(typed, "?,!.")
		if word == "" {
			word = typed
		}
		if !strings.EqualFold(word, next.Word) {
			break
		}
		r.done++
		n++
	}
	return n
}

// Next returns the next word to type.
func (r *FillRound) Next() (Token, bool) {
	i := r.done
	for _, line := range r.lines {
		if i < len(line) {
			return line[i], true
		}
		i -= len(line)
	}
	return Token{}, false
}

// Done reports whether every word has been typed.
func (r *FillRound) Done() bool {
	return r.done >= r.total
}

// Progress returns completed and total word counts.
func (r *FillRound) Progress() (done, total int) {
	return r.done, r.total
}

// Render shows the lines with completed words filled in and the rest masked.
func (r *FillRound) Render(mask rune) []string {
	out := make([]string, 0, len(r.lines))
	seen := 0
	for _, line := range r.lines {
		words := make([]string, 0, len(line))
		for _, tok := range line {
			w := tok.Word
			if seen >= r.done {
				w = strings.Repeat(string(mask), len([]rune(w)))
			}
			words = append(words, w+tok.Trailing)
			seen++
		}
		out = append(out, strings.Join(words, " "))
	}
	return out
}
