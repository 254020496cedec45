package phrase

import "errors"

// ErrEmpty is returned by a Parser given text without any tokens.
var ErrEmpty = errors.New("empty phrase")

// Parser turns text into a Phrase with at least one branch.
type Parser interface {
	Parse(text string) (*Phrase, error)
}

// ParserFunc makes a function a Parser.
type ParserFunc func(text string) (*Phrase, error)

// Parse calls f.
func (f ParserFunc) Parse(text string) (*Phrase, error) {
	return f(text)
}

// SentenceParser makes one branch per sentence.
//
// A sentence ends at a token (ignoring Spacer) that is one of
// Terminals.  The terminal stays with its sentence.
type SentenceParser struct {
	// Terminals defaults to ".", "!", and "?".
	Terminals []string
}

var defaultTerminals = []string{".", "!", "?"}

// Parse implements Parser.
func (sp *SentenceParser) Parse(text string) (*Phrase, error) {
	tokens := Tokenize(text, true)
	if len(tokens) == 0 {
		return nil, ErrEmpty
	}

	terminals := defaultTerminals
	if sp != nil && sp.Terminals != nil {
		terminals = sp.Terminals
	}
	isTerminal := func(tok string) bool {
		tok = Bare(tok)
		for _, t := range terminals {
			if t == tok {
				return true
			}
		}
		return false
	}

	var (
		sentences = make([]*Phrase, 0, 4)
		from      = 0
	)
	for i, tok := range tokens {
		if !isTerminal(tok) {
			continue
		}
		// Absorb runs like "?!" or "...".
		if i+1 < len(tokens) && isTerminal(tokens[i+1]) {
			continue
		}
		sentences = append(sentences, FromTokens(tokens[from:i+1]))
		from = i + 1
	}
	if from < len(tokens) {
		sentences = append(sentences, FromTokens(tokens[from:]))
	}

	return Group(sentences...), nil
}
