/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package match implements the surface pattern matcher.
//
// A Matcher enumerates every way to extend a State against a Phrase.
// An empty result means no alignment.  ErrInapplicable means the
// Matcher cannot apply at all, which aborts an enclosing Serial.
package match

import (
	"errors"
	"strings"

	"github.com/Comcast/temple/phrase"
)

// ErrInapplicable is returned by a Matcher that categorically cannot
// apply to the given State.
var ErrInapplicable = errors.New("matcher inapplicable")

// Matcher is the closed family of matchers: *Literal, *AnySkip,
// *Serial, and *Wildcard.
type Matcher interface {
	// AllMatches returns every extension of the given State.
	AllMatches(p *phrase.Phrase, before *State) ([]*State, error)

	matcher()
}

// AllMatchesFrom unions the results of m for each of the given
// States.  States for which m is inapplicable contribute nothing.
func AllMatchesFrom(m Matcher, p *phrase.Phrase, befores []*State) ([]*State, error) {
	acc := make([]*State, 0, len(befores))
	for _, before := range befores {
		ss, err := m.AllMatches(p, before)
		if err == ErrInapplicable {
			continue
		}
		if err != nil {
			return nil, err
		}
		acc = append(acc, ss...)
	}
	return acc, nil
}

// Match runs m from the start of the phrase.
func Match(m Matcher, p *phrase.Phrase) ([]*State, error) {
	return m.AllMatches(p, NewState(0))
}

// Literal matches exactly one token.
type Literal struct {
	Pattern       string
	CaseSensitive bool
}

// NewLiteral makes a Literal.
func NewLiteral(pattern string, caseSensitive bool) *Literal {
	return &Literal{
		Pattern:       pattern,
		CaseSensitive: caseSensitive,
	}
}

func (*Literal) matcher() {}

// AllMatches compares the next token (without any spacer) to the
// pattern.
func (m *Literal) AllMatches(p *phrase.Phrase, before *State) ([]*State, error) {
	tok, ok := p.At(before.End())
	if !ok {
		return []*State{}, nil
	}
	tok = phrase.Bare(tok)

	var same bool
	if m.CaseSensitive {
		same = tok == m.Pattern
	} else {
		same = strings.EqualFold(tok, m.Pattern)
	}
	if !same {
		return []*State{}, nil
	}
	return []*State{before.ExtendedBy(1)}, nil
}

// AnySkip lets the rest of a pattern start anywhere.
//
// AnySkip gives a zero-width State at each position from the given
// State's end up to, but not including, the end of the phrase.  The
// last position is never offered, so at least one token remains for
// what follows.
type AnySkip struct{}

func (*AnySkip) matcher() {}

// AllMatches implements Matcher.
func (m *AnySkip) AllMatches(p *phrase.Phrase, before *State) ([]*State, error) {
	last := p.End() - 1
	if last <= before.End() {
		return []*State{}, nil
	}
	acc := make([]*State, 0, int(last-before.End()))
	for at := before.End(); at < last; at++ {
		acc = append(acc, before.Restarted(at))
	}
	return acc, nil
}

// Serial applies its Matchers in order, exploring every alternative
// each one offers.
type Serial struct {
	Matchers []Matcher
}

// NewSerial makes a Serial.
func NewSerial(ms ...Matcher) *Serial {
	return &Serial{
		Matchers: ms,
	}
}

func (*Serial) matcher() {}

// AllMatches implements Matcher.
//
// If every input to some stage finds that stage's Matcher
// inapplicable, the whole Serial is inapplicable.
func (m *Serial) AllMatches(p *phrase.Phrase, before *State) ([]*State, error) {
	return m.recursiveMatch(p, before, 0)
}

func (m *Serial) recursiveMatch(p *phrase.Phrase, before *State, index int) ([]*State, error) {
	if len(m.Matchers) <= index {
		return []*State{before}, nil
	}

	ss, err := m.Matchers[index].AllMatches(p, before)
	if err != nil {
		return nil, err
	}
	if index == len(m.Matchers)-1 {
		return ss, nil
	}

	var (
		acc        = make([]*State, 0, len(ss))
		applicable = false
	)
	for _, s := range ss {
		more, err := m.recursiveMatch(p, s, index+1)
		if err == ErrInapplicable {
			continue
		}
		if err != nil {
			return nil, err
		}
		applicable = true
		acc = append(acc, more...)
	}

	if 0 < len(ss) && !applicable {
		return nil, ErrInapplicable
	}

	return acc, nil
}
