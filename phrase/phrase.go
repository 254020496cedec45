/* Copyright 2019 Comcast Cable Communications Management, LLC
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

// Package phrase provides immutable tokenized phrases and pointers
// into them.
//
// A Phrase is one or more branches.  A phrase made from a single text
// has one branch.  A phrase made by Group has one branch per grouped
// phrase, and its tokens are the concatenation of theirs.
package phrase

import (
	"encoding/json"
	"fmt"
)

// Pointer is an offset into the tokens of a Phrase.
//
// Two Pointers are equal when their offsets are.  Nothing checks that
// they point into the same Phrase.
type Pointer int

// Furthered returns the Pointer n tokens further along.
func (p Pointer) Furthered(n int) Pointer {
	return p + Pointer(n)
}

// Index returns the offset as an int.
func (p Pointer) Index() int {
	return int(p)
}

// Phrase is an immutable sequence of tokens.
type Phrase struct {
	tokens []string

	// bounds holds the starting offset of each branch.  Always
	// has at least one element (0).
	bounds []int
}

// NewPhrase tokenizes the text (in spacer mode).
func NewPhrase(text string) *Phrase {
	return &Phrase{
		tokens: Tokenize(text, true),
		bounds: []int{0},
	}
}

// FromTokens makes a Phrase with a copy of the given tokens.
func FromTokens(tokens []string) *Phrase {
	acc := make([]string, len(tokens))
	copy(acc, tokens)
	return &Phrase{
		tokens: acc,
		bounds: []int{0},
	}
}

// Group makes a single Phrase with one branch per given Phrase.
//
// Branches of the given phrases are flattened.
func Group(ps ...*Phrase) *Phrase {
	g := &Phrase{
		bounds: make([]int, 0, len(ps)),
	}
	for _, p := range ps {
		offset := len(g.tokens)
		for _, b := range p.bounds {
			g.bounds = append(g.bounds, offset+b)
		}
		g.tokens = append(g.tokens, p.tokens...)
	}
	if len(g.bounds) == 0 {
		g.bounds = []int{0}
	}
	return g
}

// At returns the token at the pointer.  The second value is false if
// the pointer is at or past the end.
func (p *Phrase) At(at Pointer) (string, bool) {
	i := int(at)
	if i < 0 || len(p.tokens) <= i {
		return "", false
	}
	return p.tokens[i], true
}

// End returns the pointer just past the last token.
func (p *Phrase) End() Pointer {
	return Pointer(len(p.tokens))
}

// Len returns the number of tokens.
func (p *Phrase) Len() int {
	return len(p.tokens)
}

// Tokens returns a copy of the tokens.
func (p *Phrase) Tokens() []string {
	acc := make([]string, len(p.tokens))
	copy(acc, p.tokens)
	return acc
}

// Slice returns a copy of the tokens in [from,to).  The range is
// clipped to the phrase.
func (p *Phrase) Slice(from, to Pointer) []string {
	i, j := int(from), int(to)
	if i < 0 {
		i = 0
	}
	if len(p.tokens) < j {
		j = len(p.tokens)
	}
	if j <= i {
		return nil
	}
	acc := make([]string, j-i)
	copy(acc, p.tokens[i:j])
	return acc
}

// Text joins the tokens back into text.
func (p *Phrase) Text() string {
	return Join(p.tokens)
}

// Branches returns each branch as its own single-branch Phrase.
func (p *Phrase) Branches() []*Phrase {
	acc := make([]*Phrase, len(p.bounds))
	for i, from := range p.bounds {
		to := len(p.tokens)
		if i+1 < len(p.bounds) {
			to = p.bounds[i+1]
		}
		acc[i] = &Phrase{
			tokens: p.tokens[from:to:to],
			bounds: []int{0},
		}
	}
	return acc
}

// BranchCount returns the number of branches.
func (p *Phrase) BranchCount() int {
	return len(p.bounds)
}

func (p *Phrase) String() string {
	return fmt.Sprintf("%q", p.tokens)
}

// MarshalJSON renders the phrase as its array of branches, each an
// array of tokens.
func (p *Phrase) MarshalJSON() ([]byte, error) {
	bss := p.Branches()
	acc := make([][]string, len(bss))
	for i, b := range bss {
		acc[i] = b.tokens
	}
	return json.Marshal(acc)
}
