// Package speller has simple spelling correctors that implement
// core.Speller.
//
// A Table maps known misspellings to corrections.  A Lexicon suggests
// known words within a small edit distance.  A Cache remembers
// suggestions and leaves punctuation alone.
package speller

import (
	"os"
	"strings"

	"github.com/Comcast/temple/core"

	"gopkg.in/yaml.v2"
)

// Suggester gives candidate spellings for a word, best first.  No
// candidates means no opinion.
type Suggester interface {
	Suggest(word string) []string
}

// Correct returns the best suggestion, or the word itself.
func Correct(s Suggester, word string) string {
	if ss := s.Suggest(word); 0 < len(ss) {
		return ss[0]
	}
	return word
}

// Table maps lower-case misspellings to corrections.
type Table map[string]string

// ParseTable reads a Table from a YAML map.
func ParseTable(src []byte) (Table, error) {
	var m map[string]string
	if err := yaml.Unmarshal(src, &m); err != nil {
		return nil, err
	}
	t := make(Table, len(m))
	for k, v := range m {
		t[strings.ToLower(k)] = v
	}
	return t, nil
}

// ReadTable reads a Table from a YAML file.
func ReadTable(filename string) (Table, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseTable(bs)
}

// Suggest implements Suggester.
func (t Table) Suggest(word string) []string {
	if s, have := t[strings.ToLower(word)]; have {
		return []string{s}
	}
	return nil
}

// Correct implements core.Speller.
func (t Table) Correct(word string) string {
	return Correct(t, word)
}

// Suggesters asks each Suggester in turn and gathers their
// suggestions without duplicates.
type Suggesters []Suggester

// Suggest implements Suggester.
func (ss Suggesters) Suggest(word string) []string {
	var (
		acc  []string
		seen = make(map[string]bool)
	)
	for _, s := range ss {
		for _, x := range s.Suggest(word) {
			if !seen[x] {
				seen[x] = true
				acc = append(acc, x)
			}
		}
	}
	return acc
}

// Correct implements core.Speller.
func (ss Suggesters) Correct(word string) string {
	return Correct(ss, word)
}

var (
	_ core.Speller = Table{}
	_ core.Speller = Suggesters{}
)
