package speller

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hbollon/go-edlib"
)

// DefaultMaxDistance is the MaxDistance of a new Lexicon.
var DefaultMaxDistance = 2

// Lexicon is a set of known words with counts.
//
// A Lexicon is not safe for concurrent Adds.  Concurrent Suggests
// are fine.
type Lexicon struct {
	// MaxDistance is the largest edit distance of a suggestion.
	MaxDistance int

	counts map[string]int
}

// NewLexicon makes a Lexicon that knows the given words.
func NewLexicon(words ...string) *Lexicon {
	l := &Lexicon{
		MaxDistance: DefaultMaxDistance,
		counts:      make(map[string]int, len(words)),
	}
	for _, w := range words {
		l.Add(w, 1)
	}
	return l
}

// ReadLexicon reads one word per line, optionally followed by a
// count.  Blank lines and lines starting with "#" are ignored.
func ReadLexicon(r io.Reader) (*Lexicon, error) {
	var (
		l    = NewLexicon()
		in   = bufio.NewScanner(r)
		line = 0
	)
	for in.Scan() {
		line++
		fields := strings.Fields(in.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		n := 1
		switch len(fields) {
		case 1:
		case 2:
			var err error
			if n, err = strconv.Atoi(fields[1]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		default:
			return nil, fmt.Errorf("line %d: expected a word and an optional count", line)
		}
		l.Add(fields[0], n)
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

// Add adds to the word's count.
func (l *Lexicon) Add(word string, n int) {
	l.counts[strings.ToLower(word)] += n
}

// Known reports whether the Lexicon has the word.
func (l *Lexicon) Known(word string) bool {
	_, have := l.counts[strings.ToLower(word)]
	return have
}

// Len returns the number of known words.
func (l *Lexicon) Len() int {
	return len(l.counts)
}

// Suggest implements Suggester.
//
// A known word is its own only suggestion.  Otherwise suggestions
// are ordered by distance, then by descending count, then
// alphabetically.
func (l *Lexicon) Suggest(word string) []string {
	w := strings.ToLower(word)
	if _, have := l.counts[w]; have {
		return []string{w}
	}

	type candidate struct {
		word     string
		distance int
		count    int
	}
	var acc []candidate
	n := len([]rune(w))
	for k, count := range l.counts {
		if d := len([]rune(k)) - n; l.MaxDistance < d || d < -l.MaxDistance {
			continue
		}
		if d := Distance(w, k); d <= l.MaxDistance {
			acc = append(acc, candidate{k, d, count})
		}
	}

	sort.Slice(acc, func(i, j int) bool {
		a, b := acc[i], acc[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return a.word < b.word
	})

	ss := make([]string, len(acc))
	for i, c := range acc {
		ss[i] = c.word
	}
	return ss
}

// Correct implements core.Speller.
func (l *Lexicon) Correct(word string) string {
	return Correct(l, word)
}

// Distance is the optimal string alignment distance between a and b:
// insertions, deletions, substitutions, and transpositions of
// adjacent runes each cost one.
func Distance(a, b string) int {
	return edlib.OSADamerauLevenshteinDistance(a, b)
}
