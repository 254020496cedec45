package speller

import (
	"strings"
	"sync"
	"unicode"
)

// Cache remembers a Suggester's suggestions.
//
// Tokens without letters or digits are their own suggestion.
// Suggestions are lower-cased.
type Cache struct {
	sync.RWMutex

	s Suggester
	m map[string][]string
}

// NewCache makes a Cache in front of the Suggester.
func NewCache(s Suggester) *Cache {
	return &Cache{
		s: s,
		m: make(map[string][]string, 64),
	}
}

func punctuation(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Suggest implements Suggester.
func (c *Cache) Suggest(word string) []string {
	c.RLock()
	ss, have := c.m[word]
	c.RUnlock()
	if have {
		return ss
	}

	if punctuation(word) {
		ss = []string{word}
	} else {
		suggested := c.s.Suggest(word)
		ss = make([]string, len(suggested))
		for i, s := range suggested {
			ss[i] = strings.ToLower(s)
		}
	}

	c.Lock()
	c.m[word] = ss
	c.Unlock()

	return ss
}

// Correct implements core.Speller.  A suggestion that differs from
// the word only by case gives the word back.
func (c *Cache) Correct(word string) string {
	s := Correct(c, word)
	if strings.EqualFold(s, word) {
		return word
	}
	return s
}

// Len returns the number of cached words.
func (c *Cache) Len() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.m)
}
