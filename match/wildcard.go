package match

import (
	"regexp"

	"github.com/Comcast/temple/phrase"
)

// Wildcard binds a contiguous run of tokens to a name.
//
// The run has at least Min and at most Max tokens.  A negative Max
// means no limit.  An empty Name binds nothing.
type Wildcard struct {
	Min  int
	Max  int
	Name string
}

func (*Wildcard) matcher() {}

var wildcardSyntax = regexp.MustCompile(`^([*+@]):?(\w*)$`)

// ParseWildcard interprets a pattern token as a Wildcard.
//
//	*   *:name   zero or more tokens
//	+   +:name   one or more tokens
//	@   @:name   exactly one token
//
// The colon is optional.  Returns nil if the token isn't a wildcard.
func ParseWildcard(token string) *Wildcard {
	m := wildcardSyntax.FindStringSubmatch(token)
	if m == nil {
		return nil
	}
	w := &Wildcard{
		Name: m[2],
	}
	switch m[1] {
	case "*":
		w.Min, w.Max = 0, -1
	case "+":
		w.Min, w.Max = 1, -1
	case "@":
		w.Min, w.Max = 1, 1
	}
	return w
}

// AllMatches gives one State per admissible run length, longest
// first.  A driver that keeps the first success therefore binds the
// longest span.
func (m *Wildcard) AllMatches(p *phrase.Phrase, before *State) ([]*State, error) {
	var (
		from = before.End()
		most = int(p.End() - from)
	)
	if 0 <= m.Max && m.Max < most {
		most = m.Max
	}
	if most < m.Min {
		return []*State{}, nil
	}
	acc := make([]*State, 0, most-m.Min+1)
	for n := most; m.Min <= n; n-- {
		s := before.ExtendedBy(n)
		if m.Name != "" {
			s = s.Bind(m.Name, phrase.Join(p.Slice(from, s.End())))
		}
		acc = append(acc, s)
	}
	return acc, nil
}
