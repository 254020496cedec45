package match

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyTemplate is returned by Interpret for a template without
// any tokens.
var ErrEmptyTemplate = errors.New("empty template")

// Converter optionally turns a template token into a Matcher.
type Converter func(token string) (Matcher, bool)

// WildcardConverter claims the wildcard tokens that ParseWildcard
// understands.
func WildcardConverter(token string) (Matcher, bool) {
	if w := ParseWildcard(token); w != nil {
		return w, true
	}
	return nil, false
}

// Registry is an ordered set of Converters.  The first Converter to
// claim a token wins.
type Registry struct {
	sync.RWMutex
	converters []Converter
}

// NewRegistry makes a Registry with the given Converters.
func NewRegistry(cs ...Converter) *Registry {
	return &Registry{
		converters: cs,
	}
}

// DefaultRegistry is used by Interpret when given a nil Registry.
var DefaultRegistry = NewRegistry(WildcardConverter)

// Register appends a Converter.
func (r *Registry) Register(c Converter) {
	r.Lock()
	r.converters = append(r.converters, c)
	r.Unlock()
}

// Convert asks each Converter in turn.
func (r *Registry) Convert(token string) (Matcher, bool) {
	r.RLock()
	defer r.RUnlock()
	for _, c := range r.converters {
		if m, ok := c(token); ok && m != nil {
			return m, true
		}
	}
	return nil, false
}

// Interpret builds a Matcher from a template.
//
// The template is split on whitespace.  The result is a Serial that
// starts with an AnySkip, followed by one Matcher per token.  A token
// that no Converter claims becomes a case-insensitive Literal.
func Interpret(r *Registry, template string) (*Serial, error) {
	tokens := strings.Fields(template)
	if len(tokens) == 0 {
		return nil, ErrEmptyTemplate
	}
	if r == nil {
		r = DefaultRegistry
	}

	ms := make([]Matcher, 0, len(tokens)+1)
	ms = append(ms, &AnySkip{})
	for _, tok := range tokens {
		if m, ok := r.Convert(tok); ok {
			ms = append(ms, m)
		} else {
			ms = append(ms, NewLiteral(tok, false))
		}
	}

	return NewSerial(ms...), nil
}
