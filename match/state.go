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

package match

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Comcast/temple/phrase"
)

// Captures is a persistent map from capture names to captured text.
//
// The zero value (nil) is empty.  Bind never modifies its receiver,
// so any number of States can share a Captures.
type Captures struct {
	name string
	text string
	next *Captures
	n    int
}

// Bind returns Captures that include the binding.  A binding for an
// existing name shadows the old one.
func (cs *Captures) Bind(name, text string) *Captures {
	n := 1
	if cs != nil {
		n = cs.n + 1
	}
	return &Captures{
		name: name,
		text: text,
		next: cs,
		n:    n,
	}
}

// Get returns the text bound to the name.
func (cs *Captures) Get(name string) (string, bool) {
	for c := cs; c != nil; c = c.next {
		if c.name == name {
			return c.text, true
		}
	}
	return "", false
}

// Map returns a fresh map of the current bindings.
func (cs *Captures) Map() map[string]string {
	acc := make(map[string]string, cs.size())
	for c := cs; c != nil; c = c.next {
		if _, have := acc[c.name]; !have {
			acc[c.name] = c.text
		}
	}
	return acc
}

// Bindings returns the bindings in the form that interpreters want.
func (cs *Captures) Bindings() map[string]interface{} {
	m := cs.Map()
	acc := make(map[string]interface{}, len(m))
	for k, v := range m {
		acc[k] = v
	}
	return acc
}

// Names returns the bound names in sorted order.
func (cs *Captures) Names() []string {
	m := cs.Map()
	acc := make([]string, 0, len(m))
	for k := range m {
		acc = append(acc, k)
	}
	sort.Strings(acc)
	return acc
}

// Len returns the number of distinct names.
func (cs *Captures) Len() int {
	return len(cs.Map())
}

// size is an upper bound on Len.
func (cs *Captures) size() int {
	if cs == nil {
		return 0
	}
	return cs.n
}

// State is an immutable record of a pattern match in progress: where
// it started, where it is now, and what it has captured.
type State struct {
	start    phrase.Pointer
	end      phrase.Pointer
	captures *Captures
}

// NewState makes a zero-width State at the pointer.
func NewState(at phrase.Pointer) *State {
	return &State{
		start: at,
		end:   at,
	}
}

// Start returns where the match started.
func (s *State) Start() phrase.Pointer {
	return s.start
}

// End returns the current position (one past the last matched
// token).
func (s *State) End() phrase.Pointer {
	return s.end
}

// Captures returns the bindings accumulated so far.
func (s *State) Captures() *Captures {
	return s.captures
}

// WithEnd returns a copy of the State with a new end.
func (s *State) WithEnd(end phrase.Pointer) *State {
	return &State{
		start:    s.start,
		end:      end,
		captures: s.captures,
	}
}

// ExtendedBy returns a copy of the State with its end moved n tokens.
func (s *State) ExtendedBy(n int) *State {
	return s.WithEnd(s.end.Furthered(n))
}

// Bind returns a copy of the State with an additional capture.
func (s *State) Bind(name, text string) *State {
	return &State{
		start:    s.start,
		end:      s.end,
		captures: s.captures.Bind(name, text),
	}
}

// Restarted returns a zero-width State at the pointer that keeps the
// captures.
func (s *State) Restarted(at phrase.Pointer) *State {
	return &State{
		start:    at,
		end:      at,
		captures: s.captures,
	}
}

// Span returns the matched text.
func (s *State) Span(p *phrase.Phrase) string {
	return phrase.Join(p.Slice(s.start, s.end))
}

func (s *State) String() string {
	return fmt.Sprintf("[%d - %d]: %v", s.start, s.end, s.captures.Map())
}

type stateJSON struct {
	Start    int               `json:"start"`
	End      int               `json:"end"`
	Captures map[string]string `json:"captures,omitempty"`
}

// MarshalJSON renders the State as start, end, and captures.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(&stateJSON{
		Start:    s.start.Index(),
		End:      s.end.Index(),
		Captures: s.captures.Map(),
	})
}
