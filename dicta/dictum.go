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

// Package dicta has a Dictum that pairs a surface pattern with an
// output template, along with YAML libraries of them.
//
// A pattern is a list of whitespace-separated elements.  The first
// element names the pattern's shape: "%sentence" for one sentence and
// "%sentences" for consecutive sentences separated by "/".  A pattern
// without a leading shape is a "%sentence".  The remaining elements
// are interpreted by match.Interpret, so
//
//	%sentence what is +:thing ?
//
// matches "So, what is a good dog?" and binds "thing" to "a good dog".
//
// A template is expanded by an Interpreter (see package interpreters)
// with the captures of a match.
package dicta

import (
	"context"
	"fmt"
	"strings"

	"github.com/Comcast/temple/core"
	"github.com/Comcast/temple/match"
	"github.com/Comcast/temple/phrase"
)

// MaxMatches limits the alignments a Dictum considers for one input.
var MaxMatches = 1000

// Dictum is a compiled pattern and its template.
//
// A Dictum should be Compiled before use.
type Dictum struct {
	Name    string `json:"name,omitempty" yaml:",omitempty"`
	Doc     string `json:"doc,omitempty" yaml:",omitempty"`
	Pattern string `json:"pattern"`

	// Template, if not nil, is expanded for each match.  Without
	// a Template, a Dictum just reports its matches.
	Template *TemplateSource `json:"template,omitempty" yaml:",omitempty"`

	// Score scales the weight of this Dictum's work.  Defaults
	// to 1.
	Score float64 `json:"score,omitempty" yaml:",omitempty"`

	// Source records where this Dictum came from (a filename,
	// for example).
	Source string `json:"-" yaml:"-"`

	elements []string
	segments []*match.Serial
	expand   Expander
	compiled bool
}

// Match is an alignment of a Dictum's pattern with an input.
type Match struct {
	// States has one match.State per pattern segment.
	States []*match.State `json:"states"`

	// Captures merges the captures of the States.  A later
	// segment's binding shadows an earlier one.
	Captures map[string]interface{} `json:"captures,omitempty"`
}

// Generated is the value a Dictum gives to its Succeed.
type Generated struct {
	Dictum string      `json:"dictum"`
	Match  *Match      `json:"match"`
	Output interface{} `json:"output,omitempty"`
}

// Compile interprets the pattern and compiles the template.
//
// A nil Registry means match.DefaultRegistry.
func (d *Dictum) Compile(ctx context.Context, interpreters InterpretersMap, r *match.Registry) error {
	elements := strings.Fields(d.Pattern)
	if len(elements) == 0 {
		return &BadPattern{d.Name, "empty pattern"}
	}
	if !strings.HasPrefix(elements[0], "%") {
		elements = append([]string{core.SentenceLead}, elements...)
	}

	var segments []*match.Serial
	if n, supported := core.GroupSize(elements); supported {
		body := elements[1:]
		if elements[0] == core.SentenceLead {
			for _, e := range body {
				if e == core.GroupSeparator {
					return &BadPattern{d.Name, core.SentenceLead + " with " + core.GroupSeparator}
				}
			}
		}

		segments = make([]*match.Serial, 0, n)
		from := 0
		for i := 0; i <= len(body); i++ {
			if i < len(body) && body[i] != core.GroupSeparator {
				continue
			}
			m, err := match.Interpret(r, strings.Join(body[from:i], " "))
			if err != nil {
				return &BadPattern{d.Name, fmt.Sprintf("segment %d: %s", len(segments), err)}
			}
			segments = append(segments, m)
			from = i + 1
		}
	}

	var expand Expander
	if d.Template != nil {
		var err error
		if expand, err = d.Template.Compile(ctx, interpreters); err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
	}

	if d.Score == 0 {
		d.Score = 1
	}
	d.elements = elements
	d.segments = segments
	d.expand = expand
	d.compiled = true

	return nil
}

// Compiled reports whether Compile has succeeded.
func (d *Dictum) Compiled() bool {
	return d.compiled
}

// Elements returns the pattern elements, starting with the shape.
func (d *Dictum) Elements() []string {
	acc := make([]string, len(d.elements))
	copy(acc, d.elements)
	return acc
}

// Salience is the Scheduler weight for this Dictum's work.
func (d *Dictum) Salience(weight float64) float64 {
	return 100 * d.Score * weight
}

// Match finds every alignment of the pattern with the input, which
// must have one branch per pattern segment.
//
// Returns match.ErrInapplicable if a segment can't apply at all.
func (d *Dictum) Match(input *phrase.Phrase) ([]*Match, error) {
	if !d.compiled {
		return nil, NotCompiled
	}

	branches := input.Branches()
	if len(branches) != len(d.segments) {
		return nil, &ShapeMismatch{
			Segments: len(d.segments),
			Branches: len(branches),
		}
	}

	combos := [][]*match.State{nil}
	for i, seg := range d.segments {
		ss, err := match.Match(seg, branches[i])
		if err != nil {
			return nil, err
		}
		if len(ss) == 0 {
			return nil, nil
		}
		acc := make([][]*match.State, 0, len(combos)*len(ss))
	COMBOS:
		for _, c := range combos {
			for _, s := range ss {
				if MaxMatches <= len(acc) {
					break COMBOS
				}
				next := make([]*match.State, len(c), len(c)+1)
				copy(next, c)
				acc = append(acc, append(next, s))
			}
		}
		combos = acc
	}

	ms := make([]*Match, len(combos))
	for i, c := range combos {
		captures := make(map[string]interface{})
		for _, s := range c {
			for k, v := range s.Captures().Bindings() {
				captures[k] = v
			}
		}
		ms[i] = &Match{
			States:   c,
			Captures: captures,
		}
	}

	return ms, nil
}

// Expand runs the template for the Match.  Without a template, the
// output is nil.
func (d *Dictum) Expand(ctx context.Context, m *Match) (interface{}, error) {
	if d.expand == nil {
		return nil, nil
	}
	return d.expand(ctx, m.Captures)
}

// Generate implements core.Dictum.
//
// Matching is one Task.  Each expansion is another, tried in order
// of the matches.  The Fail given to succ moves on to the next
// match.  When every match has been tried, or when nothing matched,
// fail gets the last reason.
func (d *Dictum) Generate(ctx context.Context, sched core.Scheduler, input *phrase.Phrase, succ core.Succeed, fail core.Fail, weight float64) {
	salience := d.Salience(weight)

	sched.Submit(func(ctx context.Context) {
		ms, err := d.Match(input)
		if err != nil {
			fail(d.Name+": "+err.Error(), nil)
			return
		}
		if len(ms) == 0 {
			fail(d.Name+": no match", nil)
			return
		}
		d.expandFrom(sched, ms, 0, succ, fail, salience, "")
	}, salience)
}

func (d *Dictum) expandFrom(sched core.Scheduler, ms []*Match, i int, succ core.Succeed, fail core.Fail, salience float64, reason string) {
	if len(ms) <= i {
		if reason == "" {
			reason = d.Name + ": no more matches"
		}
		fail(reason, nil)
		return
	}

	sched.Submit(func(ctx context.Context) {
		m := ms[i]
		out, err := d.Expand(ctx, m)
		if err != nil {
			d.expandFrom(sched, ms, i+1, succ, fail, salience, d.Name+": "+err.Error())
			return
		}
		g := &Generated{
			Dictum: d.Name,
			Match:  m,
			Output: out,
		}
		succ(g, func(reason string, skip core.Succeed) {
			d.expandFrom(sched, ms, i+1, succ, fail, salience, reason)
		})
	}, salience)
}
