package core

import (
	"context"
	"fmt"

	"github.com/Comcast/temple/phrase"
)

var (
	// SentenceLead is the leading pattern element of a Dictum that
	// matches one branch.
	SentenceLead = "%sentence"

	// SentencesLead is the leading pattern element of a Dictum
	// that matches a group of consecutive branches.
	SentencesLead = "%sentences"

	// GroupSeparator separates the branches of a SentencesLead
	// pattern.  A pattern with K-1 separators matches K branches.
	GroupSeparator = "/"
)

// SerialState is where a Serial driver stands.
type SerialState int

const (
	SelectingBranch SerialState = iota // Moving to the next branch.
	SelectingDictum                    // Looking for a Dictum to try.
	Dispatched                         // Waiting for an outcome.
	Exhausted                          // Done with every branch.
)

func (s SerialState) String() string {
	switch s {
	case SelectingBranch:
		return "selectingBranch"
	case SelectingDictum:
		return "selectingDictum"
	case Dispatched:
		return "dispatched"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("SerialState(%d)", int(s))
	}
}

// GroupSize returns the number of branches a pattern covers and
// whether this driver supports the pattern's shape at all.
func GroupSize(elements []string) (int, bool) {
	if len(elements) == 0 {
		return 0, false
	}
	switch elements[0] {
	case SentenceLead:
		return 1, true
	case SentencesLead:
		n := 1
		for _, e := range elements {
			if e == GroupSeparator {
				n++
			}
		}
		return n, true
	default:
		return 0, false
	}
}

// Serial tries Dicta against each branch of an ambiguous Phrase, one
// at a time.
//
// For each branch, the Dicta are tried in order until one succeeds.
// The first success is passed to the driver's Succeed, and the driver
// moves on to the next branch without trying the rest of the Dicta.
// Failures go through the rescue Strategy before the driver tries the
// next Dictum.
//
// A Serial is not safe for concurrent use.  The Scheduler is expected
// to run continuations one at a time.
type Serial struct {
	// Receiver, if not nil, gets notes about Dicta this driver
	// can't use.
	Receiver Receiver

	succ      Succeed
	sched     Scheduler
	rescue    Strategy
	inputs    []*phrase.Phrase
	index     int
	all       []Dictum
	remaining []Dictum
	weight    float64

	ctx        context.Context
	state      SerialState
	dispatches int
	current    int
}

// NewSerial makes a Serial driver for the branches of the input.
//
// The rescue Strategy (NoRescue if nil) must not have a cycle.
func NewSerial(receiver Receiver, succ Succeed, sched Scheduler, rescue Strategy,
	input *phrase.Phrase, dicta []Dictum, weight float64) (*Serial, error) {

	if sched == nil {
		return nil, NoScheduler
	}
	if input == nil || input.BranchCount() == 0 {
		return nil, NoBranches
	}
	if rescue == nil {
		rescue = NoRescue
	}
	if err := CheckChain(rescue); err != nil {
		return nil, err
	}
	if succ == nil {
		succ = func(interface{}, Fail) {}
	}

	all := make([]Dictum, len(dicta))
	copy(all, dicta)

	return &Serial{
		Receiver: receiver,
		succ:     succ,
		sched:    sched,
		rescue:   rescue,
		inputs:   input.Branches(),
		index:    -1,
		all:      all,
		weight:   weight,
		state:    SelectingBranch,
	}, nil
}

// State returns the driver's current state.
func (s *Serial) State() SerialState {
	return s.state
}

// Dispatches returns the number of Generate calls made so far.
func (s *Serial) Dispatches() int {
	return s.dispatches
}

// Branch returns the index of the current branch.
func (s *Serial) Branch() int {
	return s.index
}

func (s *Serial) receive(msg string, x interface{}) {
	if s.Receiver != nil {
		s.Receiver.Receive(msg, x)
	}
}

// Start begins with the first branch.
func (s *Serial) Start(ctx context.Context) {
	s.ctx = ctx
	s.MatchNextSentence()
}

// MatchNextSentence moves to the next branch and dispatches the first
// Dictum that applies to it.  Branches without any applicable Dictum
// are passed over.  After the last branch, the driver is Exhausted.
func (s *Serial) MatchNextSentence() {
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	for {
		s.state = SelectingBranch
		s.index++
		if len(s.inputs) <= s.index {
			s.index = len(s.inputs)
			s.state = Exhausted
			return
		}

		s.remaining = make([]Dictum, len(s.all))
		copy(s.remaining, s.all)

		if s.MatchNextTemplate() {
			return
		}
	}
}

// MatchNextTemplate dispatches the next applicable Dictum for the
// current branch.  Returns false if no Dictum remains.
func (s *Serial) MatchNextTemplate() bool {
	if s.state == Exhausted {
		return false
	}
	s.state = SelectingDictum

	for 0 < len(s.remaining) {
		d := s.remaining[0]
		s.remaining = s.remaining[1:]

		elements := d.Elements()
		n, supported := GroupSize(elements)
		if !supported {
			lead := ""
			if 0 < len(elements) {
				lead = elements[0]
			}
			s.receive(fmt.Sprintf("Template starting with %s not available in serial mode.", lead), d)
			continue
		}

		if len(s.inputs) < s.index+n {
			s.receive(fmt.Sprintf("Template needs %d sentences but only %d remain.", n, len(s.inputs)-s.index), d)
			continue
		}

		var input *phrase.Phrase
		if n == 1 {
			input = s.inputs[s.index]
		} else {
			input = phrase.Group(s.inputs[s.index : s.index+n]...)
		}

		s.dispatch(d, input)
		return true
	}

	return false
}

func (s *Serial) dispatch(d Dictum, input *phrase.Phrase) {
	s.state = Dispatched
	s.dispatches++
	s.current = s.dispatches

	// Outcomes from an earlier dispatch are ignored.
	id := s.current
	handle := func(o Outcome) {
		if id != s.current || s.state != Dispatched {
			s.receive("Ignoring late outcome.", o)
			return
		}
		s.Handle(o)
	}
	succ, fail := Continuations(handle)

	fail = MakeFailure(s.ctx, s.rescue, s.sched, input, d, succ, fail)
	d.Generate(s.ctx, s.sched, input, succ, fail, s.weight)
}

// Handle advances the driver given the Outcome of the dispatched
// attempt.
//
// A Matched value goes to the driver's Succeed, and then the driver
// moves on to the next branch.  After a failure, the driver tries
// the next Dictum, or the next branch if none remain.  A Skipped
// attempt abandons the current branch.
func (s *Serial) Handle(o Outcome) {
	switch o.Kind {
	case Matched:
		s.succ(o.Value, o.Fail)
		s.MatchNextSentence()
	case Failed:
		if !s.MatchNextTemplate() {
			s.MatchNextSentence()
		}
	case Skipped:
		s.MatchNextSentence()
	}
}

// Continue is a Succeed for the driver.
func (s *Serial) Continue(value interface{}, fail Fail) {
	s.Handle(Outcome{
		Kind:  Matched,
		Value: value,
		Fail:  fail,
	})
}

// Fail is a Fail for the driver.
func (s *Serial) Fail(reason string, skip Succeed) {
	s.Handle(Outcome{
		Kind:   Failed,
		Reason: reason,
		Skip:   skip,
	})
}
