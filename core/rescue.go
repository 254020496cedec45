package core

import (
	"context"
	"strings"

	"github.com/Comcast/temple/phrase"
)

// RescueState is where a rescue attempt stands.
type RescueState int

const (
	// Idle: no retry is outstanding.
	Idle RescueState = iota

	// AwaitingRetryResult: a rewritten input has been resubmitted
	// and its outcome hasn't arrived.
	AwaitingRetryResult
)

func (s RescueState) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingRetryResult:
		return "awaitingRetryResult"
	default:
		return "unknown"
	}
}

// Strategy tries to recover from a failed match.
//
// A Strategy either arranges a retry that reports to succ and fail,
// or it calls fail (possibly by way of its fallback).  The skip
// continuation is passed along untouched.
type Strategy interface {
	Rescue(ctx context.Context, sched Scheduler, input *phrase.Phrase, d Dictum,
		reason string, skip Succeed, succ Succeed, fail Fail)

	// Next returns the fallback Strategy, which is nil for a
	// terminal Strategy.
	Next() Strategy
}

type noRescue struct{}

// NoRescue is the terminal Strategy.  It just passes the failure
// along.
var NoRescue Strategy = noRescue{}

func (noRescue) Rescue(ctx context.Context, sched Scheduler, input *phrase.Phrase, d Dictum,
	reason string, skip Succeed, succ Succeed, fail Fail) {
	fail(reason, skip)
}

func (noRescue) Next() Strategy {
	return nil
}

// MakeFailure returns a Fail that gives the Strategy a chance before
// giving up.
func MakeFailure(ctx context.Context, s Strategy, sched Scheduler, input *phrase.Phrase, d Dictum,
	succ Succeed, fail Fail) Fail {
	if s == nil {
		s = NoRescue
	}
	return func(reason string, skip Succeed) {
		s.Rescue(ctx, sched, input, d, reason, skip, succ, fail)
	}
}

// SpellingRescue corrects the spelling of every word and, if anything
// changed, tries the Dictum again with the corrected input.
//
// When nothing changes, or when the retry fails, the Fallback gets
// its turn.
type SpellingRescue struct {
	Fallback Strategy
	Speller  Speller
	Parser   phrase.Parser

	// Weight is given to the Dictum when retrying.
	Weight float64

	// Trace, if not nil, is called at each state transition with
	// the corrected input (if any).
	Trace func(RescueState, *phrase.Phrase)
}

func (s *SpellingRescue) Next() Strategy {
	return s.Fallback
}

func (s *SpellingRescue) fallback() Strategy {
	if s.Fallback == nil {
		return NoRescue
	}
	return s.Fallback
}

func (s *SpellingRescue) trace(st RescueState, p *phrase.Phrase) {
	if s.Trace != nil {
		s.Trace(st, p)
	}
}

// Correct returns the corrected tokens and whether any word changed.
//
// Spacers and punctuation pass through.  Case differences don't
// count as changes.
func (s *SpellingRescue) Correct(tokens []string) ([]string, bool) {
	var (
		acc     = make([]string, len(tokens))
		changed = false
	)
	for i, tok := range tokens {
		acc[i] = tok
		if !phrase.IsWord(tok) {
			continue
		}
		bare := phrase.Bare(tok)
		correct := s.Speller.Correct(bare)
		if correct == "" {
			continue
		}
		if !strings.EqualFold(correct, bare) {
			changed = true
		}
		acc[i] = tok[:len(tok)-len(bare)] + correct
	}
	return acc, changed
}

// Rescue implements Strategy.
func (s *SpellingRescue) Rescue(ctx context.Context, sched Scheduler, input *phrase.Phrase, d Dictum,
	reason string, skip Succeed, succ Succeed, fail Fail) {

	if s.Speller == nil || s.Parser == nil {
		s.fallback().Rescue(ctx, sched, input, d, reason, skip, succ, fail)
		return
	}

	corrected, changed := s.Correct(input.Tokens())
	if !changed {
		s.fallback().Rescue(ctx, sched, input, d, reason, skip, succ, fail)
		return
	}

	retry, err := s.Parser.Parse(phrase.Join(corrected))
	if err != nil {
		s.fallback().Rescue(ctx, sched, input, d, reason, skip, succ, fail)
		return
	}

	s.trace(AwaitingRetryResult, retry)

	var (
		retried = func(value interface{}, f Fail) {
			s.trace(Idle, retry)
			succ(value, f)
		}
		fallfail = MakeFailure(ctx, s.fallback(), sched, input, d, succ, fail)
		failed   = func(reason string, skip Succeed) {
			s.trace(Idle, retry)
			fallfail(reason, skip)
		}
	)

	d.Generate(ctx, sched, retry, retried, failed, s.Weight)
}

// Link makes a Strategy that falls back to next.
type Link func(next Strategy) Strategy

// SpellingLink makes a Link for a SpellingRescue.
func SpellingLink(speller Speller, parser phrase.Parser, weight float64) Link {
	return func(next Strategy) Strategy {
		return &SpellingRescue{
			Fallback: next,
			Speller:  speller,
			Parser:   parser,
			Weight:   weight,
		}
	}
}

// Chain builds a Strategy from the Links, in order, ending with
// NoRescue.
func Chain(links ...Link) (Strategy, error) {
	s := NoRescue
	for i := len(links) - 1; 0 <= i; i-- {
		s = links[i](s)
	}
	if err := CheckChain(s); err != nil {
		return nil, err
	}
	return s, nil
}

// CheckChain follows the Next links and returns a *RescueCycle if a
// Strategy shows up twice.
//
// Strategies must be comparable (pointers are).
func CheckChain(s Strategy) error {
	seen := make(map[Strategy]bool, 4)
	for depth := 0; s != nil; depth++ {
		if seen[s] {
			return &RescueCycle{
				Depth: depth,
			}
		}
		seen[s] = true
		s = s.Next()
	}
	return nil
}
