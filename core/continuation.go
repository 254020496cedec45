package core

import (
	"context"
	"fmt"

	"github.com/Comcast/temple/phrase"
)

// Succeed receives a generated value.
//
// The given Fail lets the receiver reject the value and ask the
// producer for its next alternative.
type Succeed func(value interface{}, fail Fail)

// Fail receives the reason an attempt failed.
//
// The skip continuation, which might be nil, lets a caller abandon
// the attempt without a failure outcome.  It must be passed along
// unchanged.
type Fail func(reason string, skip Succeed)

// Task is a unit of work for a Scheduler.
type Task func(ctx context.Context)

// Scheduler runs Tasks.
//
// A higher weight should run sooner, relatively.  The Scheduler might
// run a Task right away, later, or never.
type Scheduler interface {
	Submit(task Task, weight float64)
}

// SchedulerFunc makes a function a Scheduler.
type SchedulerFunc func(task Task, weight float64)

// Submit calls f.
func (f SchedulerFunc) Submit(task Task, weight float64) {
	f(task, weight)
}

// Dictum is a pattern paired with an output template.
type Dictum interface {
	// Elements returns the pattern's elements.  The first element
	// names the pattern's shape (for example "%sentence").
	Elements() []string

	// Generate matches the input and expands the template for
	// the matches, by way of the Scheduler.  Exactly one of succ
	// or fail should eventually be called (or neither, if the
	// Scheduler drops the work).
	Generate(ctx context.Context, sched Scheduler, input *phrase.Phrase, succ Succeed, fail Fail, weight float64)
}

// Receiver gets diagnostic notes.
type Receiver interface {
	Receive(msg string, x interface{})
}

// ReceiverFunc makes a function a Receiver.
type ReceiverFunc func(msg string, x interface{})

// Receive calls f.
func (f ReceiverFunc) Receive(msg string, x interface{}) {
	f(msg, x)
}

// Speller gives the best correction for a word.  A Speller that has
// no better idea returns the word (or the empty string).
type Speller interface {
	Correct(word string) string
}

// SpellerFunc makes a function a Speller.
type SpellerFunc func(word string) string

// Correct calls f.
func (f SpellerFunc) Correct(word string) string {
	return f(word)
}

// OutcomeKind says how a dispatched attempt ended.
type OutcomeKind int

const (
	Matched OutcomeKind = iota // A value was generated.
	Failed                     // The attempt failed.
	Skipped                    // The attempt was abandoned.
)

func (k OutcomeKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the tagged result of a dispatched attempt.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`

	// Value is the generated value for Matched.
	Value interface{} `json:"value,omitempty"`

	// Reason is the failure reason for Failed.
	Reason string `json:"reason,omitempty"`

	// Fail is the producer's backtracking continuation that came
	// with a Matched value.
	Fail Fail `json:"-"`

	// Skip is the skip continuation that came with a Failed.
	Skip Succeed `json:"-"`
}

// Continuations adapts a function that handles Outcomes to a
// Succeed/Fail pair.
func Continuations(handle func(Outcome)) (Succeed, Fail) {
	succ := func(value interface{}, fail Fail) {
		handle(Outcome{
			Kind:  Matched,
			Value: value,
			Fail:  fail,
		})
	}
	fail := func(reason string, skip Succeed) {
		handle(Outcome{
			Kind:   Failed,
			Reason: reason,
			Skip:   skip,
		})
	}
	return succ, fail
}
