package core

import (
	"context"
	"strings"

	"github.com/Comcast/temple/phrase"
)

// queue is a FIFO Scheduler for tests.
type queue struct {
	tasks   []Task
	weights []float64
}

func (q *queue) Submit(t Task, weight float64) {
	q.tasks = append(q.tasks, t)
	q.weights = append(q.weights, weight)
}

// run executes tasks until none remain.  Panics if that takes too
// long.
func (q *queue) run(ctx context.Context) int {
	n := 0
	for 0 < len(q.tasks) {
		t := q.tasks[0]
		q.tasks = q.tasks[1:]
		t(ctx)
		if n++; 10000 < n {
			panic("runaway queue")
		}
	}
	return n
}

// inline runs each task immediately.
var inline = SchedulerFunc(func(t Task, weight float64) {
	t(context.Background())
})

type call struct {
	input  string
	weight float64
}

// fakeDictum succeeds for inputs that contain its word.
type fakeDictum struct {
	name     string
	elements []string
	word     string
	calls    []call
}

func newFake(name, lead, word string) *fakeDictum {
	return &fakeDictum{
		name:     name,
		elements: []string{lead, word},
		word:     word,
	}
}

func (d *fakeDictum) Elements() []string {
	return d.elements
}

func (d *fakeDictum) Generate(ctx context.Context, sched Scheduler, input *phrase.Phrase, succ Succeed, fail Fail, weight float64) {
	text := input.Text()
	d.calls = append(d.calls, call{text, weight})
	sched.Submit(func(ctx context.Context) {
		if d.word != "" && strings.Contains(text, d.word) {
			succ(d.name+": "+text, nil)
			return
		}
		fail("no "+d.word+" in "+text, nil)
	}, weight)
}

// calledWith reports the inputs the fake was given.
func (d *fakeDictum) calledWith() []string {
	acc := make([]string, len(d.calls))
	for i, c := range d.calls {
		acc[i] = c.input
	}
	return acc
}

// notes collects Receiver messages.
type notes []string

func (ns *notes) Receive(msg string, x interface{}) {
	*ns = append(*ns, msg)
}
