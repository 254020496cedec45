// Package scheduler has a weighted work queue that implements
// core.Scheduler.
package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"sync"

	"github.com/Comcast/temple/core"
)

// TooManyTasks is returned by Run when the queue's Limit is reached.
var TooManyTasks = errors.New("too many tasks")

type item struct {
	task   core.Task
	weight float64
	seq    uint64
}

type items []*item

func (xs items) Len() int { return len(xs) }

func (xs items) Less(i, j int) bool {
	if xs[i].weight != xs[j].weight {
		return xs[i].weight > xs[j].weight
	}
	return xs[i].seq < xs[j].seq
}

func (xs items) Swap(i, j int) { xs[i], xs[j] = xs[j], xs[i] }

func (xs *items) Push(x interface{}) {
	*xs = append(*xs, x.(*item))
}

func (xs *items) Pop() interface{} {
	old := *xs
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*xs = old[:n-1]
	return x
}

// Queue runs Tasks by descending weight.  Tasks with equal weights
// run in the order they were submitted.
//
// Submit is safe for concurrent use.  Run executes one Task at a
// time.
type Queue struct {
	sync.Mutex

	// Limit, if positive, is the most Tasks a single Run will
	// execute.
	Limit int

	items items
	seq   uint64

	// wake is signaled (without blocking) by Submit.
	wake chan struct{}
}

// NewQueue makes an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		items: make(items, 0, 16),
		wake:  make(chan struct{}, 1),
	}
}

// Submit implements core.Scheduler.
func (q *Queue) Submit(t core.Task, weight float64) {
	q.Lock()
	q.seq++
	heap.Push(&q.items, &item{
		task:   t,
		weight: weight,
		seq:    q.seq,
	})
	q.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of pending Tasks.
func (q *Queue) Len() int {
	q.Lock()
	defer q.Unlock()
	return len(q.items)
}

// Next removes the heaviest pending Task.  The last value is false
// if the Queue is empty.
func (q *Queue) Next() (core.Task, float64, bool) {
	q.Lock()
	defer q.Unlock()
	if len(q.items) == 0 {
		return nil, 0, false
	}
	x := heap.Pop(&q.items).(*item)
	return x.task, x.weight, true
}

// Run executes Tasks until the Queue is empty, the context is done,
// or the Limit is reached.  Returns the number of Tasks executed.
func (q *Queue) Run(ctx context.Context) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if 0 < q.Limit && q.Limit <= n {
			if 0 < q.Len() {
				return n, TooManyTasks
			}
			return n, nil
		}
		t, _, ok := q.Next()
		if !ok {
			return n, nil
		}
		t(ctx)
		n++
	}
}

// Serve runs Tasks as they arrive until the context is done.  The
// Queue must come from NewQueue.
func (q *Queue) Serve(ctx context.Context) error {
	for {
		_, err := q.Run(ctx)
		if err == TooManyTasks {
			continue
		}
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		}
	}
}
