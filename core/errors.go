package core

// These errors are user errors, found when things are put together.

import (
	"errors"
	"fmt"
)

// RescueCycle occurs when a chain of rescue Strategies refers back to
// itself.
type RescueCycle struct {
	// Depth is the number of links followed before the repeat.
	Depth int
}

func (e *RescueCycle) Error() string {
	return fmt.Sprintf("rescue chain cycles after %d links", e.Depth)
}

// NoScheduler occurs when a Serial driver is made without a
// Scheduler.
var NoScheduler = errors.New("no scheduler")

// NoBranches occurs when a Serial driver is given an input without
// any branches.
var NoBranches = errors.New("no branches")
