package dicta

// These errors are user errors, found when a Dictum is compiled.

import (
	"errors"
	"fmt"
)

// BadPattern occurs when a Dictum's pattern can't be interpreted.
type BadPattern struct {
	Dictum string
	Reason string
}

func (e *BadPattern) Error() string {
	return fmt.Sprintf("bad pattern in dictum '%s': %s", e.Dictum, e.Reason)
}

// NotCompiled is the failure reason given by a Dictum that was never
// compiled.
var NotCompiled = errors.New("dictum not compiled")

// ShapeMismatch occurs when an input doesn't have one branch per
// pattern segment.
type ShapeMismatch struct {
	Segments int
	Branches int
}

func (e *ShapeMismatch) Error() string {
	return fmt.Sprintf("pattern covers %d sentences but input has %d", e.Segments, e.Branches)
}
