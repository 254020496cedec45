// Package noop has an Interpreter that returns its source unchanged.
package noop

import (
	"context"

	"github.com/Comcast/temple/dicta"
)

// Interpreter is a dicta.Interpreter whose output is the template
// source itself.  Handy for canned responses.
type Interpreter struct{}

func (i *Interpreter) Compile(ctx context.Context, code interface{}) (interface{}, error) {
	return nil, nil
}

func (i *Interpreter) Exec(ctx context.Context, captures map[string]interface{}, code interface{}, compiled interface{}) (interface{}, error) {
	return code, nil
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

var _ dicta.Interpreter = &Interpreter{}
