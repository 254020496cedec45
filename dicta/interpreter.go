package dicta

import (
	"context"
	"errors"
)

var (
	// InterpreterNotFound occurs when you try to Compile a
	// TemplateSource, and the required interpreter isn't in the
	// given map of interpreters.
	InterpreterNotFound = errors.New("interpreter not found")

	// DefaultInterpreters will be used in TemplateSource.Compile
	// if given nil interpreters.
	DefaultInterpreters = NewInterpretersMap()

	// DefaultInterpreterName is used for a TemplateSource without
	// an Interpreter.
	DefaultInterpreterName = "text"
)

// Interpreter can optionally compile and then execute template code.
type Interpreter interface {
	// Compile can make something that helps when Exec()ing the
	// code later.
	Compile(ctx context.Context, code interface{}) (interface{}, error)

	// Exec expands the template given the captures of a match.
	// The result of a previous Compile() might be provided.
	Exec(ctx context.Context, captures map[string]interface{}, code interface{}, compiled interface{}) (interface{}, error)
}

// InterpretersMap maps interpreter names to Interpreters.
type InterpretersMap map[string]Interpreter

// NewInterpretersMap makes an empty InterpretersMap.
func NewInterpretersMap() InterpretersMap {
	return make(InterpretersMap, 4)
}

// Find returns the named Interpreter or nil.
func (m InterpretersMap) Find(name string) Interpreter {
	return m[name]
}

// Expander turns captures into output.
type Expander func(ctx context.Context, captures map[string]interface{}) (interface{}, error)

// TemplateSource can be compiled to an Expander.
type TemplateSource struct {
	Interpreter string      `json:"interpreter,omitempty" yaml:",omitempty"`
	Source      interface{} `json:"source"`
}

// Compile attempts to compile the TemplateSource into an Expander
// using the given interpreters, which defaults to
// DefaultInterpreters.
func (t *TemplateSource) Compile(ctx context.Context, interpreters InterpretersMap) (Expander, error) {
	if interpreters == nil {
		interpreters = DefaultInterpreters
	}

	name := t.Interpreter
	if name == "" {
		name = DefaultInterpreterName
	}

	interpreter := interpreters.Find(name)
	if interpreter == nil {
		return nil, InterpreterNotFound
	}

	x, err := interpreter.Compile(ctx, t.Source)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, captures map[string]interface{}) (interface{}, error) {
		return interpreter.Exec(ctx, captures, t.Source, x)
	}, nil
}
