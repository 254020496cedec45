// Package text expands templates with Go's text/template.
package text

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/Comcast/temple/dicta"
)

// Interpreter implements dicta.Interpreter with text/template.
//
// The template's data is the map of captures, so "{{.thing}}" gives
// the capture named "thing".  A missing capture is an error.
type Interpreter struct {
	// Funcs are added to every template.
	Funcs template.FuncMap
}

// NewInterpreter makes an Interpreter with a few string functions.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		Funcs: template.FuncMap{
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"title": title,
		},
	}
}

// title upper-cases the first letter of each word.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (i *Interpreter) Compile(ctx context.Context, code interface{}) (interface{}, error) {
	src, is := code.(string)
	if !is {
		return nil, fmt.Errorf("text template source is a %T, not a string", code)
	}
	return template.New("").Funcs(i.Funcs).Option("missingkey=error").Parse(src)
}

func (i *Interpreter) Exec(ctx context.Context, captures map[string]interface{}, code interface{}, compiled interface{}) (interface{}, error) {
	if compiled == nil {
		var err error
		if compiled, err = i.Compile(ctx, code); err != nil {
			return nil, err
		}
	}
	t, is := compiled.(*template.Template)
	if !is {
		return nil, fmt.Errorf("bad compilation: %T", compiled)
	}

	if captures == nil {
		captures = map[string]interface{}{}
	}

	var acc strings.Builder
	if err := t.Execute(&acc, captures); err != nil {
		return nil, err
	}
	return acc.String(), nil
}

var _ dicta.Interpreter = &Interpreter{}
