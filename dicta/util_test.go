package dicta

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// braces is an Interpreter that replaces "{name}" with the capture
// called name.  A "{fail}" left over is an error.
type braces struct{}

func (braces) Compile(ctx context.Context, code interface{}) (interface{}, error) {
	s, is := code.(string)
	if !is {
		return nil, fmt.Errorf("bad source (%T)", code)
	}
	return s, nil
}

func (braces) Exec(ctx context.Context, captures map[string]interface{}, code interface{}, compiled interface{}) (interface{}, error) {
	s := compiled.(string)
	for k, v := range captures {
		s = strings.ReplaceAll(s, "{"+k+"}", fmt.Sprint(v))
	}
	if strings.Contains(s, "{fail}") {
		return nil, errors.New("told to fail")
	}
	return s, nil
}

func testInterpreters() InterpretersMap {
	is := NewInterpretersMap()
	is["braces"] = braces{}
	return is
}

func compiled(pattern, template string) *Dictum {
	d := &Dictum{
		Name:    "test",
		Pattern: pattern,
	}
	if template != "" {
		d.Template = &TemplateSource{
			Interpreter: "braces",
			Source:      template,
		}
	}
	if err := d.Compile(context.Background(), testInterpreters(), nil); err != nil {
		panic(err)
	}
	return d
}
