package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Comcast/temple/dicta"
	"github.com/Comcast/temple/sio"

	"github.com/google/go-cmp/cmp"
	"github.com/jsccast/yaml"
	"go.uber.org/zap"
)

// Exchange is an utterance and what's expected of its Result.
type Exchange struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Say is the utterance.
	Say string `json:"say"`

	// Outputs, if not nil, must be the generated outputs, in
	// order.
	Outputs []interface{} `json:"outputs,omitempty" yaml:",omitempty"`

	// Dicta, if not nil, must be the names of the dicta that
	// generated the outputs, in order.
	Dicta []string `json:"dicta,omitempty" yaml:",omitempty"`

	// Guard is optional code that's given "text", "outputs", and
	// "dicta" as captures.  It must return true.
	Guard *dicta.TemplateSource `json:"guard,omitempty" yaml:",omitempty"`
}

// Session is mostly a sequence of Exchanges.
type Session struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	Exchanges []Exchange `json:"exchanges"`

	// Interpreters are used (if necessary) to compile any
	// Guards.
	Interpreters dicta.InterpretersMap `json:"-" yaml:"-"`

	// DefaultTimeout, if positive, limits each Exchange.
	DefaultTimeout time.Duration `json:"-" yaml:"-"`

	// Logger defaults to a no-op Logger.
	Logger *zap.Logger `json:"-" yaml:"-"`
}

// Failure reports an Exchange that didn't go as expected.
type Failure struct {
	Exchange int
	Say      string
	Reason   string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("exchange %d (%q): %s", f.Exchange, f.Say, f.Reason)
}

// ReadSession reads a Session with ReadFileWithInlines.
func ReadSession(filename string) (*Session, error) {
	bs, err := ReadFileWithInlines(filename)
	if err != nil {
		return nil, err
	}
	var s Session
	if err = yaml.Unmarshal(bs, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &s, nil
}

// Run processes each Exchange in order and returns a *Failure for
// the first one that doesn't go as expected.
func (s *Session) Run(ctx context.Context, svc *sio.Service) error {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for i, x := range s.Exchanges {
		fail := func(format string, args ...interface{}) error {
			return &Failure{
				Exchange: i,
				Say:      x.Say,
				Reason:   fmt.Sprintf(format, args...),
			}
		}

		xctx, cancel := ctx, context.CancelFunc(func() {})
		if 0 < s.DefaultTimeout {
			xctx, cancel = context.WithTimeout(ctx, s.DefaultTimeout)
		}
		r, err := svc.Process(xctx, x.Say)
		cancel()
		if err != nil {
			return fail("%s", err)
		}
		if r.Error != "" {
			return fail("%s", r.Error)
		}

		outputs, names, err := generated(r)
		if err != nil {
			return fail("%s", err)
		}
		log.Debug("exchange", zap.Int("n", i), zap.String("say", x.Say), zap.Strings("dicta", names))

		if x.Outputs != nil {
			want, err := normalize(x.Outputs)
			if err != nil {
				return fail("%s", err)
			}
			if diff := cmp.Diff(want, outputs); diff != "" {
				return fail("outputs (-want +got):\n%s", diff)
			}
		}

		if x.Dicta != nil {
			if diff := cmp.Diff(x.Dicta, names); diff != "" {
				return fail("dicta (-want +got):\n%s", diff)
			}
		}

		if x.Guard != nil {
			guard, err := x.Guard.Compile(ctx, s.Interpreters)
			if err != nil {
				return fail("guard: %s", err)
			}
			got, err := guard(ctx, map[string]interface{}{
				"text":    x.Say,
				"outputs": outputs,
				"dicta":   names,
			})
			if err != nil {
				return fail("guard: %s", err)
			}
			if b, is := got.(bool); !is || !b {
				return fail("guard returned %s", sio.JS(got))
			}
		}
	}

	return nil
}

// generated returns the outputs (as they'd look in JSON) and dictum
// names of the Result.
func generated(r *sio.Result) ([]interface{}, []string, error) {
	var (
		outputs = make([]interface{}, 0, len(r.Outputs))
		names   = make([]string, 0, len(r.Outputs))
	)
	for _, x := range r.Outputs {
		g, is := x.(*dicta.Generated)
		if !is {
			return nil, nil, fmt.Errorf("unexpected output %T", x)
		}
		names = append(names, g.Dictum)
		outputs = append(outputs, g.Output)
	}
	normal, err := normalize(outputs)
	if err != nil {
		return nil, nil, err
	}
	return normal, names, nil
}

// normalize gives values the form that JSON decoding would give
// them.  YAML maps have interface{} keys, so they are converted
// first.
func normalize(xs []interface{}) ([]interface{}, error) {
	acc := make([]interface{}, len(xs))
	for i, x := range xs {
		js, err := json.Marshal(stringKeys(x))
		if err != nil {
			return nil, err
		}
		if err = json.Unmarshal(js, &acc[i]); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func stringKeys(x interface{}) interface{} {
	switch vv := x.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(vv))
		for k, v := range vv {
			m[fmt.Sprintf("%v", k)] = stringKeys(v)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(vv))
		for k, v := range vv {
			m[k] = stringKeys(v)
		}
		return m
	case []interface{}:
		acc := make([]interface{}, len(vv))
		for i, v := range vv {
			acc[i] = stringKeys(v)
		}
		return acc
	default:
		return x
	}
}
