package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Comcast/temple/dicta"
	"github.com/Comcast/temple/interpreters"
	"github.com/Comcast/temple/sio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func smalltalkService(t *testing.T) *sio.Service {
	t.Helper()
	l, err := ReadLibrary("../libraries/smalltalk.yaml")
	require.NoError(t, err)
	require.NoError(t, l.Compile(context.Background(), interpreters.Standard(nil), nil))
	return sio.NewService(l.Core())
}

func TestExpectSession(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "smalltalk.test.yaml")
	session := `
doc: Small talk
exchanges:
  - say: Hello there.
    outputs: ["Hi there!"]
    dicta: [greet]
  - say: Goodbye. So. What then?
    dicta: [bye, whatthen]
  - say: What is a good dog?
    guard:
      interpreter: goja
      source: |
        var out = _.captures.outputs;
        return out.length == 1 && out[0] == "I don't know what a good dog is.";
`
	require.NoError(t, os.WriteFile(filename, []byte(session), 0644))

	s, err := ReadSession(filename)
	require.NoError(t, err)
	require.Len(t, s.Exchanges, 3)

	s.Interpreters = interpreters.Standard(nil)
	s.Logger = zaptest.NewLogger(t)
	s.DefaultTimeout = 5 * time.Second

	assert.NoError(t, s.Run(context.Background(), smalltalkService(t)))
}

func TestExpectFailure(t *testing.T) {
	s := &Session{
		Interpreters: interpreters.Standard(nil),
		Exchanges: []Exchange{
			{
				Say:     "Hello there.",
				Outputs: []interface{}{"Hi there!"},
			},
			{
				Say:     "Hello bob.",
				Outputs: []interface{}{"Hi there!"},
			},
		},
	}

	err := s.Run(context.Background(), smalltalkService(t))
	require.Error(t, err)
	f, is := err.(*Failure)
	require.True(t, is, "%T", err)
	assert.Equal(t, 1, f.Exchange)
	assert.Equal(t, "Hello bob.", f.Say)
}

func TestExpectGuardFailure(t *testing.T) {
	s := &Session{
		Interpreters: interpreters.Standard(nil),
		Exchanges: []Exchange{
			{
				Say: "Hello there.",
				Guard: &dicta.TemplateSource{
					Interpreter: "goja",
					Source:      `return _.captures.outputs.length == 2;`,
				},
			},
		},
	}

	err := s.Run(context.Background(), smalltalkService(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guard returned false")
}

func TestNormalize(t *testing.T) {
	got, err := normalize([]interface{}{
		map[interface{}]interface{}{"n": 1, "xs": []interface{}{map[interface{}]interface{}{"a": "b"}}},
		"s",
	})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"n": float64(1), "xs": []interface{}{map[string]interface{}{"a": "b"}}},
		"s",
	}, got)
}
