package sio

import (
	"context"
	"strings"
	"testing"

	"github.com/Comcast/temple/core"
	"github.com/Comcast/temple/dicta"
	"github.com/Comcast/temple/interpreters"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testLibrary = `
name: test
dicta:
  - name: greet
    pattern: hello @:who
    template:
      interpreter: text
      source: "hi {{.who}}"
  - name: bye
    pattern: goodbye
    template:
      interpreter: noop
      source: see you
`

func testDicta(t *testing.T) []core.Dictum {
	t.Helper()
	l, err := dicta.ParseLibrary([]byte(testLibrary))
	if err != nil {
		t.Fatal(err)
	}
	if err = l.Compile(context.Background(), interpreters.Standard(nil), nil); err != nil {
		t.Fatal(err)
	}
	return l.Core()
}

// outputs extracts the generated output from each of the Result's
// outputs.
func outputs(r *Result) []interface{} {
	acc := make([]interface{}, len(r.Outputs))
	for i, x := range r.Outputs {
		if g, is := x.(*dicta.Generated); is {
			acc[i] = g.Output
		} else {
			acc[i] = x
		}
	}
	return acc
}

func TestJShort(t *testing.T) {
	long := make([]int, 100)
	if s := JShort(long); len(s) != 73 {
		t.Fatalf("%d: %s", len(s), s)
	}
	if s := JShort(nil); s != "null" {
		t.Fatal(s)
	}
}

func TestShellExpand(t *testing.T) {
	s, err := ShellExpand(context.Background(), "one <<echo -n two>> three")
	if err != nil {
		t.Fatal(err)
	}
	if s != "one two three" {
		t.Fatalf("%q", s)
	}

	if _, err = ShellExpand(context.Background(), "<<exit 1>>"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestShellExpandSeveral(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"no commands", "no commands"},
		{"<<echo -n a>>", "a"},
		{"x <<echo -n a>>-<<echo -n b>> y", "x a-b y"},
	} {
		got, err := ShellExpand(context.Background(), tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %q", tc.in, got)
		}
	}
}

func TestJSON(t *testing.T) {
	r := &Result{Id: "x", Text: "hi"}
	if s := JS(r); !strings.HasPrefix(s, `{"id":"x","text":"hi"`) {
		t.Fatal(s)
	}
	if s := JSON(r); !strings.HasPrefix(s, "{\n  \"id\": \"x\",\n") {
		t.Fatal(s)
	}
	if s := JS(func() {}); !strings.HasPrefix(s, "(func())") {
		t.Fatal(s)
	}
}
