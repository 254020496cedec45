package dicta

import (
	"context"
	"strings"
	"testing"

	"github.com/Comcast/temple/core"
	"github.com/Comcast/temple/phrase"
	"github.com/Comcast/temple/scheduler"
	"github.com/google/go-cmp/cmp"
)

func TestCompileElements(t *testing.T) {
	d := compiled("what is +:thing ?", "")
	want := []string{"%sentence", "what", "is", "+:thing", "?"}
	if diff := cmp.Diff(want, d.Elements()); diff != "" {
		t.Fatal(diff)
	}
	if d.Score != 1 {
		t.Fatalf("score %v", d.Score)
	}
	if n, ok := core.GroupSize(d.Elements()); !ok || n != 1 {
		t.Fatalf("GroupSize %d %v", n, ok)
	}
}

func TestCompileBadPatterns(t *testing.T) {
	for _, pattern := range []string{
		"",
		"   ",
		"%sentence a / b",
		"%sentences a /",
		"%sentences / a",
	} {
		t.Run(pattern, func(t *testing.T) {
			d := &Dictum{Name: "bad", Pattern: pattern}
			err := d.Compile(context.Background(), testInterpreters(), nil)
			if _, is := err.(*BadPattern); !is {
				t.Fatalf("wanted a BadPattern, got %v", err)
			}
			if d.Compiled() {
				t.Fatal("compiled anyway")
			}
		})
	}
}

func TestCompileUnknownInterpreter(t *testing.T) {
	d := &Dictum{
		Name:     "x",
		Pattern:  "hello",
		Template: &TemplateSource{Interpreter: "cobol", Source: "DISPLAY"},
	}
	err := d.Compile(context.Background(), testInterpreters(), nil)
	if err == nil || !strings.Contains(err.Error(), InterpreterNotFound.Error()) {
		t.Fatalf("got %v", err)
	}
}

func TestMatchCaptures(t *testing.T) {
	d := compiled("what is +:thing ?", "")
	ms, err := d.Match(phrase.NewPhrase("So, what is a good dog?"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 1 {
		t.Fatalf("got %d matches", len(ms))
	}
	want := map[string]interface{}{"thing": "a good dog"}
	if diff := cmp.Diff(want, ms[0].Captures); diff != "" {
		t.Fatal(diff)
	}
}

func TestMatchGroup(t *testing.T) {
	d := compiled("%sentences hello / +:name", "")
	input := phrase.Group(phrase.NewPhrase("hello there"), phrase.NewPhrase("bob smith"))
	ms, err := d.Match(input)
	if err != nil {
		t.Fatal(err)
	}
	var names []interface{}
	for _, m := range ms {
		if len(m.States) != 2 {
			t.Fatalf("%d states", len(m.States))
		}
		names = append(names, m.Captures["name"])
	}
	// Longest span first.  "smith" alone would need AnySkip to
	// offer the last position.
	if diff := cmp.Diff([]interface{}{"bob smith", "bob"}, names); diff != "" {
		t.Fatal(diff)
	}
}

func TestMatchShapeMismatch(t *testing.T) {
	d := compiled("%sentences hello / +:name", "")
	_, err := d.Match(phrase.NewPhrase("hello bob"))
	if _, is := err.(*ShapeMismatch); !is {
		t.Fatalf("wanted a ShapeMismatch, got %v", err)
	}
}

func TestMatchNotCompiled(t *testing.T) {
	d := &Dictum{Pattern: "hello"}
	if _, err := d.Match(phrase.NewPhrase("hello")); err != NotCompiled {
		t.Fatalf("got %v", err)
	}
}

// generate runs Generate to completion and returns the outputs and
// the final failure reason.  The receiver asks for every alternative.
func generate(t *testing.T, d *Dictum, text string) ([]interface{}, string) {
	var (
		q       = scheduler.NewQueue()
		outputs []interface{}
		reason  string
		succ    = func(x interface{}, fail core.Fail) {
			outputs = append(outputs, x.(*Generated).Output)
			fail("more", nil)
		}
		fail = func(r string, _ core.Succeed) { reason = r }
	)
	d.Generate(context.Background(), q, phrase.NewPhrase(text), succ, fail, 1)
	if _, err := q.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	return outputs, reason
}

func TestGenerate(t *testing.T) {
	d := compiled("what is +:thing ?", "A {thing} is a dog.")
	outputs, reason := generate(t, d, "So, what is a good dog?")
	if diff := cmp.Diff([]interface{}{"A a good dog is a dog."}, outputs); diff != "" {
		t.Fatal(diff)
	}
	if reason != "more" {
		t.Fatalf("reason %q", reason)
	}
}

func TestGenerateNoMatch(t *testing.T) {
	d := compiled("what is +:thing ?", "x")
	outputs, reason := generate(t, d, "Who let the dogs out?")
	if len(outputs) != 0 {
		t.Fatalf("outputs %v", outputs)
	}
	if reason != "test: no match" {
		t.Fatalf("reason %q", reason)
	}
}

func TestGenerateBacktracks(t *testing.T) {
	d := compiled("@:w", "<{w}>")
	outputs, _ := generate(t, d, "a b c")
	if diff := cmp.Diff([]interface{}{"<a>", "<b>"}, outputs); diff != "" {
		t.Fatal(diff)
	}
}

func TestGenerateSkipsFailedExpansion(t *testing.T) {
	d := compiled("@:w", "{{w}}")
	outputs, reason := generate(t, d, "b fail c")
	// "{fail}" is an error, so only "b" is generated.
	if diff := cmp.Diff([]interface{}{"{b}"}, outputs); diff != "" {
		t.Fatal(diff)
	}
	if !strings.Contains(reason, "told to fail") {
		t.Fatalf("reason %q", reason)
	}
}

func TestGenerateWithoutTemplate(t *testing.T) {
	d := compiled("hello @:who", "")
	var got *Generated
	q := scheduler.NewQueue()
	d.Generate(context.Background(), q, phrase.NewPhrase("well hello there"),
		func(x interface{}, _ core.Fail) { got = x.(*Generated) },
		func(r string, _ core.Succeed) { t.Fatal(r) }, 1)
	if _, err := q.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Output != nil || got.Match.Captures["who"] != "there" {
		t.Fatalf("got %#v", got)
	}
}

func TestSalience(t *testing.T) {
	var (
		d       = compiled("hello", "")
		weights []float64
		sched   = core.SchedulerFunc(func(task core.Task, w float64) {
			weights = append(weights, w)
			task(context.Background())
		})
	)
	d.Score = 0.5
	d.Generate(context.Background(), sched, phrase.NewPhrase("hello there"),
		func(interface{}, core.Fail) {}, func(string, core.Succeed) {}, 0.5)
	if diff := cmp.Diff([]float64{25, 25}, weights); diff != "" {
		t.Fatal(diff)
	}
}

func TestDictumInSerial(t *testing.T) {
	var (
		q     = scheduler.NewQueue()
		greet = compiled("hello @:who", "hi {who}")
		ask   = compiled("what is +:thing ?", "{thing}?")
		got   []interface{}
	)
	input, err := (&phrase.SentenceParser{}).Parse("Hello there. What is love?")
	if err != nil {
		t.Fatal(err)
	}
	s, err := core.NewSerial(nil, func(x interface{}, _ core.Fail) {
		got = append(got, x.(*Generated).Output)
	}, q, nil, input, []core.Dictum{greet, ask}, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())
	if _, err := q.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]interface{}{"hi there", "love?"}, got); diff != "" {
		t.Fatal(diff)
	}
}
