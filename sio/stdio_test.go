package sio

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// wireResult is how a Result looks on the wire.
type wireResult struct {
	Id      string `json:"id"`
	Text    string `json:"text"`
	Outputs []struct {
		Dictum string      `json:"dictum"`
		Output interface{} `json:"output"`
	} `json:"outputs"`
}

func (r *wireResult) outputs() []interface{} {
	acc := make([]interface{}, len(r.Outputs))
	for i, o := range r.Outputs {
		acc[i] = o.Output
	}
	return acc
}

func TestStdio(t *testing.T) {
	var (
		in = strings.NewReader(`# A comment
Hello bob.

{"id":"x1","text":"Goodbye."}
quit
Hello again.
`)
		out bytes.Buffer
		io  = &Stdio{
			In:       in,
			Out:      &out,
			InputEOF: make(chan bool),
		}
		s = NewService(testDicta(t))
	)

	if err := s.Run(context.Background(), io); err != nil {
		t.Fatal(err)
	}

	select {
	case <-io.InputEOF:
	default:
		t.Fatal("InputEOF not closed")
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output: %q", out.String())
	}

	var rs [2]wireResult
	for i, line := range lines {
		if err := json.Unmarshal([]byte(line), &rs[i]); err != nil {
			t.Fatal(err)
		}
	}

	if diff := cmp.Diff([]interface{}{"hi bob"}, rs[0].outputs()); diff != "" {
		t.Fatal(diff)
	}
	if rs[1].Id != "x1" {
		t.Fatalf("id %q", rs[1].Id)
	}
	if diff := cmp.Diff([]interface{}{"see you"}, rs[1].outputs()); diff != "" {
		t.Fatal(diff)
	}
}

func TestStdioEOFWithoutNewline(t *testing.T) {
	var (
		out bytes.Buffer
		io  = &Stdio{
			In:        strings.NewReader("Hello bob."),
			Out:       &out,
			Tags:      true,
			EchoInput: true,
		}
	)

	if err := NewService(testDicta(t)).Run(context.Background(), io); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output: %q", out.String())
	}
	if lines[0] != "input Hello bob." {
		t.Fatalf("echo %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "result {") {
		t.Fatalf("result %q", lines[1])
	}
}

func TestStdioBadInput(t *testing.T) {
	var (
		out bytes.Buffer
		io  = &Stdio{
			In:  strings.NewReader("{not json\nGoodbye.\n"),
			Out: &out,
		}
	)

	if err := NewService(testDicta(t)).Run(context.Background(), io); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("output: %q", out.String())
	}
}

func TestParseUtterance(t *testing.T) {
	tests := []struct {
		line string
		want Utterance
		err  bool
	}{
		{"  hello there \n", Utterance{Text: "hello there"}, false},
		{`{"id":"1","text":"hi","replyTo":"out:1"}`, Utterance{Id: "1", Text: "hi", ReplyTo: "out:1"}, false},
		{`{"text":`, Utterance{}, true},
	}
	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			u, err := ParseUtterance(test.line)
			if test.err {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, *u); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
