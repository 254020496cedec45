package tools

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Comcast/temple/dicta"
	"github.com/Comcast/temple/interpreters"
)

func TestMermaid(t *testing.T) {
	l, err := ReadLibrary("../libraries/smalltalk.yaml")
	if err != nil {
		t.Fatal(err)
	}
	l.Dicta = append(l.Dicta, &dicta.Dictum{
		Name:    "para",
		Pattern: "%paragraph whatever",
	})
	if err = l.Compile(context.Background(), interpreters.Standard(nil), nil); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err = Mermaid(l, &out, nil); err != nil {
		t.Fatal(err)
	}

	g := out.String()
	for _, want := range []string{
		"graph TB\n",
		`  n0["greet<br/><code>hello @:who</code>"]`,
		"  sentence --> n0\n",
		"  n0 -- fail --> n1\n",
		"  n2 -- match 2 --> done\n",
		"  style n2 fill:#bcf2db\n",
		"  style n5 fill:#dddddd\n",
		"  n5 -- fail --> done\n",
	} {
		if !strings.Contains(g, want) {
			t.Fatalf("missing %q in\n%s", want, g)
		}
	}
	if strings.Contains(g, "n5 -- match") {
		t.Fatalf("unsupported dictum can match\n%s", g)
	}
}

func TestMermaidEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := Mermaid(&dicta.Library{Name: "empty"}, &out, &MermaidOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "sentence --> done") {
		t.Fatal(out.String())
	}
}
