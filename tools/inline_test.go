package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInline(t *testing.T) {
	input := `
I like %inline("tacos"), and
I also like %inline("queso").
Both are delicious.
`
	want := `
I like TACOS, and
I also like QUESO.
Both are delicious.
`

	find := func(name string) ([]byte, error) {
		return []byte(strings.ToUpper(name)), nil
	}

	got, err := Inline([]byte(input), find)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("got %s", got)
	}
}

func TestReadLibraryWithInlines(t *testing.T) {
	dir := t.TempDir()
	lib := `
dicta:
  - name: shout
    pattern: shout +:what
    template:
      interpreter: goja
      source: %inline("shout.js")
`
	js := "var s = _.captures.what;\nreturn s.toUpperCase() + \"!\";\n"

	if err := os.WriteFile(filepath.Join(dir, "shouts.yaml"), []byte(lib), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "shout.js"), []byte(js), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := ReadLibrary(filepath.Join(dir, "shouts.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "shouts" {
		t.Fatalf("name %q", l.Name)
	}
	d := l.Find("shout")
	if d == nil {
		t.Fatal("no shout")
	}
	if d.Template.Source != js {
		t.Fatalf("source %q", d.Template.Source)
	}
}

func TestReadLibraryMissingInline(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "lib.yaml")
	if err := os.WriteFile(filename, []byte(`dicta: %inline("nope.js")`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLibrary(filename); err == nil {
		t.Fatal("expected an error")
	}
}
