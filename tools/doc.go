package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/temple/dicta"

	"github.com/charmbracelet/glamour"
)

// LibraryMarkdown writes Markdown documentation for a Library.
func LibraryMarkdown(l *dicta.Library, out io.Writer) error {
	var buf bytes.Buffer
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(&buf, format+"\n", args...)
	}

	f("# %s\n", l.Name)
	if l.Doc != "" {
		f("%s\n", strings.TrimSpace(l.Doc))
	}

	for i, d := range l.Dicta {
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("%s/%d", l.Name, i)
		}
		f("## %s\n", name)
		if d.Doc != "" {
			f("%s\n", strings.TrimSpace(d.Doc))
		}
		f("Pattern: `%s`\n", d.Pattern)
		if d.Score != 0 && d.Score != 1 {
			f("Score: %g\n", d.Score)
		}
		if t := d.Template; t != nil {
			interp := t.Interpreter
			if interp == "" {
				interp = dicta.DefaultInterpreterName
			}
			f("Template (%s):\n", interp)
			f("```\n%s\n```\n", strings.TrimRight(sourceText(t.Source), "\n"))
		}
	}

	_, err := out.Write(buf.Bytes())
	return err
}

// RenderLibraryTerminal renders Library documentation for a
// terminal with the given width.
func RenderLibraryTerminal(l *dicta.Library, out io.Writer, width int) error {
	var md bytes.Buffer
	if err := LibraryMarkdown(l, &md); err != nil {
		return err
	}

	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	s, err := r.Render(md.String())
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, s)
	return err
}

// sourceText renders a template source.  Strings are rendered as
// is.  Anything else is rendered as JSON.
func sourceText(x interface{}) string {
	if s, is := x.(string); is {
		return s
	}
	js, err := json.MarshalIndent(x, "", "  ")
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(js)
}
