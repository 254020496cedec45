/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tools

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/Comcast/temple/dicta"
	"github.com/Comcast/temple/interpreters/noop"

	md "github.com/russross/blackfriday/v2"
)

// RenderLibraryHTML writes an HTML fragment that documents the
// Library's dicta.
func RenderLibraryHTML(l *dicta.Library, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<div class="libraryDoc doc">%s</div>`, md.Run([]byte(l.Doc)))

	f(`<div class="dicta"><table>`)
	for i, d := range l.Dicta {
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("%s/%d", l.Name, i)
		}
		f(`<tr class="dictum"><td><span id="%s" class="dictumName">%s</span></td><td>`,
			html.EscapeString(name), html.EscapeString(name))

		if d.Doc != "" {
			f(`<div class="dictumDoc doc">%s</div>`, md.Run([]byte(d.Doc)))
		}

		f(`<table>`)
		f(`<tr><td>pattern</td><td><code>%s</code></td></tr>`, html.EscapeString(d.Pattern))
		if elements := d.Elements(); elements != nil {
			f(`<tr><td>lead</td><td><code>%s</code></td></tr>`, html.EscapeString(elements[0]))
		}
		if d.Score != 0 {
			f(`<tr><td>score</td><td>%g</td></tr>`, d.Score)
		}
		if t := d.Template; t != nil {
			f(`<tr><td>template</td><td><span class="interpreter">%s</span>`, html.EscapeString(t.Interpreter))
			f(`<div class="code"><pre>%s</pre></div></td></tr>`, html.EscapeString(sourceText(t.Source)))
		}
		f(`</table>`)
		f(`</td></tr>`)
	}
	f(`</table></div>`)

	return nil
}

// RenderLibraryPage writes a complete HTML page for the Library.
func RenderLibraryPage(l *dicta.Library, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/library-html.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, html.EscapeString(l.Name))

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(l.Name))

	if err := RenderLibraryHTML(l, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderLibraryPage reads a Library, checks its patterns, and
// renders it as a page.
//
// Templates aren't executed.  Each interpreter the Library mentions
// is stood in for by a noop interpreter.
func ReadAndRenderLibraryPage(filename string, cssFiles []string, out io.Writer) error {
	l, err := ReadLibrary(filename)
	if err != nil {
		return err
	}

	interpreters := dicta.NewInterpretersMap()
	interpreters[dicta.DefaultInterpreterName] = noop.NewInterpreter()
	for _, d := range l.Dicta {
		if d.Template != nil {
			interpreters[d.Template.Interpreter] = noop.NewInterpreter()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = l.Compile(ctx, interpreters, nil); err != nil {
		return err
	}

	return RenderLibraryPage(l, out, cssFiles)
}
