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
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/temple/core"
	"github.com/Comcast/temple/dicta"
)

type MermaidOpts struct {
	// ShowPatterns puts each dictum's pattern in its node.
	ShowPatterns bool `json:"showPatterns"`

	// GroupFill is the fill color for dicta that cover more than
	// one sentence.
	GroupFill string `json:"groupFill,omitempty"`

	// UnsupportedFill is the fill color for dicta that a Serial
	// driver passes over.
	UnsupportedFill string `json:"unsupportedFill,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// that shows the order in which a Serial driver tries the Library's
// dicta for each sentence.
func Mermaid(l *dicta.Library, w io.Writer, opts *MermaidOpts) error {
	if opts == nil {
		opts = &MermaidOpts{
			ShowPatterns:    true,
			GroupFill:       "#bcf2db",
			UnsupportedFill: "#dddddd",
		}
	}

	f := func(format string, args ...interface{}) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	quote := func(s string) string {
		return strings.Replace(s, `"`, `'`, -1)
	}

	f("graph TB")
	f(`  sentence(("next sentence"))`)
	f(`  done(("advance"))`)

	from := "sentence"
	for i, d := range l.Dicta {
		nid := fmt.Sprintf("n%d", i)

		name := d.Name
		if name == "" {
			name = fmt.Sprintf("%s/%d", l.Name, i)
		}
		label := quote(name)
		if opts.ShowPatterns {
			label += "<br/><code>" + quote(d.Pattern) + "</code>"
		}
		f(`  %s["%s"]`, nid, label)

		n, supported := core.GroupSize(d.Elements())
		switch {
		case !supported:
			if opts.UnsupportedFill != "" {
				f("  style %s fill:%s", nid, opts.UnsupportedFill)
			}
		case 1 < n && opts.GroupFill != "":
			f("  style %s fill:%s", nid, opts.GroupFill)
		}

		if from == "sentence" {
			f("  %s --> %s", from, nid)
		} else {
			f("  %s -- fail --> %s", from, nid)
		}
		if supported {
			label := "match"
			if 1 < n {
				label = fmt.Sprintf("match %d", n)
			}
			f("  %s -- %s --> done", nid, label)
		}
		from = nid
	}

	if from == "sentence" {
		f("  sentence --> done")
	} else {
		f("  %s -- fail --> done", from)
	}
	f("  done --> sentence")

	return nil
}
