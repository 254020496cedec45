/* Copyright 2019 Comcast Cable Communications Management, LLC
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

package sio

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// render marshals x, indented if asked, falling back to '%#v'.
func render(x interface{}, indent bool) string {
	if x == nil {
		return "null"
	}
	var (
		js  []byte
		err error
	)
	if indent {
		js, err = json.MarshalIndent(&x, "", "  ")
	} else {
		js, err = json.Marshal(&x)
	}
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(js)
}

// JS renders a Result (or anything else) as one line of JSON.
func JS(x interface{}) string {
	return render(x, false)
}

// JSON renders its argument as multi-line JSON.
func JSON(x interface{}) string {
	return render(x, true)
}

// ShortLimit is where JShort cuts off.
const ShortLimit = 70

// JShort is JS truncated to ShortLimit bytes plus "...", for notes
// and logs.
func JShort(x interface{}) string {
	js := JS(x)
	if len(js) <= ShortLimit {
		return js
	}
	return js[:ShortLimit] + "..."
}

var shellCommand = regexp.MustCompile(`<<(.*?)>>`)

// ShellExpand replaces each "<<command>>" in an utterance with the
// command's standard output.  The command runs under bash, and it's
// killed if the context ends first.
func ShellExpand(ctx context.Context, msg string) (string, error) {
	var (
		acc  strings.Builder
		last = 0
	)
	for _, loc := range shellCommand.FindAllStringSubmatchIndex(msg, -1) {
		acc.WriteString(msg[last:loc[0]])
		command := msg[loc[2]:loc[3]]
		out, err := exec.CommandContext(ctx, "bash", "-c", command).Output()
		if err != nil {
			return "", fmt.Errorf("shell command %q: %w", command, err)
		}
		acc.Write(out)
		last = loc[1]
	}
	acc.WriteString(msg[last:])
	return acc.String(), nil
}
