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
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Comcast/temple/dicta"
)

var inline = regexp.MustCompile(`(?s)(.*?)(%inline *\("([^"]*)"\))`)

// Inline replaces '%inline("NAME")' with f(NAME).
func Inline(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	i := 0
	acc := make([]byte, 0, len(bs))
	for {
		part := inline.FindSubmatch(bs[i:])
		if part == nil {
			acc = append(acc, bs[i:]...)
			break
		}
		i += len(part[0])
		acc = append(acc, part[1]...)
		replacement, err := f(string(part[3]))
		if err != nil {
			return nil, err
		}
		acc = append(acc, replacement...)
	}

	return acc, nil
}

// Quoted wraps a finder so that each replacement is a JSON string,
// which is also a YAML flow scalar.  Multi-line template sources can
// then be inlined into a library.
func Quoted(f func(string) ([]byte, error)) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		bs, err := f(name)
		if err != nil {
			return nil, err
		}
		return json.Marshal(string(bs))
	}
}

// ReadFileWithInlines is a replacement for os.ReadFile that
// replaces '%inline("NAME")' with the quoted contents of NAME,
// which is relative to the file's directory.
func ReadFileWithInlines(filename string) ([]byte, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(filename)
	f := func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}

	return Inline(bs, Quoted(f))
}

// ReadLibrary reads a Library with ReadFileWithInlines.
func ReadLibrary(filename string) (*dicta.Library, error) {
	bs, err := ReadFileWithInlines(filename)
	if err != nil {
		return nil, err
	}
	return dicta.ParseLibraryFile(filename, bs)
}
