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

// Package testutil has a few helpers for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// JS renders its argument as JSON or, failing that, with %#v.
func JS(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}

// Dwimjs, when given a string or bytes, parses that data as JSON.
// When given anything else, just returns what's given.
//
// See https://en.wikipedia.org/wiki/DWIM.
func Dwimjs(x interface{}) interface{} {
	switch vv := x.(type) {
	case []byte:
		return Dwimjs(string(vv))
	case string:
		var v interface{}
		if err := json.Unmarshal([]byte(vv), &v); err != nil {
			panic(err)
		}
		return v
	default:
		return x
	}
}

// Words splits on whitespace.  Handy for writing token lists.
func Words(s string) []string {
	return strings.Fields(s)
}

// SortedJS renders each element as JSON and sorts the results, which
// makes comparing unordered collections easy.
func SortedJS(xs ...interface{}) []string {
	acc := make([]string, len(xs))
	for i, x := range xs {
		acc[i] = JS(x)
	}
	sort.Strings(acc)
	return acc
}
