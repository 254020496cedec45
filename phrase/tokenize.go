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

package phrase

import (
	"strings"
	"unicode"
)

// Spacer is the prefix of a token that was not preceded by whitespace
// in the original text.  A token that is exactly Spacer marks a word
// that directly follows punctuation.
const Spacer = " "

// Tokenize splits text into words and punctuation.
//
// Runs of letters and digits form words.  Every other non-space rune
// is its own token.  Whitespace only separates.
//
// When spacer is true, punctuation that was not preceded by
// whitespace is prefixed with Spacer, and a bare Spacer token is
// emitted before a word that directly follows punctuation.  Join can
// then reproduce the original spacing.
func Tokenize(text string, spacer bool) []string {
	var (
		acc        = make([]string, 0, len(text)/4+1)
		word       strings.Builder
		whitespace = false
		lastPunct  = false
	)

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if lastPunct && spacer {
				acc = append(acc, Spacer)
			}
			word.WriteRune(r)
			whitespace = false
			lastPunct = false
			continue
		}

		if 0 < word.Len() {
			acc = append(acc, word.String())
			word.Reset()
		}

		if unicode.IsSpace(r) {
			lastPunct = false
			whitespace = true
			continue
		}

		if whitespace || !spacer || len(acc) == 0 {
			acc = append(acc, string(r))
		} else {
			acc = append(acc, Spacer+string(r))
		}
		lastPunct = true
		whitespace = false
	}

	if 0 < word.Len() {
		acc = append(acc, word.String())
	}

	return acc
}

// Join is the inverse of Tokenize.
//
// Tokens are separated by a single space unless they carry the
// Spacer prefix.
func Join(tokens []string) string {
	var (
		acc     strings.Builder
		nowhite = true
	)
	for _, tok := range tokens {
		if tok == Spacer {
			nowhite = true
			continue
		}
		if strings.HasPrefix(tok, Spacer) {
			acc.WriteString(strings.TrimLeft(tok, Spacer))
		} else {
			if !nowhite {
				acc.WriteString(" ")
			}
			acc.WriteString(tok)
		}
		nowhite = false
	}
	return acc.String()
}

// Bare returns the token without any Spacer prefix.
func Bare(token string) string {
	return strings.TrimLeft(token, Spacer)
}

// IsWord reports whether the token contains a letter or a digit.
func IsWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
