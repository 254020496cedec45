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
	"strings"

	"github.com/Comcast/temple/phrase"
)

// Couplings provide channels for utterance input and result output.
//
// For example, an implementation could couple a Service to an MQTT
// broker.
type Couplings interface {
	// Start initializes the Couplings.
	Start(context.Context) error

	// IO returns the input and result channels along with a
	// channel that's closed when no more input will arrive.
	//
	// The Service closes the result channel when it's done
	// with it.
	IO(context.Context) (chan *Utterance, chan *Result, chan bool, error)

	// Stop shuts down the Couplings.
	Stop(context.Context) error
}

// Utterance is a bit of text to process.
type Utterance struct {
	// Id, if given, is copied to the Result.
	Id string `json:"id,omitempty"`

	Text string `json:"text"`

	// ReplyTo is an optional hint for the Couplings about where
	// to send the Result.
	ReplyTo string `json:"replyTo,omitempty"`
}

// ParseUtterance reads an Utterance from a line.  A line that looks
// like a JSON object is parsed as one.  Anything else is just text.
func ParseUtterance(line string) (*Utterance, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "{") {
		var u Utterance
		if err := json.Unmarshal([]byte(line), &u); err != nil {
			return nil, err
		}
		return &u, nil
	}
	return &Utterance{
		Text: line,
	}, nil
}

// Note is a message given to a Service's Receiver.
type Note struct {
	Msg string      `json:"msg"`
	X   interface{} `json:"x,omitempty"`
}

// Result is what a Service makes of an Utterance.
type Result struct {
	Id   string `json:"id"`
	Text string `json:"text"`

	// Input is the parsed text.
	Input *phrase.Phrase `json:"input,omitempty"`

	// Outputs has one value per branch (or group of branches)
	// that something matched.
	Outputs []interface{} `json:"outputs"`

	Notes []Note `json:"notes,omitempty"`

	// Error reports a problem with processing.  Outputs might
	// still have something.
	Error string `json:"error,omitempty"`

	// ReplyTo is copied from the Utterance.
	ReplyTo string `json:"-"`
}
