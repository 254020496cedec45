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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Stdio is a fairly simple Couplings that reads utterances from an
// input, one per line, and writes each Result as a line of JSON.
//
// A line that's just "quit" ends input.  Blank lines and lines that
// start with '#' are ignored.
type Stdio struct {
	In  io.Reader
	Out io.Writer

	// Logger defaults to a no-op Logger.
	Logger *zap.Logger

	// ShellExpand enables input to include inline shell commands
	// delimited by '<<' and '>>'.  Use at your own risk, of
	// course!
	ShellExpand bool

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// EchoInput writes input lines (prepended with "input") to
	// the output.
	EchoInput bool

	// Tags prefixes tags indicating type of output ("input",
	// "result", "note").
	Tags bool

	// PadTags adds some padding to tags.
	PadTags bool

	// Pretty writes multi-line JSON.
	Pretty bool

	// PrintNotes writes each Result's notes after the Result.
	PrintNotes bool

	// InputEOF will be closed when input ends.
	InputEOF chan bool

	wg sync.WaitGroup
}

// NewStdio creates a new Stdio with In and Out initialized with
// os.Stdin and os.Stdout respectively.
func NewStdio(shellExpand bool) *Stdio {
	return &Stdio{
		In:          os.Stdin,
		Out:         os.Stdout,
		ShellExpand: shellExpand,
		InputEOF:    make(chan bool),
	}
}

func (s *Stdio) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Start does nothing.
func (s *Stdio) Start(ctx context.Context) error {
	return nil
}

// Stop waits until IO is complete or the context is done.
func (s *Stdio) Stop(ctx context.Context) error {
	waited := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
	}
	return nil
}

// IO returns channels for reading from In and writing to Out.
func (s *Stdio) IO(ctx context.Context) (chan *Utterance, chan *Result, chan bool, error) {
	var (
		in   = make(chan *Utterance)
		out  = make(chan *Result)
		done = make(chan bool)
		log  = s.logger()
		mu   sync.Mutex
	)

	printf := func(tag, format string, args ...interface{}) {
		if s.PadTags {
			tag = fmt.Sprintf("% 10s", tag)
		}
		if s.Tags {
			format = tag + " " + format
		}
		if s.Timestamps {
			ts := fmt.Sprintf("%-31s", time.Now().UTC().Format(time.RFC3339Nano))
			format = ts + " " + format
		}
		mu.Lock()
		fmt.Fprintf(s.Out, format, args...)
		mu.Unlock()
	}

	eof := func() {
		close(done)
		if s.InputEOF != nil {
			close(s.InputEOF)
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer eof()
		lines := bufio.NewReader(s.In)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line, err := lines.ReadString('\n')
			if err != nil && err != io.EOF {
				log.Error("stdin", zap.Error(err))
				return
			}
			last := err == io.EOF
			if strings.TrimSpace(line) == "quit" {
				return
			}
			if s.EchoInput && line != "" {
				printf("input", "%s\n", strings.TrimRight(line, "\n"))
			}
			if strings.HasPrefix(line, "#") || len(strings.TrimSpace(line)) == 0 {
				if last {
					return
				}
				continue
			}
			if s.ShellExpand {
				if line, err = ShellExpand(ctx, line); err != nil {
					log.Error("stdin", zap.Error(err))
					return
				}
			}

			u, err := ParseUtterance(line)
			if err != nil {
				log.Warn("bad input", zap.String("line", line), zap.Error(err))
			} else {
				select {
				case <-ctx.Done():
					return
				case in <- u:
				}
			}
			if last {
				return
			}
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-out:
				if r == nil {
					return
				}
				if s.Pretty {
					printf("result", "%s\n", JSON(r))
				} else {
					printf("result", "%s\n", JS(r))
				}
				if s.PrintNotes {
					for _, n := range r.Notes {
						printf("note", "%s %s\n", n.Msg, JShort(n.X))
					}
				}
			}
		}
	}()

	return in, out, done, nil
}
