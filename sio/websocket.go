/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket is a Couplings for a WebSocket client.  Each text frame
// from the server is an utterance, and each Result goes back as a
// JSON text frame.
type WebSocket struct {
	URL string

	// Logger defaults to a no-op Logger.
	Logger *zap.Logger

	in   chan *Utterance
	out  chan *Result
	done chan bool
	conn *websocket.Conn
	wg   sync.WaitGroup

	// wmu serializes writes to conn.
	wmu sync.Mutex
}

// NewWebSocket makes a WebSocket Couplings for the given URL.
func NewWebSocket(u string) *WebSocket {
	return &WebSocket{
		URL: u,
	}
}

func (c *WebSocket) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Start creates the WebSocket session and starts processing it.
func (c *WebSocket) Start(ctx context.Context) error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return err
	}

	log := c.logger()

	c.in = make(chan *Utterance)
	c.out = make(chan *Result)
	c.done = make(chan bool)

	log.Info("wsconnect", zap.String("url", u.String()))
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return err
	}
	c.conn = conn

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.done)
		for {
			_, bs, err := conn.ReadMessage()
			if err != nil {
				log.Debug("ReadMessage", zap.Error(err))
				return
			}
			if len(bs) == 0 {
				continue
			}
			log.Debug("heard", zap.ByteString("msg", bs))

			u, err := ParseUtterance(string(bs))
			if err != nil {
				log.Warn("bad input", zap.ByteString("msg", bs), zap.Error(err))
				continue
			}

			select {
			case <-ctx.Done():
				return
			case c.in <- u:
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-c.out:
				if r == nil {
					return
				}
				js, err := json.Marshal(r)
				if err != nil {
					log.Error("Marshal", zap.Error(err))
					continue
				}
				if err = c.write(websocket.TextMessage, js); err != nil {
					log.Error("WriteMessage", zap.Error(err))
					return
				}
			}
		}
	}()

	return nil
}

func (c *WebSocket) write(kind int, bs []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(kind, bs)
}

// IO just returns the channels that Start() initialized.
func (c *WebSocket) IO(ctx context.Context) (chan *Utterance, chan *Result, chan bool, error) {
	return c.in, c.out, c.done, nil
}

// Stop closes the connection and waits for the reading and writing
// goroutines.
func (c *WebSocket) Stop(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	c.logger().Info("disconnecting", zap.String("url", c.URL))
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.write(websocket.CloseMessage, msg)
	err := c.conn.Close()
	c.wg.Wait()
	return err
}
