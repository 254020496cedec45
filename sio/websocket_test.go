package sio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWebSocket(t *testing.T) {
	var (
		upgrader = websocket.Upgrader{}
		heard    = make(chan []byte, 2)
	)

	// The server says two things and then hangs up after hearing
	// two replies.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		defer conn.Close()

		for _, msg := range []string{"Hello bob.", `{"id":"g","text":"Goodbye."}`} {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				t.Error(err)
				return
			}
			_, bs, err := conn.ReadMessage()
			if err != nil {
				t.Error(err)
				return
			}
			heard <- bs
		}
	}))
	defer server.Close()

	c := NewWebSocket("ws" + strings.TrimPrefix(server.URL, "http"))
	c.Logger = zaptest.NewLogger(t)

	s := NewService(testDicta(t))
	require.NoError(t, s.Run(context.Background(), c))

	close(heard)
	var rs []wireResult
	for bs := range heard {
		var r wireResult
		require.NoError(t, json.Unmarshal(bs, &r))
		rs = append(rs, r)
	}
	require.Len(t, rs, 2)
	assert.Equal(t, []interface{}{"hi bob"}, rs[0].outputs())
	assert.Equal(t, "g", rs[1].Id)
	assert.Equal(t, []interface{}{"see you"}, rs[1].outputs())
}

func TestWebSocketBadURL(t *testing.T) {
	c := NewWebSocket("ws://127.0.0.1:1/nope")
	assert.Error(t, c.Start(context.Background()))
	assert.NoError(t, c.Stop(context.Background()))
}
