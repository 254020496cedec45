package sio

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogReceiver(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := &LogReceiver{Logger: zap.New(core)}
	r.Receive("Ignoring late outcome.", map[string]interface{}{"kind": 1})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("%d entries", len(entries))
	}
	if entries[0].Message != "Ignoring late outcome." {
		t.Fatal(entries[0].Message)
	}
	if x := entries[0].ContextMap()["x"]; x != `{"kind":1}` {
		t.Fatalf("x %v", x)
	}

	// No Logger, no problem.
	(&LogReceiver{}).Receive("quiet", nil)
}
