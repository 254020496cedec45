package sio

import (
	"github.com/Comcast/temple/core"

	"go.uber.org/zap"
)

// LogReceiver is a core.Receiver that logs notes at info level.
type LogReceiver struct {
	Logger *zap.Logger
}

// Receive implements core.Receiver.
func (r *LogReceiver) Receive(msg string, x interface{}) {
	if r.Logger == nil {
		return
	}
	r.Logger.Info(msg, zap.String("x", JShort(x)))
}

var _ core.Receiver = &LogReceiver{}
