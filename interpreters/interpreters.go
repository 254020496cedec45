// Package interpreters gathers the standard template interpreters.
package interpreters

import (
	"github.com/Comcast/temple/dicta"
	"github.com/Comcast/temple/interpreters/goja"
	"github.com/Comcast/temple/interpreters/noop"
	"github.com/Comcast/temple/interpreters/text"

	"go.uber.org/zap"
)

// Standard returns the standard interpreters.  The logger (which can
// be nil) receives script logging.
func Standard(logger *zap.Logger) dicta.InterpretersMap {
	is := dicta.NewInterpretersMap()

	js := goja.NewInterpreter()
	js.Logger = logger
	is["goja"] = js
	is["ecmascript"] = js

	is["text"] = text.NewInterpreter()
	is["noop"] = noop.NewInterpreter()

	return is
}
