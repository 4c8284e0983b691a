package simulation

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tochemey/goakt/v3/log"
)

// ErrInvalidLogLevel is returned by NewLogger for an unsupported level name.
var ErrInvalidLogLevel = errors.New("invalid log level")

// NewLogger builds the goakt logger shared by the actor system and the engines.
// An empty level means info.
func NewLogger(level string, w io.Writer) (log.Logger, error) {
	var lvl log.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = log.DebugLevel
	case "", "info":
		lvl = log.InfoLevel
	case "error":
		lvl = log.ErrorLevel
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidLogLevel, level)
	}
	return log.New(lvl, w), nil
}
