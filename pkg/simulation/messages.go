package simulation

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Commands carried as string messages.
const (
	CommandReset    = "reset"
	CommandStep     = "step"
	CommandSnapshot = "snapshot"
)

// Control types accepted by ControlMessage, as sent by stream clients.
const (
	ControlRun      = "run"
	ControlPause    = "pause"
	ControlReset    = CommandReset
	ControlStep     = CommandStep
	ControlSnapshot = CommandSnapshot
	ControlConfig   = "config"
)

// ErrUnknownControl is returned for a control type ControlMessage does not know.
var ErrUnknownControl = errors.New("unknown control message")

// Tick is the clock message. It steps the engine only while running.
func Tick() proto.Message {
	return &emptypb.Empty{}
}

// Run switches the engine between running (true) and paused.
func Run(running bool) proto.Message {
	return wrapperspb.Bool(running)
}

// Command wraps one of the Command* names.
func Command(name string) proto.Message {
	return wrapperspb.String(name)
}

// Settings encodes a partial configuration update.
func Settings(values map[string]float64) (proto.Message, error) {
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = v
	}
	return structpb.NewStruct(fields)
}

// ControlMessage maps a control type and its optional settings to the actor message.
func ControlMessage(kind string, settings map[string]float64) (proto.Message, error) {
	switch kind {
	case ControlRun:
		return Run(true), nil
	case ControlPause:
		return Run(false), nil
	case ControlReset, ControlStep, ControlSnapshot:
		return Command(kind), nil
	case ControlConfig:
		return Settings(settings)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownControl, kind)
	}
}

// settingsOf extracts the numeric fields of a settings message.
func settingsOf(s *structpb.Struct) (map[string]float64, error) {
	out := make(map[string]float64, len(s.GetFields()))
	for k, v := range s.GetFields() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a number", ErrUnknownSetting, k)
		}
		out[k] = n.NumberValue
	}
	return out, nil
}
