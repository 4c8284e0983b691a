package simulation

import (
	"errors"
	"io"
	"testing"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/flock"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/gridworld"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/multiagent"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/qlearning"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestControlMessage(t *testing.T) {
	settings, _ := Settings(map[string]float64{SettingLearningRate: 0.4})
	tests := []struct {
		kind string
		want proto.Message
	}{
		{ControlRun, wrapperspb.Bool(true)},
		{ControlPause, wrapperspb.Bool(false)},
		{ControlReset, wrapperspb.String(CommandReset)},
		{ControlStep, wrapperspb.String(CommandStep)},
		{ControlSnapshot, wrapperspb.String(CommandSnapshot)},
		{ControlConfig, settings},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := ControlMessage(tt.kind, map[string]float64{SettingLearningRate: 0.4})
			if err != nil {
				t.Fatalf("ControlMessage(%q) error = %v", tt.kind, err)
			}
			if !proto.Equal(got, tt.want) {
				t.Errorf("ControlMessage(%q) = %v; want %v", tt.kind, got, tt.want)
			}
		})
	}

	if _, err := ControlMessage("jump", nil); !errors.Is(err, ErrUnknownControl) {
		t.Errorf("ControlMessage(jump) error = %v; want ErrUnknownControl", err)
	}
}

func TestSettingsOf(t *testing.T) {
	s, err := structpb.NewStruct(map[string]interface{}{"cohesionWeight": 2.0})
	if err != nil {
		t.Fatal(err)
	}
	got, err := settingsOf(s)
	if err != nil || got["cohesionWeight"] != 2 {
		t.Errorf("settingsOf() = %v, %v", got, err)
	}

	bad, _ := structpb.NewStruct(map[string]interface{}{"cohesionWeight": "strong"})
	if _, err := settingsOf(bad); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("settingsOf(string) error = %v; want ErrUnknownSetting", err)
	}
}

func TestEngine_Configure(t *testing.T) {
	gw, _ := gridworld.New(gridworld.DefaultConfig())
	ma, _ := multiagent.New(multiagent.DefaultConfig())
	fl, _ := flock.New(flock.DefaultConfig())

	tests := []struct {
		name      string
		configure func(map[string]float64) error
		settings  map[string]float64
		wantErr   error
	}{
		{"Grid world epsilon", GridWorld{gw}.Configure, map[string]float64{SettingExplorationRate: 0}, nil},
		{"Grid world weight", GridWorld{gw}.Configure, map[string]float64{SettingCohesionWeight: 1}, ErrUnknownSetting},
		{"Grid world gamma too big", GridWorld{gw}.Configure, map[string]float64{SettingDiscountFactor: 1.5}, qlearning.ErrInvalidHyperparameters},
		{"Multi-agent alpha", MultiAgent{ma}.Configure, map[string]float64{SettingLearningRate: 0.3}, nil},
		{"Flock weights", Flock{fl}.Configure, map[string]float64{SettingSeparationWeight: 0, SettingAlignmentWeight: 3}, nil},
		{"Flock epsilon", Flock{fl}.Configure, map[string]float64{SettingExplorationRate: 0.1}, ErrUnknownSetting},
		{"Flock weight too big", Flock{fl}.Configure, map[string]float64{SettingCohesionWeight: 3.5}, flock.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.configure(tt.settings)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Configure() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Configure() error = %v; want %v", err, tt.wantErr)
			}
		})
	}

	if gw.Hyperparameters().ExplorationRate != 0 {
		t.Errorf("grid world epsilon = %v; want 0", gw.Hyperparameters().ExplorationRate)
	}
	if ma.Hyperparameters().LearningRate != 0.3 {
		t.Errorf("multi-agent alpha = %v; want 0.3", ma.Hyperparameters().LearningRate)
	}
	if w := fl.Weights(); w.Separation != 0 || w.Alignment != 3 || w.Cohesion != 1 {
		t.Errorf("flock weights = %+v", w)
	}
}

func TestCheckEngine(t *testing.T) {
	for _, name := range EngineNames {
		if err := CheckEngine(name); err != nil {
			t.Errorf("CheckEngine(%q) = %v", name, err)
		}
	}
	if err := CheckEngine("pong"); !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("CheckEngine(pong) = %v; want ErrUnknownEngine", err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "INFO", "error"} {
		if _, err := NewLogger(level, io.Discard); err != nil {
			t.Errorf("NewLogger(%q) error = %v", level, err)
		}
	}
	if _, err := NewLogger("verbose", io.Discard); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("NewLogger(verbose) error = %v; want ErrInvalidLogLevel", err)
	}
}
