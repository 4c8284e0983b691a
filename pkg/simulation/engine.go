package simulation

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/flock"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/gridworld"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/multiagent"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/qlearning"
	"github.com/tochemey/goakt/v3/log"
)

// Engine names, as used on the command line and in stream routes.
const (
	EngineGridWorld  = "gridworld"
	EngineMultiAgent = "multiagent"
	EngineFlock      = "flock"
)

// EngineNames lists the engines in display order.
var EngineNames = []string{EngineGridWorld, EngineMultiAgent, EngineFlock}

// ErrUnknownEngine is returned for a name outside EngineNames.
var ErrUnknownEngine = errors.New("unknown engine")

// ErrUnknownSetting is returned when a settings update names a key the engine does not have.
var ErrUnknownSetting = errors.New("unknown setting")

// Setting keys accepted by Engine.Configure.
const (
	SettingLearningRate     = "learningRate"
	SettingDiscountFactor   = "discountFactor"
	SettingExplorationRate  = "explorationRate"
	SettingSeparationWeight = "separationWeight"
	SettingAlignmentWeight  = "alignmentWeight"
	SettingCohesionWeight   = "cohesionWeight"
)

// Engine is what the driver needs from a simulation: the three tick
// operations plus a settings hook fed by the control panel.
type Engine[S any] interface {
	Step() S
	Reset() S
	Snapshot() S
	Configure(settings map[string]float64) error
}

// CheckEngine validates an engine name.
func CheckEngine(name string) error {
	if !slices.Contains(EngineNames, name) {
		return fmt.Errorf("%w %q, want one of %v", ErrUnknownEngine, name, EngineNames)
	}
	return nil
}

func hyperparameterPatch(settings map[string]float64) (qlearning.Patch, error) {
	var p qlearning.Patch
	for _, k := range slices.Sorted(maps.Keys(settings)) {
		v := settings[k]
		switch k {
		case SettingLearningRate:
			p.LearningRate = &v
		case SettingDiscountFactor:
			p.DiscountFactor = &v
		case SettingExplorationRate:
			p.ExplorationRate = &v
		default:
			return p, fmt.Errorf("%w %q", ErrUnknownSetting, k)
		}
	}
	return p, nil
}

func weightsPatch(settings map[string]float64) (flock.WeightsPatch, error) {
	var p flock.WeightsPatch
	for _, k := range slices.Sorted(maps.Keys(settings)) {
		v := settings[k]
		switch k {
		case SettingSeparationWeight:
			p.Separation = &v
		case SettingAlignmentWeight:
			p.Alignment = &v
		case SettingCohesionWeight:
			p.Cohesion = &v
		default:
			return p, fmt.Errorf("%w %q", ErrUnknownSetting, k)
		}
	}
	return p, nil
}

// GridWorld adapts the single-agent engine.
type GridWorld struct{ *gridworld.Engine }

func (g GridWorld) Configure(settings map[string]float64) error {
	p, err := hyperparameterPatch(settings)
	if err != nil {
		return err
	}
	return g.UpdateConfig(p)
}

// MultiAgent adapts the multi-agent engine.
type MultiAgent struct{ *multiagent.Engine }

func (m MultiAgent) Configure(settings map[string]float64) error {
	p, err := hyperparameterPatch(settings)
	if err != nil {
		return err
	}
	return m.UpdateConfig(p)
}

// Flock adapts the flocking engine.
type Flock struct{ *flock.Engine }

func (f Flock) Configure(settings map[string]float64) error {
	p, err := weightsPatch(settings)
	if err != nil {
		return err
	}
	return f.UpdateConfig(p)
}

// Engines holds one instance of each engine built from the same Config.
type Engines struct {
	GridWorld  GridWorld
	MultiAgent MultiAgent
	Flock      Flock
}

// NewEngines builds all three engines, logging through logger.
func NewEngines(cfg *Config, logger log.Logger) (*Engines, error) {
	gw, err := gridworld.New(cfg.GridWorld, gridworld.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	ma, err := multiagent.New(cfg.MultiAgent, multiagent.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	fl, err := flock.New(cfg.Flock, flock.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Engines{
		GridWorld:  GridWorld{gw},
		MultiAgent: MultiAgent{ma},
		Flock:      Flock{fl},
	}, nil
}
