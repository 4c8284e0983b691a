// Package gridworld is the single-agent tabular Q-learning engine: one agent,
// one goal, a fixed 8x8 obstacle layout.
package gridworld

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/grid"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/qlearning"
	"github.com/tochemey/goakt/v3/log"
)

// Snapshot is an immutable copy of the engine state handed to renderers.
type Snapshot struct {
	Tick        uint64          `json:"tick"`
	Cells       grid.Layout     `json:"cells"`
	Start       grid.Position   `json:"start"`
	Goal        grid.Position   `json:"goal"`
	Agent       grid.Position   `json:"agent"`
	QTable      qlearning.Table `json:"qTable"`
	Episode     int             `json:"episode"`
	TotalReward float64         `json:"totalReward"`
	LastReward  float64         `json:"lastReward"`
	LastAction  *grid.Action    `json:"lastAction,omitempty"`
}

// Engine owns its layout, Q-table and agent exclusively. It is not safe for
// concurrent use; callers serialise Step, Reset and UpdateConfig.
type Engine struct {
	cfg    Config
	layout grid.Layout
	hp     qlearning.Hyperparameters
	rng    *rand.Rand
	logger log.Logger

	tick        uint64
	agent       grid.Position
	table       qlearning.Table
	episode     int
	totalReward float64
	lastReward  float64
	lastAction  *grid.Action
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger routes engine events (episode rollover, reset) to logger.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New validates cfg and returns an engine in its initial state.
func New(cfg Config, opts ...Option) (*Engine, error) {
	layout, err := cfg.build()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		layout: layout,
		hp:     cfg.Hyperparameters,
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.restart()
	return e, nil
}

func (e *Engine) restart() {
	e.rng = rand.New(rand.NewPCG(e.cfg.Seed, e.cfg.Seed))
	e.tick = 0
	e.agent = e.cfg.Start
	e.table = qlearning.Table{}
	e.episode = 0
	e.totalReward = 0
	e.lastReward = 0
	e.lastAction = nil
}

// Step advances exactly one time unit and returns the new snapshot.
func (e *Engine) Step() Snapshot {
	e.tick++

	if e.agent == e.cfg.Goal {
		e.episode++
		e.totalReward += qlearning.GoalReward
		e.agent = e.cfg.Start
		e.lastReward = 0
		e.lastAction = nil
		e.logger.Debugf("grid world episode %d finished at tick %d", e.episode, e.tick)
		return e.Snapshot()
	}

	action := qlearning.SelectAction(&e.table, e.agent, e.hp.ExplorationRate, e.rng)
	target := e.agent.Move(action)
	next := target
	blocked := e.layout.At(target) == grid.Obstacle
	if blocked {
		next = e.agent
	}

	reward := qlearning.StepPenalty
	if next == e.cfg.Goal {
		reward = qlearning.GoalReward
	}
	if blocked {
		reward = qlearning.ObstaclePenalty
	}

	e.table.Update(e.agent, action, reward, next, e.hp)
	e.agent = next
	e.lastReward = reward
	e.lastAction = &action
	return e.Snapshot()
}

// Reset restores the just-constructed state: start position, zero Q-table,
// episode 0, zero reward and the initial random stream. Hyperparameters are
// left as the control panel set them.
func (e *Engine) Reset() Snapshot {
	e.restart()
	e.logger.Debug("grid world reset")
	return e.Snapshot()
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Tick:        e.tick,
		Cells:       e.layout,
		Start:       e.cfg.Start,
		Goal:        e.cfg.Goal,
		Agent:       e.agent,
		QTable:      e.table,
		Episode:     e.episode,
		TotalReward: e.totalReward,
		LastReward:  e.lastReward,
	}
	if e.lastAction != nil {
		a := *e.lastAction
		s.LastAction = &a
	}
	return s
}

// Hyperparameters returns the values used by the next tick.
func (e *Engine) Hyperparameters() qlearning.Hyperparameters {
	return e.hp
}

// UpdateConfig applies p from the next tick on. Invalid patches leave the engine unchanged.
func (e *Engine) UpdateConfig(p qlearning.Patch) error {
	hp, err := e.hp.Apply(p)
	if err != nil {
		return err
	}
	e.hp = hp
	return nil
}
