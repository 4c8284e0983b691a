// Package multiagent runs several Q-learning agents on one shared grid.
// Agents own independent Q-tables and goals and interact only by blocking
// each other's moves.
//
// Within a tick agents act in ascending id and their positions are updated
// in place. An agent's collision check therefore sees the new positions of
// the agents that already acted this tick and the old positions of those that
// have not: agent 1 never yields, the last agent can be blocked by anyone.
package multiagent

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/grid"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/qlearning"
	"github.com/tochemey/goakt/v3/log"
)

type agent struct {
	id           int
	color        string
	start        grid.Position
	goal         grid.Position
	pos          grid.Position
	table        qlearning.Table
	totalReward  float64
	goalsReached int
	lastReward   float64
}

func (a *agent) atGoal() bool {
	return a.pos == a.goal
}

// AgentSnapshot is the per-agent part of a Snapshot.
type AgentSnapshot struct {
	ID           int             `json:"id"`
	Color        string          `json:"color"`
	Position     grid.Position   `json:"position"`
	Start        grid.Position   `json:"start"`
	Goal         grid.Position   `json:"goal"`
	QTable       qlearning.Table `json:"qTable"`
	TotalReward  float64         `json:"totalReward"`
	GoalsReached int             `json:"goalsReached"`
	LastReward   float64         `json:"lastReward"`
	AtGoal       bool            `json:"atGoal"`
}

// Snapshot is an immutable copy of the engine state.
type Snapshot struct {
	Tick    uint64          `json:"tick"`
	Cells   grid.Layout     `json:"cells"`
	Episode int             `json:"episode"`
	Agents  []AgentSnapshot `json:"agents"`
}

// Engine is not safe for concurrent use.
type Engine struct {
	cfg    Config
	layout grid.Layout
	hp     qlearning.Hyperparameters
	rng    *rand.Rand
	logger log.Logger

	tick    uint64
	episode int
	agents  []agent
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for rollover and reset events.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New validates cfg and builds the engine with every agent on its start cell.
func New(cfg Config, opts ...Option) (*Engine, error) {
	layout, err := cfg.build()
	if err != nil {
		return nil, err
	}
	cfg.Agents = append([]AgentConfig(nil), cfg.Agents...)
	e := &Engine{
		cfg:    cfg,
		layout: layout,
		hp:     cfg.Hyperparameters,
		logger: log.DiscardLogger,
		agents: make([]agent, len(cfg.Agents)),
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
	e.episode = 0
	for i, ac := range e.cfg.Agents {
		e.agents[i] = agent{
			id:    i + 1,
			color: ac.Color,
			start: ac.Start,
			goal:  ac.Goal,
			pos:   ac.Start,
		}
	}
}

// Step advances every agent by one tick.
func (e *Engine) Step() Snapshot {
	e.tick++

	if e.allAtGoal() {
		e.episode++
		for i := range e.agents {
			e.agents[i].pos = e.agents[i].start
			e.agents[i].lastReward = 0
		}
		e.logger.Debugf("multi-agent episode %d finished at tick %d", e.episode, e.tick)
		return e.Snapshot()
	}

	for i := range e.agents {
		e.act(i)
	}
	return e.Snapshot()
}

func (e *Engine) allAtGoal() bool {
	for i := range e.agents {
		if !e.agents[i].atGoal() {
			return false
		}
	}
	return true
}

// occupied reports whether a cell holds an agent other than self, using the
// positions as they stand at this point of the tick.
func (e *Engine) occupied(p grid.Position, self int) bool {
	for i := range e.agents {
		if i != self && e.agents[i].pos == p {
			return true
		}
	}
	return false
}

func (e *Engine) act(i int) {
	a := &e.agents[i]
	if a.atGoal() {
		return
	}

	action := qlearning.SelectAction(&a.table, a.pos, e.hp.ExplorationRate, e.rng)
	next := a.pos.Move(action)
	blocked := e.layout.At(next) == grid.Obstacle
	if blocked {
		next = a.pos
	}
	collided := next != a.pos && e.occupied(next, i)
	if collided {
		next = a.pos
	}

	reward := qlearning.StepPenalty
	if next == a.goal {
		reward = qlearning.GoalReward
		a.goalsReached++
	}
	if blocked {
		reward = qlearning.ObstaclePenalty
	}
	if collided {
		reward = qlearning.CollisionPenalty
	}

	a.table.Update(a.pos, action, reward, next, e.hp)
	a.pos = next
	a.totalReward += reward
	a.lastReward = reward
}

// Reset returns every agent to its start with a zero Q-table and clears the counters.
func (e *Engine) Reset() Snapshot {
	e.restart()
	e.logger.Debug("multi-agent grid reset")
	return e.Snapshot()
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Tick:    e.tick,
		Cells:   e.layout,
		Episode: e.episode,
		Agents:  make([]AgentSnapshot, len(e.agents)),
	}
	for i, a := range e.agents {
		s.Agents[i] = AgentSnapshot{
			ID:           a.id,
			Color:        a.color,
			Position:     a.pos,
			Start:        a.start,
			Goal:         a.goal,
			QTable:       a.table,
			TotalReward:  a.totalReward,
			GoalsReached: a.goalsReached,
			LastReward:   a.lastReward,
			AtGoal:       a.atGoal(),
		}
	}
	return s
}

// Hyperparameters returns the values shared by every agent.
func (e *Engine) Hyperparameters() qlearning.Hyperparameters {
	return e.hp
}

// UpdateConfig applies p to all agents from the next tick on.
func (e *Engine) UpdateConfig(p qlearning.Patch) error {
	hp, err := e.hp.Apply(p)
	if err != nil {
		return err
	}
	e.hp = hp
	return nil
}
