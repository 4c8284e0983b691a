package multiagent

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/grid"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/qlearning"
)

// ErrInvalidConfig is wrapped by every construction failure.
var ErrInvalidConfig = errors.New("invalid multi-agent config")

// DefaultLayout blocks the centre with an L shape and adds a ledge on row 5.
var DefaultLayout = []string{
	"........",
	"........",
	"........",
	"...##...",
	"...#....",
	".....##.",
	"........",
	"........",
}

// AgentConfig places one agent. Agents are numbered from 1 in slice order.
type AgentConfig struct {
	Start grid.Position `json:"start"`
	Goal  grid.Position `json:"goal"`
	Color string        `json:"color"`
}

// Config describes the shared grid and its agents.
type Config struct {
	Layout          []string                  `json:"layout"`
	Agents          []AgentConfig             `json:"agents"`
	Hyperparameters qlearning.Hyperparameters `json:"hyperparameters"`
	Seed            uint64                    `json:"seed"`
}

// DefaultConfig returns the three-agent crossing: each agent has to cut
// across the others' paths to reach its goal.
func DefaultConfig() Config {
	return Config{
		Layout: append([]string(nil), DefaultLayout...),
		Agents: []AgentConfig{
			{Start: grid.Position{X: 0, Y: 0}, Goal: grid.Position{X: 6, Y: 1}, Color: "#3b82f6"},
			{Start: grid.Position{X: 7, Y: 0}, Goal: grid.Position{X: 6, Y: 6}, Color: "#22c55e"},
			{Start: grid.Position{X: 0, Y: 7}, Goal: grid.Position{X: 1, Y: 6}, Color: "#f59e0b"},
		},
		Hyperparameters: qlearning.DefaultHyperparameters(),
		Seed:            1,
	}
}

func (c Config) build() (grid.Layout, error) {
	layout, err := grid.ParseLayout(c.Layout)
	if err != nil {
		return layout, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(c.Agents) == 0 {
		return layout, fmt.Errorf("%w: no agents", ErrInvalidConfig)
	}

	starts := make(map[grid.Position]int, len(c.Agents))
	goals := make([]grid.Position, 0, len(c.Agents))
	seenGoal := make(map[grid.Position]int, len(c.Agents))
	for i, a := range c.Agents {
		id := i + 1
		if !a.Start.In() || layout.At(a.Start) == grid.Obstacle {
			return layout, fmt.Errorf("%w: agent %d start %s is out of bounds or an obstacle", ErrInvalidConfig, id, a.Start)
		}
		if other, dup := starts[a.Start]; dup {
			return layout, fmt.Errorf("%w: agents %d and %d share start %s", ErrInvalidConfig, other, id, a.Start)
		}
		if other, dup := seenGoal[a.Goal]; dup {
			return layout, fmt.Errorf("%w: agents %d and %d share goal %s", ErrInvalidConfig, other, id, a.Goal)
		}
		if a.Start == a.Goal {
			return layout, fmt.Errorf("%w: agent %d starts on its goal", ErrInvalidConfig, id)
		}
		starts[a.Start] = id
		seenGoal[a.Goal] = id
		goals = append(goals, a.Goal)
	}

	if layout, err = layout.WithGoals(goals...); err != nil {
		return layout, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for i, a := range c.Agents {
		if !layout.Reachable(a.Start, a.Goal) {
			return layout, fmt.Errorf("%w: agent %d goal %s unreachable from %s", ErrInvalidConfig, i+1, a.Goal, a.Start)
		}
	}
	if err := c.Hyperparameters.Validate(); err != nil {
		return layout, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return layout, nil
}
