package gridworld

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/grid"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/qlearning"
)

// ErrInvalidConfig is wrapped by every construction failure.
var ErrInvalidConfig = errors.New("invalid grid world config")

// DefaultLayout is the single-agent obstacle course: a wall across row 3
// and a short one across row 5.
var DefaultLayout = []string{
	"........",
	"........",
	"........",
	"..###...",
	"........",
	".....##.",
	"........",
	"........",
}

// Config describes one grid world.
type Config struct {
	Layout          []string                  `json:"layout"`
	Start           grid.Position             `json:"start"`
	Goal            grid.Position             `json:"goal"`
	Hyperparameters qlearning.Hyperparameters `json:"hyperparameters"`
	Seed            uint64                    `json:"seed"`
}

// DefaultConfig starts bottom-left and puts the goal near the top-right corner.
func DefaultConfig() Config {
	return Config{
		Layout:          append([]string(nil), DefaultLayout...),
		Start:           grid.Position{X: 0, Y: grid.Size - 1},
		Goal:            grid.Position{X: grid.Size - 2, Y: 1},
		Hyperparameters: qlearning.DefaultHyperparameters(),
		Seed:            1,
	}
}

// build validates c and returns the layout with the goal marked.
func (c Config) build() (grid.Layout, error) {
	layout, err := grid.ParseLayout(c.Layout)
	if err != nil {
		return layout, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !c.Start.In() {
		return layout, fmt.Errorf("%w: start %s out of bounds", ErrInvalidConfig, c.Start)
	}
	if layout.At(c.Start) == grid.Obstacle {
		return layout, fmt.Errorf("%w: start %s is an obstacle", ErrInvalidConfig, c.Start)
	}
	if c.Start == c.Goal {
		return layout, fmt.Errorf("%w: start and goal are both %s", ErrInvalidConfig, c.Start)
	}
	if layout, err = layout.WithGoals(c.Goal); err != nil {
		return layout, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !layout.Reachable(c.Start, c.Goal) {
		return layout, fmt.Errorf("%w: goal %s unreachable from %s", ErrInvalidConfig, c.Goal, c.Start)
	}
	if err := c.Hyperparameters.Validate(); err != nil {
		return layout, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return layout, nil
}
