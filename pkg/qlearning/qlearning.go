// Package qlearning implements the tabular pieces shared by the grid engines:
// hyperparameters, per-cell action values, epsilon-greedy selection and the TD(0) update.
package qlearning

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/grid"
	"gonum.org/v1/gonum/floats"
)

// Rewards
const (
	StepPenalty      = -0.1
	GoalReward       = 10.0
	ObstaclePenalty  = -5.0
	CollisionPenalty = -2.0
)

// ErrInvalidHyperparameters is wrapped when a value falls outside [0,1].
var ErrInvalidHyperparameters = errors.New("invalid hyperparameters")

// Hyperparameters are owned by the control collaborator and read-only during a tick.
type Hyperparameters struct {
	LearningRate    float64 `json:"learningRate"`    // alpha
	DiscountFactor  float64 `json:"discountFactor"`  // gamma
	ExplorationRate float64 `json:"explorationRate"` // epsilon
}

// DefaultHyperparameters match the initial slider positions.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		LearningRate:    0.1,
		DiscountFactor:  0.9,
		ExplorationRate: 0.2,
	}
}

// Validate checks every value lies in [0,1]. A zero learning rate is accepted and
// simply freezes the table.
func (h Hyperparameters) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v not in [0,1]", ErrInvalidHyperparameters, name, v)
		}
		return nil
	}
	return errors.Join(
		check("learningRate", h.LearningRate),
		check("discountFactor", h.DiscountFactor),
		check("explorationRate", h.ExplorationRate),
	)
}

// Patch is a partial hyperparameter update; nil fields keep their value.
type Patch struct {
	LearningRate    *float64 `json:"learningRate,omitempty"`
	DiscountFactor  *float64 `json:"discountFactor,omitempty"`
	ExplorationRate *float64 `json:"explorationRate,omitempty"`
}

// Apply returns h with p applied. The result is validated; on error h is returned unchanged.
func (h Hyperparameters) Apply(p Patch) (Hyperparameters, error) {
	next := h
	if p.LearningRate != nil {
		next.LearningRate = *p.LearningRate
	}
	if p.DiscountFactor != nil {
		next.DiscountFactor = *p.DiscountFactor
	}
	if p.ExplorationRate != nil {
		next.ExplorationRate = *p.ExplorationRate
	}
	if err := next.Validate(); err != nil {
		return h, err
	}
	return next, nil
}

// ActionValues holds Q(s,·) for one cell, indexed by grid.Action.
type ActionValues [grid.NumActions]float64

// Max returns the largest action value.
func (v ActionValues) Max() float64 {
	return floats.Max(v[:])
}

// Best returns every action tied for the maximum, in action order.
func (v ActionValues) Best() []grid.Action {
	m := v.Max()
	best := make([]grid.Action, 0, grid.NumActions)
	for _, a := range grid.Actions {
		if v[a] == m {
			best = append(best, a)
		}
	}
	return best
}

// Table is a Q-table over the whole grid, indexed [y][x]. The zero value is the
// all-zero table, and assignment copies it.
type Table [grid.Size][grid.Size]ActionValues

// Values returns Q(p,·).
func (t *Table) Values(p grid.Position) ActionValues {
	return t[p.Y][p.X]
}

// Set overwrites Q(p,a).
func (t *Table) Set(p grid.Position, a grid.Action, v float64) {
	t[p.Y][p.X][a] = v
}

// Update applies one TD(0) step to Q(s,a) bootstrapping from next and returns the new value.
func (t *Table) Update(s grid.Position, a grid.Action, reward float64, next grid.Position, h Hyperparameters) float64 {
	q := TemporalDifference(t[s.Y][s.X][a], reward, t[next.Y][next.X].Max(), h.LearningRate, h.DiscountFactor)
	t[s.Y][s.X][a] = q
	return q
}

// TemporalDifference is Q + alpha*(reward + gamma*maxNext - Q).
func TemporalDifference(oldQ, reward, maxNextQ, alpha, gamma float64) float64 {
	return oldQ + alpha*(reward+gamma*maxNextQ-oldQ)
}

// SelectAction picks an action for p epsilon-greedily. Exploitation breaks ties
// uniformly at random rather than by action index.
func SelectAction(t *Table, p grid.Position, epsilon float64, rng *rand.Rand) grid.Action {
	if rng.Float64() < epsilon {
		return grid.Actions[rng.IntN(grid.NumActions)]
	}
	best := t.Values(p).Best()
	return best[rng.IntN(len(best))]
}
