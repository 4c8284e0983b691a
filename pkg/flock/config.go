package flock

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/geometry"
)

// ErrInvalidConfig is wrapped by every construction or weight update failure.
var ErrInvalidConfig = errors.New("invalid flock config")

// MaxWeight bounds every behaviour weight.
const MaxWeight = 3.0

// Weights scale the three steering rules.
type Weights struct {
	Separation float64 `json:"separation"`
	Alignment  float64 `json:"alignment"`
	Cohesion   float64 `json:"cohesion"`
}

// Validate checks each weight lies in [0, MaxWeight].
func (w Weights) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || v < 0 || v > MaxWeight {
			return fmt.Errorf("%w: %s weight %v not in [0,%v]", ErrInvalidConfig, name, v, MaxWeight)
		}
		return nil
	}
	return errors.Join(
		check("separation", w.Separation),
		check("alignment", w.Alignment),
		check("cohesion", w.Cohesion),
	)
}

// WeightsPatch is a partial weight update; nil fields keep their value.
type WeightsPatch struct {
	Separation *float64 `json:"separation,omitempty"`
	Alignment  *float64 `json:"alignment,omitempty"`
	Cohesion   *float64 `json:"cohesion,omitempty"`
}

// Apply returns w with p applied, or w unchanged and an error.
func (w Weights) Apply(p WeightsPatch) (Weights, error) {
	next := w
	if p.Separation != nil {
		next.Separation = *p.Separation
	}
	if p.Alignment != nil {
		next.Alignment = *p.Alignment
	}
	if p.Cohesion != nil {
		next.Cohesion = *p.Cohesion
	}
	if err := next.Validate(); err != nil {
		return w, err
	}
	return next, nil
}

// InitialBoid pins one boid's starting state.
type InitialBoid struct {
	Position geometry.Vector2D `json:"position"`
	Velocity geometry.Vector2D `json:"velocity"`
}

// Config describes the canvas and the flock living on it.
type Config struct {
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	BoidCount        int     `json:"boidCount"`
	Weights          Weights `json:"weights"`
	MaxSpeed         float64 `json:"maxSpeed"`
	NeighborRadius   float64 `json:"neighborRadius"`
	SeparationRadius float64 `json:"separationRadius"`
	Seed             uint64  `json:"seed"`
	// Initial, when set, replaces random placement and BoidCount is ignored.
	Initial []InitialBoid `json:"initial,omitempty"`
}

// DefaultConfig is an 800x600 canvas with 80 boids.
func DefaultConfig() Config {
	return Config{
		Width:     800,
		Height:    600,
		BoidCount: 80,
		Weights: Weights{
			Separation: 1.5,
			Alignment:  1.0,
			Cohesion:   1.0,
		},
		MaxSpeed:         3,
		NeighborRadius:   50,
		SeparationRadius: 25,
		Seed:             1,
	}
}

func (c Config) validate() error {
	if !(c.Width > 0) || !(c.Height > 0) {
		return fmt.Errorf("%w: canvas %vx%v must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	if len(c.Initial) == 0 && c.BoidCount < 1 {
		return fmt.Errorf("%w: boid count %d < 1", ErrInvalidConfig, c.BoidCount)
	}
	if !(c.MaxSpeed > 0) {
		return fmt.Errorf("%w: max speed %v must be positive", ErrInvalidConfig, c.MaxSpeed)
	}
	if !(c.NeighborRadius > 0) || !(c.SeparationRadius > 0) {
		return fmt.Errorf("%w: radii must be positive", ErrInvalidConfig)
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	for i, b := range c.Initial {
		p := b.Position
		if p.X < 0 || p.X >= c.Width || p.Y < 0 || p.Y >= c.Height {
			return fmt.Errorf("%w: initial boid %d at %s is off the canvas", ErrInvalidConfig, i, p)
		}
		if b.Velocity.Len() > c.MaxSpeed {
			return fmt.Errorf("%w: initial boid %d is faster than %v", ErrInvalidConfig, i, c.MaxSpeed)
		}
	}
	return nil
}
