// Package flock is a boids simulation: separation, alignment and cohesion on
// a toroidal canvas. Nothing learns here.
package flock

import (
	"image/color"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

const (
	// steerFactor attenuates separation and alignment before weighting.
	steerFactor = 0.05
	// cohesionFactor scales the pull toward the neighbour centre. It is not
	// combined with steerFactor.
	cohesionFactor = 0.01
)

// Boid is one particle. Position stays inside the canvas and the speed never
// exceeds the configured maximum once a tick completes.
type Boid struct {
	Position geometry.Vector2D `json:"position"`
	Velocity geometry.Vector2D `json:"velocity"`
	Color    color.RGBA        `json:"color"`
}

// Snapshot is an immutable copy of the flock.
type Snapshot struct {
	Tick   uint64  `json:"tick"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Boids  []Boid  `json:"boids"`
}

// Engine is not safe for concurrent use.
type Engine struct {
	cfg     Config
	weights Weights
	rng     *rand.Rand
	logger  log.Logger

	tick  uint64
	boids []Boid
	next  []Boid
	grid  *spatialGrid
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for reset events.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New validates cfg and places the initial flock.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Initial = append([]InitialBoid(nil), cfg.Initial...)
	e := &Engine{
		cfg:     cfg,
		weights: cfg.Weights,
		logger:  log.DiscardLogger,
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

	n := e.cfg.BoidCount
	if len(e.cfg.Initial) > 0 {
		n = len(e.cfg.Initial)
	}
	e.boids = make([]Boid, n)
	e.next = make([]Boid, n)
	e.grid = newSpatialGrid(e.cfg.NeighborRadius, e.cfg.SeparationRadius)
	for i := range e.boids {
		if len(e.cfg.Initial) > 0 {
			e.boids[i] = Boid{
				Position: e.cfg.Initial[i].Position,
				Velocity: e.cfg.Initial[i].Velocity,
				Color:    e.randomColor(),
			}
			continue
		}
		e.boids[i] = Boid{
			Position: geometry.NewVector(e.rng.Float64()*e.cfg.Width, e.rng.Float64()*e.cfg.Height),
			Velocity: geometry.NewVector((e.rng.Float64()-0.5)*4, (e.rng.Float64()-0.5)*4).Limit(e.cfg.MaxSpeed),
			Color:    e.randomColor(),
		}
	}
}

// randomColor picks a hue between blue and purple.
func (e *Engine) randomColor() color.RGBA {
	return hslToRGBA(240+e.rng.Float64()*60, 0.7, 0.6)
}

// Step moves every boid once. All boids read the positions and velocities of
// the previous tick, so the result does not depend on slice order.
func (e *Engine) Step() Snapshot {
	e.tick++
	e.grid.rebuild(e.boids)
	for i := range e.boids {
		e.next[i] = e.steer(i)
	}
	e.boids, e.next = e.next, e.boids
	return e.Snapshot()
}

func (e *Engine) steer(i int) Boid {
	me := e.boids[i]
	var separation, alignment, center geometry.Vector2D
	neighbors := 0

	for _, j := range e.grid.near(me.Position) {
		if j == i {
			continue
		}
		other := e.boids[j]
		d := me.Position.DistanceTo(other.Position)
		if d > 0 && d < e.cfg.SeparationRadius {
			separation = separation.Add(me.Position.Sub(other.Position).Mul(1 / d))
		}
		if d < e.cfg.NeighborRadius {
			alignment = alignment.Add(other.Velocity)
			center = center.Add(other.Position)
			neighbors++
		}
	}

	var cohesion geometry.Vector2D
	if neighbors > 0 {
		alignment = alignment.Mul(1 / float64(neighbors))
		cohesion = center.Mul(1 / float64(neighbors)).Sub(me.Position).Mul(cohesionFactor)
	}

	v := me.Velocity.
		Add(separation.Mul(e.weights.Separation * steerFactor)).
		Add(alignment.Mul(e.weights.Alignment * steerFactor)).
		Add(cohesion.Mul(e.weights.Cohesion)).
		Limit(e.cfg.MaxSpeed)

	me.Velocity = v
	me.Position = me.Position.Add(v).Wrap(e.cfg.Width, e.cfg.Height)
	return me
}

// Reset rebuilds the initial flock from the seed.
func (e *Engine) Reset() Snapshot {
	e.restart()
	e.logger.Debug("flock reset")
	return e.Snapshot()
}

// Snapshot copies the current flock.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Tick:   e.tick,
		Width:  e.cfg.Width,
		Height: e.cfg.Height,
		Boids:  append([]Boid(nil), e.boids...),
	}
}

// Weights returns the weights used by the next tick.
func (e *Engine) Weights() Weights {
	return e.weights
}

// UpdateConfig applies p from the next tick on. Invalid patches are ignored.
func (e *Engine) UpdateConfig(p WeightsPatch) error {
	w, err := e.weights.Apply(p)
	if err != nil {
		return err
	}
	e.weights = w
	return nil
}
