package flock

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/geometry"
	. "github.com/smartystreets/goconvey/convey"
)

func pinned(boids ...InitialBoid) Config {
	cfg := DefaultConfig()
	cfg.Initial = boids
	return cfg
}

func TestEngine_Convergence(t *testing.T) {
	Convey("Given two resting boids either side of (400,300)", t, func() {
		cfg := pinned(
			InitialBoid{Position: geometry.NewVector(390, 300)},
			InitialBoid{Position: geometry.NewVector(410, 300)},
		)
		cfg.Weights = Weights{Separation: 0, Alignment: 1, Cohesion: 1}
		e, err := New(cfg)
		So(err, ShouldBeNil)

		Convey("They settle on the midpoint", func() {
			var s Snapshot
			for i := 0; i < 400; i++ {
				s = e.Step()
			}
			mid := geometry.NewVector(400, 300)
			for _, b := range s.Boids {
				So(b.Position.DistanceTo(mid), ShouldBeLessThan, 0.5)
			}
		})
	})
}

func TestEngine_Rules(t *testing.T) {
	Convey("Given a boid with one close neighbour", t, func() {
		cfg := pinned(
			InitialBoid{Position: geometry.NewVector(100, 100)},
			InitialBoid{Position: geometry.NewVector(110, 100)},
		)

		Convey("Separation alone pushes it away", func() {
			cfg.Weights = Weights{Separation: 1}
			e, err := New(cfg)
			So(err, ShouldBeNil)
			s := e.Step()
			So(s.Boids[0].Velocity.X, ShouldAlmostEqual, -0.05, 1e-12)
			So(s.Boids[0].Velocity.Y, ShouldEqual, 0.0)
			So(s.Boids[1].Velocity.X, ShouldAlmostEqual, 0.05, 1e-12)
		})

		Convey("Cohesion alone pulls it in, unattenuated by the steer factor", func() {
			cfg.Weights = Weights{Cohesion: 2}
			e, err := New(cfg)
			So(err, ShouldBeNil)
			s := e.Step()
			// 10 units * 0.01 * 2
			So(s.Boids[0].Velocity.X, ShouldAlmostEqual, 0.2, 1e-12)
		})

		Convey("Alignment picks up the neighbour's heading", func() {
			cfg.Initial[1].Velocity = geometry.NewVector(0, 2)
			cfg.Weights = Weights{Alignment: 1}
			e, err := New(cfg)
			So(err, ShouldBeNil)
			s := e.Step()
			So(s.Boids[0].Velocity.Y, ShouldAlmostEqual, 0.1, 1e-12)
		})
	})

	Convey("Given two boids out of each other's range", t, func() {
		cfg := pinned(
			InitialBoid{Position: geometry.NewVector(100, 100), Velocity: geometry.NewVector(1, 0)},
			InitialBoid{Position: geometry.NewVector(300, 100), Velocity: geometry.NewVector(0, 1)},
		)
		e, err := New(cfg)
		So(err, ShouldBeNil)
		s := e.Step()
		So(s.Boids[0].Velocity, ShouldResemble, geometry.NewVector(1, 0))
		So(s.Boids[0].Position, ShouldResemble, geometry.NewVector(101, 100))
	})
}

func TestEngine_Wrap(t *testing.T) {
	tests := []struct {
		name string
		boid InitialBoid
		want geometry.Vector2D
	}{
		{"Right edge", InitialBoid{geometry.NewVector(799, 10), geometry.NewVector(2, 0)}, geometry.NewVector(1, 10)},
		{"Left edge", InitialBoid{geometry.NewVector(1, 10), geometry.NewVector(-2, 0)}, geometry.NewVector(799, 10)},
		{"Bottom edge", InitialBoid{geometry.NewVector(10, 599), geometry.NewVector(0, 1)}, geometry.NewVector(10, 0)},
		{"Top edge", InitialBoid{geometry.NewVector(10, 0.5), geometry.NewVector(0, -1.5)}, geometry.NewVector(10, 599)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(pinned(tt.boid))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got := e.Step().Boids[0].Position
			if !got.Eq(tt.want) {
				t.Errorf("position after wrap = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_Bounds(t *testing.T) {
	Convey("Given the default flock with heavy weights", t, func() {
		cfg := DefaultConfig()
		cfg.Weights = Weights{Separation: 3, Alignment: 3, Cohesion: 3}
		e, err := New(cfg)
		So(err, ShouldBeNil)

		ok := true
		for i := 0; i < 500 && ok; i++ {
			for _, b := range e.Step().Boids {
				p := b.Position
				if p.X < 0 || p.X >= cfg.Width || p.Y < 0 || p.Y >= cfg.Height || b.Velocity.Len() > cfg.MaxSpeed+1e-9 {
					ok = false
				}
			}
		}
		So(ok, ShouldBeTrue)
	})
}

func TestEngine_Reset(t *testing.T) {
	Convey("Given a flock that has been flying", t, func() {
		fresh, err := New(DefaultConfig())
		So(err, ShouldBeNil)
		e, err := New(DefaultConfig())
		So(err, ShouldBeNil)
		for i := 0; i < 100; i++ {
			e.Step()
		}
		So(e.Reset(), ShouldResemble, fresh.Snapshot())
		So(e.Step(), ShouldResemble, fresh.Step())
	})

	Convey("Snapshots do not alias the engine", t, func() {
		e, err := New(DefaultConfig())
		So(err, ShouldBeNil)
		s := e.Snapshot()
		before := s.Boids[0]
		e.Step()
		e.Step()
		So(s.Boids[0], ShouldResemble, before)
	})
}

func TestEngine_UpdateConfig(t *testing.T) {
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	coh := 2.5
	if err := e.UpdateConfig(WeightsPatch{Cohesion: &coh}); err != nil {
		t.Fatalf("UpdateConfig() error = %v", err)
	}
	if got := e.Weights(); got.Cohesion != 2.5 || got.Separation != 1.5 {
		t.Errorf("Weights() = %+v", got)
	}
	bad := 3.5
	if err := e.UpdateConfig(WeightsPatch{Alignment: &bad}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("UpdateConfig(3.5) error = %v; want ErrInvalidConfig", err)
	}
	if e.Weights().Alignment != 1 {
		t.Errorf("rejected patch changed alignment to %v", e.Weights().Alignment)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Zero width", func(c *Config) { c.Width = 0 }},
		{"NaN height", func(c *Config) { c.Height = math.NaN() }},
		{"No boids", func(c *Config) { c.BoidCount = 0 }},
		{"Zero speed", func(c *Config) { c.MaxSpeed = 0 }},
		{"Negative radius", func(c *Config) { c.SeparationRadius = -1 }},
		{"Heavy weight", func(c *Config) { c.Weights.Cohesion = 3.1 }},
		{"Off canvas", func(c *Config) { c.Initial = []InitialBoid{{Position: geometry.NewVector(800, 0)}} }},
		{"Too fast", func(c *Config) { c.Initial = []InitialBoid{{Velocity: geometry.NewVector(3, 3)}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v; want ErrInvalidConfig", err)
			}
		})
	}
}

func TestHSLToRGBA(t *testing.T) {
	tests := []struct {
		hue  float64
		want color.RGBA
	}{
		{240, color.RGBA{82, 82, 224, 255}},
		{270, color.RGBA{153, 82, 224, 255}},
		{300, color.RGBA{224, 82, 224, 255}},
	}
	for _, tt := range tests {
		if got := hslToRGBA(tt.hue, 0.7, 0.6); got != tt.want {
			t.Errorf("hslToRGBA(%v) = %v; want %v", tt.hue, got, tt.want)
		}
	}
}

func BenchmarkEngine_Step(b *testing.B) {
	e, err := New(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step()
	}
}
