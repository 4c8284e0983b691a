package viewer

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/flock"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/grid"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/gridworld"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/multiagent"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/qlearning"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/ui"
)

// scene renders one engine's snapshots.
type scene interface {
	// poll takes the newest snapshot without blocking.
	poll()
	draw(screen *ebiten.Image, ox, oy float64)
	status() string
	// size of the drawing area in pixels.
	size() (float64, float64)
	// controls adds the engine specific widgets; send delivers a settings update.
	controls(p *ui.Panel, send func(map[string]float64))
}

// latest drains ch and keeps the newest value.
func latest[S any](ch <-chan S, last *S) bool {
	got := false
	for {
		select {
		case s := <-ch:
			*last = s
			got = true
		default:
			return got
		}
	}
}

func hyperparameterSliders(p *ui.Panel, hp qlearning.Hyperparameters, send func(map[string]float64)) {
	p.AddSection("Q-Learning")
	setting := func(key string) func(float64) {
		return func(v float64) { send(map[string]float64{key: v}) }
	}
	p.AddSlider("Learning rate", 0, 1, hp.LearningRate, setting(simulation.SettingLearningRate))
	p.AddSlider("Discount factor", 0, 1, hp.DiscountFactor, setting(simulation.SettingDiscountFactor))
	p.AddSlider("Exploration rate", 0, 1, hp.ExplorationRate, setting(simulation.SettingExplorationRate))
}

type gridWorldScene struct {
	snapshots <-chan gridworld.Snapshot
	last      gridworld.Snapshot
	hp        qlearning.Hyperparameters
	arrows    *ui.Checkbox
}

func (s *gridWorldScene) poll() { latest(s.snapshots, &s.last) }

func (s *gridWorldScene) size() (float64, float64) { return grid.Size * cellSize, grid.Size * cellSize }

func (s *gridWorldScene) controls(p *ui.Panel, send func(map[string]float64)) {
	hyperparameterSliders(p, s.hp, send)
	p.AddSection("View")
	s.arrows = p.AddCheckbox("Policy arrows", true)
}

func (s *gridWorldScene) draw(screen *ebiten.Image, ox, oy float64) {
	cells := s.last.Cells
	drawCells(screen, ox, oy, func(p grid.Position) color.Color {
		switch cells.At(p) {
		case grid.Goal:
			return goalColor
		case grid.Obstacle:
			return obstacleColor
		default:
			return qTint(s.last.QTable.Values(p).Max())
		}
	})
	if s.arrows == nil || s.arrows.Value {
		for y := 0; y < grid.Size; y++ {
			for x := 0; x < grid.Size; x++ {
				p := grid.Position{X: x, Y: y}
				drawArrows(screen, ox, oy, p, policy(cells.At(p), s.last.QTable.Values(p)))
			}
		}
	}
	drawAgent(screen, ox, oy, s.last.Agent, agentColor, outlineColor)
}

func (s *gridWorldScene) status() string {
	last := "-"
	if s.last.LastAction != nil {
		last = s.last.LastAction.String()
	}
	return fmt.Sprintf("Tick: %d\nEpisode: %d\nTotal reward: %.1f\nLast: %s %+.1f",
		s.last.Tick, s.last.Episode, s.last.TotalReward, last, s.last.LastReward)
}

type multiAgentScene struct {
	snapshots <-chan multiagent.Snapshot
	last      multiagent.Snapshot
	hp        qlearning.Hyperparameters
	colors    []color.NRGBA
}

func newMultiAgentScene(snapshots <-chan multiagent.Snapshot, cfg multiagent.Config) (*multiAgentScene, error) {
	colors := make([]color.NRGBA, len(cfg.Agents))
	for i, a := range cfg.Agents {
		c, err := hexColor(a.Color)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return &multiAgentScene{snapshots: snapshots, hp: cfg.Hyperparameters, colors: colors}, nil
}

func (s *multiAgentScene) poll() { latest(s.snapshots, &s.last) }

func (s *multiAgentScene) size() (float64, float64) { return grid.Size * cellSize, grid.Size * cellSize }

func (s *multiAgentScene) controls(p *ui.Panel, send func(map[string]float64)) {
	hyperparameterSliders(p, s.hp, send)
}

func (s *multiAgentScene) colorOf(i int) color.NRGBA {
	if i < len(s.colors) {
		return s.colors[i]
	}
	return agentColor
}

func (s *multiAgentScene) draw(screen *ebiten.Image, ox, oy float64) {
	goals := make(map[grid.Position]color.NRGBA, len(s.last.Agents))
	for i, a := range s.last.Agents {
		goals[a.Goal] = withAlpha(s.colorOf(i), 77)
	}
	drawCells(screen, ox, oy, func(p grid.Position) color.Color {
		if c, ok := goals[p]; ok {
			return c
		}
		if s.last.Cells.At(p) == grid.Obstacle {
			return obstacleColor
		}
		return emptyColor
	})
	for i, a := range s.last.Agents {
		drawAgent(screen, ox, oy, a.Position, s.colorOf(i), background)
		cx, cy := cellCenter(ox, oy, a.Position)
		ebitenutil.DebugPrintAt(screen, strconv.Itoa(a.ID), int(cx)-3, int(cy)-8)
	}
}

func (s *multiAgentScene) status() string {
	msg := fmt.Sprintf("Tick: %d\nEpisode: %d\n", s.last.Tick, s.last.Episode)
	for _, a := range s.last.Agents {
		msg += fmt.Sprintf("Agent %d: %d goals, %.1f\n", a.ID, a.GoalsReached, a.TotalReward)
	}
	return msg
}

type flockScene struct {
	snapshots     <-chan flock.Snapshot
	last          flock.Snapshot
	weights       flock.Weights
	width, height float64
}

func (s *flockScene) poll() { latest(s.snapshots, &s.last) }

func (s *flockScene) size() (float64, float64) { return s.width, s.height }

func (s *flockScene) controls(p *ui.Panel, send func(map[string]float64)) {
	p.AddSection("Flocking weights")
	setting := func(key string) func(float64) {
		return func(v float64) { send(map[string]float64{key: v}) }
	}
	p.AddSlider("Separation", 0, flock.MaxWeight, s.weights.Separation, setting(simulation.SettingSeparationWeight))
	p.AddSlider("Alignment", 0, flock.MaxWeight, s.weights.Alignment, setting(simulation.SettingAlignmentWeight))
	p.AddSlider("Cohesion", 0, flock.MaxWeight, s.weights.Cohesion, setting(simulation.SettingCohesionWeight))
}

func (s *flockScene) draw(screen *ebiten.Image, ox, _ float64) {
	for _, b := range s.last.Boids {
		drawBoid(screen, ox, b)
	}
}

func (s *flockScene) status() string {
	return fmt.Sprintf("Tick: %d\nBoids: %d", s.last.Tick, len(s.last.Boids))
}
