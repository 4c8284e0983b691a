// Package viewer runs one engine in an ebiten window with a control panel.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/flock"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/gridworld"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/multiagent"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
)

const (
	panelWidth  = 240
	statsWidth  = 200
	sceneMargin = 20
)

// Game is the ebiten.Game for one engine. The engine lives in an actor;
// the game only sends it messages and draws the snapshots it publishes.
type Game struct {
	ctx    context.Context
	engine string
	pid    *actor.PID
	logger log.Logger

	interval time.Duration
	lastTick time.Time
	running  bool

	scene scene
	panel *ui.Panel
	play  *ui.Button

	width, height int

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64
}

// New spawns the actor for engine on system and builds its window.
func New(ctx context.Context, system actor.ActorSystem, cfg *simulation.Config, engine string, logger log.Logger) (*Game, error) {
	if err := simulation.CheckEngine(engine); err != nil {
		return nil, err
	}
	engines, err := simulation.NewEngines(cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		sc  scene
		pid *actor.PID
	)
	switch engine {
	case simulation.EngineGridWorld:
		ch := make(chan gridworld.Snapshot, 10)
		pid, err = simulation.SpawnEngine[gridworld.Snapshot](ctx, system, engine, engines.GridWorld, ch)
		sc = &gridWorldScene{snapshots: ch, hp: cfg.GridWorld.Hyperparameters}
	case simulation.EngineMultiAgent:
		ch := make(chan multiagent.Snapshot, 10)
		pid, err = simulation.SpawnEngine[multiagent.Snapshot](ctx, system, engine, engines.MultiAgent, ch)
		if err == nil {
			sc, err = newMultiAgentScene(ch, cfg.MultiAgent)
		}
	case simulation.EngineFlock:
		ch := make(chan flock.Snapshot, 10)
		pid, err = simulation.SpawnEngine[flock.Snapshot](ctx, system, engine, engines.Flock, ch)
		sc = &flockScene{snapshots: ch, weights: cfg.Flock.Weights, width: cfg.Flock.Width, height: cfg.Flock.Height}
	}
	if err != nil {
		return nil, fmt.Errorf("viewer %s: %w", engine, err)
	}

	w, h := sc.size()
	g := &Game{
		ctx:      ctx,
		engine:   engine,
		pid:      pid,
		logger:   logger,
		interval: cfg.Intervals.Of(engine),
		scene:    sc,
		width:    panelWidth + sceneMargin + int(w) + statsWidth,
		height:   max(int(h)+2*sceneMargin, 480),
	}
	g.panel = ui.NewPanel("rllab: "+engine, 10, 10, panelWidth-20, float64(g.height-20))
	g.panel.AddSection("Simulation")
	g.play = g.panel.AddButton("Play", g.togglePlay)
	g.panel.AddButton("Step", func() { g.tell(simulation.Command(simulation.CommandStep)) })
	g.panel.AddButton("Reset", g.reset)
	sc.controls(g.panel, g.configure)

	g.tell(simulation.Command(simulation.CommandSnapshot))
	return g, nil
}

func (g *Game) tell(msg proto.Message) {
	if err := actor.Tell(g.ctx, g.pid, msg); err != nil {
		g.logger.Errorf("viewer %s: %v", g.engine, err)
	}
}

func (g *Game) togglePlay() {
	g.running = !g.running
	g.tell(simulation.Run(g.running))
	g.play.Label = playLabel(g.running)
}

// reset pauses too, the engine actor does the same on its side.
func (g *Game) reset() {
	g.running = false
	g.play.Label = playLabel(false)
	g.tell(simulation.Command(simulation.CommandReset))
}

func (g *Game) configure(settings map[string]float64) {
	msg, err := simulation.Settings(settings)
	if err != nil {
		g.logger.Errorf("viewer %s: %v", g.engine, err)
		return
	}
	g.tell(msg)
}

func playLabel(running bool) string {
	if running {
		return "Pause"
	}
	return "Play"
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()
	g.scene.poll()

	// The actor ignores ticks while paused.
	if time.Since(g.lastTick) >= g.interval {
		g.lastTick = time.Now()
		g.tell(simulation.Tick())
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	g.scene.draw(screen, panelWidth, sceneMargin)
	g.panel.Draw(screen)

	msg := fmt.Sprintf("%s\n\nFPS: %.2f\nTPS: %.2f\nUpdate: %.2fms\nDraw:   %.2fms",
		g.scene.status(),
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, g.width-statsWidth+10, 10)
}

func (g *Game) Layout(int, int) (int, int) { return g.width, g.height }

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle("rllab: " + g.engine)
	return ebiten.RunGame(g)
}
