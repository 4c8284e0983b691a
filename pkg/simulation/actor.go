package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// EngineActor owns one engine. Every call into the engine happens inside
// Receive, so the mailbox is what keeps Step, Reset and Configure from ever
// running concurrently.
type EngineActor[S any] struct {
	name       string
	engine     Engine[S]
	snapshotCh chan<- S
	running    bool

	// --- Benchmark Stats ---
	steps       int
	dropped     int
	lastLogTime time.Time
}

// NewEngineActor wraps engine. Snapshots are pushed on snapshotCh without
// blocking; a frame is dropped when the consumer is behind.
func NewEngineActor[S any](name string, engine Engine[S], snapshotCh chan<- S) *EngineActor[S] {
	return &EngineActor[S]{
		name:        name,
		engine:      engine,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (a *EngineActor[S]) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Engine %s is starting...", a.name)
	return nil
}

func (a *EngineActor[S]) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("Engine %s started (paused)", a.name)

	case *emptypb.Empty:
		a.logBenchmarks(ctx.Logger())
		if !a.running {
			return
		}
		a.steps++
		a.push(a.engine.Step())

	case *wrapperspb.BoolValue:
		a.running = msg.GetValue()
		ctx.Logger().Debugf("Engine %s running=%t", a.name, a.running)

	case *wrapperspb.StringValue:
		switch msg.GetValue() {
		case CommandReset:
			a.running = false
			a.push(a.engine.Reset())
			ctx.Logger().Infof("Engine %s reset", a.name)
		case CommandStep:
			a.steps++
			a.push(a.engine.Step())
		case CommandSnapshot:
			a.push(a.engine.Snapshot())
		default:
			ctx.Unhandled()
		}

	case *structpb.Struct:
		settings, err := settingsOf(msg)
		if err == nil {
			err = a.engine.Configure(settings)
		}
		if err != nil {
			ctx.Logger().Errorf("Engine %s rejected settings %v: %v", a.name, msg.AsMap(), err)
			return
		}
		ctx.Logger().Debugf("Engine %s settings %v", a.name, settings)

	default:
		ctx.Unhandled()
	}
}

func (a *EngineActor[S]) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Engine %s is shutdown...", a.name)
	return nil
}

func (a *EngineActor[S]) push(s S) {
	select {
	case a.snapshotCh <- s:
	default:
		// consumer busy, skip frame
		a.dropped++
	}
}

func (a *EngineActor[S]) logBenchmarks(logger log.Logger) {
	if time.Since(a.lastLogTime) >= time.Second {
		if a.running {
			logger.Infof("📊 %s: %d steps/sec, %d frames dropped", a.name, a.steps, a.dropped)
		}
		a.steps = 0
		a.dropped = 0
		a.lastLogTime = time.Now()
	}
}

// NewSystem creates and starts the actor system hosting the engine actors.
func NewSystem(ctx context.Context, name string, logger log.Logger) (actor.ActorSystem, error) {
	system, err := actor.NewActorSystem(name,
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, err
	}
	if err := system.Start(ctx); err != nil {
		return nil, err
	}
	return system, nil
}

// SpawnEngine starts an EngineActor for engine under name.
func SpawnEngine[S any](ctx context.Context, system actor.ActorSystem, name string, engine Engine[S], snapshotCh chan<- S) (*actor.PID, error) {
	return system.Spawn(ctx, name, NewEngineActor[S](name, engine, snapshotCh))
}

// Mailboxes routes messages to engine actors by engine name.
type Mailboxes map[string]*actor.PID

// Tell sends msg to the actor driving engine.
func (m Mailboxes) Tell(ctx context.Context, engine string, msg proto.Message) error {
	pid, ok := m[engine]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownEngine, engine)
	}
	return actor.Tell(ctx, pid, msg)
}
