package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/flock"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/gridworld"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/multiagent"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(envConfig, "")
	t.Setenv(envLogLevel, "")
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunHeadless(t *testing.T) {
	cfg := simulation.DefaultConfig()
	tests := []struct {
		engine string
		check  func(t *testing.T, final any)
	}{
		{simulation.EngineGridWorld, func(t *testing.T, final any) {
			s := final.(gridworld.Snapshot)
			if s.Tick != 200 {
				t.Errorf("tick = %d; want 200", s.Tick)
			}
		}},
		{simulation.EngineMultiAgent, func(t *testing.T, final any) {
			s := final.(multiagent.Snapshot)
			if s.Tick != 200 || len(s.Agents) != 3 {
				t.Errorf("tick = %d agents = %d; want 200 and 3", s.Tick, len(s.Agents))
			}
		}},
		{simulation.EngineFlock, func(t *testing.T, final any) {
			s := final.(flock.Snapshot)
			if s.Tick != 200 || len(s.Boids) != 80 {
				t.Errorf("tick = %d boids = %d; want 200 and 80", s.Tick, len(s.Boids))
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			final, err := runHeadless(cfg, tt.engine, 200, log.DiscardLogger)
			if err != nil {
				t.Fatalf("runHeadless() error = %v", err)
			}
			tt.check(t, final)

			// the same seed replays the same run
			again, _ := runHeadless(cfg, tt.engine, 200, log.DiscardLogger)
			a, _ := json.Marshal(final)
			b, _ := json.Marshal(again)
			if !bytes.Equal(a, b) {
				t.Error("two runs with the same seed differ")
			}
		})
	}

	if _, err := runHeadless(cfg, "pong", 1, log.DiscardLogger); err == nil {
		t.Error("runHeadless(pong) succeeded; want an error")
	}
}

func TestRunCmd(t *testing.T) {
	out, err := execute(t, "run", "gridworld", "--ticks", "50", "--seed", "7")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.HasPrefix(out, "gridworld: 50 ticks") {
		t.Errorf("run output = %q", out)
	}

	out, err = execute(t, "run", "flock", "--ticks", "3", "--json")
	if err != nil {
		t.Fatalf("run --json error = %v", err)
	}
	var s flock.Snapshot
	if err := json.Unmarshal([]byte(out), &s); err != nil || s.Tick != 3 {
		t.Errorf("run --json output tick = %d, err = %v", s.Tick, err)
	}

	if _, err := execute(t, "run", "pong"); err == nil {
		t.Error("run pong succeeded; want an error")
	}
	if _, err := execute(t, "run", "flock", "--ticks", "-1"); err == nil {
		t.Error("run --ticks -1 succeeded; want an error")
	}
}

func TestConfigCmd(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yml")
	if err := os.WriteFile(good, []byte("flock:\n  boidCount: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// valid for the schema, but the goal is walled in
	walled := filepath.Join(dir, "walled.json")
	doc := `{"gridWorld": {"goal": {"x": 7, "y": 0}, "layout": ["......#.","......##","........","........","........","........","........","........"]}}`
	if err := os.WriteFile(walled, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	// 1. Effective configuration, file merged over defaults
	out, err := execute(t, "config", "--config", good)
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if !strings.Contains(out, `"boidCount": 12`) || !strings.Contains(out, `"flockMs": 30`) {
		t.Errorf("config output missing values:\n%s", out)
	}

	// 2. Validation
	if out, err = execute(t, "config", "--validate", good); err != nil || !strings.Contains(out, "ok") {
		t.Errorf("config --validate good = %q, %v", out, err)
	}
	if _, err = execute(t, "config", "--validate", walled); err == nil {
		t.Error("config --validate walled succeeded; want an error")
	}

	// 3. --log-level is checked when a logger is built
	if _, err = execute(t, "run", "flock", "--ticks", "1", "--log-level", "loud"); err == nil {
		t.Error("run --log-level loud succeeded; want an error")
	}
}
