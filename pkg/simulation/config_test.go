package simulation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/grid"
	"github.com/tochemey/goakt/v3/log"
)

func TestDefaultConfig_BuildsEngines(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := NewEngines(cfg, log.DiscardLogger); err != nil {
		t.Fatalf("NewEngines(DefaultConfig()) error = %v", err)
	}
	if got := cfg.Intervals.Of(EngineFlock).Milliseconds(); got != 30 {
		t.Errorf("flock interval = %dms; want 30ms", got)
	}
	if got := cfg.Intervals.Of(EngineMultiAgent).Milliseconds(); got != 150 {
		t.Errorf("multi-agent interval = %dms; want 150ms", got)
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		doc  string
	}{
		{"JSON", ".json", `{
			"logLevel": "debug",
			"gridWorld": {"start": {"x": 1, "y": 7}, "hyperparameters": {"explorationRate": 0.5}},
			"flock": {"boidCount": 10, "weights": {"cohesion": 2}}
		}`},
		{"YAML", ".yaml", `
logLevel: debug
gridWorld:
  start: {x: 1, y: 7}
  hyperparameters:
    explorationRate: 0.5
flock:
  boidCount: 10
  weights:
    cohesion: 2
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.doc), tt.ext)
			if err != nil {
				t.Fatalf("ParseConfig() error = %v", err)
			}
			def := DefaultConfig()

			// 1. Values present in the document win
			if cfg.LogLevel != "debug" {
				t.Errorf("LogLevel = %q; want debug", cfg.LogLevel)
			}
			if cfg.GridWorld.Start != (grid.Position{X: 1, Y: 7}) {
				t.Errorf("GridWorld.Start = %v; want (1,7)", cfg.GridWorld.Start)
			}
			if cfg.GridWorld.Hyperparameters.ExplorationRate != 0.5 {
				t.Errorf("explorationRate = %v; want 0.5", cfg.GridWorld.Hyperparameters.ExplorationRate)
			}
			if cfg.Flock.BoidCount != 10 || cfg.Flock.Weights.Cohesion != 2 {
				t.Errorf("Flock = %+v", cfg.Flock)
			}

			// 2. Everything else keeps its default
			if cfg.GridWorld.Hyperparameters.LearningRate != def.GridWorld.Hyperparameters.LearningRate {
				t.Errorf("learningRate lost its default: %v", cfg.GridWorld.Hyperparameters.LearningRate)
			}
			if cfg.Flock.Weights.Separation != 1.5 || cfg.Flock.Width != 800 {
				t.Errorf("flock defaults lost: %+v", cfg.Flock)
			}
			if len(cfg.MultiAgent.Agents) != 3 || cfg.Intervals != def.Intervals {
				t.Errorf("untouched sections changed: %+v %+v", cfg.MultiAgent.Agents, cfg.Intervals)
			}
		})
	}
}

func TestParseConfig_Empty(t *testing.T) {
	for _, ext := range []string{".json", ".yml"} {
		cfg, err := ParseConfig(nil, ext)
		if err != nil {
			t.Fatalf("ParseConfig(empty %s) error = %v", ext, err)
		}
		if cfg.LogLevel != "info" || cfg.Flock.BoidCount != 80 {
			t.Errorf("ParseConfig(empty %s) = %+v; want defaults", ext, cfg)
		}
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"Unknown key", `{"speed": 3}`},
		{"Alpha above one", `{"gridWorld": {"hyperparameters": {"learningRate": 2}}}`},
		{"Bad layout rune", `{"gridWorld": {"layout": ["........","........","........","..x.....","........","........","........","........"]}}`},
		{"Short layout", `{"multiAgent": {"layout": ["........"]}}`},
		{"Position off grid", `{"gridWorld": {"goal": {"x": 8, "y": 0}}}`},
		{"Heavy weight", `{"flock": {"weights": {"separation": 4}}}`},
		{"Zero boids", `{"flock": {"boidCount": 0}}`},
		{"Bad colour", `{"multiAgent": {"agents": [{"start": {"x":0,"y":0}, "goal": {"x":1,"y":1}, "color": "blue"}]}}`},
		{"Bad level", `{"logLevel": "trace"}`},
		{"Not JSON", `{"logLevel": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.doc), ".json"); err == nil {
				t.Errorf("ParseConfig(%s) succeeded; want an error", tt.doc)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rllab.yml")
	if err := os.WriteFile(path, []byte("intervals:\n  flockMs: 16\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Intervals.FlockMs != 16 || cfg.Intervals.GridWorldMs != 100 {
		t.Errorf("Intervals = %+v", cfg.Intervals)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadConfig(missing) succeeded; want an error")
	}
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	b, err := DefaultConfig().JSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"boidCount": 80`) {
		t.Errorf("JSON() missing flock section:\n%s", b)
	}
	// What `rllab config` prints must load back through the schema.
	if _, err := ParseConfig(b, ".json"); err != nil {
		t.Errorf("ParseConfig(DefaultConfig().JSON()) error = %v", err)
	}
}
