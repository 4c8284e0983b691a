package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/flock"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/gridworld"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/multiagent"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON string

const schemaURL = "config.schema.json"

// Intervals are the clock periods of each engine, in milliseconds.
type Intervals struct {
	GridWorldMs  int `json:"gridWorldMs"`
	MultiAgentMs int `json:"multiAgentMs"`
	FlockMs      int `json:"flockMs"`
}

// Of returns the tick period for the named engine.
func (i Intervals) Of(engine string) time.Duration {
	switch engine {
	case EngineMultiAgent:
		return time.Duration(i.MultiAgentMs) * time.Millisecond
	case EngineFlock:
		return time.Duration(i.FlockMs) * time.Millisecond
	default:
		return time.Duration(i.GridWorldMs) * time.Millisecond
	}
}

// Config gathers everything the binaries need to build and drive the three engines.
type Config struct {
	LogLevel   string            `json:"logLevel"`
	Intervals  Intervals         `json:"intervals"`
	GridWorld  gridworld.Config  `json:"gridWorld"`
	MultiAgent multiagent.Config `json:"multiAgent"`
	Flock      flock.Config      `json:"flock"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Intervals: Intervals{
			GridWorldMs:  100,
			MultiAgentMs: 150,
			FlockMs:      30,
		},
		GridWorld:  gridworld.DefaultConfig(),
		MultiAgent: multiagent.DefaultConfig(),
		Flock:      flock.DefaultConfig(),
	}
}

// LoadConfig reads a JSON or YAML file, validates it against the embedded
// schema and overlays it on DefaultConfig. Keys missing from the file keep
// their default values.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(b, filepath.Ext(configFile))
}

// ParseConfig is LoadConfig on an in-memory document. ext selects the
// decoder: ".yaml" and ".yml" are YAML, anything else is JSON.
func ParseConfig(doc []byte, ext string) (*Config, error) {
	sch, err := jsonschema.CompileString(schemaURL, schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	raw, err := normalize(doc, ext)
	if err != nil {
		return nil, err
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// normalize turns a YAML document into JSON so that a single schema and a
// single set of struct tags serve both formats.
func normalize(doc []byte, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var v interface{}
		if err := yaml.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
		if v == nil {
			v = map[string]interface{}{}
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert config yaml: %w", err)
		}
		return b, nil
	default:
		if len(bytes.TrimSpace(doc)) == 0 {
			return []byte("{}"), nil
		}
		return doc, nil
	}
}

// JSON renders cfg indented, the way `rllab config` prints it.
func (c *Config) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
