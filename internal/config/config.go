package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"craftevo/internal/env"
)

// Config is the root configuration structure
type Config struct {
	Seed       int64          `yaml:"seed"`
	Population int            `yaml:"population"`
	Physics    PhysicsConfig  `yaml:"physics"`
	NN         NNConfig       `yaml:"nn"`
	GA         GAConfig       `yaml:"ga"`
	Schedule   ScheduleConfig `yaml:"schedule"`
	Eval       EvalConfig     `yaml:"eval"`
	Logging    LogConfig      `yaml:"logging"`
	View       ViewConfig     `yaml:"view"`
}

// PhysicsConfig defines the craft simulation constants
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Thrust      float64 `yaml:"thrust"`
	RestLength  float64 `yaml:"rest_length"`
	DeathRadius float64 `yaml:"death_radius"`
}

// NNConfig defines the policy network's hidden layers
type NNConfig struct {
	Hidden []int `yaml:"hidden"` // empty means inputs connect straight to outputs
}

// GAConfig defines evolution parameters
type GAConfig struct {
	MutationRate float64 `yaml:"mutation_rate"`
}

// ScheduleConfig defines the curriculum: rollout length grows each generation
type ScheduleConfig struct {
	Generations   int     `yaml:"generations"`
	BaseSteps     int     `yaml:"base_steps"`
	StepIncrement int     `yaml:"step_increment"`
	Spread        float64 `yaml:"spread"`      // radius of the scripted target path
	Jitter        float64 `yaml:"jitter"`      // start pose jitter on reset
	Revolutions   float64 `yaml:"revolutions"` // laps of the target path per rollout
}

// EvalConfig defines evaluation parameters
type EvalConfig struct {
	Workers int `yaml:"workers"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	EveryGenSummary *bool  `yaml:"every_gen_summary"` // console line per generation, defaults to true
	TopNDebug       int    `yaml:"topn_debug"`
	TraceEvery      int    `yaml:"trace_every"`
	TraceDir        string `yaml:"trace_dir"`
	CSVPath         string `yaml:"csv_path"`
	JSONPath        string `yaml:"json_path"`
	PlotPath        string `yaml:"plot_path"`
	MetricsAddr     string `yaml:"metrics_addr"`
}

// ViewConfig defines the post-training terminal viewer
type ViewConfig struct {
	Agents int     `yaml:"agents"`
	Steps  int     `yaml:"steps"`  // frames between evolutions while viewing
	Frames int     `yaml:"frames"` // total frames to show
	Scale  float64 `yaml:"scale"`  // terminal cells per world unit
	Delay  int     `yaml:"delay_ms"`
}

// Load reads a YAML config file and returns a Config. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.Population == 0 {
		cfg.Population = 1000
	}
	def := env.DefaultPhysics()
	if cfg.Physics.Gravity == 0 {
		cfg.Physics.Gravity = def.Gravity
	}
	if cfg.Physics.Thrust == 0 {
		cfg.Physics.Thrust = def.Thrust
	}
	if cfg.Physics.RestLength == 0 {
		cfg.Physics.RestLength = def.RestLength
	}
	if cfg.Physics.DeathRadius == 0 {
		cfg.Physics.DeathRadius = def.DeathRadius
	}
	if cfg.GA.MutationRate == 0 {
		cfg.GA.MutationRate = 0.05
	}
	if cfg.Schedule.Generations == 0 {
		cfg.Schedule.Generations = 100
	}
	if cfg.Schedule.BaseSteps == 0 {
		cfg.Schedule.BaseSteps = 200
	}
	if cfg.Schedule.StepIncrement == 0 {
		cfg.Schedule.StepIncrement = 10
	}
	if cfg.Schedule.Spread == 0 {
		cfg.Schedule.Spread = 1
	}
	if cfg.Schedule.Revolutions == 0 {
		cfg.Schedule.Revolutions = env.DefaultRevolutions
	}
	if cfg.Eval.Workers == 0 {
		cfg.Eval.Workers = 16
	}
	if cfg.Logging.EveryGenSummary == nil {
		on := true
		cfg.Logging.EveryGenSummary = &on
	}
	if cfg.Logging.TopNDebug == 0 {
		cfg.Logging.TopNDebug = 5
	}
	if cfg.Logging.TraceDir == "" {
		cfg.Logging.TraceDir = "artifacts"
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/run.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/run.jsonl"
	}
	if cfg.Logging.PlotPath == "" {
		cfg.Logging.PlotPath = "runs/scores.png"
	}
	if cfg.View.Agents == 0 {
		cfg.View.Agents = 10
	}
	if cfg.View.Steps == 0 {
		cfg.View.Steps = 1000
	}
	if cfg.View.Frames == 0 {
		cfg.View.Frames = 3000
	}
	if cfg.View.Scale == 0 {
		cfg.View.Scale = 3
	}
	if cfg.View.Delay == 0 {
		cfg.View.Delay = 16
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if c.Population < 2 {
		return fmt.Errorf("population must be at least 2, got %d", c.Population)
	}
	if c.Eval.Workers < 1 {
		return fmt.Errorf("eval.workers must be positive, got %d", c.Eval.Workers)
	}
	if c.GA.MutationRate < 0 {
		return fmt.Errorf("ga.mutation_rate must not be negative, got %v", c.GA.MutationRate)
	}
	if c.Schedule.Spread < 0 || c.Schedule.Jitter < 0 {
		return fmt.Errorf("schedule.spread and schedule.jitter must not be negative")
	}
	if c.Schedule.BaseSteps < 1 || c.Schedule.StepIncrement < 0 {
		return fmt.Errorf("schedule.base_steps must be positive and step_increment not negative")
	}
	for i, h := range c.NN.Hidden {
		if h < 1 {
			return fmt.Errorf("nn.hidden[%d] must be positive, got %d", i, h)
		}
	}
	if c.Physics.RestLength <= 0 || c.Physics.DeathRadius <= 0 {
		return fmt.Errorf("physics.rest_length and physics.death_radius must be positive")
	}
	return nil
}

// LayerSizes returns the full network topology: observation, hidden, action
func (c *Config) LayerSizes() []int {
	sizes := make([]int, 0, len(c.NN.Hidden)+2)
	sizes = append(sizes, env.ObsDim)
	sizes = append(sizes, c.NN.Hidden...)
	return append(sizes, env.ActDim)
}

// PrintSummaries reports whether each generation gets a console line
func (c *Config) PrintSummaries() bool {
	return c.Logging.EveryGenSummary == nil || *c.Logging.EveryGenSummary
}

// PhysicsParams converts the physics section to simulation constants
func (c *Config) PhysicsParams() env.Physics {
	return env.Physics{
		Gravity:     c.Physics.Gravity,
		Thrust:      c.Physics.Thrust,
		RestLength:  c.Physics.RestLength,
		DeathRadius: c.Physics.DeathRadius,
	}
}
