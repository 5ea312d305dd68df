package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/projsim/internal/ballistics"
	"github.com/san-kum/projsim/internal/solver"
)

const (
	DefaultDt            = 1e-3
	DefaultSpeedStep     = 0.01
	DefaultPrecision     = 1e-5
	DefaultMaxIterations = 1_000_000
	DefaultMaxSteps      = 50_000_000
	DefaultSpeed         = 30.0
	DefaultAngle         = 45.0
	DefaultStartY        = 4.0
	DefaultTargetX       = 90.0
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

type Config struct {
	Scenario ScenarioConfig `yaml:"scenario"`
	Solver   SolverConfig   `yaml:"solver"`
	Logger   LoggerConfig   `yaml:"logger"`
}

type ScenarioConfig struct {
	StartX  float64 `yaml:"start_x"`
	StartY  float64 `yaml:"start_y"`
	TargetX float64 `yaml:"target_x"`
	TargetY float64 `yaml:"target_y"`
	Speed   float64 `yaml:"speed"`
	// AngleDeg is the launch direction in degrees above horizontal.
	AngleDeg float64 `yaml:"angle_deg"`
}

type SolverConfig struct {
	Dt            float64 `yaml:"dt"`
	SpeedStep     float64 `yaml:"speed_step"`
	Precision     float64 `yaml:"precision"`
	MaxIterations int     `yaml:"max_iterations"`
	MaxSteps      int     `yaml:"max_steps"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, receives JSON logs with size based rotation.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: ScenarioConfig{
			StartY:   DefaultStartY,
			TargetX:  DefaultTargetX,
			Speed:    DefaultSpeed,
			AngleDeg: DefaultAngle,
		},
		Solver: SolverConfig{
			Dt:            DefaultDt,
			SpeedStep:     DefaultSpeedStep,
			Precision:     DefaultPrecision,
			MaxIterations: DefaultMaxIterations,
			MaxSteps:      DefaultMaxSteps,
		},
		Logger: LoggerConfig{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := c.State(); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"dt", c.Solver.Dt},
		{"speed_step", c.Solver.SpeedStep},
		{"precision", c.Solver.Precision},
	} {
		if !ballistics.IsFinite(f.val) || f.val <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ballistics.ErrInvalidParameter, f.name, f.val)
		}
	}
	if c.Solver.MaxIterations <= 0 || c.Solver.MaxSteps <= 0 {
		return fmt.Errorf("%w: iteration caps must be positive", ballistics.ErrInvalidParameter)
	}
	return nil
}

func (c *Config) State() (*ballistics.State, error) {
	s := c.Scenario
	return ballistics.NewState(
		ballistics.Vec2{X: s.StartX, Y: s.StartY},
		ballistics.Vec2{X: s.TargetX, Y: s.TargetY},
		s.Speed,
		ballistics.DegToRad(s.AngleDeg),
	)
}

func (c *Config) SolverConfig() solver.Config {
	return solver.Config{
		Dt:            c.Solver.Dt,
		SpeedStep:     c.Solver.SpeedStep,
		Precision:     c.Solver.Precision,
		MaxIterations: c.Solver.MaxIterations,
		MaxSteps:      c.Solver.MaxSteps,
	}
}
