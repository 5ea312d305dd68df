// Package solver answers inverse questions about a launch: the maximum
// reachable range, the speed that lands on a target, and the direction that
// lands on a target. Every search probes trial copies of the caller's state
// and writes the solved value back only on success.
package solver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/projsim/internal/ballistics"
	"github.com/san-kum/projsim/internal/sim"
)

type Config struct {
	// Dt is the simulation time step, seconds.
	Dt float64
	// SpeedStep is the increment of the linear speed search, m/s.
	SpeedStep float64
	// Precision bounds the change in distance-to-target between two
	// bisection steps at which the direction search stops, metres.
	Precision float64
	// MaxIterations caps the number of probes of a single search.
	MaxIterations int
	// MaxSteps caps the number of steps of a single trajectory walk.
	MaxSteps int
}

func DefaultConfig() Config {
	return Config{
		Dt:            1e-3,
		SpeedStep:     0.01,
		Precision:     1e-5,
		MaxIterations: 1_000_000,
		MaxSteps:      50_000_000,
	}
}

type Solver struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{cfg: cfg, logger: logger.Named("solver")}
}

func (s *Solver) Config() Config { return s.cfg }

func (s *Solver) simConfig() sim.Config {
	return sim.Config{Dt: s.cfg.Dt, MaxSteps: s.cfg.MaxSteps}
}

func (s *Solver) validate() error {
	if err := s.simConfig().Validate(); err != nil {
		return err
	}
	if s.cfg.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ballistics.ErrInvalidParameter, s.cfg.MaxIterations)
	}
	return nil
}

// landingOffset simulates trial and returns its landing position together
// with the per-axis absolute distance to the target.
func (s *Solver) landingOffset(trial ballistics.State) (ballistics.Vec2, ballistics.Vec2, error) {
	landing, err := sim.Land(trial, s.simConfig())
	if err != nil {
		return ballistics.Vec2{}, ballistics.Vec2{}, err
	}
	return landing.Pos, landing.Pos.Sub(trial.Target).Abs(), nil
}

func (s *Solver) checkIteration(ctx context.Context, op string, iter int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if iter >= s.cfg.MaxIterations {
		return &ballistics.SolveError{Op: op, Iterations: iter, Wrapped: ballistics.ErrNonConvergent}
	}
	return nil
}
