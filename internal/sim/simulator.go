package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/projsim/internal/ballistics"
)

// Position returns where the projectile described by s is at elapsed time t.
// No drag; any t is accepted, including before launch or after landing.
func Position(s ballistics.State, t float64) ballistics.Vec2 {
	v := s.Velocity()
	return ballistics.Vec2{
		X: s.Start.X + v.X*t,
		Y: s.Start.Y + v.Y*t - 0.5*ballistics.Gravity*t*t,
	}
}

// Run walks the trajectory in steps of cfg.Dt and records every sample that
// is at or above the target height. The walk stops at the first sample below
// it; the last recorded sample is the landing and its time the flight time.
func Run(s ballistics.State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Samples: make(Trajectory, 0, estimateSteps(s, cfg))}
	landing, steps, err := walk(s, cfg, func(smp Sample) {
		result.Samples = append(result.Samples, smp)
	})
	if err != nil {
		return nil, err
	}

	result.Landing = landing
	result.FlightTime = landing.Time
	result.Steps = steps
	return result, nil
}

// Land performs the same walk as Run without keeping the samples.
func Land(s ballistics.State, cfg Config) (Sample, error) {
	if err := cfg.Validate(); err != nil {
		return Sample{}, err
	}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	landing, _, err := walk(s, cfg, nil)
	return landing, err
}

func FlightTime(s ballistics.State, cfg Config) (float64, error) {
	landing, err := Land(s, cfg)
	if err != nil {
		return 0, err
	}
	return landing.Time, nil
}

func EndingPosition(s ballistics.State, cfg Config) (ballistics.Vec2, error) {
	landing, err := Land(s, cfg)
	if err != nil {
		return ballistics.Vec2{}, err
	}
	return landing.Pos, nil
}

func (c Config) Validate() error {
	if !ballistics.IsFinite(c.Dt) || c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ballistics.ErrInvalidParameter, c.Dt)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ballistics.ErrInvalidParameter, c.MaxSteps)
	}
	return nil
}

func walk(s ballistics.State, cfg Config, visit func(Sample)) (Sample, int, error) {
	var last Sample
	t := 0.0
	steps := 0

	for {
		p := Position(s, t)
		if p.Y < s.Target.Y {
			break
		}
		if steps >= cfg.MaxSteps {
			return last, steps, &ballistics.SolveError{
				Op:         "trajectory walk",
				Iterations: steps,
				Wrapped:    ballistics.ErrNonConvergent,
			}
		}

		last = Sample{Time: t, Pos: p}
		if visit != nil {
			visit(last)
		}
		steps++
		t += cfg.Dt
	}

	if steps == 0 {
		return last, 0, fmt.Errorf("%w: start y=%g, target y=%g", ballistics.ErrBelowTarget, s.Start.Y, s.Target.Y)
	}
	return last, steps, nil
}

const maxPrealloc = 1 << 20

// estimateSteps sizes the sample buffer from the analytic impact time.
func estimateSteps(s ballistics.State, cfg Config) int {
	vy := s.Velocity().Y
	disc := vy*vy + 2*ballistics.Gravity*s.HeightDifference()
	if disc < 0 {
		return 0
	}
	n := (vy+math.Sqrt(disc))/ballistics.Gravity/cfg.Dt + 2
	if n < 0 || math.IsNaN(n) {
		return 0
	}
	if n > maxPrealloc {
		return min(maxPrealloc, cfg.MaxSteps)
	}
	return min(int(n), cfg.MaxSteps)
}
