package solver

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/projsim/internal/ballistics"
	"github.com/san-kum/projsim/internal/sim"
)

type RangeResult struct {
	// Distance is the landing x coordinate reached at Angle.
	Distance float64 `json:"distance"`
	Angle    float64 `json:"angle"`
}

// MaxRange finds the launch angle giving the greatest range for the state's
// speed and start/target height difference, then re-simulates at that angle
// so the distance reflects the configured time step.
func (s *Solver) MaxRange(st ballistics.State) (RangeResult, error) {
	if err := s.validate(); err != nil {
		return RangeResult{}, err
	}

	k := st.Speed * st.Speed / ballistics.Gravity
	r2 := k*k + 2*k*st.HeightDifference()
	if r2 < 0 {
		return RangeResult{}, fmt.Errorf("%w: target height %g above reachable apex", ballistics.ErrInfeasible, st.Target.Y)
	}

	angle := 0.0
	if k > 0 {
		angle = math.Atan(k / math.Sqrt(r2))
	}

	landing, err := sim.Land(st.WithDirection(angle), s.simConfig())
	if err != nil {
		return RangeResult{}, err
	}

	s.logger.Debug("max range",
		zap.Float64("closed_form", math.Sqrt(r2)),
		zap.Float64("simulated", landing.Pos.X),
		zap.Float64("angle", angle),
	)
	return RangeResult{Distance: landing.Pos.X, Angle: angle}, nil
}

// IsAtMaxRange reports whether distance is at or beyond the maximum range.
func (s *Solver) IsAtMaxRange(st ballistics.State, distance float64) (bool, error) {
	r, err := s.MaxRange(st)
	if err != nil {
		return false, err
	}
	return distance >= r.Distance, nil
}
