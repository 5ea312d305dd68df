package solver

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/projsim/internal/ballistics"
)

// RequiredDirection bisects the launch angle over [-π/2, π/2] until the
// horizontal miss changes by no more than the configured precision between
// two steps. A target at or beyond max range yields ErrInfeasible. The
// returned direction is committed to st.
func (s *Solver) RequiredDirection(ctx context.Context, st *ballistics.State) (float64, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	if s.cfg.Precision <= 0 {
		return 0, fmt.Errorf("%w: precision must be positive, got %g", ballistics.ErrInvalidParameter, s.cfg.Precision)
	}

	r, err := s.MaxRange(*st)
	if err != nil {
		return 0, err
	}
	if st.Target.X >= r.Distance {
		return 0, fmt.Errorf("%w: target x %g at or beyond max range %g", ballistics.ErrInfeasible, st.Target.X, r.Distance)
	}

	lower, upper := -math.Pi/2, math.Pi/2
	dir := 0.0

	landing, cur, err := s.landingOffset(st.WithDirection(dir))
	if err != nil {
		return 0, err
	}
	lower, upper, dir = bisect(lower, upper, dir, landing.X > st.Target.X)

	landing, next, err := s.landingOffset(st.WithDirection(dir))
	if err != nil {
		return 0, err
	}

	n := 1
	for math.Abs(next.X-cur.X) > s.cfg.Precision {
		if err := s.checkIteration(ctx, "direction search", n); err != nil {
			return 0, err
		}
		n++

		lower, upper, dir = bisect(lower, upper, dir, landing.X > st.Target.X)
		cur = next
		landing, next, err = s.landingOffset(st.WithDirection(dir))
		if err != nil {
			return 0, err
		}
	}

	st.Direction = dir

	s.logger.Debug("direction search done",
		zap.Int("iterations", n),
		zap.Float64("direction", dir),
		zap.Float64("landing_x", landing.X),
	)
	return dir, nil
}

// bisect moves the bound on the overshooting side to dir and returns the
// midpoint between dir and the remaining bound.
func bisect(lower, upper, dir float64, overshoot bool) (float64, float64, float64) {
	if overshoot {
		return lower, dir, (lower + dir) / 2
	}
	return dir, upper, (upper + dir) / 2
}
