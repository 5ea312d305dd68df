package solver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/projsim/internal/ballistics"
)

// RequiredSpeed searches speeds 0, vStep, 2·vStep, ... and stops at the first
// candidate after which neither landing axis gets closer to the target. The
// search keeps going while either axis improves. The returned speed is
// committed to st.
func (s *Solver) RequiredSpeed(ctx context.Context, st *ballistics.State) (float64, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	step := s.cfg.SpeedStep
	if step <= 0 {
		return 0, fmt.Errorf("%w: speed step must be positive, got %g", ballistics.ErrInvalidParameter, step)
	}

	n := 0
	_, cur, err := s.landingOffset(st.WithSpeed(0))
	if err != nil {
		return 0, err
	}
	_, next, err := s.landingOffset(st.WithSpeed(step))
	if err != nil {
		return 0, err
	}

	for next.X < cur.X || next.Y < cur.Y {
		if err := s.checkIteration(ctx, "speed search", n); err != nil {
			return 0, err
		}
		n++
		cur = next

		_, next, err = s.landingOffset(st.WithSpeed(float64(n+1) * step))
		if err != nil {
			return 0, err
		}
	}

	speed := float64(n) * step
	st.Speed = speed

	s.logger.Debug("speed search done",
		zap.Int("iterations", n),
		zap.Float64("speed", speed),
		zap.Float64("miss_x", cur.X),
		zap.Float64("miss_y", cur.Y),
	)
	return speed, nil
}
