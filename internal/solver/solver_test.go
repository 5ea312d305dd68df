package solver_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/projsim/internal/ballistics"
	"github.com/san-kum/projsim/internal/sim"
	"github.com/san-kum/projsim/internal/solver"
)

func newState(sx, sy, tx, ty, speed, deg float64) *ballistics.State {
	st, err := ballistics.NewState(ballistics.Vec2{X: sx, Y: sy}, ballistics.Vec2{X: tx, Y: ty}, speed, ballistics.DegToRad(deg))
	Expect(err).NotTo(HaveOccurred())
	return st
}

func configWith(dt float64) solver.Config {
	cfg := solver.DefaultConfig()
	cfg.Dt = dt
	return cfg
}

var _ = Describe("MaxRange", func() {
	s := solver.New(configWith(1e-4), nil)

	It("matches v²/g at 45° when start and target share a height", func() {
		st := newState(0, 0, 50, 0, 30, 10)

		r, err := s.MaxRange(*st)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Angle).To(BeNumerically("~", math.Pi/4, 1e-12))
		Expect(r.Distance).To(BeNumerically("~", 30*30/ballistics.Gravity, 0.01))
	})

	It("lowers the optimal angle when launching from above the target", func() {
		st := newState(0, 4, 96, 0, 30, 45)

		r, err := s.MaxRange(*st)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Angle).To(BeNumerically("<", math.Pi/4))
		Expect(r.Distance).To(BeNumerically("~", 95.688, 0.01))
	})

	It("leaves the caller's direction alone", func() {
		st := newState(0, 4, 96, 0, 30, 12)
		before := *st

		_, err := s.MaxRange(*st)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Equal(before)).To(BeTrue())
	})

	It("falls straight down at zero speed", func() {
		st := newState(3, 10, 50, 0, 0, 45)

		r, err := s.MaxRange(*st)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Angle).To(Equal(0.0))
		Expect(r.Distance).To(Equal(3.0))
	})

	It("rejects a target above the reachable apex", func() {
		st := newState(0, 0, 10, 100, 30, 80)

		_, err := s.MaxRange(*st)
		Expect(err).To(MatchError(ballistics.ErrInfeasible))
	})

	It("rejects a non-positive time step", func() {
		_, err := solver.New(configWith(0), nil).MaxRange(*newState(0, 4, 96, 0, 30, 45))
		Expect(err).To(MatchError(ballistics.ErrInvalidParameter))
	})

	Describe("IsAtMaxRange", func() {
		It("splits distances around the max range", func() {
			st := newState(0, 4, 96, 0, 30, 45)
			r, err := s.MaxRange(*st)
			Expect(err).NotTo(HaveOccurred())

			for _, tc := range []struct {
				distance float64
				want     bool
			}{
				{r.Distance + 0.01, true},
				{r.Distance + 100, true},
				{r.Distance, true},
				{r.Distance - 0.01, false},
				{0, false},
			} {
				at, err := s.IsAtMaxRange(*st, tc.distance)
				Expect(err).NotTo(HaveOccurred())
				Expect(at).To(Equal(tc.want), "distance %f", tc.distance)
			}
		})
	})
})

var _ = Describe("RequiredSpeed", func() {
	ctx := context.Background()

	It("finds the speed that lands the cliff shot on target", func() {
		s := solver.New(configWith(1e-3), nil)
		st := newState(0, 15, 104.8, 0, 0, 45)

		v, err := s.RequiredSpeed(ctx, st)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 29.99, 0.05))
		Expect(st.Speed).To(Equal(v))

		end, err := sim.EndingPosition(*st, sim.Config{Dt: 1e-3, MaxSteps: 1_000_000})
		Expect(err).NotTo(HaveOccurred())
		Expect(end.X).To(BeNumerically("~", 104.8, 0.2))
	})

	It("returns a multiple of the step where neither axis improves next", func() {
		cfg := configWith(1e-3)
		cfg.SpeedStep = 0.25
		s := solver.New(cfg, nil)
		st := newState(0, 4, 60, 0, 0, 30)

		v, err := s.RequiredSpeed(ctx, st)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.Mod(v, cfg.SpeedStep)).To(BeNumerically("~", 0, 1e-9))

		simCfg := sim.Config{Dt: cfg.Dt, MaxSteps: cfg.MaxSteps}
		at, err := sim.EndingPosition(st.WithSpeed(v), simCfg)
		Expect(err).NotTo(HaveOccurred())
		after, err := sim.EndingPosition(st.WithSpeed(v+cfg.SpeedStep), simCfg)
		Expect(err).NotTo(HaveOccurred())

		missAt := at.Sub(st.Target).Abs()
		missAfter := after.Sub(st.Target).Abs()
		Expect(missAfter.X).To(BeNumerically(">=", missAt.X))
		Expect(missAfter.Y).To(BeNumerically(">=", missAt.Y))
	})

	It("validates the step", func() {
		cfg := configWith(1e-3)
		cfg.SpeedStep = 0
		st := newState(0, 15, 104.8, 0, 7, 45)

		_, err := solver.New(cfg, nil).RequiredSpeed(ctx, st)
		Expect(err).To(MatchError(ballistics.ErrInvalidParameter))
		Expect(st.Speed).To(Equal(7.0))
	})

	It("stops at the iteration cap", func() {
		cfg := configWith(1e-3)
		cfg.MaxIterations = 10
		st := newState(0, 15, 104.8, 0, 7, 45)

		_, err := solver.New(cfg, nil).RequiredSpeed(ctx, st)
		Expect(err).To(MatchError(ballistics.ErrNonConvergent))
		Expect(st.Speed).To(Equal(7.0))
	})

	It("honours cancellation", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := solver.New(configWith(1e-3), nil).RequiredSpeed(cctx, newState(0, 15, 104.8, 0, 0, 45))
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("RequiredDirection", func() {
	ctx := context.Background()

	It("finds a low angle that lands on a reachable target", func() {
		s := solver.New(configWith(1e-4), nil)
		st := newState(0, 4, 90, 0, 30, 0)

		dir, err := s.RequiredDirection(ctx, st)
		Expect(err).NotTo(HaveOccurred())
		Expect(dir).To(BeNumerically(">", 0))
		Expect(dir).To(BeNumerically("<", math.Pi/4))
		Expect(st.Direction).To(Equal(dir))

		end, err := sim.EndingPosition(*st, sim.Config{Dt: 1e-4, MaxSteps: 1_000_000})
		Expect(err).NotTo(HaveOccurred())
		Expect(end.X).To(BeNumerically("~", 90, 0.05))
	})

	It("aims below the horizon for a target short of a flat shot", func() {
		s := solver.New(configWith(1e-4), nil)
		st := newState(0, 4, 20, 0, 30, 0)

		dir, err := s.RequiredDirection(ctx, st)
		Expect(err).NotTo(HaveOccurred())
		Expect(dir).To(BeNumerically("<", 0))

		end, err := sim.EndingPosition(st.WithDirection(dir), sim.Config{Dt: 1e-4, MaxSteps: 1_000_000})
		Expect(err).NotTo(HaveOccurred())
		Expect(end.X).To(BeNumerically("~", 20, 0.05))
	})

	It("reports a target beyond max range as infeasible", func() {
		s := solver.New(configWith(1e-4), nil)
		st := newState(0, 4, 96, 0, 30, 10)

		_, err := s.RequiredDirection(ctx, st)
		Expect(err).To(MatchError(ballistics.ErrInfeasible))
		Expect(st.Direction).To(Equal(ballistics.DegToRad(10)))
	})

	It("validates the precision", func() {
		cfg := configWith(1e-4)
		cfg.Precision = -1

		_, err := solver.New(cfg, nil).RequiredDirection(ctx, newState(0, 4, 90, 0, 30, 0))
		Expect(err).To(MatchError(ballistics.ErrInvalidParameter))
	})

	It("stops at the iteration cap", func() {
		cfg := configWith(1e-3)
		cfg.MaxIterations = 3

		_, err := solver.New(cfg, nil).RequiredDirection(ctx, newState(0, 4, 90, 0, 30, 0))
		Expect(err).To(MatchError(ballistics.ErrNonConvergent))
	})
})

var _ = Describe("New", func() {
	It("keeps the configuration it was built with", func() {
		cfg := configWith(5e-4)
		cfg.SpeedStep = 0.5
		Expect(solver.New(cfg, nil).Config()).To(Equal(cfg))
	})
})
