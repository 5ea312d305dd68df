package sim

import "github.com/san-kum/projsim/internal/ballistics"

// Sample is the projectile position at an elapsed time.
type Sample struct {
	Time float64         `json:"time"`
	Pos  ballistics.Vec2 `json:"pos"`
}

// Trajectory holds samples in increasing time order, one per step.
type Trajectory []Sample

// Heights returns the y coordinate of every sample.
func (tr Trajectory) Heights() []float64 {
	ys := make([]float64, len(tr))
	for i, s := range tr {
		ys[i] = s.Pos.Y
	}
	return ys
}

// Downsample keeps at most n samples, always including the last one.
func (tr Trajectory) Downsample(n int) Trajectory {
	if n <= 0 || len(tr) <= n {
		return tr
	}
	if n == 1 {
		return tr[len(tr)-1:]
	}
	out := make(Trajectory, 0, n)
	stride := float64(len(tr)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, tr[int(float64(i)*stride+0.5)])
	}
	return out
}

type Config struct {
	Dt       float64
	MaxSteps int
}

func DefaultConfig() Config {
	return Config{
		Dt:       1e-3,
		MaxSteps: 50_000_000,
	}
}

type Result struct {
	FlightTime float64
	Landing    Sample
	Samples    Trajectory
	Steps      int
}
