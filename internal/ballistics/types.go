package ballistics

import (
	"fmt"
	"math"
)

// Gravity is the downward acceleration applied to every projectile, m/s².
const Gravity = 9.807

// Epsilon is the tolerance used when comparing two states.
const Epsilon = 1e-7

type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Abs returns the per-axis absolute value.
func (v Vec2) Abs() Vec2 { return Vec2{X: math.Abs(v.X), Y: math.Abs(v.Y)} }

// IsValid reports whether both components are finite.
func (v Vec2) IsValid() bool { return IsFinite(v.X) && IsFinite(v.Y) }

func IsFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// State describes one launch: where it starts, what it aims at, and the
// launch speed (m/s) and direction (radians above horizontal).
type State struct {
	Start     Vec2    `json:"start"`
	Target    Vec2    `json:"target"`
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
}

func NewState(start, target Vec2, speed, direction float64) (*State, error) {
	s := &State{Start: start, Target: target, Speed: speed, Direction: direction}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects a negative or non-finite speed, a non-finite direction,
// and start or target positions with a non-finite component.
func (s State) Validate() error {
	if err := checkSpeed(s.Speed); err != nil {
		return err
	}
	if !IsFinite(s.Direction) {
		return fmt.Errorf("%w: direction must be finite, got %f", ErrInvalidParameter, s.Direction)
	}
	if !s.Start.IsValid() {
		return fmt.Errorf("%w: start must be finite, got %+v", ErrInvalidParameter, s.Start)
	}
	if !s.Target.IsValid() {
		return fmt.Errorf("%w: target must be finite, got %+v", ErrInvalidParameter, s.Target)
	}
	return nil
}

func (s *State) SetStart(x, y float64) error {
	p := Vec2{X: x, Y: y}
	if !p.IsValid() {
		return fmt.Errorf("%w: start must be finite, got %+v", ErrInvalidParameter, p)
	}
	s.Start = p
	return nil
}

func (s *State) SetTarget(x, y float64) error {
	p := Vec2{X: x, Y: y}
	if !p.IsValid() {
		return fmt.Errorf("%w: target must be finite, got %+v", ErrInvalidParameter, p)
	}
	s.Target = p
	return nil
}

func (s *State) SetDirection(d float64) error {
	if !IsFinite(d) {
		return fmt.Errorf("%w: direction must be finite, got %f", ErrInvalidParameter, d)
	}
	s.Direction = d
	return nil
}

func (s *State) SetSpeed(v float64) error {
	if err := checkSpeed(v); err != nil {
		return err
	}
	s.Speed = v
	return nil
}

func checkSpeed(v float64) error {
	if !IsFinite(v) || v < 0 {
		return fmt.Errorf("%w: speed must be finite and non-negative, got %f", ErrInvalidParameter, v)
	}
	return nil
}

// WithSpeed returns a trial copy of s launched at speed v.
func (s State) WithSpeed(v float64) State {
	s.Speed = v
	return s
}

// WithDirection returns a trial copy of s launched at direction d.
func (s State) WithDirection(d float64) State {
	s.Direction = d
	return s
}

// Velocity returns the launch velocity components.
func (s State) Velocity() Vec2 {
	return Vec2{X: s.Speed * math.Cos(s.Direction), Y: s.Speed * math.Sin(s.Direction)}
}

// HeightDifference is start height minus target height.
func (s State) HeightDifference() float64 { return s.Start.Y - s.Target.Y }

func (s State) Equal(o State) bool {
	return near(s.Speed, o.Speed) &&
		near(s.Direction, o.Direction) &&
		near(s.Start.X, o.Start.X) && near(s.Start.Y, o.Start.Y) &&
		near(s.Target.X, o.Target.X) && near(s.Target.Y, o.Target.Y)
}

func (s State) String() string {
	return fmt.Sprintf("speed: %g, angle/direction: %g", s.Speed, s.Direction)
}

func near(a, b float64) bool { return math.Abs(a-b) <= Epsilon }

func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }
