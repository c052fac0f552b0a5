package steering

import "gonum.org/v1/gonum/spatial/r3"

// State is the mutable steering state of one craft.
type State struct {
	// Velocity is the direction of travel. Its magnitude is preserved by every update.
	Velocity r3.Vec `json:"velocity"`
	// Facing is the direction the nose points.
	Facing r3.Vec `json:"facing"`
	// TurnRate is the facing turn rate achieved last tick, in degrees per second.
	TurnRate float64 `json:"turn_rate"`
}

// NewState returns a state with both vectors pointing forward.
func NewState() State {
	return State{Velocity: Forward, Facing: Forward}
}

// Result describes one tick of the pipeline.
type Result struct {
	HeadingDelta float64 // signed correction requested by the heading stage (deg), unscaled in accumulate mode
	HeadingAoA   float64 // facing/velocity angle that drove the velocity stage (deg)
	HeadingError float64 // remaining angle between velocity and the target bearing (deg)
	Velocity     r3.Vec
	Facing       r3.Vec
}

// Step advances s by one tick toward target, as seen from position.
// Negative dt is treated as zero. t is assumed to be valid.
func Step(s *State, t Tunables, position, target r3.Vec, dt float64) Result {
	if !(dt > 0) {
		dt = 0
	}
	desiredVelocity := r3.Sub(target, position)

	limit := turnLimit(s.TurnRate, t, dt)
	var headingDelta, aoa, turned float64
	switch t.Mode() {
	case FacingAccumulate:
		// Velocity chases the previous facing, then the nose moves by the unscaled delta.
		headingDelta = SignedAngleAroundUp(s.Velocity, desiredVelocity)
		aoa = HeadingAoA(s.Facing, s.Velocity)
		s.Velocity = VelocityUpdate(s.Velocity, s.Facing, t.HeadingSteerConstant, dt)

		prev := s.Facing
		s.Facing = AccumulateFacing(s.Facing, headingDelta, limit, dt)
		turned = HeadingAoA(prev, s.Facing)
	default:
		headingDelta = HeadingDelta(s.Velocity, desiredVelocity, t.HeadingSteerConstant)
		s.Facing = FacingUpdate(s.Velocity, headingDelta, limit*dt)
		turned = HeadingAoA(s.Velocity, s.Facing)

		aoa = HeadingAoA(s.Facing, s.Velocity)
		s.Velocity = VelocityUpdate(s.Velocity, s.Facing, t.HeadingSteerConstant, dt)
	}
	if dt > 0 {
		s.TurnRate = turned / dt
	}

	return Result{
		HeadingDelta: headingDelta,
		HeadingAoA:   aoa,
		HeadingError: Angle(Flatten(s.Velocity), Flatten(desiredVelocity)),
		Velocity:     s.Velocity,
		Facing:       s.Facing,
	}
}

// Model owns the steering state of a single craft and its validated tunables.
// It is not safe for concurrent use.
type Model struct {
	tunables Tunables
	state    State
}

// New returns a model at the initial state, or an error wrapping
// ErrInvalidConfiguration.
func New(t Tunables) (*Model, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Model{tunables: t, state: NewState()}, nil
}

// Step advances the model by dt seconds toward target.
func (m *Model) Step(position, target r3.Vec, dt float64) Result {
	return Step(&m.state, m.tunables, position, target, dt)
}

// State returns a copy of the current state.
func (m *Model) State() State { return m.state }

// SetState replaces the current state, e.g. when restoring a snapshot.
func (m *Model) SetState(s State) { m.state = s }

// Tunables returns the model configuration.
func (m *Model) Tunables() Tunables { return m.tunables }

// Reset returns the model to its initial state.
func (m *Model) Reset() { m.state = NewState() }
