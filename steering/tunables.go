package steering

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned for tunables the pipeline cannot run with.
var ErrInvalidConfiguration = errors.New("invalid steering configuration")

// FacingMode selects how the facing vector is advanced each tick.
type FacingMode string

const (
	// FacingRestart recomputes facing from the current velocity every tick.
	FacingRestart FacingMode = "restart"
	// FacingAccumulate runs the velocity stage first, against the previous facing, and
	// then rotates that facing by the raw bearing error clamped to the max steer speed.
	// The steer constant only scales the velocity stage, and the velocity stage is the
	// same dt-scaled VelocityUpdate used by restart mode.
	FacingAccumulate FacingMode = "accumulate"
)

// Tunables are the per-craft constants of the steering model.
type Tunables struct {
	// HeadingSteerConstant is degrees of velocity turn per degree of heading AoA.
	// Must be > 0. Values below 1 make the velocity turn faster than the nose.
	HeadingSteerConstant float64 `yaml:"heading_steer_constant"`
	// MaxHeadingSteerSpeed caps the facing turn rate in degrees per second.
	MaxHeadingSteerSpeed float64 `yaml:"max_heading_steer_speed"`
	// HeadingSteerAccel limits how fast the facing turn rate may grow, in degrees per
	// second squared. 0 disables the limit.
	HeadingSteerAccel float64 `yaml:"heading_steer_accel"`
	// FacingMode defaults to FacingRestart when empty.
	FacingMode FacingMode `yaml:"facing_mode,omitempty"`
}

// DefaultTunables returns a stable, moderately agile configuration.
func DefaultTunables() Tunables {
	return Tunables{
		HeadingSteerConstant: 1.0,
		MaxHeadingSteerSpeed: 45.0,
		HeadingSteerAccel:    0,
		FacingMode:           FacingRestart,
	}
}

// Mode returns the effective facing mode.
func (t Tunables) Mode() FacingMode {
	if t.FacingMode == "" {
		return FacingRestart
	}
	return t.FacingMode
}

// Validate reports whether the tunables can drive the pipeline without producing
// NaN or infinite state.
func (t Tunables) Validate() error {
	k := t.HeadingSteerConstant
	if !(k > 0) || math.IsInf(k, 1) {
		return fmt.Errorf("%w: heading_steer_constant must be positive and finite, got %v", ErrInvalidConfiguration, k)
	}
	if !(t.MaxHeadingSteerSpeed >= 0) || math.IsInf(t.MaxHeadingSteerSpeed, 1) {
		return fmt.Errorf("%w: max_heading_steer_speed must be non-negative and finite, got %v", ErrInvalidConfiguration, t.MaxHeadingSteerSpeed)
	}
	if !(t.HeadingSteerAccel >= 0) || math.IsInf(t.HeadingSteerAccel, 1) {
		return fmt.Errorf("%w: heading_steer_accel must be non-negative and finite, got %v", ErrInvalidConfiguration, t.HeadingSteerAccel)
	}
	switch t.Mode() {
	case FacingRestart, FacingAccumulate:
	default:
		return fmt.Errorf("%w: unknown facing_mode %q", ErrInvalidConfiguration, t.FacingMode)
	}
	return nil
}
