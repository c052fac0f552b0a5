// Package steering implements the per-tick heading model of an airship: a facing vector
// that chases a target bearing at a bounded rate, and a velocity vector that lags behind
// the facing in proportion to the angle of attack between them.
package steering

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the fixed vertical axis. Headings live in the plane orthogonal to it.
var Up = r3.Vec{X: 0, Y: 1, Z: 0}

// Forward is the canonical initial direction of travel.
var Forward = r3.Vec{X: 0, Y: 0, Z: 1}

// probeRadians is how far the sign probe in SignedAngleAroundUp rotates toward the
// target. Stopping short of a half turn keeps the probe off the antiparallel case.
const probeRadians = 1.57

// epsilon below which a length is treated as zero.
const epsilon = 1e-9

// Flatten projects v onto the horizontal plane.
func Flatten(v r3.Vec) r3.Vec {
	n2 := r3.Norm2(Up)
	return r3.Sub(v, r3.Scale(r3.Dot(v, Up)/n2, Up))
}

// Angle returns the unsigned angle between a and b in degrees, in [0, 180].
// Zero-length input yields 0.
func Angle(a, b r3.Vec) float64 {
	if isZero(a) || isZero(b) {
		return 0
	}
	return radToDeg(math.Atan2(r3.Norm(r3.Cross(a, b)), r3.Dot(a, b)))
}

// SignedAngleAroundUp returns the horizontal angle from one heading to another in degrees.
// Positive values turn +Z toward +X. When the headings are exactly opposite the result is
// +180: the sign probe rotates about +Up whenever the cross product degenerates.
// A heading without horizontal extent yields 0, meaning no change is requested.
func SignedAngleAroundUp(from, to r3.Vec) float64 {
	flatFrom := Flatten(from)
	flatTo := Flatten(to)
	if isZero(flatFrom) || isZero(flatTo) {
		return 0
	}

	angle := Angle(flatFrom, flatTo)
	probe := rotateTowards(flatFrom, flatTo, probeRadians)
	if r3.Cross(flatFrom, probe).Y < 0 {
		return -angle
	}
	return angle
}

// RotateTowardsFlat turns the horizontal part of from toward the horizontal part of to by
// at most maxDegrees and restores from's vertical component. Only the direction changes:
// the horizontal magnitude of from is kept. A non-positive budget or a heading without
// horizontal extent returns from unchanged.
func RotateTowardsFlat(from, to r3.Vec, maxDegrees float64) r3.Vec {
	y := from.Y
	flat := rotateTowards(Flatten(from), Flatten(to), degToRad(maxDegrees))
	flat.Y = y
	return flat
}

// RotateAroundUp rotates v about the vertical axis. The vertical component is untouched.
func RotateAroundUp(v r3.Vec, degrees float64) r3.Vec {
	if degrees == 0 {
		return v
	}
	return r3.NewRotation(degToRad(degrees), Up).Rotate(v)
}

// PitchDelta returns the difference in elevation between two directions in degrees,
// measured as the change of polar angle from Up. Zero-length input yields 0.
func PitchDelta(from, to r3.Vec) float64 {
	if isZero(from) || isZero(to) {
		return 0
	}
	fromTheta := math.Acos(clamp(r3.Unit(from).Y, -1, 1))
	toTheta := math.Acos(clamp(r3.Unit(to).Y, -1, 1))
	return radToDeg(fromTheta - toTheta)
}

// rotateTowards rotates from toward to by at most maxRadians, keeping |from|.
// Antiparallel input rotates about the component of Up orthogonal to from.
func rotateTowards(from, to r3.Vec, maxRadians float64) r3.Vec {
	if !(maxRadians > 0) || from == to {
		return from
	}
	fromMag := r3.Norm(from)
	toMag := r3.Norm(to)
	if fromMag < epsilon || toMag < epsilon {
		return from
	}

	fromDir := r3.Scale(1/fromMag, from)
	toDir := r3.Scale(1/toMag, to)
	axis := r3.Cross(fromDir, toDir)
	angle := math.Atan2(r3.Norm(axis), r3.Dot(fromDir, toDir))
	if angle <= maxRadians {
		return r3.Scale(fromMag, toDir)
	}

	if isZero(axis) {
		axis = orthogonalAxis(fromDir)
	}
	rotated := r3.NewRotation(maxRadians, r3.Unit(axis)).Rotate(fromDir)
	return r3.Scale(fromMag, rotated)
}

// orthogonalAxis returns a unit vector perpendicular to the unit vector dir, preferring Up.
func orthogonalAxis(dir r3.Vec) r3.Vec {
	axis := r3.Sub(Up, r3.Scale(r3.Dot(dir, Up), dir))
	if isZero(axis) {
		// dir is vertical
		axis = r3.Cross(dir, Forward)
	}
	return r3.Unit(axis)
}

func isZero(v r3.Vec) bool { return r3.Norm(v) < epsilon }

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
