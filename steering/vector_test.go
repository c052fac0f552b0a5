package steering

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func vecNear(a, b r3.Vec, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Z, b.Z, tol)
}

func heading(deg float64) r3.Vec {
	rad := deg * math.Pi / 180
	return r3.Vec{X: math.Sin(rad), Z: math.Cos(rad)}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		in   r3.Vec
		want r3.Vec
	}{
		{"already flat", r3.Vec{X: 1, Z: 2}, r3.Vec{X: 1, Z: 2}},
		{"drops vertical", r3.Vec{X: 1, Y: 5, Z: -2}, r3.Vec{X: 1, Z: -2}},
		{"straight up", r3.Vec{Y: 3}, r3.Vec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(tt.in)
			if got.Y != 0 {
				t.Errorf("Flatten(%v).Y = %v, want 0", tt.in, got.Y)
			}
			if !vecNear(got, tt.want, tol) {
				t.Errorf("Flatten(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		a, b r3.Vec
		want float64
	}{
		{"same", Forward, Forward, 0},
		{"right angle", Forward, r3.Vec{X: 1}, 90},
		{"opposite", Forward, r3.Vec{Z: -3}, 180},
		{"forty five", Forward, r3.Vec{X: 1, Z: 1}, 45},
		{"zero input", r3.Vec{}, Forward, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Angle(tt.a, tt.b); !scalar.EqualWithinAbs(got, tt.want, tol) {
				t.Errorf("Angle(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSignedAngleAroundUp(t *testing.T) {
	tests := []struct {
		name     string
		from, to r3.Vec
		want     float64
	}{
		{"ahead", Forward, r3.Vec{Z: 10}, 0},
		{"right", Forward, r3.Vec{X: 10}, 90},
		{"left", Forward, r3.Vec{X: -10}, -90},
		{"slight right", Forward, r3.Vec{X: 1, Z: 1}, 45},
		{"behind", Forward, r3.Vec{Z: -1}, 180},
		{"behind from east", r3.Vec{X: 1}, r3.Vec{X: -4}, 180},
		{"vertical ignored", r3.Vec{Y: 5, Z: 1}, r3.Vec{X: 1, Y: -3}, 90},
		{"target straight up", Forward, r3.Vec{Y: 1}, 0},
		{"zero velocity", r3.Vec{}, r3.Vec{X: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignedAngleAroundUp(tt.from, tt.to)
			if math.IsNaN(got) {
				t.Fatalf("SignedAngleAroundUp(%v, %v) is NaN", tt.from, tt.to)
			}
			if !scalar.EqualWithinAbs(got, tt.want, tol) {
				t.Errorf("SignedAngleAroundUp(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSignedAngleAroundUpOppositeIsDeterministic(t *testing.T) {
	for deg := 0.0; deg < 360; deg += 15 {
		v := heading(deg)
		back := r3.Scale(-2, v)
		first := SignedAngleAroundUp(v, back)
		for i := 0; i < 5; i++ {
			if got := SignedAngleAroundUp(v, back); got != first {
				t.Fatalf("heading %v: run %d = %v, first = %v", deg, i, got, first)
			}
		}
		if !scalar.EqualWithinAbs(first, 180, 1e-6) {
			t.Errorf("heading %v: opposite angle = %v, want +180", deg, first)
		}
	}
}

func TestRotateTowardsFlat(t *testing.T) {
	cos30 := math.Cos(math.Pi / 6)

	tests := []struct {
		name       string
		from, to   r3.Vec
		maxDegrees float64
		want       r3.Vec
	}{
		{"capped", Forward, r3.Vec{X: 1}, 30, r3.Vec{X: 0.5, Z: cos30}},
		{"reaches target", Forward, r3.Vec{X: 5}, 120, r3.Vec{X: 1}},
		{"keeps magnitude", r3.Vec{Z: 2}, r3.Vec{X: 1}, 90, r3.Vec{X: 2}},
		{"restores vertical", r3.Vec{Y: 3, Z: 1}, r3.Vec{X: 1, Y: -1}, 90, r3.Vec{X: 1, Y: 3}},
		{"zero budget", Forward, r3.Vec{X: 1}, 0, Forward},
		{"negative budget", Forward, r3.Vec{X: 1}, -10, Forward},
		{"opposite turns right", Forward, r3.Vec{Z: -1}, 90, r3.Vec{X: 1}},
		{"zero target", Forward, r3.Vec{}, 45, Forward},
		{"vertical source", r3.Vec{Y: 1}, r3.Vec{X: 1}, 45, r3.Vec{Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotateTowardsFlat(tt.from, tt.to, tt.maxDegrees)
			if !vecNear(got, tt.want, tol) {
				t.Errorf("RotateTowardsFlat(%v, %v, %v) = %v, want %v", tt.from, tt.to, tt.maxDegrees, got, tt.want)
			}
		})
	}
}

func TestRotateAroundUp(t *testing.T) {
	got := RotateAroundUp(r3.Vec{Y: 2, Z: 1}, 90)
	if !vecNear(got, r3.Vec{X: 1, Y: 2}, tol) {
		t.Errorf("RotateAroundUp = %v, want {1 2 0}", got)
	}

	got = RotateAroundUp(Forward, -90)
	if !vecNear(got, r3.Vec{X: -1}, tol) {
		t.Errorf("RotateAroundUp(-90) = %v, want {-1 0 0}", got)
	}

	if got := RotateAroundUp(Forward, 0); got != Forward {
		t.Errorf("RotateAroundUp(0) = %v, want exact %v", got, Forward)
	}
}

func TestPitchDelta(t *testing.T) {
	tests := []struct {
		name     string
		from, to r3.Vec
		want     float64
	}{
		{"level", Forward, r3.Vec{X: 1}, 0},
		{"climb", Forward, r3.Vec{Y: 1, Z: 1}, 45},
		{"dive", Forward, r3.Vec{Y: -1, Z: 1}, -45},
		{"zero from", r3.Vec{}, Forward, 0},
		{"zero to", Forward, r3.Vec{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PitchDelta(tt.from, tt.to)
			if !scalar.EqualWithinAbs(got, tt.want, tol) {
				t.Errorf("PitchDelta(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
