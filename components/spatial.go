package components

import "gonum.org/v1/gonum/spatial/r3"

// Position represents a craft's world position.
type Position struct {
	X, Y, Z float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// Set overwrites the position from a vector.
func (p *Position) Set(v r3.Vec) {
	p.X, p.Y, p.Z = v.X, v.Y, v.Z
}
