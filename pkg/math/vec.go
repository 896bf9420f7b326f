// Package math provides the small geometry types stored in ROSE asset files.
package math

import "github.com/chewxy/math32"

// Vec2 is a 2D float vector.
type Vec2 struct {
	X, Y float32
}

// Vec2i is a 2D integer vector. Bounding cylinders store their center as one.
type Vec2i struct {
	X, Y int32
}

// Vec3 is a 3D float vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3Zero returns the zero vector.
func Vec3Zero() Vec3 {
	return Vec3{}
}

// Vec3One returns a vector with all components set to one.
func Vec3One() Vec3 {
	return Vec3{X: 1, Y: 1, Z: 1}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsOne reports whether all components are exactly one.
func (v Vec3) IsOne() bool {
	return v.X == 1 && v.Y == 1 && v.Z == 1
}
