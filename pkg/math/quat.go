package math

import "github.com/chewxy/math32"

// Quat is a rotation quaternion. Components are stored X, Y, Z, W where W is
// the scalar part; files store it either xyzw or wxyz depending on the field.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := math32.Sqrt(q.Dot(q))
	if length < 0.0001 {
		return QuatIdentity()
	}
	inv := 1.0 / length
	return Quat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// nearIdentityThreshold is the smallest rotation angle (radians) treated as a
// real rotation. Float32 precision cannot represent rotations much below it:
// acos(1-1e-6)*2 ~= 0.00284714461 rad.
const nearIdentityThreshold = 0.0028471446

// IsNearIdentity reports whether the rotation angle is below the
// representable threshold. W is taken absolute so that quaternions near
// -identity (the same rotation on the long path) also qualify.
func (q Quat) IsNearIdentity() bool {
	angle := math32.Acos(math32.Abs(q.W)) * 2
	return angle < nearIdentityThreshold
}
