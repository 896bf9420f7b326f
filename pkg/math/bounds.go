package math

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min Vec3
	Max Vec3
}

// BoundingCylinder is a vertical cylinder with an integer center, as stored
// in model list files.
type BoundingCylinder struct {
	Center Vec2i
	Radius float32
}
