package math

// Color3 is an RGB color with float components in [0, 1].
type Color3 struct {
	R, G, B float32
}

// ColorWhite returns opaque white.
func ColorWhite() Color3 {
	return Color3{R: 1, G: 1, B: 1}
}

// Color4 is an RGBA color with float components in [0, 1].
type Color4 struct {
	R, G, B, A float32
}
