package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"vecviz/internal/geometry/vector"
)

const (
	// DefaultFrustum is the visible world height at zoom 1.
	DefaultFrustum = 8.0

	eyeDistance = 500.0
	near        = 0.1
	far         = 1000.0

	maxPitch = 89 * math.Pi / 180
	minZoom  = 0.05
	maxZoom  = 50.0
)

// Camera is an orthographic camera orbiting the origin with +Y up.
type Camera struct {
	Width, Height int

	// Frustum is the visible world height at Zoom 1; the visible width
	// follows the viewport aspect ratio.
	Frustum float64
	Zoom    float64

	// Yaw turns about +Y, Pitch raises the eye above the XZ plane (radians).
	Yaw, Pitch float64
}

// NewCamera returns a camera for a width x height viewport looking at the
// origin from the given yaw and pitch in degrees.
func NewCamera(width, height int, frustum, yawDeg, pitchDeg float64) Camera {
	if !(frustum > 0) {
		frustum = DefaultFrustum
	}
	c := Camera{
		Width:   width,
		Height:  height,
		Frustum: frustum,
		Zoom:    1,
		Yaw:     mgl64.DegToRad(yawDeg),
	}
	c.Orbit(0, mgl64.DegToRad(pitchDeg))
	return c
}

// Aspect is width over height.
func (c Camera) Aspect() float64 {
	if c.Height == 0 {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}

// ViewSize returns the visible world width and height.
func (c Camera) ViewSize() (w, h float64) {
	h = c.Frustum / c.zoom()
	return h * c.Aspect(), h
}

// PixelsPerUnit converts world lengths to screen pixels.
func (c Camera) PixelsPerUnit() float64 {
	_, h := c.ViewSize()
	return float64(c.Height) / h
}

func (c Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// Eye is the camera position.
func (c Camera) Eye() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{
		cp * math.Sin(c.Yaw),
		math.Sin(c.Pitch),
		cp * math.Cos(c.Yaw),
	}.Mul(eyeDistance)
}

// Matrix returns projection · view.
func (c Camera) Matrix() mgl64.Mat4 {
	w, h := c.ViewSize()
	proj := mgl64.Ortho(-w/2, w/2, -h/2, h/2, near, far)
	view := mgl64.LookAtV(c.Eye(), mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// Projector returns a function mapping world points to screen pixels
// (origin top-left) and a depth in [-1, 1] growing away from the eye.
func (c Camera) Projector() func(p vector.Vec3) (x, y, depth float64) {
	m := c.Matrix()
	w, h := float64(c.Width), float64(c.Height)
	return func(p vector.Vec3) (float64, float64, float64) {
		ndc := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
		return (ndc.X() + 1) / 2 * w, (1 - ndc.Y()) / 2 * h, ndc.Z()
	}
}

// Project maps one world point to the screen.
func (c Camera) Project(p vector.Vec3) (x, y, depth float64) {
	return c.Projector()(p)
}

// Orbit rotates the eye around the origin. Pitch stays short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// ZoomBy multiplies the zoom factor, keeping it within sane bounds.
func (c *Camera) ZoomBy(f float64) {
	if !(f > 0) {
		return
	}
	c.Zoom = mgl64.Clamp(c.zoom()*f, minZoom, maxZoom)
}

// Resize updates the viewport; the frustum height is kept.
func (c *Camera) Resize(width, height int) {
	c.Width, c.Height = width, height
}
