package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits slowly around a target point
type Camera struct {
	Target   mgl32.Vec3
	Distance float32
	Height   float32
	Angle    float32 // Radians around the Y axis
	Speed    float32 // Radians per second
	FOV      float32 // Vertical field of view in degrees
	Aspect   float32
}

// NewCamera creates a camera looking at the origin
func NewCamera(width, height int) *Camera {
	c := &Camera{
		Distance: 6,
		Height:   2.5,
		Speed:    0.15,
		FOV:      50,
	}
	c.Resize(width, height)
	return c
}

// Resize updates the aspect ratio
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Update advances the orbit
func (c *Camera) Update(deltaTime float64) {
	c.Angle += c.Speed * float32(deltaTime)
	if c.Angle > 2*math.Pi {
		c.Angle -= 2 * math.Pi
	}
}

// Zoom moves the camera toward or away from the target
func (c *Camera) Zoom(steps float64) {
	c.Distance *= float32(math.Pow(0.9, steps))
	c.Distance = mgl32.Clamp(c.Distance, 2, 60)
}

// Position returns the eye position in world space
func (c *Camera) Position() mgl32.Vec3 {
	sin, cos := math.Sincos(float64(c.Angle))
	return c.Target.Add(mgl32.Vec3{
		float32(sin) * c.Distance,
		c.Height,
		float32(cos) * c.Distance,
	})
}

// View returns the view matrix
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, 0.1, 500)
}
