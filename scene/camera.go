package scene

import (
	"github.com/chewxy/math32"

	"surface-engine/math"
)

// Camera is a perspective camera looking at a target point.
type Camera struct {
	Position    math.Vec3
	Target      math.Vec3
	Up          math.Vec3
	FOV         float32 // vertical, radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Up:          math.Vec3Up,
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	return math.Mat4LookAt(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	return math.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

// GetViewProjectionMatrix returns view then projection, in row-vector order.
func (c *Camera) GetViewProjectionMatrix() math.Mat4 {
	return c.GetViewMatrix().Mul(c.GetProjectionMatrix())
}

const (
	maxPitch    = 1.5
	minDistance = 0.5
	maxDistance = 90
)

// OrbitCamera circles its target on a sphere of radius Distance. Yaw turns
// around the vertical axis and Pitch lifts the camera above the horizon.
type OrbitCamera struct {
	Camera
	Distance float32
	Yaw      float32
	Pitch    float32
}

func NewOrbitCamera(target math.Vec3, distance, fov, aspectRatio float32) *OrbitCamera {
	c := &OrbitCamera{
		Camera:   *NewCamera(fov, aspectRatio, 0.1, 100),
		Distance: distance,
		Pitch:    30 * math32.Pi / 180,
	}
	c.Target = target
	c.UpdatePosition()
	return c
}

func (c *OrbitCamera) UpdatePosition() {
	c.Pitch = math32.Max(-maxPitch, math32.Min(maxPitch, c.Pitch))
	c.Distance = math32.Max(minDistance, math32.Min(maxDistance, c.Distance))

	sinYaw, cosYaw := math32.Sincos(c.Yaw)
	sinPitch, cosPitch := math32.Sincos(c.Pitch)

	offset := math.Vec3{
		X: c.Distance * sinYaw * cosPitch,
		Y: c.Distance * sinPitch,
		Z: c.Distance * cosYaw * cosPitch,
	}
	c.Position = c.Target.Add(offset)
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	c.UpdatePosition()
}

// Frame moves the target to the center of box and backs off far enough to
// keep the whole box in view.
func (c *OrbitCamera) Frame(box AABB) {
	c.Target = box.Center()
	r := box.Radius()
	if r > 0 {
		c.Distance = r / math32.Sin(c.FOV/2)
	}
	c.UpdatePosition()
}
