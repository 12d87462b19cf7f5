package viz

import "math"

type Vec3 struct {
	X, Y, Z float64
}

// Camera orients 3-D systems for display. Rotations are applied about X,
// then Y, then Z.
type Camera struct {
	RotX, RotY, RotZ float64
}

func NewCamera() *Camera {
	return &Camera{}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) Reset()            { *c = Camera{} }

func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// View maps a 3-D point onto the screen plane. The projection is
// orthographic so lengths keep the viewport's metres-to-pixels scale.
func (c *Camera) View(p Vec3) (float64, float64) {
	r := c.RotatePoint(p)
	return r.X, r.Y
}
