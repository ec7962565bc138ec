package scene

import (
	"fmt"

	"github.com/achilleasa/kdaccel/types"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray directions through the four corners of the camera frustum in
// top-left, top-right, bottom-left and bottom-right order. Per pixel rays are
// generated by interpolating the corner rays.
type Frustum [4]types.Vec3

func (fr Frustum) String() string {
	return fmt.Sprintf(
		"Frustum Rays:\nTL : %v\nTR : %v\nBL : %v\nBR : %v",
		fr[0], fr[1], fr[2], fr[3],
	)
}

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical field of view in degrees.
	FOV float32

	ViewMat types.Mat4
	ProjMat types.Mat4
	Frustum Frustum
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		ViewMat:  types.Ident4(),
		ProjMat:  types.Ident4(),
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
}

// Setup camera projection matrix for the given frame aspect ratio.
func (c *Camera) SetupProjection(aspect float32) {
	c.ProjMat = mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, 1, 1000)
	c.Update()
}

// Recalculate the view matrix and frustum corners.
func (c *Camera) Update() {
	c.ViewMat = mgl32.LookAtV(mgl32.Vec3(c.Position), mgl32.Vec3(c.LookAt), mgl32.Vec3(c.Up))
	c.updateFrustum()
}

// Generate a ray for normalized screen coordinates. Coordinate u grows from
// left to right and v from top to bottom.
func (c *Camera) Ray(u, v float32) types.Ray {
	top := lerp(c.Frustum[0], c.Frustum[1], u)
	bottom := lerp(c.Frustum[2], c.Frustum[3], u)
	return types.NewRay(c.Position, lerp(top, bottom, v))
}

// Generate a ray vector for each corner of the camera frustum by
// multiplying clip space vectors for each corner with the inv proj/view
// matrix, applying perspective and subtracting the camera eye position.
func (c *Camera) updateFrustum() {
	invProjViewMat := c.ProjMat.Mul4(c.ViewMat).Inv()

	corners := [4][2]float32{{-1, 1}, {1, 1}, {-1, -1}, {1, -1}}
	for index, corner := range corners {
		v := invProjViewMat.Mul4x1(mgl32.Vec4{corner[0], corner[1], -1, 1})
		c.Frustum[index] = types.Vec3(v.Vec3().Mul(1.0 / v[3])).Sub(c.Position)
	}
}

func lerp(a, b types.Vec3, t float32) types.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
