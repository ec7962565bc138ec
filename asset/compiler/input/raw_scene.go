package input

import (
	"github.com/achilleasa/kdaccel/types"
)

// A triangle primitive in mesh space.
type Primitive struct {
	Vertices [3]types.Vec3
	Normals  [3]types.Vec3
	UVs      [3]types.Vec2
}

// Get the primitive AABB.
func (prim *Primitive) Bound() types.Bound {
	return types.BoundFromPoints(prim.Vertices[0], prim.Vertices[1], prim.Vertices[2])
}

// A mesh is constructed by a list of primitives.
type Mesh struct {
	Name       string
	Primitives []*Primitive

	bound            types.Bound
	boundNeedsUpdate bool
}

// Create a new mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:             name,
		Primitives:       make([]*Primitive, 0),
		boundNeedsUpdate: true,
	}
}

// Mark the bound of this mesh as dirty.
func (m *Mesh) MarkBoundDirty() {
	m.boundNeedsUpdate = true
}

// Get mesh bounding box.
func (m *Mesh) Bound() types.Bound {
	if m.boundNeedsUpdate {
		m.bound = types.EmptyBound()
		for _, prim := range m.Primitives {
			m.bound = m.bound.Union(prim.Bound())
		}
		m.boundNeedsUpdate = false
	}

	return m.bound
}

// A mesh instance applies a transformation to a particular Mesh.
type MeshInstance struct {
	MeshIndex uint32
	Transform types.Mat4

	bound types.Bound
}

// Set the mesh instance AABB.
func (mi *MeshInstance) SetBound(bound types.Bound) {
	mi.bound = bound
}

// Get the mesh instance AABB in world space.
func (mi *MeshInstance) Bound() types.Bound {
	return mi.bound
}

// An analytic sphere.
type Sphere struct {
	Center types.Vec3
	Radius float32
}

// Camera settings.
type Camera struct {
	FOV  float32
	Eye  types.Vec3
	Look types.Vec3
	Up   types.Vec3
}

// The scene contains all elements that are processed by the scene compiler.
type Scene struct {
	Meshes        []*Mesh
	MeshInstances []*MeshInstance

	// Analytic shapes placed directly in world space.
	Spheres []Sphere
	Boxes   []types.Bound

	Camera *Camera
}

// Create a new scene.
func NewScene() *Scene {
	return &Scene{
		Meshes:        make([]*Mesh, 0),
		MeshInstances: make([]*MeshInstance, 0),
		Camera: &Camera{
			FOV:  45.0,
			Eye:  types.Vec3{0, 0, 0},
			Look: types.Vec3{0, 0, -1},
			Up:   types.Vec3{0, 1, 0},
		},
	}
}
