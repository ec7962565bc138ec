package compiler

import (
	"testing"

	"github.com/achilleasa/kdaccel/accel/kdtree"
	"github.com/achilleasa/kdaccel/asset/compiler/input"
	"github.com/achilleasa/kdaccel/geometry"
	"github.com/achilleasa/kdaccel/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadScene() *input.Scene {
	sc := input.NewScene()
	mesh := input.NewMesh("quad")
	mesh.Primitives = append(mesh.Primitives,
		&input.Primitive{Vertices: [3]types.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}}},
		&input.Primitive{Vertices: [3]types.Vec3{{-1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}},
		// Degenerate
		&input.Primitive{Vertices: [3]types.Vec3{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}}},
	)
	sc.Meshes = append(sc.Meshes, mesh)
	sc.MeshInstances = append(sc.MeshInstances,
		&input.MeshInstance{MeshIndex: 0, Transform: types.Translate4(types.Vec3{0, 0, -5})},
		&input.MeshInstance{MeshIndex: 0, Transform: types.Translate4(types.Vec3{0, 0, -10}).Mul4(types.Scale4(types.Vec3{4, 4, 4}))},
	)
	sc.Spheres = append(sc.Spheres, input.Sphere{Center: types.Vec3{5, 0, -5}, Radius: 1})
	sc.Boxes = append(sc.Boxes, types.Bound{Min: types.Vec3{-6, -1, -6}, Max: types.Vec3{-4, 1, -4}})
	return sc
}

func TestCompile(t *testing.T) {
	sc, err := Compile(quadScene(), kdtree.DefaultOptions())
	require.NoError(t, err)

	triangles, spheres, boxes := sc.ShapeCounts()
	assert.Equal(t, 4, triangles, "degenerate triangles should be skipped")
	assert.Equal(t, 1, spheres)
	assert.Equal(t, 1, boxes)
	assert.Equal(t, 2, sc.MeshInstances)
	require.NotNil(t, sc.Tree)
	assert.Equal(t, len(sc.Shapes), sc.Tree.NumPrimitives())

	// The front quad occludes the scaled one behind it
	hit, ok := sc.Tree.Nearest(types.NewRay(types.Vec3{0.5, 0.5, 0}, types.Vec3{0, 0, -1}))
	require.True(t, ok)
	assert.InDelta(t, 5, hit.T, 1e-4)
	assert.IsType(t, &geometry.Triangle{}, hit.Shape)

	hit, ok = sc.Tree.Nearest(types.NewRay(types.Vec3{3, 3, 0}, types.Vec3{0, 0, -1}))
	require.True(t, ok)
	assert.InDelta(t, 10, hit.T, 1e-4)

	hit, ok = sc.Tree.Nearest(types.NewRay(types.Vec3{5, 0, 0}, types.Vec3{0, 0, -1}))
	require.True(t, ok)
	assert.IsType(t, &geometry.Sphere{}, hit.Shape)
	assert.InDelta(t, 4, hit.T, 1e-4)

	hit, ok = sc.Tree.Nearest(types.NewRay(types.Vec3{-5, 0, 0}, types.Vec3{0, 0, -1}))
	require.True(t, ok)
	assert.IsType(t, &geometry.Box{}, hit.Shape)

	require.NotNil(t, sc.Camera)
	assert.Equal(t, types.Vec3{0, 0, -1}, sc.Camera.LookAt)
	assert.Contains(t, sc.Stats(), "Triangles")
}

func TestCompileTransformsNormals(t *testing.T) {
	raw := input.NewScene()
	mesh := input.NewMesh("tri")
	mesh.Primitives = append(mesh.Primitives, &input.Primitive{
		Vertices: [3]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:  [3]types.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
	})
	raw.Meshes = append(raw.Meshes, mesh)
	raw.MeshInstances = append(raw.MeshInstances, &input.MeshInstance{Transform: types.Rotate4(0, 90, 0)})

	sc, err := Compile(raw, kdtree.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, sc.Shapes, 1)

	tri := sc.Shapes[0].(*geometry.Triangle)
	assert.InDelta(t, 1, tri.Normals[0][0], 1e-5)
	assert.InDelta(t, 0, tri.Normals[0][2], 1e-5)
}

func TestCompileErrors(t *testing.T) {
	raw := quadScene()
	raw.MeshInstances[1].MeshIndex = 7
	_, err := Compile(raw, kdtree.DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, "compiler: mesh instance 1 references unknown mesh 7", err.Error())

	_, err = Compile(quadScene(), kdtree.Options{MaxLeafSize: 4, EmptyBonus: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiler: could not build kd-tree")

	raw = quadScene()
	raw.Camera = nil
	_, err = Compile(raw, kdtree.DefaultOptions())
	assert.Error(t, err)
}

func TestCompileEmptyScene(t *testing.T) {
	sc, err := Compile(input.NewScene(), kdtree.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, sc.Shapes)
	assert.True(t, sc.Tree.Empty())
}
