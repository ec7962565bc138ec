package compiler

import (
	"time"

	"github.com/achilleasa/kdaccel/accel/kdtree"
	"github.com/achilleasa/kdaccel/asset/compiler/input"
	"github.com/achilleasa/kdaccel/asset/scene"
	"github.com/achilleasa/kdaccel/geometry"
	"github.com/achilleasa/kdaccel/log"
	"github.com/achilleasa/kdaccel/types"
	"github.com/pkg/errors"
)

type sceneCompiler struct {
	parsedScene   *input.Scene
	compiledScene *scene.Scene
	treeOpts      kdtree.Options
	logger        log.Logger
}

// Compile a scene representation parsed by a scene reader into a set of world
// space shapes indexed by a kd-tree.
func Compile(parsedScene *input.Scene, treeOpts kdtree.Options) (*scene.Scene, error) {
	compiler := &sceneCompiler{
		parsedScene:   parsedScene,
		compiledScene: &scene.Scene{},
		treeOpts:      treeOpts,
		logger:        log.New("scene compiler"),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling scene")

	var err error
	err = compiler.flattenGeometry()
	if err != nil {
		return nil, err
	}

	err = compiler.partitionGeometry()
	if err != nil {
		return nil, err
	}

	err = compiler.setupCamera()
	if err != nil {
		return nil, err
	}

	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.compiledScene, nil
}

// Apply the mesh instance transforms to the mesh primitives and append the
// resulting world space triangles followed by the analytic shapes.
func (sc *sceneCompiler) flattenGeometry() error {
	sc.logger.Infof(
		"flattening geometry (%d meshes, %d mesh instances)",
		len(sc.parsedScene.Meshes), len(sc.parsedScene.MeshInstances),
	)

	shapes := make([]geometry.Shape, 0)
	skipped := 0
	for instIndex, mi := range sc.parsedScene.MeshInstances {
		if int(mi.MeshIndex) >= len(sc.parsedScene.Meshes) {
			return errors.Errorf("compiler: mesh instance %d references unknown mesh %d", instIndex, mi.MeshIndex)
		}

		mesh := sc.parsedScene.Meshes[mi.MeshIndex]
		for _, prim := range mesh.Primitives {
			var vertices, normals [3]types.Vec3
			for i := 0; i < 3; i++ {
				vertices[i] = types.TransformPoint(mi.Transform, prim.Vertices[i])
				if !prim.Normals[i].IsZero() {
					normals[i] = types.TransformNormal(mi.Transform, prim.Normals[i])
				}
			}

			tri := geometry.NewTriangle(vertices, normals, prim.UVs)
			if tri.Area() == 0 {
				skipped++
				continue
			}
			shapes = append(shapes, tri)
		}
	}

	if skipped > 0 {
		sc.logger.Warningf("skipped %d degenerate triangles", skipped)
	}

	for _, sphere := range sc.parsedScene.Spheres {
		shapes = append(shapes, geometry.NewSphere(sphere.Center, sphere.Radius))
	}
	for _, bound := range sc.parsedScene.Boxes {
		shapes = append(shapes, &geometry.Box{Bound: bound})
	}

	sc.compiledScene.Shapes = shapes
	sc.compiledScene.MeshInstances = len(sc.parsedScene.MeshInstances)
	return nil
}

// Build the kd-tree over the flattened shapes.
func (sc *sceneCompiler) partitionGeometry() error {
	start := time.Now()
	sc.logger.Noticef("partitioning %d shapes", len(sc.compiledScene.Shapes))

	tree, err := kdtree.New(sc.compiledScene.Shapes, sc.treeOpts)
	if err != nil {
		return errors.Wrap(err, "compiler: could not build kd-tree")
	}
	sc.compiledScene.Tree = tree

	stats := tree.Stats()
	sc.logger.Infof(
		"built kd-tree in %d ms (%d nodes, %d leaves, depth %d/%d)",
		time.Since(start).Nanoseconds()/1e6,
		stats.Nodes, stats.Leaves, stats.MaxDepth, tree.MaxDepth(),
	)
	return nil
}

func (sc *sceneCompiler) setupCamera() error {
	if sc.parsedScene.Camera == nil {
		return errors.New("compiler: scene does not define a camera")
	}

	sc.compiledScene.Camera = scene.NewCamera(sc.parsedScene.Camera.FOV)
	sc.compiledScene.Camera.Position = sc.parsedScene.Camera.Eye
	sc.compiledScene.Camera.LookAt = sc.parsedScene.Camera.Look
	sc.compiledScene.Camera.Up = sc.parsedScene.Camera.Up
	sc.compiledScene.Camera.SetupProjection(1)

	return nil
}
