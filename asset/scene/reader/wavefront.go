package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/kdaccel/asset"
	"github.com/achilleasa/kdaccel/asset/compiler/input"
	"github.com/achilleasa/kdaccel/log"
	"github.com/achilleasa/kdaccel/types"
	"github.com/pkg/errors"
)

// Opens resources referenced by "call" statements.
type resourceOpener func(pathToResource string, relTo *asset.Resource) (*asset.Resource, error)

type wavefrontSceneReader struct {
	logger log.Logger

	openResource resourceOpener

	// The parsed scene.
	rawScene *input.Scene

	// List of vertices, normals and uv coords.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	// An error stack that provides additional error information when
	// scene files include other files.
	errStack []string
}

// Create a new text scene reader.
func newWavefrontReader(openResource resourceOpener) *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:       log.New("wavefront reader"),
		openResource: openResource,
		rawScene:     input.NewScene(),
		vertexList:   make([]types.Vec3, 0),
		normalList:   make([]types.Vec3, 0),
		uvList:       make([]types.Vec2, 0),
		errStack:     make([]string, 0),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*input.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	// If no mesh instances are defined, create instances for each defined mesh
	if len(r.rawScene.MeshInstances) == 0 {
		r.createDefaultMeshInstances()
	}

	r.logger.Noticef(
		"parsed scene in %d ms (%d meshes, %d instances, %d spheres, %d boxes)",
		time.Since(start).Nanoseconds()/1e6,
		len(r.rawScene.Meshes), len(r.rawScene.MeshInstances),
		len(r.rawScene.Spheres), len(r.rawScene.Boxes),
	)
	return r.rawScene, nil
}

// Generate a mesh instance with an identity transformation for each defined mesh.
func (r *wavefrontSceneReader) createDefaultMeshInstances() {
	for meshIndex, mesh := range r.rawScene.Meshes {
		inst := &input.MeshInstance{
			MeshIndex: uint32(meshIndex),
			Transform: types.Ident4(),
		}
		inst.SetBound(mesh.Bound())
		r.rawScene.MeshInstances = append(r.rawScene.MeshInstances, inst)
	}
}

// Generate an error that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return errors.New(strings.Trim(errMsg, "\n"))
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int
	var err error

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relUvOffset := len(r.uvList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := r.openResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}

			err = r.parse(incRes)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "mtllib", "usemtl":
			// Surfaces are not shaded; material statements only need to be well formed.
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			r.logger.Debugf("%s:%d ignoring %s %q", res.Path(), lineNum, lineTokens[0], lineTokens[1])
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.uvList = append(r.uvList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedMesh()
			r.rawScene.Meshes = append(r.rawScene.Meshes, input.NewMesh(lineTokens[1]))
		case "f":
			primList, err := r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}

			// If no object has been defined create a default one
			if len(r.rawScene.Meshes) == 0 {
				r.rawScene.Meshes = append(r.rawScene.Meshes, input.NewMesh("default"))
			}

			meshIndex := len(r.rawScene.Meshes) - 1
			r.rawScene.Meshes[meshIndex].MarkBoundDirty()
			r.rawScene.Meshes[meshIndex].Primitives = append(r.rawScene.Meshes[meshIndex].Primitives, primList...)
		case "sphere":
			sphere, err := parseSphere(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.rawScene.Spheres = append(r.rawScene.Spheres, sphere)
		case "box":
			box, err := parseBox(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.rawScene.Boxes = append(r.rawScene.Boxes, box)
		case "camera_fov":
			r.rawScene.Camera.FOV, err = parseFloat32(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
		case "camera_eye":
			r.rawScene.Camera.Eye, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
		case "camera_look":
			r.rawScene.Camera.Look, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
		case "camera_up":
			r.rawScene.Camera.Up, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
		case "instance":
			instance, err := r.parseMeshInstance(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.rawScene.MeshInstances = append(r.rawScene.MeshInstances, instance)
		default:
			r.logger.Debugf("%s:%d skipping unsupported statement %q", res.Path(), lineNum, lineTokens[0])
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, err.Error())
	}

	r.verifyLastParsedMesh()
	return nil
}

// Drop the last parsed mesh if it contains no primitives.
func (r *wavefrontSceneReader) verifyLastParsedMesh() {
	lastMeshIndex := len(r.rawScene.Meshes) - 1
	if lastMeshIndex >= 0 && len(r.rawScene.Meshes[lastMeshIndex].Primitives) == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, r.rawScene.Meshes[lastMeshIndex].Name)
		r.rawScene.Meshes = r.rawScene.Meshes[:lastMeshIndex]
	}
}

// Parse mesh instance definition. Definitions use the following format:
// instance mesh_name tX tY tZ yaw pitch roll sX sY sZ
// where:
// - tX, tY, tZ       : translation vector
// - yaw, pitch, roll : rotation angles in degrees
// - sX, sY, sZ       : scale
func (r *wavefrontSceneReader) parseMeshInstance(lineTokens []string) (*input.MeshInstance, error) {
	if len(lineTokens) != 11 {
		return nil, errors.Errorf(`unsupported syntax for "instance"; expected 10 arguments: mesh_name tX tY tZ yaw pitch roll sX sY sZ; got %d`, len(lineTokens)-1)
	}

	// Find mesh by name
	meshName := lineTokens[1]
	meshIndex := -1
	for index, mesh := range r.rawScene.Meshes {
		if mesh.Name == meshName {
			meshIndex = index
			break
		}
	}

	if meshIndex == -1 {
		return nil, errors.Errorf(`unknown mesh with name "%s"`, meshName)
	}

	values, err := parseFloats(lineTokens[2:])
	if err != nil {
		return nil, err
	}
	translation := types.Vec3{values[0], values[1], values[2]}
	scale := types.Vec3{values[6], values[7], values[8]}

	// M = T * R * S
	transform := types.Translate4(translation).
		Mul4(types.Rotate4(values[3], values[4], values[5])).
		Mul4(types.Scale4(scale))

	// Transform the corners of the mesh bound and recalculate an AABB for the instance
	meshBound := r.rawScene.Meshes[meshIndex].Bound()
	instBound := types.EmptyBound()
	for corner := 0; corner < 8; corner++ {
		var p types.Vec3
		for axis := 0; axis < 3; axis++ {
			if corner&(1<<uint(axis)) == 0 {
				p[axis] = meshBound.Min[axis]
			} else {
				p[axis] = meshBound.Max[axis]
			}
		}
		instBound = instBound.UnionPoint(types.TransformPoint(transform, p))
	}

	inst := &input.MeshInstance{
		MeshIndex: uint32(meshIndex),
		Transform: transform,
	}
	inst.SetBound(instBound)
	return inst, nil
}

// Parse face definition. Each face definition consists of 3 or more
// arguments, one for each vertex. Each one of the vertex arguments is
// comprised of 1, 2 or 3 args separated by a slash character. The following
// formats are supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex/uv list.
//
// Faces with more than 3 vertices are split into a triangle fan around the
// first vertex.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) ([]*input.Primitive, error) {
	if len(lineTokens) < 4 {
		return nil, errors.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	numVertices := len(lineTokens) - 1
	vertices := make([]types.Vec3, numVertices)
	normals := make([]types.Vec3, numVertices)
	uv := make([]types.Vec2, numVertices)

	var vOffset int
	var err error
	expIndices := 0
	for arg := 0; arg < numVertices; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, errors.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, errors.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse vertex coord for face argument %d", arg)
		}
		vertices[arg] = r.vertexList[vOffset]

		if expIndices > 1 && vTokens[1] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return nil, errors.Wrapf(err, "could not parse tex coord for face argument %d", arg)
			}
			uv[arg] = r.uvList[vOffset]
		}

		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return nil, errors.Wrapf(err, "could not parse normal coord for face argument %d", arg)
			}
			normals[arg] = r.normalList[vOffset]
		}
	}

	// Missing normals are left zeroed; triangles fall back to the face normal.
	primitives := make([]*input.Primitive, 0, numVertices-2)
	for i := 1; i < numVertices-1; i++ {
		primitives = append(primitives, &input.Primitive{
			Vertices: [3]types.Vec3{vertices[0], vertices[i], vertices[i+1]},
			Normals:  [3]types.Vec3{normals[0], normals[i], normals[i+1]},
			UVs:      [3]types.Vec2{uv[0], uv[i], uv[i+1]},
		})
	}

	return primitives, nil
}

// Parse a sphere definition: sphere cX cY cZ radius
func parseSphere(lineTokens []string) (input.Sphere, error) {
	if len(lineTokens) != 5 {
		return input.Sphere{}, errors.Errorf(`unsupported syntax for "sphere"; expected 4 arguments: cX cY cZ radius; got %d`, len(lineTokens)-1)
	}
	values, err := parseFloats(lineTokens[1:])
	if err != nil {
		return input.Sphere{}, err
	}
	if values[3] <= 0 {
		return input.Sphere{}, errors.Errorf("sphere radius must be positive; got %v", values[3])
	}
	return input.Sphere{Center: types.Vec3{values[0], values[1], values[2]}, Radius: values[3]}, nil
}

// Parse an axis-aligned box definition: box minX minY minZ maxX maxY maxZ
func parseBox(lineTokens []string) (types.Bound, error) {
	if len(lineTokens) != 7 {
		return types.Bound{}, errors.Errorf(`unsupported syntax for "box"; expected 6 arguments: minX minY minZ maxX maxY maxZ; got %d`, len(lineTokens)-1)
	}
	values, err := parseFloats(lineTokens[1:])
	if err != nil {
		return types.Bound{}, err
	}
	box := types.BoundFromPoints(
		types.Vec3{values[0], values[1], values[2]},
		types.Vec3{values[3], values[4], values[5]},
	)
	return box, nil
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, errors.New("index out of bounds")
	}
	return vOffset, nil
}

func parseFloats(tokens []string) ([]float32, error) {
	values := make([]float32, len(tokens))
	for index, token := range tokens {
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return nil, err
		}
		values[index] = float32(v)
	}
	return values, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, errors.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, errors.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, errors.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
