package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/achilleasa/kdaccel/accel/kdtree"
	"github.com/achilleasa/kdaccel/geometry"
	"github.com/olekukonko/tablewriter"
)

// A compiled scene: world space shapes indexed by a kd-tree.
type Scene struct {
	// Shapes in kd-tree primitive index order.
	Shapes []geometry.Shape

	Tree *kdtree.Tree

	// The number of mesh instances that were flattened into triangles.
	MeshInstances int

	// The scene camera.
	Camera *Camera
}

// Count shapes by their concrete type.
func (sc *Scene) ShapeCounts() (triangles, spheres, boxes int) {
	for _, shape := range sc.Shapes {
		switch shape.(type) {
		case *geometry.Triangle:
			triangles++
		case *geometry.Sphere:
			spheres++
		case *geometry.Box:
			boxes++
		}
	}
	return triangles, spheres, boxes
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	triangles, spheres, boxes := sc.ShapeCounts()
	triBytes := triangles * sizeOf(geometry.Triangle{})
	sphereBytes := spheres * sizeOf(geometry.Sphere{})
	boxBytes := boxes * sizeOf(geometry.Box{})
	var refBytes int
	if sc.Tree != nil {
		refBytes = sc.Tree.Stats().PrimitiveRefs * sizeOf(int(0))
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count", "Size"})
	table.Append([]string{"Geometry", "---", fmt.Sprint(len(sc.Shapes)), fmtSize(triBytes + sphereBytes + boxBytes)})
	table.Append([]string{"", "Triangles", fmt.Sprint(triangles), fmtSize(triBytes)})
	table.Append([]string{"", "Spheres", fmt.Sprint(spheres), fmtSize(sphereBytes)})
	table.Append([]string{"", "Boxes", fmt.Sprint(boxes), fmtSize(boxBytes)})
	table.Append([]string{"", "Mesh instances", fmt.Sprint(sc.MeshInstances), " "})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"Acceleration", "---", " ", " "})
	table.Append([]string{"", "Leaf primitive refs", fmt.Sprint(refBytes / sizeOf(int(0))), fmtSize(refBytes)})
	table.SetFooter([]string{"Total", " ", " ", strings.TrimLeft(fmtSize(triBytes+sphereBytes+boxBytes+refBytes), " ")})

	table.Render()
	return buf.String()
}

func sizeOf(v interface{}) int {
	return int(reflect.TypeOf(v).Size())
}

// Format a byte count with the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", totalBytes)
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", float32(totalBytes)/1e3)
	}
	return fmt.Sprintf("%5.1f mb", float32(totalBytes)/1e6)
}
