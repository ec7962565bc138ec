package kdtree

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Build statistics.
type Stats struct {
	Primitives int

	Nodes         int
	InteriorNodes int
	Leaves        int
	EmptyLeaves   int

	// The total number of primitive references stored in leaves. Primitives
	// straddling split planes are counted once per leaf.
	PrimitiveRefs     int
	MaxLeafPrimitives int

	// The deepest level reached; the root is at level 0.
	MaxDepth int

	BuildTime time.Duration
}

// Get the mean number of primitives per non-empty leaf.
func (s Stats) AvgLeafPrimitives() float32 {
	nonEmpty := s.Leaves - s.EmptyLeaves
	if nonEmpty == 0 {
		return 0
	}
	return float32(s.PrimitiveRefs) / float32(nonEmpty)
}

// Build a tabular representation of the tree statistics.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Primitives", fmt.Sprint(s.Primitives)})
	table.Append([]string{"Nodes", fmt.Sprint(s.Nodes)})
	table.Append([]string{"Interior nodes", fmt.Sprint(s.InteriorNodes)})
	table.Append([]string{"Leaves", fmt.Sprint(s.Leaves)})
	table.Append([]string{"Empty leaves", fmt.Sprint(s.EmptyLeaves)})
	table.Append([]string{"Primitive refs", fmt.Sprint(s.PrimitiveRefs)})
	table.Append([]string{"Avg prims/leaf", fmt.Sprintf("%.2f", s.AvgLeafPrimitives())})
	table.Append([]string{"Max prims/leaf", fmt.Sprint(s.MaxLeafPrimitives)})
	table.Append([]string{"Max depth", fmt.Sprint(s.MaxDepth)})
	table.SetFooter([]string{"Build time", s.BuildTime.String()})
	table.Render()
	return buf.String()
}
