package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration

	// Primary rays traced for the block and the ones that hit a shape.
	Rays uint64
	Hits uint64
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for entire frame.
	RenderTime time.Duration

	Rays uint64
	Hits uint64
}

// Render frame statistics as a table.
func (fs FrameStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Rays", "Hits", "Render time"})
	for _, stat := range fs.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%d", stat.Hits),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", fmt.Sprintf("%d", fs.Rays), fmt.Sprintf("%d", fs.Hits), fs.RenderTime.String()})

	table.Render()
	return buf.String()
}
