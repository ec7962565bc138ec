package renderer

import (
	"context"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/kdaccel/accel/kdtree"
	"github.com/achilleasa/kdaccel/asset/compiler"
	"github.com/achilleasa/kdaccel/asset/compiler/input"
	"github.com/achilleasa/kdaccel/asset/scene"
	"github.com/achilleasa/kdaccel/config"
	"github.com/achilleasa/kdaccel/metrics"
	"github.com/achilleasa/kdaccel/tracer"
	"github.com/achilleasa/kdaccel/types"
	"github.com/disintegration/imaging"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A 4x4 box in front of a 90 degree camera. On an 8x8 frame the rays through
// the central 4x4 pixels hit it.
func boxScene(t *testing.T) *scene.Scene {
	parsed := input.NewScene()
	parsed.Camera.FOV = 90
	parsed.Boxes = append(parsed.Boxes, types.Bound{
		Min: types.Vec3{-2, -2, -6},
		Max: types.Vec3{2, 2, -5},
	})

	sc, err := compiler.Compile(parsed, kdtree.DefaultOptions())
	require.NoError(t, err)
	return sc
}

func testOptions(numTracers int) Options {
	return Options{
		FrameW:     8,
		FrameH:     8,
		NumTracers: numTracers,
		Mode:       config.ModeDepth,
	}
}

func TestNewDefaultErrors(t *testing.T) {
	sc := boxScene(t)

	_, err := NewDefault(nil, tracer.NewNaiveScheduler(), testOptions(1))
	assert.Equal(t, ErrSceneNotDefined, err)

	_, err = NewDefault(&scene.Scene{Tree: sc.Tree}, tracer.NewNaiveScheduler(), testOptions(1))
	assert.Equal(t, ErrCameraNotDefined, err)

	_, err = NewDefault(sc, tracer.NewNaiveScheduler(), testOptions(0))
	assert.Equal(t, ErrNoTracers, err)

	opts := testOptions(1)
	opts.FrameH = 0
	_, err = NewDefault(sc, tracer.NewNaiveScheduler(), opts)
	assert.EqualError(t, err, "renderer: invalid frame dimensions 8x0")
}

func TestRender(t *testing.T) {
	opts := testOptions(3)
	opts.Metrics = metrics.New()

	r, err := NewDefault(boxScene(t), tracer.NewPerfectScheduler(), opts)
	require.NoError(t, err)
	defer r.Close()

	// Render a few frames so the perfect scheduler uses tracer feedback
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Render(context.Background()))

		stats := r.Stats()
		assert.EqualValues(t, 64, stats.Rays)
		assert.EqualValues(t, 16, stats.Hits)

		var rows uint32
		for _, trStats := range stats.Tracers {
			rows += trStats.BlockH
		}
		assert.EqualValues(t, 8, rows, "tracer blocks should cover the frame")
	}

	assert.Equal(t, float64(3*64), gatherCounter(t, opts.Metrics, "kdaccel_traced_rays_total"))
	count, err := testutil.GatherAndCount(opts.Metrics.Registry(), "kdaccel_frame_render_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	frame := r.Frame()
	for y := uint32(0); y < 8; y++ {
		for x := uint32(0); x < 8; x++ {
			expHit := x >= 2 && x <= 5 && y >= 2 && y <= 5
			assert.Equal(t, expHit, frame.IsHit(x, y), "pixel (%d, %d)", x, y)
		}
	}

	assert.Contains(t, r.Stats().Table(), "TOTAL")
}

func TestRenderInterrupted(t *testing.T) {
	r, err := NewDefault(boxScene(t), tracer.NewNaiveScheduler(), testOptions(2))
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, ErrInterrupted, r.Render(ctx))
}

func TestShade(t *testing.T) {
	r, err := NewDefault(boxScene(t), tracer.NewNaiveScheduler(), testOptions(1))
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Render(context.Background()))

	depthImg := Shade(r.Frame(), config.ModeDepth)
	assert.Equal(t, missColor, depthImg.NRGBAAt(0, 0))
	// The central pixels are the nearest ones
	near := shadeDepth(0)
	assert.InDelta(t, near.R, depthImg.NRGBAAt(3, 3).R, 2)
	assert.InDelta(t, near.B, depthImg.NRGBAAt(3, 3).B, 2)
	far := shadeDepth(1)
	assert.InDelta(t, far.R, depthImg.NRGBAAt(2, 2).R, 2)
	assert.InDelta(t, far.B, depthImg.NRGBAAt(2, 2).B, 2)

	// The box face looking at the camera has a +Z normal
	normalImg := Shade(r.Frame(), config.ModeNormals)
	assert.Equal(t, color.NRGBA{128, 128, 255, 255}, normalImg.NRGBAAt(3, 3))
	assert.Equal(t, missColor, normalImg.NRGBAAt(7, 7))
}

func TestShadeDepthRamp(t *testing.T) {
	near := shadeDepth(0)
	far := shadeDepth(1)
	assert.InDelta(t, 253, near.R, 1)
	assert.InDelta(t, 231, near.G, 1)
	assert.InDelta(t, 37, near.B, 1)
	assert.InDelta(t, 68, far.R, 1)
	assert.InDelta(t, 1, far.G, 1)
	assert.InDelta(t, 84, far.B, 1)
}

func TestSave(t *testing.T) {
	frame := tracer.NewFrame(4, 2)
	filename := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, Save(Shade(frame, config.ModeDepth), filename))

	img, err := imaging.Open(filename)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	err = Save(Shade(frame, config.ModeDepth), filepath.Join(t.TempDir(), "frame.unknown"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "renderer: could not save image"))
}

func TestParseAxes(t *testing.T) {
	axes, err := ParseAxes("XZ")
	require.NoError(t, err)
	assert.Equal(t, [2]types.Axis{types.XAxis, types.ZAxis}, axes)

	axes, err = ParseAxes("zy")
	require.NoError(t, err)
	assert.Equal(t, [2]types.Axis{types.ZAxis, types.YAxis}, axes)

	for _, invalid := range []string{"", "x", "xx", "xyz", "xw"} {
		_, err = ParseAxes(invalid)
		assert.Error(t, err, "axes %q", invalid)
	}
}

func TestPlotLeaves(t *testing.T) {
	sc := boxScene(t)

	img, err := PlotLeaves(sc.Tree, [2]types.Axis{types.XAxis, types.ZAxis}, 100)
	require.NoError(t, err)
	assert.Equal(t, 100+2*plotMargin, img.Bounds().Dx())
	assert.Equal(t, 25+2*plotMargin, img.Bounds().Dy())

	empty, err := kdtree.New(nil, kdtree.DefaultOptions())
	require.NoError(t, err)
	_, err = PlotLeaves(empty, [2]types.Axis{types.XAxis, types.YAxis}, 100)
	assert.Equal(t, ErrEmptyTree, err)
}

func gatherCounter(t *testing.T, m *metrics.Metrics, name string) float64 {
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %q not found", name)
	return 0
}
