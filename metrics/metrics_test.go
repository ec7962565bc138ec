package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/achilleasa/kdaccel/accel/kdtree"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBuild(t *testing.T) {
	m := New()
	m.ObserveBuild(kdtree.Stats{
		InteriorNodes: 4,
		Leaves:        5,
		EmptyLeaves:   2,
		PrimitiveRefs: 9,
		MaxDepth:      3,
		BuildTime:     1500 * time.Millisecond,
	})

	assert.Equal(t, 1.5, testutil.ToFloat64(m.buildDuration))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.treeNodes.WithLabelValues("interior")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.treeNodes.WithLabelValues("leaf")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.treeNodes.WithLabelValues("empty_leaf")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.treeDepth))
	assert.Equal(t, float64(9), testutil.ToFloat64(m.primitiveRefs))
}

func TestObserveQueries(t *testing.T) {
	m := New()
	m.ObserveQuery(QueryOverlaps, true)
	m.ObserveQuery(QueryOverlaps, false)
	m.ObserveFrame(time.Second, 100, 40)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.queries.WithLabelValues(QueryOverlaps)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.hits.WithLabelValues(QueryOverlaps)))
	assert.Equal(t, float64(100), testutil.ToFloat64(m.queries.WithLabelValues(QueryNearest)))
	assert.Equal(t, float64(40), testutil.ToFloat64(m.hits.WithLabelValues(QueryNearest)))
	assert.Equal(t, float64(100), testutil.ToFloat64(m.tracedRays))
	assert.Equal(t, 1, testutil.CollectAndCount(m.frameDuration))
}

func TestWriteToTextfile(t *testing.T) {
	m := New()
	m.ObserveQuery(QueryNearest, true)

	path := filepath.Join(t.TempDir(), "kdaccel.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kdaccel_queries_total{kind="nearest"} 1`)

	err = m.WriteToTextfile(filepath.Join(t.TempDir(), "missing", "kdaccel.prom"))
	assert.Error(t, err)
}
