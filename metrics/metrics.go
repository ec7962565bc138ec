// Package metrics collects kd-tree build, query and render metrics in a
// private prometheus registry that can be written out in the text exposition
// format.
package metrics

import (
	"time"

	"github.com/achilleasa/kdaccel/accel/kdtree"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kdaccel"

// Query kinds used as label values.
const (
	QueryNearest     = "nearest"
	QueryHitBound    = "hit_bound"
	QueryOverlaps    = "overlaps"
	QueryContainLeaf = "contains_leaf"
)

type Metrics struct {
	registry *prometheus.Registry

	buildDuration prometheus.Gauge
	treeNodes     *prometheus.GaugeVec
	treeDepth     prometheus.Gauge
	primitiveRefs prometheus.Gauge

	queries *prometheus.CounterVec
	hits    *prometheus.CounterVec

	frameDuration prometheus.Histogram
	tracedRays    prometheus.Counter
}

// Create a new metric set backed by its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		buildDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_build_seconds",
			Help:      "Duration of the last kd-tree build",
		}),
		treeNodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_nodes",
			Help:      "Number of kd-tree nodes by type",
		}, []string{"type"}),
		treeDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_depth",
			Help:      "Deepest kd-tree level reached by the last build",
		}),
		primitiveRefs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_primitive_refs",
			Help:      "Number of primitive references stored in kd-tree leaves",
		}),
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Number of kd-tree queries by kind",
		}, []string{"kind"}),
		hits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_hits_total",
			Help:      "Number of kd-tree queries that reported a hit, by kind",
		}, []string{"kind"}),
		frameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_render_seconds",
			Help:      "Frame render durations",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		tracedRays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traced_rays_total",
			Help:      "Number of primary rays traced by the renderer",
		}),
	}
}

// Record the statistics of a kd-tree build.
func (m *Metrics) ObserveBuild(stats kdtree.Stats) {
	m.buildDuration.Set(stats.BuildTime.Seconds())
	m.treeNodes.WithLabelValues("interior").Set(float64(stats.InteriorNodes))
	m.treeNodes.WithLabelValues("leaf").Set(float64(stats.Leaves - stats.EmptyLeaves))
	m.treeNodes.WithLabelValues("empty_leaf").Set(float64(stats.EmptyLeaves))
	m.treeDepth.Set(float64(stats.MaxDepth))
	m.primitiveRefs.Set(float64(stats.PrimitiveRefs))
}

// Record the outcome of a single query.
func (m *Metrics) ObserveQuery(kind string, hit bool) {
	m.queries.WithLabelValues(kind).Inc()
	if hit {
		m.hits.WithLabelValues(kind).Inc()
	}
}

// Record a rendered frame.
func (m *Metrics) ObserveFrame(renderTime time.Duration, rays, hits uint64) {
	m.frameDuration.Observe(renderTime.Seconds())
	m.tracedRays.Add(float64(rays))
	m.queries.WithLabelValues(QueryNearest).Add(float64(rays))
	m.hits.WithLabelValues(QueryNearest).Add(float64(hits))
}

// Get the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Write all metrics to path in the prometheus text format. The file is
// replaced atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "metrics: could not write %q", path)
	}
	return nil
}
