package cmd

import (
	"github.com/achilleasa/kdaccel/metrics"
	"github.com/achilleasa/kdaccel/types"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Cast a ray through the scene and report the nearest hit.
func TraceRay(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	origin, err := parseVec3("origin", ctx.String("origin"))
	if err != nil {
		return err
	}
	dir, err := parseVec3("dir", ctx.String("dir"))
	if err != nil {
		return err
	}
	if dir.Len() == 0 {
		return errors.New("--dir: ray direction must not be zero")
	}

	sc, m, err := loadScene(ctx, cfg)
	if err != nil {
		return err
	}

	ray := types.NewRay(origin, dir)
	ray.TMin = float32(ctx.Float64("tmin"))
	if ctx.IsSet("tmax") {
		ray.TMax = float32(ctx.Float64("tmax"))
	}

	hitsBound := sc.Tree.HitBound(ray)
	m.ObserveQuery(metrics.QueryHitBound, hitsBound)

	hit, ok := sc.Tree.Nearest(ray)
	m.ObserveQuery(metrics.QueryNearest, ok)
	switch {
	case ok:
		logger.Noticef(
			"ray %v hit primitive %d (%T) at t=%.4f; position %v, normal %v, uv %v",
			ray, hit.Primitive, hit.Shape, hit.T, hit.Position, hit.Normal, hit.UV,
		)
	case hitsBound:
		logger.Noticef("ray %v enters the tree bound %v but misses every primitive", ray, sc.Tree.Bound())
	default:
		logger.Noticef("ray %v misses the tree bound %v", ray, sc.Tree.Bound())
	}

	return writeMetrics(cfg, m)
}

// Test a box for overlap with the leaf primitives or a point for containment
// in a leaf cell.
func Probe(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	boxQuery := ctx.IsSet("min") || ctx.IsSet("max")
	pointQuery := ctx.IsSet("point")
	if boxQuery == pointQuery {
		return errors.New("specify either a box (--min and --max) or a point (--point)")
	}

	var query types.Bound
	var point types.Vec3
	if boxQuery {
		min, err := parseVec3("min", ctx.String("min"))
		if err != nil {
			return err
		}
		max, err := parseVec3("max", ctx.String("max"))
		if err != nil {
			return err
		}
		query = types.BoundFromPoints(min, max)
	} else {
		if point, err = parseVec3("point", ctx.String("point")); err != nil {
			return err
		}
	}

	sc, m, err := loadScene(ctx, cfg)
	if err != nil {
		return err
	}

	if boxQuery {
		overlaps := sc.Tree.Overlaps(query)
		m.ObserveQuery(metrics.QueryOverlaps, overlaps)
		logger.Noticef("box %v overlaps a leaf primitive: %t", query, overlaps)
	} else {
		contained := sc.Tree.ContainsLeaf(point)
		m.ObserveQuery(metrics.QueryContainLeaf, contained)
		logger.Noticef("point %v lies in a leaf cell: %t", point, contained)
	}

	return writeMetrics(cfg, m)
}
