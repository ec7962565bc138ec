package kdtree

// A primitive bound start or end position along the swept axis.
type boundEdge struct {
	t     float32
	prim  int
	start bool
}

// Edges are ordered by position. At equal positions start edges come before
// end edges and remaining ties are ordered by primitive index. This keeps each
// primitive's start edge ahead of its end edge even for primitives that are
// flat along the swept axis, so every split index assigns each primitive to at
// least one side. As a side effect a primitive whose max lies exactly on a
// split taken at a start edge is also listed above the plane it only touches,
// which adds primitive references on grid aligned scenes.
type edgeList []boundEdge

func (e edgeList) Len() int      { return len(e) }
func (e edgeList) Swap(i, j int) { e[i], e[j] = e[j], e[i] }
func (e edgeList) Less(i, j int) bool {
	if e[i].t != e[j].t {
		return e[i].t < e[j].t
	}
	if e[i].start != e[j].start {
		return e[i].start
	}
	return e[i].prim < e[j].prim
}
