// Copyright ©2026 The nzmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nzmap

import (
	"math"

	"github.com/ctessum/geom"
)

// Outline dissolves the shared edges between adjacent territory polygons
// and returns the combined outer ring(s) — for New Zealand, the
// coastline. tolerance is the distance below which two points are merged;
// it absorbs digitization noise along shared borders.
//
// The dissolve works on an edge graph: every polygon edge is inserted,
// and an edge inserted twice (once per neighboring territory, in opposite
// directions) cancels. What survives is the boundary no two territories
// share.
func Outline(tolerance float64, polys ...geom.Polygonal) geom.Polygon {
	g := edgeGraph{
		edges:     make(map[geom.Point]map[geom.Point]struct{}),
		tolerance: tolerance,
	}
	for _, poly := range polys {
		for _, p := range poly.Polygons() {
			for _, r := range p {
				for i := 0; i < len(r)-1; i++ {
					g.add(r[i], r[i+1])
				}
				if len(r) > 0 && r[0] != r[len(r)-1] {
					// close the ring
					g.add(r[len(r)-1], r[0])
				}
			}
		}
	}
	return g.rings()
}

// edgeGraph holds directed polygon edges, start point to end point.
type edgeGraph struct {
	edges     map[geom.Point]map[geom.Point]struct{}
	tolerance float64
}

// add inserts the edge from a to b, first snapping both endpoints to any
// existing graph point within tolerance. An edge whose reverse (or
// duplicate) is already present cancels: both copies are removed.
func (g *edgeGraph) add(a, b geom.Point) {
	a, b = g.snap(a), g.snap(b)
	if a.Equals(b) {
		return
	}
	if _, ok := g.edges[b][a]; ok {
		g.remove(b, a)
		return
	}
	if _, ok := g.edges[a][b]; ok {
		g.remove(a, b)
		return
	}
	if g.edges[a] == nil {
		g.edges[a] = make(map[geom.Point]struct{})
	}
	g.edges[a][b] = struct{}{}
}

func (g *edgeGraph) remove(a, b geom.Point) {
	delete(g.edges[a], b)
	if len(g.edges[a]) == 0 {
		delete(g.edges, a)
	}
}

// snap replaces p with an existing graph point within tolerance, if any.
func (g *edgeGraph) snap(p geom.Point) geom.Point {
	for a, ends := range g.edges {
		if math.Hypot(a.X-p.X, a.Y-p.Y) < g.tolerance {
			return a
		}
		for b := range ends {
			if math.Hypot(b.X-p.X, b.Y-p.Y) < g.tolerance {
				return b
			}
		}
	}
	return p
}

// rings walks the surviving edges into closed rings, consuming the graph.
func (g *edgeGraph) rings() geom.Polygon {
	var out geom.Polygon
	for len(g.edges) > 0 {
		if r := g.ring(); len(r) > 0 {
			out = append(out, r)
		}
	}
	return out
}

func (g *edgeGraph) ring() []geom.Point {
	var start geom.Point
	for start = range g.edges {
		break
	}
	r := []geom.Point{start}
	p := start
	for {
		var next geom.Point
		found := false
		for next = range g.edges[p] {
			found = true
			break
		}
		if !found {
			// Dangling edge chain; drop it rather than loop forever.
			return nil
		}
		g.remove(p, next)
		r = append(r, next)
		p = next
		if p == start {
			return r
		}
	}
}
