package nzmap

import (
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
)

// TerritoryIndex answers point-in-territory queries. The interactive city
// map uses it to annotate each marker with its containing territory.
type TerritoryIndex struct {
	index *rtree.Rtree
}

type indexedTerritory struct {
	name string
	geom geom.Polygonal
}

func (t *indexedTerritory) Bounds() *geom.Bounds { return t.geom.Bounds() }

// The remaining geom.Geom methods forward to the wrapped polygon so the
// r-tree will accept the wrapper.
func (t *indexedTerritory) Similar(g geom.Geom, tol float64) bool { return t.geom.Similar(g, tol) }
func (t *indexedTerritory) Transform(tr proj.Transformer) (geom.Geom, error) {
	return t.geom.Transform(tr)
}
func (t *indexedTerritory) Len() int                  { return t.geom.Len() }
func (t *indexedTerritory) Points() func() geom.Point { return t.geom.Points() }

// NewTerritoryIndex builds an r-tree over the boundary bounding boxes.
func NewTerritoryIndex(boundaries []TerritoryBoundary) *TerritoryIndex {
	index := rtree.NewTree(25, 50)
	for _, b := range boundaries {
		index.Insert(&indexedTerritory{name: b.Name, geom: b.Geom})
	}
	return &TerritoryIndex{index: index}
}

// Locate returns the name of the territory containing the point, or ""
// when no territory does. Candidates come from the r-tree; containment
// is confirmed against the actual polygon, points on an edge included.
func (ti *TerritoryIndex) Locate(lat, lng float64) string {
	p := geom.Point{X: lng, Y: lat}
	for _, s := range ti.index.SearchIntersect(p.Bounds()) {
		t := s.(*indexedTerritory)
		if p.Within(t.geom) != geom.Outside {
			return t.name
		}
	}
	return ""
}
