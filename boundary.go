package nzmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadBoundaries reads named polygon features from a boundary file into
// an ordered slice of TerritoryBoundary. The format is chosen by file
// extension: GeoJSON (.geojson, .json) or ESRI shapefile (.shp).
// nameProperty is the feature property (or DBF column) holding the
// territory name. Geometry is passed through untransformed.
func LoadBoundaries(path, nameProperty string) ([]TerritoryBoundary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return loadGeoJSONBoundaries(path, nameProperty)
	case ".shp":
		return loadShapefileBoundaries(path, nameProperty)
	}
	return nil, &LoadError{
		Path: path,
		Err:  fmt.Errorf("unsupported boundary format %q", filepath.Ext(path)),
	}
}

func loadGeoJSONBoundaries(path, nameProperty string) ([]TerritoryBoundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(fc.Features) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no features")}
	}

	boundaries := make([]TerritoryBoundary, 0, len(fc.Features))
	for i, f := range fc.Features {
		name, ok := f.Properties[nameProperty].(string)
		if !ok {
			return nil, &LoadError{
				Path: path,
				Err:  fmt.Errorf("feature %d: property %q is not a string", i, nameProperty),
			}
		}
		g, err := polygonalFromOrb(f.Geometry)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("feature %d (%s): %w", i, name, err)}
		}
		boundaries = append(boundaries, TerritoryBoundary{Name: name, Geom: g})
	}
	return boundaries, nil
}

func loadShapefileBoundaries(path, nameProperty string) ([]TerritoryBoundary, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer d.Close()

	var boundaries []TerritoryBoundary
	for {
		g, fields, more := d.DecodeRowFields(nameProperty)
		if !more {
			break
		}
		p, ok := g.(geom.Polygonal)
		if !ok {
			return nil, &LoadError{
				Path: path,
				Err:  fmt.Errorf("row %d: geometry is %T, not polygonal", len(boundaries), g),
			}
		}
		boundaries = append(boundaries, TerritoryBoundary{
			Name: strings.TrimSpace(fields[nameProperty]),
			Geom: p,
		})
	}
	if err := d.Error(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(boundaries) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no features")}
	}
	return boundaries, nil
}

// polygonalFromOrb copies GeoJSON polygon coordinates into geometry
// types the renderers draw directly.
func polygonalFromOrb(g orb.Geometry) (geom.Polygonal, error) {
	switch t := g.(type) {
	case orb.Polygon:
		return polygonFromOrb(t), nil
	case orb.MultiPolygon:
		mp := make(geom.MultiPolygon, len(t))
		for i, p := range t {
			mp[i] = polygonFromOrb(p)
		}
		return mp, nil
	}
	return nil, fmt.Errorf("geometry is %T, not Polygon or MultiPolygon", g)
}

func polygonFromOrb(p orb.Polygon) geom.Polygon {
	out := make(geom.Polygon, len(p))
	for i, ring := range p {
		out[i] = make([]geom.Point, len(ring))
		for j, pt := range ring {
			out[i][j] = geom.Point{X: pt[0], Y: pt[1]}
		}
	}
	return out
}

// orbFromPolygonal is the reverse conversion, used when embedding
// geometry into the interactive documents.
func orbFromPolygonal(g geom.Polygonal) orb.Geometry {
	polys := g.Polygons()
	if len(polys) == 1 {
		return orbFromPolygon(polys[0])
	}
	mp := make(orb.MultiPolygon, len(polys))
	for i, p := range polys {
		mp[i] = orbFromPolygon(p)
	}
	return mp
}

func orbFromPolygon(p geom.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, ring := range p {
		out[i] = make(orb.Ring, len(ring))
		for j, pt := range ring {
			out[i][j] = orb.Point{pt.X, pt.Y}
		}
	}
	return out
}
