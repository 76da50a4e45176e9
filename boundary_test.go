package nzmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBoundariesGeoJSON(t *testing.T) {
	boundaries, err := LoadBoundaries("testdata/territories.geojson", "TA2016_NAM")
	require.NoError(t, err)
	require.Len(t, boundaries, 2)

	assert.Equal(t, "Auckland", boundaries[0].Name)
	assert.Equal(t, "Nelson", boundaries[1].Name)

	poly, ok := boundaries[0].Geom.(geom.Polygon)
	require.True(t, ok, "single-ring feature should load as a Polygon")
	require.Len(t, poly, 1)
	// Coordinates pass through untransformed.
	assert.Equal(t, geom.Point{X: 174.0, Y: -37.0}, poly[0][0])

	mp, ok := boundaries[1].Geom.(geom.MultiPolygon)
	require.True(t, ok, "multi-part feature should load as a MultiPolygon")
	assert.Len(t, mp, 2)
}

func TestLoadBoundariesMissingFile(t *testing.T) {
	_, err := LoadBoundaries(filepath.Join(t.TempDir(), "nope.geojson"), "name")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadBoundariesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.geojson")
	require.NoError(t, os.WriteFile(path, []byte("{not geojson"), 0o644))
	_, err := LoadBoundaries(path, "name")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadBoundariesNoFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644))
	_, err := LoadBoundaries(path, "name")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "no features")
}

func TestLoadBoundariesMissingNameProperty(t *testing.T) {
	_, err := LoadBoundaries("testdata/territories.geojson", "WRONG_PROP")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "WRONG_PROP")
}

func TestLoadBoundariesNonPolygonal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.geojson")
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"name":"Somewhere"},
		 "geometry":{"type":"Point","coordinates":[174.0,-37.0]}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err := LoadBoundaries(path, "name")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadBoundariesUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.gml")
	require.NoError(t, os.WriteFile(path, []byte("<gml/>"), 0o644))
	_, err := LoadBoundaries(path, "name")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "unsupported boundary format")
}

func TestOrbRoundTrip(t *testing.T) {
	boundaries, err := LoadBoundaries("testdata/territories.geojson", "TA2016_NAM")
	require.NoError(t, err)
	for _, b := range boundaries {
		back, err := polygonalFromOrb(orbFromPolygonal(b.Geom))
		require.NoError(t, err)
		assert.Equal(t, b.Geom, back, "%s geometry should survive the orb round trip", b.Name)
	}
}
