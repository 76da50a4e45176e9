package nzmap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testView = View{CenterLat: -41.27, CenterLng: 173.28, Zoom: 5}

func TestRenderInteractiveChoropleth(t *testing.T) {
	doc, err := RenderInteractiveChoropleth(testFeatures(), FieldPopulation, testStyle(), testView)
	require.NoError(t, err)
	html := string(doc)

	assert.Contains(t, html, "Auckland")
	assert.Contains(t, html, "Wellington City")
	// Hover tooltip carries the value field per region.
	assert.Contains(t, html, "1,657,000")
	// The unmatched region is visible and says so, never zero-filled.
	assert.Contains(t, html, "no data")
	assert.NotContains(t, html, "Population: 0<")
	// Fills are precomputed hex colors from the shared scale.
	assert.Contains(t, html, `"color":"#`)
	// The document pulls tiles in the browser, not in this process.
	assert.Contains(t, html, "tile.openstreetmap.org")
}

func TestRenderInteractiveChoroplethAllNull(t *testing.T) {
	features, _ := Join([]TerritoryBoundary{{Name: "A", Geom: square(0, 0)}}, nil)
	doc, err := RenderInteractiveChoropleth(features, FieldPopulation, testStyle(), testView)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "no data")
}

func TestRenderInteractiveChoroplethDeterministic(t *testing.T) {
	features := testFeatures()
	a, err := RenderInteractiveChoropleth(features, FieldLogPopulation, testStyle(), testView)
	require.NoError(t, err)
	b, err := RenderInteractiveChoropleth(features, FieldLogPopulation, testStyle(), testView)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "identical inputs must produce identical documents")
}

func TestRenderCityMap(t *testing.T) {
	boundaries := []TerritoryBoundary{{Name: "Auckland", Geom: square(174, -37)}}
	cities := []City{
		{Name: "Auckland", Lat: -36.5, Lng: 174.5, Population: 1657000},
		{Name: "Wellington", Lat: -41.29, Lng: 174.78, Population: 212700},
		{Name: "Christchurch", Lat: -43.53, Lng: 172.64, Population: 381500},
	}
	heat := HeatParams{Radius: 25, Blur: 15, MaxIntensity: 1}

	doc, err := RenderCityMap(cities, NewTerritoryIndex(boundaries), testView, heat)
	require.NoError(t, err)
	html := string(doc)

	for _, c := range cities {
		assert.Contains(t, html, c.Name)
	}
	// The city inside a known territory gets the territory line.
	assert.Contains(t, html, "Territory: Auckland")
	// The largest city carries full heat weight.
	assert.Contains(t, html, "L.heatLayer")
	assert.Contains(t, html, ", 1],")
	assert.Contains(t, html, "leaflet-heat.js")
	assert.Contains(t, html, "radius: 25")
	assert.Contains(t, html, "blur: 15")
}

func TestRenderCityMapDeterministic(t *testing.T) {
	cities := testCities()
	heat := HeatParams{Radius: 25, Blur: 15, MaxIntensity: 1}
	a, err := RenderCityMap(cities, nil, testView, heat)
	require.NoError(t, err)
	b, err := RenderCityMap(cities, nil, testView, heat)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestRenderCityMapNoCities(t *testing.T) {
	_, err := RenderCityMap(nil, nil, testView, HeatParams{Radius: 25, Blur: 15, MaxIntensity: 1})
	require.Error(t, err)
}

func TestFeatureTooltip(t *testing.T) {
	features := testFeatures()
	for i := range features {
		tip := featureTooltip(&features[i], FieldPopulation)
		if features[i].Population == nil {
			assert.True(t, strings.HasSuffix(tip, "no data"), "tooltip %q", tip)
		} else {
			assert.Contains(t, tip, "Population: ")
		}
	}
}
