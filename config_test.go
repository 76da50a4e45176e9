package nzmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "data/territorial_authorities.geojson", cfg.BoundaryFile)
	assert.Equal(t, "TA2016_NAM", cfg.BoundaryNameProperty)
	assert.Equal(t, "Territorial authority", cfg.PopulationColumns.Territory)
	assert.Equal(t, 300, cfg.Map.DPI)
	assert.Equal(t, 5, cfg.View.Zoom)
	assert.Equal(t, HeatParams{Radius: 25, Blur: 15, MaxIntensity: 1}, cfg.Heat)

	require.Len(t, cfg.Cities, 3)
	assert.Equal(t, "Auckland", cfg.Cities[0].Name)
	assert.Equal(t, int64(1657000), cfg.Cities[0].Population)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nzmap.yaml")
	doc := `
boundary_file: boundaries/ta.shp
output_dir: /tmp/maps
map:
  dpi: 150
cities:
  - name: Dunedin
    lat: -45.8788
    lng: 170.5028
    population: 126255
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "boundaries/ta.shp", cfg.BoundaryFile)
	assert.Equal(t, "/tmp/maps", cfg.OutputDir)
	assert.Equal(t, 150, cfg.Map.DPI)
	// Unset keys keep their defaults.
	assert.Equal(t, "data/population.csv", cfg.PopulationFile)
	require.Len(t, cfg.Cities, 1)
	assert.Equal(t, "Dunedin", cfg.Cities[0].Name)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name    string
		corrupt func(*Config)
	}{
		{"empty boundary file", func(c *Config) { c.BoundaryFile = "" }},
		{"empty name property", func(c *Config) { c.BoundaryNameProperty = "" }},
		{"empty population file", func(c *Config) { c.PopulationFile = "" }},
		{"zero dpi", func(c *Config) { c.Map.DPI = 0 }},
		{"negative width", func(c *Config) { c.Map.WidthCm = -1 }},
		{"zoom out of range", func(c *Config) { c.View.Zoom = 25 }},
		{"density grid too small", func(c *Config) { c.Density.Rows = 1 }},
		{"density radius", func(c *Config) { c.Density.Radius = 0 }},
		{"heat params", func(c *Config) { c.Heat.Blur = 0 }},
		{"unnamed column", func(c *Config) { c.PopulationColumns.Year = "" }},
		{"bad stroke color", func(c *Config) { c.Map.StrokeColor = "red" }},
		{"bad missing color", func(c *Config) { c.Map.MissingColor = "#12" }},
	}
	for _, c := range cases {
		cfg := valid()
		c.corrupt(cfg)
		assert.Error(t, cfg.Validate(), c.name)
	}
}

func TestConfigStyle(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	style, err := cfg.Style()
	require.NoError(t, err)

	assert.Equal(t, 16*vg.Centimeter, style.Width)
	assert.Equal(t, 300, style.DPI)
	assert.Equal(t, uint8(200), style.Missing.R)
	assert.Equal(t, uint8(255), style.Missing.A)
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#1a2b3c")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x1a), c.R)
	assert.Equal(t, uint8(0x2b), c.G)
	assert.Equal(t, uint8(0x3c), c.B)

	for _, bad := range []string{"", "red", "#12345", "1a2b3c"} {
		_, err := parseHexColor(bad)
		assert.Error(t, err, bad)
	}
}
