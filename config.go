package nzmap

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Config is the externalized configuration of the pipeline: input paths,
// table schema, output names, the city list, and every visual constant.
// All fields have defaults, so the tool runs with no config file at all.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	BoundaryFile         string `mapstructure:"boundary_file"`
	BoundaryNameProperty string `mapstructure:"boundary_name_property"`

	PopulationFile    string           `mapstructure:"population_file"`
	PopulationColumns PopulationSchema `mapstructure:"population_columns"`

	OutputDir string        `mapstructure:"output_dir"`
	Outputs   OutputConfig  `mapstructure:"outputs"`
	Map       MapConfig     `mapstructure:"map"`
	View      View          `mapstructure:"view"`
	Heat      HeatParams    `mapstructure:"heat"`
	Density   DensityParams `mapstructure:"density"`

	// Cities is the hand-authored city list for the marker, density and
	// heat maps. It is independent of the boundary/population join.
	Cities []City `mapstructure:"cities"`
}

// OutputConfig names the artifacts, relative to OutputDir.
type OutputConfig struct {
	Outline               string `mapstructure:"outline"`
	Markers               string `mapstructure:"markers"`
	Density               string `mapstructure:"density"`
	Choropleth            string `mapstructure:"choropleth"`
	ChoroplethLog         string `mapstructure:"choropleth_log"`
	InteractiveChoropleth string `mapstructure:"interactive_choropleth"`
	CityMap               string `mapstructure:"city_map"`
}

// MapConfig holds the static-map visual constants in config-file units
// (centimeters, millimeters, hex colors). Style converts them.
type MapConfig struct {
	WidthCm        float64 `mapstructure:"width_cm"`
	HeightCm       float64 `mapstructure:"height_cm"`
	DPI            int     `mapstructure:"dpi"`
	LegendHeightCm float64 `mapstructure:"legend_height_cm"`
	StrokeWidthMm  float64 `mapstructure:"stroke_width_mm"`
	StrokeColor    string  `mapstructure:"stroke_color"`
	MissingColor   string  `mapstructure:"missing_color"`
	MarkerRadiusMm float64 `mapstructure:"marker_radius_mm"`
}

// LoadConfig reads configuration from the given YAML file (optional: ""
// means defaults plus environment only) and NZMAP_* environment
// variables, validates it, and returns it.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, &LoadError{Path: file, Err: err}
		}
	}

	v.SetEnvPrefix("nzmap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &LoadError{Path: file, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("boundary_file", "data/territorial_authorities.geojson")
	v.SetDefault("boundary_name_property", "TA2016_NAM")

	v.SetDefault("population_file", "data/population.csv")
	v.SetDefault("population_columns.territory", "Territorial authority")
	v.SetDefault("population_columns.year", "Year")
	v.SetDefault("population_columns.population", "Population")
	v.SetDefault("population_columns.change_count", "Change (number)")
	v.SetDefault("population_columns.change_percent", "Change (percent)")

	v.SetDefault("output_dir", "out")
	v.SetDefault("outputs.outline", "boundaries.png")
	v.SetDefault("outputs.markers", "city_markers.png")
	v.SetDefault("outputs.density", "city_density.png")
	v.SetDefault("outputs.choropleth", "population.png")
	v.SetDefault("outputs.choropleth_log", "population_log.png")
	v.SetDefault("outputs.interactive_choropleth", "population.html")
	v.SetDefault("outputs.city_map", "cities.html")

	v.SetDefault("map.width_cm", 16.0)
	v.SetDefault("map.height_cm", 20.0)
	v.SetDefault("map.dpi", 300)
	v.SetDefault("map.legend_height_cm", 0.9)
	v.SetDefault("map.stroke_width_mm", 0.1)
	v.SetDefault("map.stroke_color", "#333333")
	v.SetDefault("map.missing_color", "#c8c8c8")
	v.SetDefault("map.marker_radius_mm", 3.0)

	v.SetDefault("view.center_lat", -41.27)
	v.SetDefault("view.center_lng", 173.28)
	v.SetDefault("view.zoom", 5)

	v.SetDefault("heat.radius", 25)
	v.SetDefault("heat.blur", 15)
	v.SetDefault("heat.max_intensity", 1.0)

	v.SetDefault("density.rows", 160)
	v.SetDefault("density.cols", 120)
	v.SetDefault("density.radius", 0.35)

	v.SetDefault("cities", []map[string]interface{}{
		{"name": "Auckland", "lat": -36.8485, "lng": 174.7633, "population": 1657000},
		{"name": "Wellington", "lat": -41.2866, "lng": 174.7756, "population": 212700},
		{"name": "Christchurch", "lat": -43.5321, "lng": 172.6362, "population": 381500},
	})
}

// Validate rejects configurations that cannot produce output. It runs at
// startup so a bad value fails before any file is read.
func (c *Config) Validate() error {
	switch {
	case c.BoundaryFile == "":
		return fmt.Errorf("nzmap: config: boundary_file is empty")
	case c.BoundaryNameProperty == "":
		return fmt.Errorf("nzmap: config: boundary_name_property is empty")
	case c.PopulationFile == "":
		return fmt.Errorf("nzmap: config: population_file is empty")
	case c.OutputDir == "":
		return fmt.Errorf("nzmap: config: output_dir is empty")
	case c.Map.WidthCm <= 0 || c.Map.HeightCm <= 0:
		return fmt.Errorf("nzmap: config: map dimensions must be positive, have %gx%g cm",
			c.Map.WidthCm, c.Map.HeightCm)
	case c.Map.DPI <= 0:
		return fmt.Errorf("nzmap: config: map.dpi must be positive, have %d", c.Map.DPI)
	case c.View.Zoom < 0 || c.View.Zoom > 19:
		return fmt.Errorf("nzmap: config: view.zoom %d outside 0-19", c.View.Zoom)
	case c.Density.Rows < 2 || c.Density.Cols < 2:
		return fmt.Errorf("nzmap: config: density grid must be at least 2x2, have %dx%d",
			c.Density.Rows, c.Density.Cols)
	case c.Density.Radius <= 0:
		return fmt.Errorf("nzmap: config: density.radius must be positive, have %g", c.Density.Radius)
	case c.Heat.Radius <= 0 || c.Heat.Blur <= 0 || c.Heat.MaxIntensity <= 0:
		return fmt.Errorf("nzmap: config: heat parameters must be positive")
	}
	for _, col := range c.PopulationColumns.columns() {
		if col == "" {
			return fmt.Errorf("nzmap: config: population_columns fields must all be named")
		}
	}
	if _, err := c.Style(); err != nil {
		return err
	}
	return nil
}

// Style converts the map configuration into renderer units.
func (c *Config) Style() (MapStyle, error) {
	stroke, err := parseHexColor(c.Map.StrokeColor)
	if err != nil {
		return MapStyle{}, fmt.Errorf("nzmap: config: map.stroke_color: %w", err)
	}
	missing, err := parseHexColor(c.Map.MissingColor)
	if err != nil {
		return MapStyle{}, fmt.Errorf("nzmap: config: map.missing_color: %w", err)
	}
	return MapStyle{
		Width:        vg.Length(c.Map.WidthCm) * vg.Centimeter,
		Height:       vg.Length(c.Map.HeightCm) * vg.Centimeter,
		DPI:          c.Map.DPI,
		LegendHeight: vg.Length(c.Map.LegendHeightCm) * vg.Centimeter,
		Stroke: draw.LineStyle{
			Width: vg.Length(c.Map.StrokeWidthMm) * vg.Millimeter,
			Color: stroke,
		},
		Missing:      missing,
		MarkerRadius: vg.Length(c.Map.MarkerRadiusMm) * vg.Millimeter,
	}, nil
}

func parseHexColor(s string) (color.NRGBA, error) {
	var r, g, b uint8
	if len(s) != 7 {
		return color.NRGBA{}, fmt.Errorf("%q is not a #rrggbb color", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("%q is not a #rrggbb color", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
