package nzmap

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/choropleth.html.tmpl templates/citymap.html.tmpl
var templateFS embed.FS

var interactiveTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// View is the initial camera of an interactive map.
type View struct {
	CenterLat float64 `mapstructure:"center_lat"`
	CenterLng float64 `mapstructure:"center_lng"`
	Zoom      int     `mapstructure:"zoom"`
}

// HeatParams are the fixed visual parameters of the kernel-density heat
// layer: pixel radius, blur, and the intensity treated as maximum.
type HeatParams struct {
	Radius       int     `mapstructure:"radius"`
	Blur         int     `mapstructure:"blur"`
	MaxIntensity float64 `mapstructure:"max_intensity"`
}

// numPrinter formats population counts with thousands separators for
// tooltips and popups.
var numPrinter = message.NewPrinter(language.English)

// RenderInteractiveChoropleth converts the choropleth into a pannable,
// zoomable document with a hover tooltip per region. It is a direct
// transformation of the static render: fills come from the same color
// scale, computed here and embedded per feature, so the two outputs can
// never disagree. Features without data get the missing color, a dashed
// border, and a "no data" tooltip.
func RenderInteractiveChoropleth(features []Feature, field ValueField, style MapStyle, view View) ([]byte, error) {
	vc := newValueColors(features, field)

	fc := geojson.NewFeatureCollection()
	for i := range features {
		f := geojson.NewFeature(orbFromPolygonal(features[i].Geom))
		f.Properties["name"] = features[i].Name
		f.Properties["color"] = hexColor(vc.color(&features[i], style.Missing))
		f.Properties["hasValue"] = features[i].HasValue(field)
		f.Properties["tooltip"] = featureTooltip(&features[i], field)
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("nzmap: encoding features: %w", err)
	}

	return renderTemplate("choropleth.html.tmpl", map[string]interface{}{
		"Title":    fmt.Sprintf("New Zealand - %s", field),
		"View":     view,
		"Features": template.JS(data),
	})
}

func featureTooltip(f *Feature, field ValueField) string {
	name := template.HTMLEscapeString(f.Name)
	if !f.HasValue(field) {
		return fmt.Sprintf("<b>%s</b><br>no data", name)
	}
	switch field {
	case FieldLogPopulation:
		return numPrinter.Sprintf("<b>%s</b><br>%s: %.3f", name, field, f.Value(field))
	default:
		return numPrinter.Sprintf("<b>%s</b><br>%s: %d", name, field, int64(f.Value(field)))
	}
}

// cityMarker is one marker on the interactive city map.
type cityMarker struct {
	Name   string
	Lat    float64
	Lng    float64
	Popup  string
	Weight float64
}

// RenderCityMap draws one marker per city and a kernel-density heat
// layer over a tile basemap. Each point's heat weight is its population
// relative to the most populous city. The tile images are fetched by the
// browser viewing the document, never by this process. locator may be
// nil; popups then omit the territory line.
func RenderCityMap(cities []City, locator *TerritoryIndex, view View, heat HeatParams) ([]byte, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("nzmap: no cities to render")
	}
	var maxPop int64
	for _, c := range cities {
		if c.Population > maxPop {
			maxPop = c.Population
		}
	}

	markers := make([]cityMarker, len(cities))
	for i, c := range cities {
		popup := numPrinter.Sprintf("<b>%s</b><br>Population: %d",
			template.HTMLEscapeString(c.Name), c.Population)
		if locator != nil {
			if t := locator.Locate(c.Lat, c.Lng); t != "" {
				popup += fmt.Sprintf("<br>Territory: %s", template.HTMLEscapeString(t))
			}
		}
		weight := 0.0
		if maxPop > 0 {
			weight = float64(c.Population) / float64(maxPop)
		}
		markers[i] = cityMarker{
			Name:   c.Name,
			Lat:    c.Lat,
			Lng:    c.Lng,
			Popup:  popup,
			Weight: weight,
		}
	}

	return renderTemplate("citymap.html.tmpl", map[string]interface{}{
		"Title":   "New Zealand cities",
		"View":    view,
		"Heat":    heat,
		"Markers": markers,
	})
}

func renderTemplate(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := interactiveTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("nzmap: rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
