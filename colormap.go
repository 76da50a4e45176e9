package nzmap

import (
	"fmt"
	"image/color"

	"github.com/ctessum/geom/carto"
)

// valueColors maps the non-nil values of one field across a feature set
// to colors on a single continuous scale. The same scale feeds both the
// static and the interactive choropleth, so the two outputs agree.
type valueColors struct {
	cmap  *carto.ColorMap
	field ValueField
}

// newValueColors builds the color scale from every feature that carries
// the field. It returns nil when no feature does: an all-null field has
// no scale, and callers fall back to the missing color for every region.
func newValueColors(features []Feature, field ValueField) *valueColors {
	var values []float64
	for i := range features {
		if features[i].HasValue(field) {
			values = append(values, features[i].Value(field))
		}
	}
	if len(values) == 0 {
		return nil
	}
	cmap := carto.NewColorMap(carto.Linear)
	cmap.AddArray(values)
	cmap.Set()
	return &valueColors{cmap: cmap, field: field}
}

// color returns the fill for one feature, or the missing color when the
// feature has no value. The color map only ever sees in-range values, so
// the scale is never interpolated past its bounds.
func (vc *valueColors) color(f *Feature, missing color.NRGBA) color.NRGBA {
	if vc == nil || !f.HasValue(vc.field) {
		return missing
	}
	return vc.cmap.GetColor(f.Value(vc.field))
}

// hex renders a fill as the #rrggbb form the interactive documents embed.
func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
