// Copyright ©2026 The nzmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nzmap

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// MapStyle carries the fixed visual parameters of the static maps.
type MapStyle struct {
	// Width and Height are the figure dimensions.
	Width, Height vg.Length

	// DPI is the raster resolution.
	DPI int

	// LegendHeight is the strip reserved for the color-scale legend.
	LegendHeight vg.Length

	// Stroke is the polygon border style.
	Stroke draw.LineStyle

	// Missing fills features that carry no value for the mapped field.
	Missing color.NRGBA

	// MarkerRadius is the glyph radius of the most populous city on the
	// marker map; other cities scale by the square root of population.
	MarkerRadius vg.Length
}

// RenderChoropleth draws each feature filled by a continuous color scale
// over the selected value field, bordered by the style's stroke, with a
// legend strip along the bottom and no coordinate axes. Features without
// a value are filled with the missing color; an input where every feature
// is missing renders entirely in that color, without a legend.
// The render is pure: it returns an in-memory canvas and writes nothing.
func RenderChoropleth(features []Feature, field ValueField, style MapStyle) (*vgimg.Canvas, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("nzmap: no features to render")
	}
	vc := newValueColors(features, field)

	img := vgimg.NewWith(vgimg.UseWH(style.Width, style.Height), vgimg.UseDPI(style.DPI))
	dc := draw.New(img)
	legendc := draw.Crop(dc, 0, 0, 0, style.LegendHeight-dc.Max.Y+dc.Min.Y)
	dc = draw.Crop(dc, 0, 0, style.LegendHeight, 0)

	b := featureBounds(features)
	m := carto.NewCanvas(b.Max.Y, b.Min.Y, b.Max.X, b.Min.X, dc)
	ls := style.Stroke
	for i := range features {
		fill := vc.color(&features[i], style.Missing)
		if err := m.DrawVector(features[i].Geom, fill, ls, draw.GlyphStyle{}); err != nil {
			return nil, fmt.Errorf("nzmap: drawing %s: %w", features[i].Name, err)
		}
	}
	if vc != nil {
		vc.cmap.Legend(&legendc, field.String())
	}
	return img, nil
}

// RenderOutline draws an unfilled black-on-white boundary map: every
// territory border in the style's stroke, with the dissolved coastline
// drawn heavier as the outer frame.
func RenderOutline(features []Feature, style MapStyle) (*vgimg.Canvas, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("nzmap: no features to render")
	}
	img := vgimg.NewWith(vgimg.UseWH(style.Width, style.Height), vgimg.UseDPI(style.DPI))
	dc := draw.New(img)

	b := featureBounds(features)
	m := carto.NewCanvas(b.Max.Y, b.Min.Y, b.Max.X, b.Min.X, dc)

	ls := style.Stroke
	ls.Color = color.Black
	for i := range features {
		if err := m.DrawVector(features[i].Geom, color.NRGBA{}, ls, draw.GlyphStyle{}); err != nil {
			return nil, fmt.Errorf("nzmap: drawing %s: %w", features[i].Name, err)
		}
	}

	coast := ls
	coast.Width = ls.Width * 2
	polys := make([]geom.Polygonal, len(features))
	for i := range features {
		polys[i] = features[i].Geom
	}
	if err := m.DrawVector(Outline(outlineTolerance(b), polys...), color.NRGBA{}, coast, draw.GlyphStyle{}); err != nil {
		return nil, fmt.Errorf("nzmap: drawing coastline: %w", err)
	}
	return img, nil
}

// RenderMarkers draws the boundary outline with one circle glyph per
// city, sized by the square root of population so marker area tracks
// population count.
func RenderMarkers(features []Feature, cities []City, style MapStyle) (*vgimg.Canvas, error) {
	img, err := RenderOutline(features, style)
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return img, nil
	}
	dc := draw.New(img)
	b := featureBounds(features)
	m := carto.NewCanvas(b.Max.Y, b.Min.Y, b.Max.X, b.Min.X, dc)

	var maxPop int64
	for _, c := range cities {
		if c.Population > maxPop {
			maxPop = c.Population
		}
	}
	for _, c := range cities {
		gs := draw.GlyphStyle{
			Color:  color.NRGBA{R: 214, G: 39, B: 40, A: 255},
			Radius: style.MarkerRadius * vg.Length(math.Sqrt(float64(c.Population)/float64(maxPop))),
			Shape:  draw.CircleGlyph{},
		}
		if err := m.DrawVector(c.Point(), color.NRGBA{}, draw.LineStyle{}, gs); err != nil {
			return nil, fmt.Errorf("nzmap: drawing city %s: %w", c.Name, err)
		}
	}
	return img, nil
}

// featureBounds is the bounding box of every feature geometry.
func featureBounds(features []Feature) *geom.Bounds {
	b := geom.NewBounds()
	for i := range features {
		b.Extend(features[i].Geom.Bounds())
	}
	return b
}

// outlineTolerance derives the point-merge tolerance for the coastline
// dissolve from the map extent, so adjacent territories digitized at
// slightly different precision still share edges.
func outlineTolerance(b *geom.Bounds) float64 {
	return math.Max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y) * 1e-6
}
