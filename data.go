// Copyright ©2026 The nzmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nzmap

import (
	"math"

	"github.com/ctessum/geom"
)

// TerritoryBoundary is a named polygon feature read from a boundary file.
// The geometry is kept in the coordinate system of the source file.
type TerritoryBoundary struct {
	Name string
	Geom geom.Polygonal
}

// PopulationRecord is one row of a population table. ChangeCount and
// ChangePercent are nil when the source cell is empty or a placeholder.
type PopulationRecord struct {
	Territory     string
	Year          int
	Population    int64
	ChangeCount   *int64
	ChangePercent *float64
}

// Feature is a territory boundary joined to its population record.
// Population and LogPopulation are nil when no record matched the
// territory name; they are never zero-filled.
type Feature struct {
	Name          string
	Geom          geom.Polygonal
	Population    *int64
	LogPopulation *float64
}

// HasValue reports whether the feature carries the given value field.
func (f *Feature) HasValue(field ValueField) bool {
	switch field {
	case FieldPopulation:
		return f.Population != nil
	case FieldLogPopulation:
		return f.LogPopulation != nil
	}
	return false
}

// Value returns the selected value field. It panics if the field is
// absent; callers check HasValue first.
func (f *Feature) Value(field ValueField) float64 {
	switch field {
	case FieldPopulation:
		return float64(*f.Population)
	case FieldLogPopulation:
		return *f.LogPopulation
	}
	panic("nzmap: unknown value field")
}

// ValueField selects which attribute of a Feature a renderer maps to color.
type ValueField int

const (
	// FieldPopulation is the raw population count.
	FieldPopulation ValueField = iota

	// FieldLogPopulation is ln(1+population). The log scale compresses
	// the Auckland-sized outliers so smaller districts stay visible.
	FieldLogPopulation
)

// String returns the label used in legends and tooltips.
func (v ValueField) String() string {
	switch v {
	case FieldPopulation:
		return "Population"
	case FieldLogPopulation:
		return "Log population"
	}
	return "unknown"
}

// City is a point observation used by the marker and density maps.
// It is configuration input, independent of the boundary/population join.
type City struct {
	Name       string  `mapstructure:"name"`
	Lat        float64 `mapstructure:"lat"`
	Lng        float64 `mapstructure:"lng"`
	Population int64   `mapstructure:"population"`
}

// Point returns the city location as a geometry point in lng/lat order,
// matching the axis order of the boundary geometries.
func (c City) Point() geom.Point {
	return geom.Point{X: c.Lng, Y: c.Lat}
}

// logPopulation is the derived field attached to joined features:
// ln(1+v), defined at v = 0 and non-negative for all v >= 0.
func logPopulation(population int64) float64 {
	return math.Log1p(float64(population))
}
