package nzmap

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DensityParams are the fixed visual parameters of the density surface.
type DensityParams struct {
	// Rows and Cols are the grid resolution.
	Rows, Cols int `mapstructure:"rows"`

	// Radius is the Gaussian kernel standard deviation, in the
	// coordinate units of the map (degrees for geographic input).
	Radius float64 `mapstructure:"radius"`
}

// DensityGrid is a regular grid of population density over a bounding
// box, where each city contributes a Gaussian kernel weighted by its
// population. Values are normalized so the densest cell is 1.
type DensityGrid struct {
	dens       *mat.Dense
	rows, cols int
	b          *geom.Bounds
	dx, dy     float64
}

// NewDensityGrid evaluates the kernels of the given cities on a
// rows×cols grid covering b. Deterministic: same cities and bounds
// always produce the same grid.
func NewDensityGrid(cities []City, b *geom.Bounds, p DensityParams) (*DensityGrid, error) {
	if p.Rows < 2 || p.Cols < 2 {
		return nil, fmt.Errorf("nzmap: density grid needs at least 2x2 cells, have %dx%d", p.Rows, p.Cols)
	}
	if p.Radius <= 0 {
		return nil, fmt.Errorf("nzmap: density kernel radius must be positive, have %g", p.Radius)
	}
	g := &DensityGrid{
		dens: mat.NewDense(p.Rows, p.Cols, nil),
		rows: p.Rows,
		cols: p.Cols,
		b:    b,
		dx:   (b.Max.X - b.Min.X) / float64(p.Cols),
		dy:   (b.Max.Y - b.Min.Y) / float64(p.Rows),
	}
	twoSigmaSq := 2 * p.Radius * p.Radius
	for row := 0; row < p.Rows; row++ {
		y := g.Y(row) + g.dy/2
		for col := 0; col < p.Cols; col++ {
			x := g.X(col) + g.dx/2
			var v float64
			for _, c := range cities {
				d2 := (x-c.Lng)*(x-c.Lng) + (y-c.Lat)*(y-c.Lat)
				v += float64(c.Population) * math.Exp(-d2/twoSigmaSq)
			}
			g.dens.Set(row, col, v)
		}
	}
	if max := mat.Max(g.dens); max > 0 {
		g.dens.Scale(1/max, g.dens)
	}
	return g, nil
}

func (g *DensityGrid) Dims() (cols, rows int) { return g.cols, g.rows }
func (g *DensityGrid) Z(col, row int) float64 { return g.dens.At(row, col) }
func (g *DensityGrid) X(col int) float64      { return g.b.Min.X + float64(col)*g.dx }
func (g *DensityGrid) Y(row int) float64      { return g.b.Min.Y + float64(row)*g.dy }

// cell returns the rectangle of grid cell (col, row).
func (g *DensityGrid) cell(col, row int) geom.Polygon {
	x0, y0 := g.X(col), g.Y(row)
	x1, y1 := x0+g.dx, y0+g.dy
	return geom.Polygon{{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}}
}

// RenderDensity draws the city density surface over the extent of the
// given features, with the dissolved coastline on top for orientation.
func RenderDensity(cities []City, features []Feature, p DensityParams, style MapStyle) (*vgimg.Canvas, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("nzmap: no features to render")
	}
	b := featureBounds(features)
	grid, err := NewDensityGrid(cities, b, p)
	if err != nil {
		return nil, err
	}

	cmap := carto.NewColorMap(carto.Linear)
	values := make([]float64, 0, p.Rows*p.Cols)
	for row := 0; row < p.Rows; row++ {
		for col := 0; col < p.Cols; col++ {
			values = append(values, grid.Z(col, row))
		}
	}
	cmap.AddArray(values)
	cmap.Set()

	img := vgimg.NewWith(vgimg.UseWH(style.Width, style.Height), vgimg.UseDPI(style.DPI))
	dc := draw.New(img)
	m := carto.NewCanvas(b.Max.Y, b.Min.Y, b.Max.X, b.Min.X, dc)
	for row := 0; row < p.Rows; row++ {
		for col := 0; col < p.Cols; col++ {
			fill := cmap.GetColor(grid.Z(col, row))
			if err := m.DrawVector(grid.cell(col, row), fill, draw.LineStyle{}, draw.GlyphStyle{}); err != nil {
				return nil, fmt.Errorf("nzmap: drawing density cell (%d,%d): %w", col, row, err)
			}
		}
	}

	coast := style.Stroke
	coast.Color = color.Black
	polys := make([]geom.Polygonal, len(features))
	for i := range features {
		polys[i] = features[i].Geom
	}
	if err := m.DrawVector(Outline(outlineTolerance(b), polys...), color.NRGBA{}, coast, draw.GlyphStyle{}); err != nil {
		return nil, fmt.Errorf("nzmap: drawing coastline: %w", err)
	}
	return img, nil
}
