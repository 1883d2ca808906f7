// Package terrain provides the immutable elevation grid and the terracing
// transform applied before meshing.
package terrain

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/printforge/terraprint/pkg/geo"
)

// Grid is an immutable height-sample grid over a geographic bounding box.
// Row 0 is the southern edge, column 0 the western edge. Heights are in
// meters above the datum.
type Grid struct {
	samples *mat.Dense
	bounds  geo.Bounds
	rows    int
	cols    int
	minH    float64
	maxH    float64
}

// NewGrid validates raw elevation samples and wraps them in a Grid.
// It rejects grids smaller than 2x2, ragged rows, non-finite samples, and
// zero-relief terrain.
func NewGrid(samples [][]float64, bounds geo.Bounds) (*Grid, error) {
	rows := len(samples)
	cols := 0
	if rows > 0 {
		cols = len(samples[0])
	}

	if rows < 2 || cols < 2 {
		return nil, &DegenerateTerrainError{Rows: rows, Cols: cols,
			Reason: "need at least 2 rows and 2 columns"}
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	dense := mat.NewDense(rows, cols, nil)
	minH := math.Inf(1)
	maxH := math.Inf(-1)

	for r, row := range samples {
		if len(row) != cols {
			return nil, &DegenerateTerrainError{Rows: rows, Cols: cols,
				Reason: "ragged sample rows"}
		}
		for c, h := range row {
			if math.IsNaN(h) || math.IsInf(h, 0) {
				return nil, &DegenerateTerrainError{Rows: rows, Cols: cols,
					Reason: "non-finite elevation sample"}
			}
			dense.Set(r, c, h)
			if h < minH {
				minH = h
			}
			if h > maxH {
				maxH = h
			}
		}
	}

	if maxH == minH {
		return nil, &DegenerateTerrainError{Rows: rows, Cols: cols,
			Reason: "terrain has no vertical relief"}
	}

	return &Grid{
		samples: dense,
		bounds:  bounds,
		rows:    rows,
		cols:    cols,
		minH:    minH,
		maxH:    maxH,
	}, nil
}

// Rows returns the number of sample rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of sample columns.
func (g *Grid) Cols() int { return g.cols }

// Bounds returns the geographic extent of the grid.
func (g *Grid) Bounds() geo.Bounds { return g.bounds }

// MinHeight returns the lowest sample in meters.
func (g *Grid) MinHeight() float64 { return g.minH }

// MaxHeight returns the highest sample in meters.
func (g *Grid) MaxHeight() float64 { return g.maxH }

// At returns the height sample at (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.samples.At(row, col)
}

// HeightAt returns the bilinearly interpolated height at a normalized
// position. u runs west to east, v south to north, both in [0, 1] and
// clamped outside that range.
func (g *Grid) HeightAt(u, v float64) float64 {
	u = clamp(u, 0, 1)
	v = clamp(v, 0, 1)

	fc := u * float64(g.cols-1)
	fr := v * float64(g.rows-1)

	c := int(fc)
	r := int(fr)
	if c >= g.cols-1 {
		c = g.cols - 2
	}
	if r >= g.rows-1 {
		r = g.rows - 2
	}

	fracC := fc - float64(c)
	fracR := fr - float64(r)

	south := g.samples.At(r, c)*(1-fracC) + g.samples.At(r, c+1)*fracC
	north := g.samples.At(r+1, c)*(1-fracC) + g.samples.At(r+1, c+1)*fracC

	return south*(1-fracR) + north*fracR
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
