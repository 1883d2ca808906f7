package terrain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultBedMarginMM is the clearance kept between the model footprint and
// each edge of the printer bed.
const DefaultBedMarginMM = 10.0

// ScaleOptions controls the projection from geographic meters to printer
// millimeters.
type ScaleOptions struct {
	PrinterBedMM         float64
	VerticalExaggeration float64
	BaseThicknessMM      float64
	BedMarginMM          float64 // defaults to DefaultBedMarginMM when zero
}

// PhysicalGrid is the grid projected onto the printer bed. X and Y give the
// millimeter position of each column and row; Z holds the top-surface
// height of each node in millimeters. The base slab occupies z in
// [0, BaseThickness]; the lowest terrain node sits exactly at BaseThickness.
type PhysicalGrid struct {
	X             []float64
	Y             []float64
	Z             *mat.Dense
	BaseThickness float64
}

// Project scales the grid onto the printer bed: the footprint is fitted to
// the bed minus margins, centered, and relief is scaled by the same factor
// times the vertical exaggeration so proportions survive.
func (g *Grid) Project(opts ScaleOptions) (*PhysicalGrid, error) {
	margin := opts.BedMarginMM
	if margin == 0 {
		margin = DefaultBedMarginMM
	}
	usable := opts.PrinterBedMM - 2*margin
	if usable <= 0 {
		return nil, fmt.Errorf("printer bed %.1fmm leaves no room inside %.1fmm margins",
			opts.PrinterBedMM, margin)
	}
	if opts.VerticalExaggeration <= 0 {
		return nil, fmt.Errorf("vertical exaggeration must be positive, got %f", opts.VerticalExaggeration)
	}
	if opts.BaseThicknessMM <= 0 {
		return nil, fmt.Errorf("base thickness must be positive, got %f", opts.BaseThicknessMM)
	}

	widthM := g.bounds.WidthMeters()
	heightM := g.bounds.HeightMeters()

	// mm per meter, limited by the longer footprint axis.
	scale := usable / widthM
	if s := usable / heightM; s < scale {
		scale = s
	}

	footprintW := widthM * scale
	footprintH := heightM * scale
	offsetX := (opts.PrinterBedMM - footprintW) / 2
	offsetY := (opts.PrinterBedMM - footprintH) / 2

	x := make([]float64, g.cols)
	for c := range x {
		x[c] = offsetX + footprintW*float64(c)/float64(g.cols-1)
	}
	y := make([]float64, g.rows)
	for r := range y {
		y[r] = offsetY + footprintH*float64(r)/float64(g.rows-1)
	}

	z := mat.NewDense(g.rows, g.cols, nil)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			relief := (g.samples.At(r, c) - g.minH) * scale * opts.VerticalExaggeration
			z.Set(r, c, opts.BaseThicknessMM+relief)
		}
	}

	return &PhysicalGrid{
		X:             x,
		Y:             y,
		Z:             z,
		BaseThickness: opts.BaseThicknessMM,
	}, nil
}

// Rows returns the number of node rows.
func (p *PhysicalGrid) Rows() int {
	r, _ := p.Z.Dims()
	return r
}

// Cols returns the number of node columns.
func (p *PhysicalGrid) Cols() int {
	_, c := p.Z.Dims()
	return c
}

// ZAt returns the top-surface height in millimeters at a node.
func (p *PhysicalGrid) ZAt(row, col int) float64 {
	return p.Z.At(row, col)
}

// MinZ returns the lowest top-surface height.
func (p *PhysicalGrid) MinZ() float64 {
	rows, cols := p.Z.Dims()
	min := p.Z.At(0, 0)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if v := p.Z.At(r, c); v < min {
				min = v
			}
		}
	}
	return min
}

// MaxZ returns the highest top-surface height.
func (p *PhysicalGrid) MaxZ() float64 {
	rows, cols := p.Z.Dims()
	max := p.Z.At(0, 0)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if v := p.Z.At(r, c); v > max {
				max = v
			}
		}
	}
	return max
}

// clone returns a deep copy with independent Z storage.
func (p *PhysicalGrid) clone() *PhysicalGrid {
	z := mat.DenseCopyOf(p.Z)
	x := make([]float64, len(p.X))
	copy(x, p.X)
	y := make([]float64, len(p.Y))
	copy(y, p.Y)
	return &PhysicalGrid{X: x, Y: y, Z: z, BaseThickness: p.BaseThickness}
}
