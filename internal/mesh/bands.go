package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/printforge/terraprint/internal/terrain"
)

// Assignment maps every grid cell to exactly one band. Cells are the quads
// between four neighboring grid nodes, so a grid with R x C nodes has
// (R-1) x (C-1) cells.
type Assignment struct {
	bands    []int
	cellRows int
	cellCols int
	counts   []int
}

// CellRows returns the number of cell rows.
func (a *Assignment) CellRows() int { return a.cellRows }

// CellCols returns the number of cell columns.
func (a *Assignment) CellCols() int { return a.cellCols }

// BandAt returns the band index of a cell.
func (a *Assignment) BandAt(row, col int) int {
	return a.bands[row*a.cellCols+col]
}

// Count returns how many cells a band owns.
func (a *Assignment) Count(band int) int { return a.counts[band] }

// Partition divides the observed value range (elevation or slope) into
// numColors equal-width bands and assigns every cell to one of them. The
// same grid and config always produce the same assignment.
//
// A degenerate value range (all cells carry the same value) is not fatal:
// every cell goes to band 0 and the higher bands are reported as warnings.
func Partition(pg *terrain.PhysicalGrid, numColors int, mode Mode) (BandSpec, *Assignment, []Warning) {
	cellRows := pg.Rows() - 1
	cellCols := pg.Cols() - 1

	values := make([]float64, cellRows*cellCols)
	for r := 0; r < cellRows; r++ {
		for c := 0; c < cellCols; c++ {
			values[r*cellCols+c] = cellValue(pg, r, c, mode)
		}
	}

	lo := floats.Min(values)
	hi := floats.Max(values)

	spec := BandSpec{
		Mode: mode,
		Low:  make([]float64, numColors),
		High: make([]float64, numColors),
	}

	var warnings []Warning
	if hi == lo {
		// Degenerate range: single usable band.
		for i := 0; i < numColors; i++ {
			spec.Low[i] = lo
			spec.High[i] = hi
		}
		for i := 1; i < numColors; i++ {
			warnings = append(warnings, Warning{Band: i,
				Message: fmt.Sprintf("empty band: %s range is degenerate (%.4f == %.4f)", mode, lo, hi)})
		}
	} else {
		width := (hi - lo) / float64(numColors)
		for i := 0; i < numColors; i++ {
			spec.Low[i] = lo + float64(i)*width
			spec.High[i] = lo + float64(i+1)*width
		}
		spec.High[numColors-1] = hi
	}

	asg := &Assignment{
		bands:    make([]int, len(values)),
		cellRows: cellRows,
		cellCols: cellCols,
		counts:   make([]int, numColors),
	}
	for i, v := range values {
		band := 0
		if hi != lo {
			band = spec.IndexOf(v)
		}
		asg.bands[i] = band
		asg.counts[band]++
	}

	for i := 0; i < numColors; i++ {
		if asg.counts[i] == 0 && hi != lo {
			warnings = append(warnings, Warning{Band: i,
				Message: fmt.Sprintf("empty band: no cell value falls in [%.4f, %.4f)", spec.Low[i], spec.High[i])})
		}
	}

	return spec, asg, warnings
}

// cellValue computes the banding value of one cell: the mean corner height
// in elevation mode or the gradient magnitude at the cell center in
// slope mode.
func cellValue(pg *terrain.PhysicalGrid, r, c int, mode Mode) float64 {
	z00 := pg.ZAt(r, c)
	z01 := pg.ZAt(r, c+1)
	z10 := pg.ZAt(r+1, c)
	z11 := pg.ZAt(r+1, c+1)

	if mode == ModeSlope {
		dx := pg.X[c+1] - pg.X[c]
		dy := pg.Y[r+1] - pg.Y[r]
		gx := ((z01 + z11) - (z00 + z10)) / (2 * dx)
		gy := ((z10 + z11) - (z00 + z01)) / (2 * dy)
		return floats.Norm([]float64{gx, gy}, 2)
	}

	return (z00 + z01 + z10 + z11) / 4
}
