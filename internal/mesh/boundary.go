package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/printforge/terraprint/internal/terrain"
)

// BoundaryEdge is a grid edge separating cells of two different bands. Its
// two canonical top vertices are the exact coordinates both bands' solids
// must carry along that seam.
type BoundaryEdge struct {
	LoBand int
	HiBand int
	A, B   mgl64.Vec3
}

// Boundary is the frozen canonical vertex table for one run. Every vertex
// position a builder emits comes from here, so two solids touching the same
// grid node use bit-identical coordinates. Band boundaries follow grid cell
// edges; the canonical pair for a shared edge is its two grid nodes at true
// surface height.
//
// The table is built once, before any builder runs, and only read after
// that; concurrent per-band builds need no locking.
type Boundary struct {
	cols  int
	top   []mgl64.Vec3
	base  []mgl64.Vec3
	edges []BoundaryEdge
}

// ResolveBoundary computes the canonical vertex table and the list of
// band-separating edges for the given assignment.
func ResolveBoundary(pg *terrain.PhysicalGrid, asg *Assignment) *Boundary {
	rows := pg.Rows()
	cols := pg.Cols()

	b := &Boundary{
		cols: cols,
		top:  make([]mgl64.Vec3, rows*cols),
		base: make([]mgl64.Vec3, rows*cols),
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			b.top[i] = mgl64.Vec3{pg.X[c], pg.Y[r], pg.ZAt(r, c)}
			b.base[i] = mgl64.Vec3{pg.X[c], pg.Y[r], 0}
		}
	}

	// Collect edges between horizontally and vertically adjacent cells
	// with differing bands.
	for r := 0; r < asg.cellRows; r++ {
		for c := 0; c < asg.cellCols; c++ {
			band := asg.BandAt(r, c)

			if c+1 < asg.cellCols {
				if other := asg.BandAt(r, c+1); other != band {
					b.edges = append(b.edges, b.newEdge(band, other,
						r, c+1, r+1, c+1))
				}
			}
			if r+1 < asg.cellRows {
				if other := asg.BandAt(r+1, c); other != band {
					b.edges = append(b.edges, b.newEdge(band, other,
						r+1, c, r+1, c+1))
				}
			}
		}
	}

	return b
}

func (b *Boundary) newEdge(band, other, ra, ca, rb, cb int) BoundaryEdge {
	lo, hi := band, other
	if lo > hi {
		lo, hi = hi, lo
	}
	return BoundaryEdge{
		LoBand: lo,
		HiBand: hi,
		A:      b.Top(ra, ca),
		B:      b.Top(rb, cb),
	}
}

// Top returns the canonical top-surface vertex of a grid node.
func (b *Boundary) Top(row, col int) mgl64.Vec3 {
	return b.top[row*b.cols+col]
}

// Base returns the canonical base-plane vertex of a grid node.
func (b *Boundary) Base(row, col int) mgl64.Vec3 {
	return b.base[row*b.cols+col]
}

// Edges returns all band-separating edges.
func (b *Boundary) Edges() []BoundaryEdge {
	return b.edges
}
