package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/printforge/terraprint/internal/terrain"
)

// solidBuilder accumulates one band's triangles. Grid nodes are mapped
// lazily to local vertex indices; every coordinate comes from the frozen
// Boundary table so seams match across bands exactly.
type solidBuilder struct {
	boundary *Boundary
	cols     int

	vertices []mgl64.Vec3
	faces    [][3]uint32

	topIdx  []int32
	baseIdx []int32
}

// BuildSolid emits the closed solid for one band: top-surface triangles
// over the band's cells at true sampled heights, base triangles at z = 0
// under the same cells, and vertical walls wherever a cell edge meets the
// grid silhouette or a differently-banded cell. The triangle set is closed
// under those three categories by construction.
//
// With a single band this produces the whole-terrain solid: every cell is
// band 0 and only silhouette walls are emitted.
func BuildSolid(pg *terrain.PhysicalGrid, asg *Assignment, boundary *Boundary, band int, name string) *Solid {
	nodes := pg.Rows() * pg.Cols()
	sb := &solidBuilder{
		boundary: boundary,
		cols:     pg.Cols(),
		topIdx:   make([]int32, nodes),
		baseIdx:  make([]int32, nodes),
	}
	for i := range sb.topIdx {
		sb.topIdx[i] = -1
		sb.baseIdx[i] = -1
	}

	for r := 0; r < asg.cellRows; r++ {
		for c := 0; c < asg.cellCols; c++ {
			if asg.BandAt(r, c) != band {
				continue
			}
			sb.emitCell(asg, r, c, band)
		}
	}

	return &Solid{
		Band:     band,
		Name:     name,
		Vertices: sb.vertices,
		Faces:    sb.faces,
	}
}

func (sb *solidBuilder) emitCell(asg *Assignment, r, c, band int) {
	t00 := sb.top(r, c)
	t01 := sb.top(r, c+1)
	t10 := sb.top(r+1, c)
	t11 := sb.top(r+1, c+1)

	b00 := sb.bottom(r, c)
	b01 := sb.bottom(r, c+1)
	b10 := sb.bottom(r+1, c)
	b11 := sb.bottom(r+1, c+1)

	// Top surface, outward +Z. The diagonal always runs from (r, c+1) to
	// (r+1, c) so interior diagonals pair up between the two triangles.
	sb.face(t00, t01, t10)
	sb.face(t01, t11, t10)

	// Base plane, outward -Z.
	sb.face(b00, b10, b01)
	sb.face(b01, b10, b11)

	// Walls on every cell edge not shared with a same-band neighbor.
	// Vertex order keeps the outward normal pointing away from the cell.
	if !sb.sameBand(asg, r-1, c, band) { // south, outward -Y
		sb.wall(t01, t00, b01, b00)
	}
	if !sb.sameBand(asg, r+1, c, band) { // north, outward +Y
		sb.wall(t10, t11, b10, b11)
	}
	if !sb.sameBand(asg, r, c-1, band) { // west, outward -X
		sb.wall(t00, t10, b00, b10)
	}
	if !sb.sameBand(asg, r, c+1, band) { // east, outward +X
		sb.wall(t11, t01, b11, b01)
	}
}

func (sb *solidBuilder) sameBand(asg *Assignment, r, c, band int) bool {
	if r < 0 || r >= asg.cellRows || c < 0 || c >= asg.cellCols {
		return false
	}
	return asg.BandAt(r, c) == band
}

// wall emits the two triangles of one vertical quad. a and b are the top
// vertices ordered so that (b-a) x (down) faces outward.
func (sb *solidBuilder) wall(topA, topB, baseA, baseB uint32) {
	sb.face(topA, topB, baseB)
	sb.face(topA, baseB, baseA)
}

func (sb *solidBuilder) face(a, b, c uint32) {
	sb.faces = append(sb.faces, [3]uint32{a, b, c})
}

func (sb *solidBuilder) top(r, c int) uint32 {
	node := r*sb.cols + c
	if sb.topIdx[node] < 0 {
		sb.topIdx[node] = int32(len(sb.vertices))
		sb.vertices = append(sb.vertices, sb.boundary.Top(r, c))
	}
	return uint32(sb.topIdx[node])
}

func (sb *solidBuilder) bottom(r, c int) uint32 {
	node := r*sb.cols + c
	if sb.baseIdx[node] < 0 {
		sb.baseIdx[node] = int32(len(sb.vertices))
		sb.vertices = append(sb.vertices, sb.boundary.Base(r, c))
	}
	return uint32(sb.baseIdx[node])
}
