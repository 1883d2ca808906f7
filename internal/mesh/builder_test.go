package mesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireClosedManifold(t *testing.T, s *Solid) {
	t.Helper()
	require.NoError(t, validate(s), "solid %q must be a closed 2-manifold", s.Name)
}

func TestBuildSolidSingleBand(t *testing.T) {
	pg := gridFromHeights(rampHeights(5, 4, 10, 50))
	_, asg, _ := Partition(pg, 1, ModeElevation)
	boundary := ResolveBoundary(pg, asg)

	s := BuildSolid(pg, asg, boundary, 0, "full")
	requireClosedManifold(t, s)

	// 4x3 cells, each contributing 2 top and 2 base triangles, plus 2 walls
	// per perimeter cell edge (2*(4+3) edges).
	cells := 4 * 3
	assert.Len(t, s.Faces, 4*cells+2*14)

	// The triangulated ramp volume is the exact trapezoidal integral.
	var want float64
	for r := 0; r < 4; r++ {
		a := pg.ZAt(r, 0)
		b := pg.ZAt(r+1, 0)
		want += 3 * 100 * (a + b) / 2
	}
	assert.InDelta(t, want, s.Volume(), 1e-9)
}

func TestBuildSolidTwoBandsCoverGrid(t *testing.T) {
	pg := gridFromHeights(rampHeights(11, 6, 5, 105))
	_, asg, _ := Partition(pg, 2, ModeElevation)
	boundary := ResolveBoundary(pg, asg)

	low := BuildSolid(pg, asg, boundary, 0, "low")
	high := BuildSolid(pg, asg, boundary, 1, "high")

	requireClosedManifold(t, low)
	requireClosedManifold(t, high)

	// Together the two solids carry every cell's top exactly once.
	topFaces := func(s *Solid) int {
		n := 0
		for _, f := range s.Faces {
			a := s.Vertices[f[0]]
			b := s.Vertices[f[1]]
			c := s.Vertices[f[2]]
			if a.Z() > 0 && b.Z() > 0 && c.Z() > 0 {
				n++
			}
		}
		return n
	}
	cells := 10 * 5
	assert.Equal(t, 2*cells, topFaces(low)+topFaces(high))
	assert.Greater(t, low.Volume(), 0.0)
	assert.Greater(t, high.Volume(), 0.0)
}

func TestAdjacentSolidsShareExactSeamVertices(t *testing.T) {
	pg := gridFromHeights(rampHeights(11, 6, 5, 105))
	_, asg, _ := Partition(pg, 2, ModeElevation)
	boundary := ResolveBoundary(pg, asg)

	solids := []*Solid{
		BuildSolid(pg, asg, boundary, 0, "low"),
		BuildSolid(pg, asg, boundary, 1, "high"),
	}

	vertexSet := func(s *Solid) map[mgl64.Vec3]bool {
		set := make(map[mgl64.Vec3]bool, len(s.Vertices))
		for _, v := range s.Vertices {
			set[v] = true
		}
		return set
	}
	sets := []map[mgl64.Vec3]bool{vertexSet(solids[0]), vertexSet(solids[1])}

	edges := boundary.Edges()
	require.NotEmpty(t, edges)
	for _, e := range edges {
		// Both sides of the seam must carry the canonical coordinates
		// bit for bit, not merely within tolerance.
		assert.True(t, sets[e.LoBand][e.A], "band %d missing seam vertex %v", e.LoBand, e.A)
		assert.True(t, sets[e.LoBand][e.B], "band %d missing seam vertex %v", e.LoBand, e.B)
		assert.True(t, sets[e.HiBand][e.A], "band %d missing seam vertex %v", e.HiBand, e.A)
		assert.True(t, sets[e.HiBand][e.B], "band %d missing seam vertex %v", e.HiBand, e.B)
	}
}

func TestPinchCornerIsReportedNotRepaired(t *testing.T) {
	// Two cells of the same band touching only at one corner produce a
	// vertical edge shared by four wall triangles. That defect is surfaced
	// to the caller instead of silently patched.
	pg := gridFromHeights([][]float64{
		{110, 60, 10},
		{60, 60, 60},
		{10, 60, 110},
	})
	_, asg, _ := Partition(pg, 2, ModeElevation)
	require.Equal(t, asg.BandAt(0, 0), asg.BandAt(1, 1))
	require.NotEqual(t, asg.BandAt(0, 0), asg.BandAt(0, 1))

	boundary := ResolveBoundary(pg, asg)
	s := BuildSolid(pg, asg, boundary, asg.BandAt(0, 0), "pinched")

	_, err := ValidateAndRepair(s, DefaultMergeTolerance)
	require.Error(t, err)

	var nmErr *NonManifoldMeshError
	require.True(t, errors.As(err, &nmErr))
	assert.NotEmpty(t, nmErr.Edges)
}

func TestBoundingBoxSpansGrid(t *testing.T) {
	pg := gridFromHeights(rampHeights(5, 5, 10, 40))
	_, asg, _ := Partition(pg, 1, ModeElevation)
	boundary := ResolveBoundary(pg, asg)

	s := BuildSolid(pg, asg, boundary, 0, "full")
	min, max := s.BoundingBox()

	assert.Equal(t, mgl64.Vec3{0, 0, 0}, min)
	assert.Equal(t, mgl64.Vec3{40, 40, 40}, max)
}
