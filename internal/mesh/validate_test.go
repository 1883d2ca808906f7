package mesh

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitTetrahedron returns a closed tetrahedron with outward
// counter-clockwise winding and volume 1/6.
func unitTetrahedron() *Solid {
	return &Solid{
		Band: 0,
		Name: "tetra",
		Vertices: []mgl64.Vec3{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		Faces: [][3]uint32{
			{0, 2, 1},
			{0, 3, 2},
			{0, 1, 3},
			{1, 2, 3},
		},
	}
}

func TestValidateAcceptsClosedSolid(t *testing.T) {
	s := unitTetrahedron()

	stats, err := ValidateAndRepair(s, DefaultMergeTolerance)
	require.NoError(t, err)
	assert.True(t, stats.empty())
	assert.InDelta(t, 1.0/6, s.Volume(), 1e-12)
}

func TestRepairMergesDuplicateVertices(t *testing.T) {
	s := unitTetrahedron()
	// Append an exact duplicate of the apex and point one face at it.
	s.Vertices = append(s.Vertices, s.Vertices[3])
	s.Faces[1] = [3]uint32{0, 4, 2}

	stats, err := ValidateAndRepair(s, DefaultMergeTolerance)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MergedVertices)
	assert.Len(t, s.Vertices, 4)
}

func TestRepairDropsDegenerateAndDuplicateFaces(t *testing.T) {
	s := unitTetrahedron()
	// A face with a repeated index and a rotated copy of an existing face.
	s.Faces = append(s.Faces,
		[3]uint32{1, 1, 2},
		[3]uint32{2, 3, 1},
	)

	stats, err := ValidateAndRepair(s, DefaultMergeTolerance)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DegenerateFaces)
	assert.Equal(t, 1, stats.DuplicateFaces)
	assert.Len(t, s.Faces, 4)
}

func TestHoleIsNonManifold(t *testing.T) {
	s := unitTetrahedron()
	s.Faces = s.Faces[:3]

	_, err := ValidateAndRepair(s, DefaultMergeTolerance)
	require.Error(t, err)

	var nmErr *NonManifoldMeshError
	require.True(t, errors.As(err, &nmErr))
	assert.Equal(t, "tetra", nmErr.Name)
	assert.Len(t, nmErr.Edges, 3)
	for _, e := range nmErr.Edges {
		assert.Equal(t, 1, e.Count)
	}
	// The message carries edge coordinates for diagnosis.
	assert.Contains(t, err.Error(), "used by 1 triangles")
}

func TestInvertedSolidRejected(t *testing.T) {
	s := unitTetrahedron()
	for i, f := range s.Faces {
		s.Faces[i] = [3]uint32{f[0], f[2], f[1]}
	}

	_, err := ValidateAndRepair(s, DefaultMergeTolerance)
	require.Error(t, err)

	var nmErr *NonManifoldMeshError
	require.True(t, errors.As(err, &nmErr))
	assert.True(t, strings.Contains(nmErr.Reason, "non-positive"))
}

func TestEmptySolidRejected(t *testing.T) {
	s := &Solid{Name: "empty"}

	_, err := ValidateAndRepair(s, DefaultMergeTolerance)
	require.Error(t, err)

	var nmErr *NonManifoldMeshError
	require.True(t, errors.As(err, &nmErr))
	assert.Equal(t, "no faces", nmErr.Reason)
}

func TestZeroToleranceFallsBackToDefault(t *testing.T) {
	s := unitTetrahedron()

	_, err := ValidateAndRepair(s, 0)
	assert.NoError(t, err)
}
