package mesh

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultMergeTolerance is the vertex merge distance. Boundary vertices are
// produced by table lookup and match exactly, so the tolerance only has to
// catch true duplicates.
const DefaultMergeTolerance = 1e-9

// minTriangleArea is the area below which a triangle is considered
// degenerate and removed.
const minTriangleArea = 1e-12

// RepairStats reports what the repair pass changed.
type RepairStats struct {
	DegenerateFaces int
	DuplicateFaces  int
	MergedVertices  int
}

func (s RepairStats) empty() bool {
	return s.DegenerateFaces == 0 && s.DuplicateFaces == 0 && s.MergedVertices == 0
}

func (s RepairStats) String() string {
	return fmt.Sprintf("removed %d degenerate and %d duplicate faces, merged %d vertices",
		s.DegenerateFaces, s.DuplicateFaces, s.MergedVertices)
}

// ValidateAndRepair fixes local numeric artifacts in a solid (duplicate
// vertices, degenerate and duplicate triangles) and then checks that it is
// a closed 2-manifold with positive volume. Repairable issues are fixed in
// place; a manifold violation surviving a second repair pass is returned as
// a NonManifoldMeshError because it indicates a construction defect, not a
// numeric artifact.
func ValidateAndRepair(s *Solid, tolerance float64) (RepairStats, error) {
	if tolerance <= 0 {
		tolerance = DefaultMergeTolerance
	}

	stats := repair(s, tolerance)
	if err := validate(s); err != nil {
		// One more repair pass: the first pass can expose new duplicates
		// after merging vertices.
		more := repair(s, tolerance)
		stats.DegenerateFaces += more.DegenerateFaces
		stats.DuplicateFaces += more.DuplicateFaces
		stats.MergedVertices += more.MergedVertices

		if err := validate(s); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// repair merges duplicate vertices and drops degenerate or duplicate faces.
func repair(s *Solid, tolerance float64) RepairStats {
	var stats RepairStats

	// Merge vertices by quantized position.
	remap := make([]uint32, len(s.Vertices))
	kept := s.Vertices[:0]
	seen := make(map[[3]int64]uint32, len(s.Vertices))
	for i, v := range s.Vertices {
		key := [3]int64{
			int64(v[0] / tolerance),
			int64(v[1] / tolerance),
			int64(v[2] / tolerance),
		}
		if j, ok := seen[key]; ok {
			remap[i] = j
			stats.MergedVertices++
			continue
		}
		idx := uint32(len(kept))
		seen[key] = idx
		remap[i] = idx
		kept = append(kept, v)
	}
	s.Vertices = kept

	// Re-index faces, dropping degenerates and duplicates.
	faceSeen := make(map[[3]uint32]bool, len(s.Faces))
	faces := s.Faces[:0]
	for _, f := range s.Faces {
		g := [3]uint32{remap[f[0]], remap[f[1]], remap[f[2]]}

		if g[0] == g[1] || g[1] == g[2] || g[0] == g[2] {
			stats.DegenerateFaces++
			continue
		}
		if triangleArea(s.Vertices[g[0]], s.Vertices[g[1]], s.Vertices[g[2]]) < minTriangleArea {
			stats.DegenerateFaces++
			continue
		}

		key := canonicalFace(g)
		if faceSeen[key] {
			stats.DuplicateFaces++
			continue
		}
		faceSeen[key] = true
		faces = append(faces, g)
	}
	s.Faces = faces

	return stats
}

// validate checks the closed-manifold invariants: every undirected edge is
// referenced by exactly two triangles with opposite directions, and the
// enclosed volume is positive.
func validate(s *Solid) error {
	type edgeUse struct {
		count int
		// signed counts directed usage: +1 for (a,b), -1 for (b,a).
		// Consistent orientation sums to zero.
		signed int
	}

	edges := make(map[[2]uint32]*edgeUse, len(s.Faces)*3/2)
	addEdge := func(a, b uint32) {
		key := [2]uint32{a, b}
		sign := 1
		if a > b {
			key = [2]uint32{b, a}
			sign = -1
		}
		u := edges[key]
		if u == nil {
			u = &edgeUse{}
			edges[key] = u
		}
		u.count++
		u.signed += sign
	}

	for _, f := range s.Faces {
		addEdge(f[0], f[1])
		addEdge(f[1], f[2])
		addEdge(f[2], f[0])
	}

	var bad []NonManifoldEdge
	for key, u := range edges {
		if u.count != 2 || u.signed != 0 {
			bad = append(bad, NonManifoldEdge{
				A:     s.Vertices[key[0]],
				B:     s.Vertices[key[1]],
				Count: u.count,
			})
		}
	}
	if len(bad) > 0 {
		sort.Slice(bad, func(i, j int) bool {
			return lessVec(bad[i].A, bad[j].A)
		})
		return &NonManifoldMeshError{Band: s.Band, Name: s.Name, Edges: bad}
	}

	if len(s.Faces) == 0 {
		return &NonManifoldMeshError{Band: s.Band, Name: s.Name, Reason: "no faces"}
	}
	if v := s.Volume(); v <= 0 {
		return &NonManifoldMeshError{Band: s.Band, Name: s.Name,
			Reason: fmt.Sprintf("non-positive enclosed volume %.6f", v)}
	}

	return nil
}

func triangleArea(a, b, c mgl64.Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Len() / 2
}

// canonicalFace rotates the smallest index first so duplicate detection is
// independent of which vertex a triangle starts at.
func canonicalFace(f [3]uint32) [3]uint32 {
	if f[1] <= f[0] && f[1] <= f[2] {
		return [3]uint32{f[1], f[2], f[0]}
	}
	if f[2] <= f[0] && f[2] <= f[1] {
		return [3]uint32{f[2], f[0], f[1]}
	}
	return f
}

func lessVec(a, b mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
