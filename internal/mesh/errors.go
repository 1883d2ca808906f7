package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// InvalidBandConfigError reports a band configuration that can never mesh,
// caught before any geometry is built.
type InvalidBandConfigError struct {
	Reason string
}

func (e *InvalidBandConfigError) Error() string {
	return "invalid band config: " + e.Reason
}

// NonManifoldEdge locates an edge referenced by the wrong number of
// triangles, with its endpoint coordinates for diagnosis.
type NonManifoldEdge struct {
	A, B  mgl64.Vec3
	Count int
}

// NonManifoldMeshError reports a solid that is not a closed 2-manifold
// after repair. It points at a construction defect, so it is never
// silently patched over.
type NonManifoldMeshError struct {
	Band   int
	Name   string
	Reason string
	Edges  []NonManifoldEdge
}

func (e *NonManifoldMeshError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = fmt.Sprintf("%d bad edges", len(e.Edges))
	}
	msg := fmt.Sprintf("solid %q (band %d) is not manifold: %s",
		e.Name, e.Band, reason)
	limit := len(e.Edges)
	if limit > 3 {
		limit = 3
	}
	for _, edge := range e.Edges[:limit] {
		msg += fmt.Sprintf("; edge (%.4f,%.4f,%.4f)-(%.4f,%.4f,%.4f) used by %d triangles",
			edge.A[0], edge.A[1], edge.A[2], edge.B[0], edge.B[1], edge.B[2], edge.Count)
	}
	return msg
}
