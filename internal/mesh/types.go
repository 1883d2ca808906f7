// Package mesh partitions a projected terrain grid into elevation bands and
// assembles one watertight printable solid per band.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects the value driving band assignment.
type Mode string

const (
	// ModeElevation bands cells by their surface height.
	ModeElevation Mode = "elevation"
	// ModeSlope bands cells by their local gradient magnitude.
	ModeSlope Mode = "slope"
)

// Config controls one Build run.
type Config struct {
	// NumColors is the number of bands, 1-6. One band produces a single
	// full-terrain solid.
	NumColors int
	// ColorMode selects elevation or slope banding.
	ColorMode Mode
	// ColorNames optionally names each band; must be empty or NumColors
	// long. Unnamed bands get layerNN names.
	ColorNames []string
	// Verbose reports repair statistics that are otherwise silent.
	Verbose bool
}

// BandSpec is an ordered set of half-open value intervals [Low[i], High[i])
// covering the observed value range with no gaps. A value exactly on an
// interior threshold belongs to the higher band.
type BandSpec struct {
	Mode Mode
	Low  []float64
	High []float64
}

// Len returns the number of bands.
func (b BandSpec) Len() int { return len(b.Low) }

// IndexOf returns the band a value falls into. Values outside the observed
// range clamp to the first or last band.
func (b BandSpec) IndexOf(v float64) int {
	for i := len(b.Low) - 1; i > 0; i-- {
		if v >= b.Low[i] {
			return i
		}
	}
	return 0
}

// Warning is a non-fatal diagnostic surfaced alongside an Assembly.
type Warning struct {
	Band    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("band %d: %s", w.Band, w.Message)
}

// Solid is one closed triangle mesh: a band's piece of terrain or the whole
// terrain in single-color mode. Faces index into Vertices with outward
// counter-clockwise winding.
type Solid struct {
	Band     int
	Name     string
	Vertices []mgl64.Vec3
	Faces    [][3]uint32
}

// Volume returns the enclosed volume in cubic millimeters via the
// divergence theorem. Positive for a closed outward-oriented mesh.
func (s *Solid) Volume() float64 {
	var sum float64
	for _, f := range s.Faces {
		a := s.Vertices[f[0]]
		b := s.Vertices[f[1]]
		c := s.Vertices[f[2]]
		sum += a.Dot(b.Cross(c))
	}
	return sum / 6
}

// BoundingBox returns the axis-aligned extent of the solid.
func (s *Solid) BoundingBox() (min, max mgl64.Vec3) {
	if len(s.Vertices) == 0 {
		return
	}
	min, max = s.Vertices[0], s.Vertices[0]
	for _, v := range s.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return
}

// Assembly is the ordered set of validated solids from one run, all in the
// same coordinate frame.
type Assembly struct {
	RunID    string
	Bands    BandSpec
	Solids   []*Solid
	Warnings []Warning
}

// TriangleCount returns the total triangle count across all solids.
func (a *Assembly) TriangleCount() int {
	n := 0
	for _, s := range a.Solids {
		n += len(s.Faces)
	}
	return n
}
