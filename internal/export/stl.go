package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/printforge/terraprint/internal/mesh"
)

// STL writer errors.
var (
	ErrEmptySolid = errors.New("solid has no triangles")
)

// stlHeaderSize is the fixed binary STL preamble: an 80 byte comment
// block plus the uint32 triangle count. Every file is exactly
// stlHeaderSize + 50 bytes per triangle.
const stlHeaderSize = 84

// WriteSTL writes one solid as a little-endian binary STL. The header
// carries the solid name, truncated to the 80 byte field.
func WriteSTL(w io.Writer, s *mesh.Solid) error {
	if len(s.Faces) == 0 {
		return fmt.Errorf("writing %q: %w", s.Name, ErrEmptySolid)
	}

	bw := bufio.NewWriter(w)

	var header [80]byte
	copy(header[:], "terraprint solid "+s.Name)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(s.Faces))); err != nil {
		return err
	}

	// 12 floats per triangle (normal plus three vertices) and the unused
	// attribute word.
	var tri [12]float32
	for _, f := range s.Faces {
		a := s.Vertices[f[0]]
		b := s.Vertices[f[1]]
		c := s.Vertices[f[2]]

		n := faceNormal(a, b, c)
		tri[0], tri[1], tri[2] = float32(n[0]), float32(n[1]), float32(n[2])
		tri[3], tri[4], tri[5] = float32(a[0]), float32(a[1]), float32(a[2])
		tri[6], tri[7], tri[8] = float32(b[0]), float32(b[1]), float32(b[2])
		tri[9], tri[10], tri[11] = float32(c[0]), float32(c[1]), float32(c[2])

		if err := binary.Write(bw, binary.LittleEndian, tri); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteSTLFile writes a solid to a new binary STL file.
func WriteSTLFile(path string, s *mesh.Solid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteSTL(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// faceNormal returns the unit normal of a counter-clockwise triangle, or
// the zero vector for a degenerate one.
func faceNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}
