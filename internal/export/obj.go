package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/printforge/terraprint/internal/mesh"
)

// WriteOBJ writes the whole assembly as one Wavefront OBJ with a named
// object per solid. mtlName, when non-empty, is referenced as the material
// library and each solid uses a material named after it.
func WriteOBJ(w io.Writer, asm *mesh.Assembly, mtlName string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# terraprint assembly %s\n", asm.RunID)
	if mtlName != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtlName)
	}

	// OBJ vertex indices are global and 1-based.
	offset := 1
	for _, s := range asm.Solids {
		fmt.Fprintf(bw, "o %s\n", s.Name)
		if mtlName != "" {
			fmt.Fprintf(bw, "usemtl %s\n", s.Name)
		}
		for _, v := range s.Vertices {
			fmt.Fprintf(bw, "v %.9g %.9g %.9g\n", v[0], v[1], v[2])
		}
		for _, f := range s.Faces {
			fmt.Fprintf(bw, "f %d %d %d\n",
				offset+int(f[0]), offset+int(f[1]), offset+int(f[2]))
		}
		offset += len(s.Vertices)
	}

	return bw.Flush()
}

// WriteMTL writes the material library pairing each solid with its band
// color as a diffuse material.
func WriteMTL(w io.Writer, asm *mesh.Assembly, palette []color.RGBA) error {
	bw := bufio.NewWriter(w)

	for _, s := range asm.Solids {
		c := paletteColor(palette, s.Band)
		fmt.Fprintf(bw, "newmtl %s\n", s.Name)
		fmt.Fprintf(bw, "Kd %.4f %.4f %.4f\n",
			float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
	}

	return bw.Flush()
}

// WriteOBJFile writes the assembly and its material library next to each
// other, returning both paths.
func WriteOBJFile(path string, asm *mesh.Assembly, palette []color.RGBA) ([]string, error) {
	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"

	mf, err := os.Create(mtlPath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", mtlPath, err)
	}
	if err := WriteMTL(mf, asm, palette); err != nil {
		mf.Close()
		return nil, err
	}
	if err := mf.Close(); err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteOBJ(f, asm, filepath.Base(mtlPath)); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	return []string{path, mtlPath}, nil
}

func paletteColor(palette []color.RGBA, band int) color.RGBA {
	if band >= 0 && band < len(palette) {
		return palette[band]
	}
	return color.RGBA{128, 128, 128, 255}
}
