package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/printforge/terraprint/internal/logger"
	"github.com/printforge/terraprint/internal/mesh"
)

// Format selects the output file format.
type Format string

const (
	FormatSTL Format = "stl"
	Format3MF Format = "3mf"
	FormatOBJ Format = "obj"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Options controls one export run.
type Options struct {
	// Filename is the configured output path; its directory and base name
	// decide where the output folder goes and what the files are called.
	Filename string
	Format   Format
	// ColorNames and NumColors feed the band palette.
	ColorNames []string
	NumColors  int
}

// Result lists what was written.
type Result struct {
	Dir   string
	Files []string
}

// manifest is the run summary written next to the exported files.
type manifest struct {
	RunID  string         `yaml:"run_id"`
	Format string         `yaml:"format"`
	Files  []string       `yaml:"files"`
	Bands  []manifestBand `yaml:"bands"`
}

type manifestBand struct {
	Band      int     `yaml:"band"`
	Name      string  `yaml:"name"`
	Low       float64 `yaml:"low"`
	High      float64 `yaml:"high"`
	Triangles int     `yaml:"triangles"`
	VolumeMM3 float64 `yaml:"volume_mm3"`
}

// Write exports the assembly into a dedicated output directory derived
// from the configured filename: terrain.stl becomes terrain_output/. STL
// produces one file per band; OBJ and 3MF produce a single multi-object
// file. A manifest.yaml run summary is written alongside either way.
func Write(asm *mesh.Assembly, opts Options) (*Result, error) {
	if len(asm.Solids) == 0 {
		return nil, errors.New("assembly has no solids to export")
	}

	base := filepath.Base(opts.Filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Join(filepath.Dir(opts.Filename), stem+"_output")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	palette := Palette(opts.ColorNames, opts.NumColors)

	var files []string
	switch opts.Format {
	case FormatSTL:
		for _, s := range asm.Solids {
			name := stem + ".stl"
			if len(asm.Solids) > 1 {
				name = fmt.Sprintf("%s_%s.stl", stem, s.Name)
			}
			path := filepath.Join(dir, name)
			if err := WriteSTLFile(path, s); err != nil {
				return nil, err
			}
			files = append(files, path)
		}
	case FormatOBJ:
		written, err := WriteOBJFile(filepath.Join(dir, stem+".obj"), asm, palette)
		if err != nil {
			return nil, err
		}
		files = written
	case Format3MF:
		path := filepath.Join(dir, stem+".3mf")
		if err := Write3MFFile(path, asm, palette); err != nil {
			return nil, err
		}
		files = []string{path}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	if err := writeManifest(filepath.Join(dir, "manifest.yaml"), asm, opts, files); err != nil {
		return nil, err
	}

	logger.Log.Info("export complete",
		zap.String("run_id", asm.RunID),
		zap.String("dir", dir),
		zap.Int("files", len(files)))

	return &Result{Dir: dir, Files: files}, nil
}

func writeManifest(path string, asm *mesh.Assembly, opts Options, files []string) error {
	m := manifest{
		RunID:  asm.RunID,
		Format: string(opts.Format),
	}
	for _, f := range files {
		m.Files = append(m.Files, filepath.Base(f))
	}
	for _, s := range asm.Solids {
		m.Bands = append(m.Bands, manifestBand{
			Band:      s.Band,
			Name:      s.Name,
			Low:       asm.Bands.Low[s.Band],
			High:      asm.Bands.High[s.Band],
			Triangles: len(s.Faces),
			VolumeMM3: s.Volume(),
		})
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
