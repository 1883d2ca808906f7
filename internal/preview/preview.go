// Package preview renders quick-look PNGs of a projected terrain: an
// elevation heatmap and the band footprint map, for checking a model
// before printing it.
package preview

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/printforge/terraprint/internal/mesh"
	"github.com/printforge/terraprint/internal/terrain"
)

// heightGrid adapts a physical grid to the plotter's grid interface.
type heightGrid struct {
	pg *terrain.PhysicalGrid
}

func (g heightGrid) Dims() (int, int)   { return g.pg.Cols(), g.pg.Rows() }
func (g heightGrid) Z(c, r int) float64 { return g.pg.ZAt(r, c) }
func (g heightGrid) X(c int) float64    { return g.pg.X[c] }
func (g heightGrid) Y(r int) float64    { return g.pg.Y[r] }

// bandGrid exposes the cell band assignment as a plottable grid. Cell
// centers sit halfway between their corner nodes.
type bandGrid struct {
	pg  *terrain.PhysicalGrid
	asg *mesh.Assignment
}

func (g bandGrid) Dims() (int, int)   { return g.asg.CellCols(), g.asg.CellRows() }
func (g bandGrid) Z(c, r int) float64 { return float64(g.asg.BandAt(r, c)) }
func (g bandGrid) X(c int) float64    { return (g.pg.X[c] + g.pg.X[c+1]) / 2 }
func (g bandGrid) Y(r int) float64    { return (g.pg.Y[r] + g.pg.Y[r+1]) / 2 }

// bandPalette is a fixed discrete palette, one color per band.
type bandPalette []color.Color

func (p bandPalette) Colors() []color.Color { return p }

// Heatmap renders the projected surface heights as a heatmap PNG.
func Heatmap(pg *terrain.PhysicalGrid, path string) error {
	p := plot.New()
	p.Title.Text = "Terrain heights (mm)"
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"

	hm := plotter.NewHeatMap(heightGrid{pg: pg}, palette.Heat(12, 1))
	p.Add(hm)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving heatmap %s: %w", path, err)
	}
	return nil
}

// Bands renders the band footprint map with one flat color per band, the
// same colors the exporter assigns.
func Bands(pg *terrain.PhysicalGrid, asg *mesh.Assignment, colors []color.RGBA, path string) error {
	pal := make(bandPalette, len(colors))
	for i, c := range colors {
		pal[i] = c
	}

	p := plot.New()
	p.Title.Text = "Color bands"
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"

	hm := plotter.NewHeatMap(bandGrid{pg: pg, asg: asg}, pal)
	// Pin the range so every band maps onto exactly one palette color
	// even when some bands are empty.
	hm.Min = 0
	hm.Max = float64(len(colors) - 1)
	if hm.Max <= hm.Min {
		hm.Max = 1
	}
	p.Add(hm)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving band map %s: %w", path, err)
	}
	return nil
}
