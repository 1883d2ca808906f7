package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/printforge/terraprint/pkg/geo"
)

var testBounds = geo.Bounds{North: 47.7, South: 47.6, East: 8.8, West: 8.7}

func TestNewGridRejectsDegenerateInput(t *testing.T) {
	var degenerate *DegenerateTerrainError

	// Too small.
	_, err := NewGrid([][]float64{{1, 2}}, testBounds)
	if !errors.As(err, &degenerate) {
		t.Errorf("expected DegenerateTerrainError for 1x2 grid, got %v", err)
	}

	// Ragged rows.
	_, err = NewGrid([][]float64{{1, 2}, {3}}, testBounds)
	if !errors.As(err, &degenerate) {
		t.Errorf("expected DegenerateTerrainError for ragged grid, got %v", err)
	}

	// Non-finite sample.
	_, err = NewGrid([][]float64{{1, 2}, {math.NaN(), 4}}, testBounds)
	if !errors.As(err, &degenerate) {
		t.Errorf("expected DegenerateTerrainError for NaN sample, got %v", err)
	}

	// Flat terrain: all samples equal means zero relief.
	flat := [][]float64{
		{10, 10, 10, 10},
		{10, 10, 10, 10},
		{10, 10, 10, 10},
		{10, 10, 10, 10},
	}
	_, err = NewGrid(flat, testBounds)
	if !errors.As(err, &degenerate) {
		t.Errorf("expected DegenerateTerrainError for flat grid, got %v", err)
	}
}

func TestNewGridMinMax(t *testing.T) {
	g, err := NewGrid([][]float64{{5, 12}, {-3, 40}}, testBounds)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	if g.MinHeight() != -3 {
		t.Errorf("expected min -3, got %f", g.MinHeight())
	}
	if g.MaxHeight() != 40 {
		t.Errorf("expected max 40, got %f", g.MaxHeight())
	}
	if g.Rows() != 2 || g.Cols() != 2 {
		t.Errorf("expected 2x2, got %dx%d", g.Rows(), g.Cols())
	}
}

func TestHeightAtBilinear(t *testing.T) {
	// Heights form a plane, so bilinear interpolation must be exact.
	g, err := NewGrid([][]float64{
		{0, 10},
		{20, 30},
	}, testBounds)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	tests := []struct {
		u, v, want float64
	}{
		{0, 0, 0},
		{1, 0, 10},
		{0, 1, 20},
		{1, 1, 30},
		{0.5, 0.5, 15},
		{0.25, 0, 2.5},
		{0, 0.75, 15},
		// Out of range clamps to the border.
		{-1, 0, 0},
		{2, 2, 30},
	}

	for _, tt := range tests {
		got := g.HeightAt(tt.u, tt.v)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("HeightAt(%f, %f) = %f, want %f", tt.u, tt.v, got, tt.want)
		}
	}
}

func TestProjectFitsBed(t *testing.T) {
	g, err := NewGrid([][]float64{
		{0, 50, 100},
		{0, 50, 100},
		{0, 50, 100},
	}, testBounds)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	pg, err := g.Project(ScaleOptions{
		PrinterBedMM:         220,
		VerticalExaggeration: 1.0,
		BaseThicknessMM:      5.0,
	})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	// Footprint stays inside the bed minus margins.
	for _, x := range pg.X {
		if x < DefaultBedMarginMM-1e-9 || x > 220-DefaultBedMarginMM+1e-9 {
			t.Errorf("x coordinate %f outside usable bed", x)
		}
	}
	for _, y := range pg.Y {
		if y < DefaultBedMarginMM-1e-9 || y > 220-DefaultBedMarginMM+1e-9 {
			t.Errorf("y coordinate %f outside usable bed", y)
		}
	}

	// Lowest node sits exactly at the base thickness.
	if math.Abs(pg.MinZ()-5.0) > 1e-12 {
		t.Errorf("expected min z at base thickness 5.0, got %f", pg.MinZ())
	}
	if pg.MaxZ() <= pg.MinZ() {
		t.Error("projection lost the vertical relief")
	}
}

func TestProjectRejectsBadScale(t *testing.T) {
	g, err := NewGrid([][]float64{{0, 1}, {2, 3}}, testBounds)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	if _, err := g.Project(ScaleOptions{PrinterBedMM: 15, VerticalExaggeration: 1, BaseThicknessMM: 5}); err == nil {
		t.Error("expected error for bed smaller than margins")
	}
	if _, err := g.Project(ScaleOptions{PrinterBedMM: 220, VerticalExaggeration: 0, BaseThicknessMM: 5}); err == nil {
		t.Error("expected error for zero exaggeration")
	}
	if _, err := g.Project(ScaleOptions{PrinterBedMM: 220, VerticalExaggeration: 1, BaseThicknessMM: 0}); err == nil {
		t.Error("expected error for zero base thickness")
	}
}
