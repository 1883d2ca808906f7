package geo

import (
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	good := Bounds{North: 47.7, South: 47.6, East: 8.8, West: 8.7}
	if err := good.Validate(); err != nil {
		t.Errorf("expected valid bounds, got %v", err)
	}

	swapped := Bounds{North: 47.6, South: 47.7, East: 8.8, West: 8.7}
	if err := swapped.Validate(); err == nil {
		t.Error("expected error for north <= south")
	}

	flipped := Bounds{North: 47.7, South: 47.6, East: 8.7, West: 8.8}
	if err := flipped.Validate(); err == nil {
		t.Error("expected error for east <= west")
	}
}

func TestFromCenterRoundTrip(t *testing.T) {
	b := FromCenter(47.65, 8.75, 2.0)

	lat, lon := b.Center()
	if math.Abs(lat-47.65) > 1e-9 || math.Abs(lon-8.75) > 1e-9 {
		t.Errorf("center drifted: got (%f, %f)", lat, lon)
	}

	// A 2 km radius box should span roughly 4 km north to south.
	if h := b.HeightMeters(); math.Abs(h-4000) > 50 {
		t.Errorf("expected ~4000m height, got %f", h)
	}
}

func TestGridSteps(t *testing.T) {
	b := FromCenter(47.65, 8.75, 1.0)

	rows, cols := b.GridSteps(100)
	if rows < 2 || cols < 2 {
		t.Fatalf("grid must span at least one cell, got %dx%d", rows, cols)
	}
	// ~2000m extent at 100m resolution.
	if rows < 15 || rows > 25 {
		t.Errorf("expected ~21 rows, got %d", rows)
	}

	// Tiny box still produces a meshable grid.
	tiny := Bounds{North: 47.6501, South: 47.65, East: 8.7501, West: 8.75}
	rows, cols = tiny.GridSteps(30)
	if rows != 2 || cols != 2 {
		t.Errorf("expected 2x2 floor for tiny bounds, got %dx%d", rows, cols)
	}
}
