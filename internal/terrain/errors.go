package terrain

import "fmt"

// DegenerateTerrainError reports input that cannot produce a printable
// solid: a grid that is too small, contains non-finite samples, or has no
// vertical relief at all.
type DegenerateTerrainError struct {
	Rows   int
	Cols   int
	Reason string
}

func (e *DegenerateTerrainError) Error() string {
	return fmt.Sprintf("degenerate terrain (%dx%d grid): %s", e.Rows, e.Cols, e.Reason)
}
