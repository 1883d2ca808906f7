package terrain

import "math"

// SteppingOptions controls the terracing transform.
type SteppingOptions struct {
	// StepHeightMM is the vertical size of each terrace.
	StepHeightMM float64
	// SmoothTransitions ramps heights near step boundaries instead of
	// leaving vertical cliffs.
	SmoothTransitions bool
	// BlendFraction is the ramp width as a fraction of the step height.
	// Only used when SmoothTransitions is set; 0.25 when zero.
	BlendFraction float64
}

// ApplyStepping quantizes the top surface into discrete terraces and
// returns a new grid; the input is left untouched.
//
// Every height collapses onto the floor of its step:
//
//	step(h) = floor((h - min) / s) * s + min
//
// With SmoothTransitions, samples within the blend distance of a step
// boundary are interpolated between their original and quantized heights,
// so cliffs become ramps whose width is proportional to BlendFraction.
func ApplyStepping(p *PhysicalGrid, opts SteppingOptions) *PhysicalGrid {
	if opts.StepHeightMM <= 0 {
		return p.clone()
	}

	blend := opts.BlendFraction
	if blend == 0 {
		blend = 0.25
	}
	blendDist := blend * opts.StepHeightMM

	out := p.clone()
	rows, cols := out.Z.Dims()
	min := p.MinZ()
	s := opts.StepHeightMM

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			h := p.Z.At(r, c)
			stepped := math.Floor((h-min)/s)*s + min

			if !opts.SmoothTransitions {
				out.Z.Set(r, c, stepped)
				continue
			}

			// Height distance to the nearest step boundary.
			frac := h - stepped
			dist := frac
			if s-frac < dist {
				dist = s - frac
			}

			w := dist / blendDist
			if w > 1 {
				w = 1
			}
			out.Z.Set(r, c, h+(stepped-h)*w)
		}
	}

	return out
}
