package mesh

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRejectsInvalidConfig(t *testing.T) {
	pg := gridFromHeights(rampHeights(5, 5, 10, 50))

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero colors", Config{NumColors: 0, ColorMode: ModeElevation}},
		{"too many colors", Config{NumColors: 7, ColorMode: ModeElevation}},
		{"unknown mode", Config{NumColors: 2, ColorMode: "aspect"}},
		{"name count mismatch", Config{NumColors: 3, ColorMode: ModeElevation,
			ColorNames: []string{"green", "brown"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			asm, err := Build(context.Background(), pg, tc.cfg)
			require.Error(t, err)
			assert.Nil(t, asm)

			var cfgErr *InvalidBandConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestBuildSingleColor(t *testing.T) {
	pg := gridFromHeights(rampHeights(6, 6, 10, 60))

	asm, err := Build(context.Background(), pg, Config{NumColors: 1, ColorMode: ModeElevation})
	require.NoError(t, err)

	require.Len(t, asm.Solids, 1)
	assert.Equal(t, "layer00", asm.Solids[0].Name)
	assert.Greater(t, asm.Solids[0].Volume(), 0.0)
	assert.NotEmpty(t, asm.RunID)
}

func TestBuildTwoBandRamp(t *testing.T) {
	pg := gridFromHeights(rampHeights(11, 6, 5, 105))

	asm, err := Build(context.Background(), pg, Config{
		NumColors:  2,
		ColorMode:  ModeElevation,
		ColorNames: []string{"green", "brown"},
	})
	require.NoError(t, err)

	require.Len(t, asm.Solids, 2)
	assert.Equal(t, "green", asm.Solids[0].Name)
	assert.Equal(t, "brown", asm.Solids[1].Name)
	assert.Equal(t, 0, asm.Solids[0].Band)
	assert.Equal(t, 1, asm.Solids[1].Band)

	for _, s := range asm.Solids {
		assert.Greater(t, s.Volume(), 0.0)
		require.NoError(t, validate(s))
	}
	assert.Equal(t, len(asm.Solids[0].Faces)+len(asm.Solids[1].Faces), asm.TriangleCount())
}

func TestBuildIsDeterministic(t *testing.T) {
	pg := gridFromHeights(rampHeights(15, 12, 20, 140))
	cfg := Config{NumColors: 4, ColorMode: ModeElevation}

	first, err := Build(context.Background(), pg, cfg)
	require.NoError(t, err)
	second, err := Build(context.Background(), pg, cfg)
	require.NoError(t, err)

	// Everything except the run identifier is bit-identical across runs,
	// including vertex coordinates and face order.
	diff := cmp.Diff(first, second, cmpopts.IgnoreFields(Assembly{}, "RunID"))
	assert.Empty(t, diff)
}

func TestBuildSkipsEmptyBands(t *testing.T) {
	// Constant slope puts every cell in band 0; the other bands never get
	// a solid but are reported as warnings.
	pg := gridFromHeights(rampHeights(8, 8, 10, 80))

	asm, err := Build(context.Background(), pg, Config{NumColors: 3, ColorMode: ModeSlope})
	require.NoError(t, err)

	require.Len(t, asm.Solids, 1)
	assert.Equal(t, 0, asm.Solids[0].Band)
	assert.Len(t, asm.Warnings, 2)
}

func TestBuildCancelledContext(t *testing.T) {
	pg := gridFromHeights(rampHeights(6, 6, 10, 60))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, pg, Config{NumColors: 2, ColorMode: ModeElevation})
	assert.ErrorIs(t, err, context.Canceled)
}
