package mesh

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/printforge/terraprint/internal/logger"
	"github.com/printforge/terraprint/internal/terrain"
)

// Build runs the full partition-resolve-build-validate pipeline and returns
// the ordered assembly of per-band solids. With NumColors of 1 the result
// is a single full-terrain solid.
//
// The boundary vertex table is built sequentially and frozen before any
// band is meshed; after that each band builds and validates concurrently.
// A fatal validation failure cancels the remaining bands; no partial
// assembly is ever returned.
func Build(ctx context.Context, pg *terrain.PhysicalGrid, cfg Config) (*Assembly, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.Log.With(zap.String("run_id", runID))

	spec, asg, warnings := Partition(pg, cfg.NumColors, cfg.ColorMode)
	for _, w := range warnings {
		log.Warn("partition warning", zap.Int("band", w.Band), zap.String("reason", w.Message))
	}

	boundary := ResolveBoundary(pg, asg)
	log.Debug("boundary table frozen",
		zap.Int("nodes", pg.Rows()*pg.Cols()),
		zap.Int("band_edges", len(boundary.Edges())))

	solids := make([]*Solid, cfg.NumColors)
	g, ctx := errgroup.WithContext(ctx)

	for band := 0; band < cfg.NumColors; band++ {
		if asg.Count(band) == 0 {
			continue
		}
		band := band
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			s := BuildSolid(pg, asg, boundary, band, bandName(cfg, band))
			stats, err := ValidateAndRepair(s, DefaultMergeTolerance)
			if err != nil {
				return fmt.Errorf("band %d: %w", band, err)
			}
			if cfg.Verbose && !stats.empty() {
				log.Info("repaired solid",
					zap.Int("band", band),
					zap.String("repairs", stats.String()))
			}

			log.Debug("built solid",
				zap.Int("band", band),
				zap.Int("vertices", len(s.Vertices)),
				zap.Int("triangles", len(s.Faces)),
				zap.Float64("volume_mm3", s.Volume()))

			solids[band] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	asm := &Assembly{
		RunID:    runID,
		Bands:    spec,
		Warnings: warnings,
	}
	for _, s := range solids {
		if s != nil {
			asm.Solids = append(asm.Solids, s)
		}
	}

	log.Info("assembly complete",
		zap.Int("solids", len(asm.Solids)),
		zap.Int("triangles", asm.TriangleCount()),
		zap.Int("warnings", len(asm.Warnings)))

	return asm, nil
}

func checkConfig(cfg Config) error {
	if cfg.NumColors < 1 || cfg.NumColors > 6 {
		return &InvalidBandConfigError{
			Reason: fmt.Sprintf("num_colors must be between 1 and 6, got %d", cfg.NumColors)}
	}
	switch cfg.ColorMode {
	case ModeElevation, ModeSlope:
	default:
		return &InvalidBandConfigError{
			Reason: fmt.Sprintf("unknown color_mode %q", cfg.ColorMode)}
	}
	if len(cfg.ColorNames) != 0 && len(cfg.ColorNames) != cfg.NumColors {
		return &InvalidBandConfigError{
			Reason: fmt.Sprintf("%d color names for %d colors", len(cfg.ColorNames), cfg.NumColors)}
	}
	return nil
}

func bandName(cfg Config, band int) string {
	if len(cfg.ColorNames) > band && cfg.ColorNames[band] != "" {
		return cfg.ColorNames[band]
	}
	return fmt.Sprintf("layer%02d", band)
}
