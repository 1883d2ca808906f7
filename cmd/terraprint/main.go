// Package main is the terraprint command line entry point: it turns a job
// configuration into printable terrain solids.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/printforge/terraprint/internal/config"
	"github.com/printforge/terraprint/internal/elevation"
	"github.com/printforge/terraprint/internal/export"
	"github.com/printforge/terraprint/internal/geocode"
	"github.com/printforge/terraprint/internal/logger"
	"github.com/printforge/terraprint/internal/mesh"
	"github.com/printforge/terraprint/internal/preview"
	"github.com/printforge/terraprint/internal/terrain"
	"github.com/printforge/terraprint/pkg/geo"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	path := config.ConfigPath()
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: terraprint [flags] <config.yaml>")
		os.Exit(2)
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if op := config.CacheOp(); op != "" {
		if err := runCacheOp(ctx, cfg, op); err != nil {
			logger.Error("cache maintenance failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg); err != nil {
		logger.Error("terraprint failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	apiKey := resolveAPIKey()

	bounds, err := resolveBounds(ctx, cfg, apiKey)
	if err != nil {
		return err
	}
	logger.Info("resolved area",
		zap.Float64("north", bounds.North),
		zap.Float64("south", bounds.South),
		zap.Float64("east", bounds.East),
		zap.Float64("west", bounds.West))

	var cache *elevation.Cache
	if cfg.Cache.Enabled {
		cache, err = elevation.OpenCache(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	fetcher := elevation.NewFetcher(apiKey, cache)
	grid, err := fetcher.FetchGrid(ctx, bounds, float64(cfg.Terrain.ResolutionMeters))
	if err != nil {
		return err
	}

	pg, err := grid.Project(terrain.ScaleOptions{
		PrinterBedMM:         float64(cfg.Output.PrinterBedMM),
		VerticalExaggeration: cfg.Terrain.VerticalExaggeration,
		BaseThicknessMM:      cfg.Terrain.BaseThicknessMM,
	})
	if err != nil {
		return err
	}

	if cfg.Terrain.HeightStepping.Enabled {
		pg = terrain.ApplyStepping(pg, terrain.SteppingOptions{
			StepHeightMM:      cfg.Terrain.HeightStepping.StepHeightMM,
			SmoothTransitions: cfg.Terrain.HeightStepping.SmoothTransitions,
			BlendFraction:     cfg.Terrain.HeightStepping.BlendFraction,
		})
	}

	meshCfg := meshConfig(cfg)
	asm, err := mesh.Build(ctx, pg, meshCfg)
	if err != nil {
		return err
	}
	for _, w := range asm.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}

	res, err := export.Write(asm, export.Options{
		Filename:   cfg.Output.Filename,
		Format:     export.Format(strings.ToLower(cfg.Output.Format)),
		ColorNames: meshCfg.ColorNames,
		NumColors:  meshCfg.NumColors,
	})
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		fmt.Printf("Wrote %s\n", f)
	}

	if config.Preview() {
		if err := writePreviews(pg, meshCfg, res.Dir); err != nil {
			return err
		}
	}

	fmt.Printf("Done: %d solids, %d triangles\n", len(asm.Solids), asm.TriangleCount())
	return nil
}

// resolveBounds uses explicit bounds when configured and geocodes the
// address otherwise.
func resolveBounds(ctx context.Context, cfg *config.Config, apiKey string) (geo.Bounds, error) {
	if cfg.Location.Bounds != nil {
		return *cfg.Location.Bounds, nil
	}
	if apiKey == "" {
		return geo.Bounds{}, fmt.Errorf(
			"geocoding %q needs a Google API key (set -google-api-key or GOOGLE_MAPS_API_KEY)",
			cfg.Location.Address)
	}
	return geocode.NewClient(apiKey).Bounds(ctx, cfg.Location.Address, cfg.Location.RadiusKM)
}

func resolveAPIKey() string {
	if key := config.APIKey(); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_MAPS_API_KEY")
}

func meshConfig(cfg *config.Config) mesh.Config {
	if !cfg.Terrain.Colors.Enabled {
		return mesh.Config{
			NumColors: 1,
			ColorMode: mesh.ModeElevation,
			Verbose:   cfg.Logging.Level == "debug",
		}
	}
	return mesh.Config{
		NumColors:  cfg.Terrain.Colors.NumColors,
		ColorMode:  mesh.Mode(cfg.Terrain.Colors.ColorMode),
		ColorNames: cfg.Terrain.Colors.ColorNames,
		Verbose:    cfg.Logging.Level == "debug",
	}
}

func writePreviews(pg *terrain.PhysicalGrid, meshCfg mesh.Config, dir string) error {
	if err := preview.Heatmap(pg, filepath.Join(dir, "terrain_preview.png")); err != nil {
		return err
	}

	_, asg, _ := mesh.Partition(pg, meshCfg.NumColors, meshCfg.ColorMode)
	colors := export.Palette(meshCfg.ColorNames, meshCfg.NumColors)
	if err := preview.Bands(pg, asg, colors, filepath.Join(dir, "terrain_bands.png")); err != nil {
		return err
	}

	fmt.Printf("Wrote previews to %s\n", dir)
	return nil
}

func runCacheOp(ctx context.Context, cfg *config.Config, op string) error {
	cache, err := elevation.OpenCache(cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer cache.Close()

	switch op {
	case "info":
		info, err := cache.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Cache: %s\n", info.Path)
		fmt.Printf("Entries: %d\n", info.Entries)
		fmt.Printf("Size: %.2f MB\n", float64(info.Bytes)/(1024*1024))
		return nil
	case "clear":
		if err := cache.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("Cache cleared")
		return nil
	default:
		return fmt.Errorf("unknown cache operation %q (want 'info' or 'clear')", op)
	}
}
