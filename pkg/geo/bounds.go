// Package geo provides geographic bounding boxes and degree/meter conversions.
package geo

import (
	"fmt"
	"math"
)

// MetersPerDegreeLat is the approximate north-south extent of one degree
// of latitude.
const MetersPerDegreeLat = 111320.0

// Bounds is a geographic bounding box in decimal degrees.
type Bounds struct {
	North float64 `yaml:"north" json:"north"`
	South float64 `yaml:"south" json:"south"`
	East  float64 `yaml:"east" json:"east"`
	West  float64 `yaml:"west" json:"west"`
}

// Validate checks that the box is well formed.
func (b Bounds) Validate() error {
	if b.North <= b.South {
		return fmt.Errorf("north bound %.6f must be greater than south bound %.6f", b.North, b.South)
	}
	if b.East <= b.West {
		return fmt.Errorf("east bound %.6f must be greater than west bound %.6f", b.East, b.West)
	}
	return nil
}

// Center returns the midpoint of the box.
func (b Bounds) Center() (lat, lon float64) {
	return (b.North + b.South) / 2, (b.East + b.West) / 2
}

// WidthMeters returns the approximate east-west extent at the box center.
func (b Bounds) WidthMeters() float64 {
	lat, _ := b.Center()
	return (b.East - b.West) * MetersPerDegreeLat * math.Cos(lat*math.Pi/180)
}

// HeightMeters returns the approximate north-south extent.
func (b Bounds) HeightMeters() float64 {
	return (b.North - b.South) * MetersPerDegreeLat
}

// FromCenter builds a box around a center point with the given radius.
func FromCenter(lat, lon, radiusKM float64) Bounds {
	const earthRadiusKM = 6371.0

	latDelta := (radiusKM / earthRadiusKM) * (180 / math.Pi)
	lonDelta := latDelta / math.Cos(lat*math.Pi/180)

	return Bounds{
		North: lat + latDelta,
		South: lat - latDelta,
		East:  lon + lonDelta,
		West:  lon - lonDelta,
	}
}

// GridSteps returns how many sample rows and columns a grid over the box
// needs at the given ground resolution. Both counts are at least 2 so the
// grid always spans at least one cell.
func (b Bounds) GridSteps(resolutionMeters float64) (rows, cols int) {
	rows = int(b.HeightMeters()/resolutionMeters) + 1
	cols = int(b.WidthMeters()/resolutionMeters) + 1
	if rows < 2 {
		rows = 2
	}
	if cols < 2 {
		cols = 2
	}
	return rows, cols
}
