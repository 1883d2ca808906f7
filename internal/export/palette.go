// Package export writes finished assemblies to printable file formats:
// one binary STL per band, a single OBJ with per-band materials, or a 3MF
// with per-object colors.
package export

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// namedColors maps the color names accepted in configuration to RGBA
// values. Lookup is case-insensitive.
var namedColors = map[string]color.RGBA{
	"red":     {255, 0, 0, 255},
	"green":   {0, 255, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"orange":  {255, 165, 0, 255},
	"purple":  {128, 0, 128, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"brown":   {139, 69, 19, 255},
	"pink":    {255, 192, 203, 255},
	"navy":    {0, 0, 128, 255},
	"dark":    {64, 64, 64, 255},
	"light":   {192, 192, 192, 255},
	"white":   {255, 255, 255, 255},
	"black":   {0, 0, 0, 255},
}

// Palette returns one color per band. Named bands use their named color;
// unknown names get a rotating hue. Without names the palette is an
// elevation gradient running blue, green, yellow, red from the lowest band
// to the highest.
func Palette(names []string, numColors int) []color.RGBA {
	if len(names) > 0 {
		colors := make([]color.RGBA, 0, numColors)
		for i := 0; i < numColors; i++ {
			if i < len(names) {
				if c, ok := namedColors[strings.ToLower(names[i])]; ok {
					colors = append(colors, c)
					continue
				}
			}
			colors = append(colors, hueColor(len(colors)))
		}
		return colors
	}
	return gradientPalette(numColors)
}

// gradientPalette interpolates blue to green to yellow to red across the
// bands, lowest elevation first.
func gradientPalette(numColors int) []color.RGBA {
	colors := make([]color.RGBA, numColors)
	for i := range colors {
		ratio := 0.0
		if numColors > 1 {
			ratio = float64(i) / float64(numColors-1)
		}
		switch {
		case ratio < 0.33:
			t := ratio / 0.33
			colors[i] = color.RGBA{0, uint8(255 * t), uint8(255 * (1 - t)), 255}
		case ratio < 0.66:
			t := (ratio - 0.33) / 0.33
			colors[i] = color.RGBA{uint8(255 * t), 255, 0, 255}
		default:
			t := (ratio - 0.66) / 0.34
			colors[i] = color.RGBA{255, uint8(255 * (1 - t)), 0, 255}
		}
	}
	return colors
}

// hueColor rotates the hue in 60 degree steps for bands whose configured
// name is not in the palette.
func hueColor(index int) color.RGBA {
	h := float64((index*60)%360) / 60
	f := h - math.Floor(h)

	var r, g, b float64
	switch int(h) % 6 {
	case 0:
		r, g, b = 1, f, 0
	case 1:
		r, g, b = 1-f, 1, 0
	case 2:
		r, g, b = 0, 1, f
	case 3:
		r, g, b = 0, 1-f, 1
	case 4:
		r, g, b = f, 0, 1
	case 5:
		r, g, b = 1, 0, 1-f
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

// hexColor formats a color as the #RRGGBB form used in 3MF and MTL files.
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
