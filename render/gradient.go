// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/js-arias/blind"
)

// Gradienter is an interface for types
// that return a color gradient.
type Gradienter interface {
	Gradient(v float64) color.Color
}

// Incandescent is the incandescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_incandescent>.
type Incandescent struct{}

func (i Incandescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Incandescent, clamp(v))
}

// Iridescent is the iridescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_iridescent>.
type Iridescent struct{}

func (i Iridescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Iridescent, clamp(v))
}

// RainbowPurpleToRed is the rainbow color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>
// starting at purple and ending at red.
type RainbowPurpleToRed struct{}

func (r RainbowPurpleToRed) Gradient(v float64) color.Color {
	return blind.Sequential(blind.RainbowPurpleToRed, clamp(v))
}

// GrayScale returns a gray scale
// between 200 (light gray)
// and 0 (black).
type GrayScale struct{}

func (g GrayScale) Gradient(v float64) color.Color {
	c := 200 - uint8(clamp(v)*200)
	return color.RGBA{c, c, c, 255}
}

// ParseGradient returns a color gradient
// from its name.
func ParseGradient(name string) (Gradienter, error) {
	switch strings.ToLower(name) {
	case "", "iridescent":
		return Iridescent{}, nil
	case "incandescent":
		return Incandescent{}, nil
	case "rainbow":
		return RainbowPurpleToRed{}, nil
	case "gray", "grey":
		return GrayScale{}, nil
	}
	return nil, fmt.Errorf("unknown color gradient %q", name)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// A palette is a discrete palette
// built from a gradient.
type palette struct {
	g Gradienter
	n int
}

// Colors implements the palette.Palette interface.
func (p palette) Colors() []color.Color {
	cs := make([]color.Color, p.n)
	for i := range cs {
		cs[i] = p.g.Gradient(float64(i) / float64(p.n-1))
	}
	return cs
}
