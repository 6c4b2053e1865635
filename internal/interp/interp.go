// Package interp chooses the resampling algorithm used when an image is
// resized and maps each algorithm onto an x/image/draw interpolator.
package interp

import (
	"fmt"
	"math"

	"golang.org/x/image/draw"

	"im2rec/internal/faults"
)

// Algorithm identifies a resampling algorithm. The numeric values match the
// inter_method codes accepted on the command line.
type Algorithm int

const (
	Nearest Algorithm = iota
	Linear
	Cubic
	Area
	Lanczos4
)

// Mode is the inter_method policy: one of the fixed algorithms, Auto, or Random.
type Mode int

const (
	ModeNearest  = Mode(Nearest)
	ModeLinear   = Mode(Linear)
	ModeCubic    = Mode(Cubic)
	ModeArea     = Mode(Area)
	ModeLanczos4 = Mode(Lanczos4)
	ModeAuto     = Mode(9)
	ModeRandom   = Mode(10)
)

// NumAlgorithms is the size of the pool Random draws from.
const NumAlgorithms = 5

// Rand is the slice of math/rand/v2 the selector needs. Callers own the
// generator so that a seeded run reproduces the same algorithm sequence.
type Rand interface {
	IntN(n int) int
}

// ParseMode validates an inter_method code.
func ParseMode(code int) (Mode, error) {
	switch m := Mode(code); m {
	case ModeNearest, ModeLinear, ModeCubic, ModeArea, ModeLanczos4, ModeAuto, ModeRandom:
		return m, nil
	default:
		return 0, faults.Wrap(faults.ErrConfiguration, "config", "inter_method",
			fmt.Sprintf("unknown inter_method %d (want 0-4, 9 or 10)", code), nil)
	}
}

// Select returns the algorithm for resizing an oldW×oldH image to newW×newH.
// Fixed modes return themselves; Auto picks cubic for enlargement, area for
// shrinking and linear otherwise; Random consumes exactly one draw from rng.
func Select(mode Mode, oldW, oldH, newW, newH int, rng Rand) Algorithm {
	switch mode {
	case ModeAuto:
		switch {
		case newW > oldW && newH > oldH:
			return Cubic
		case newW < oldW && newH < oldH:
			return Area
		default:
			return Linear
		}
	case ModeRandom:
		return Algorithm(rng.IntN(NumAlgorithms))
	default:
		return Algorithm(mode)
	}
}

func (a Algorithm) String() string {
	switch a {
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	case Area:
		return "area"
	case Lanczos4:
		return "lanczos4"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeRandom:
		return "random"
	default:
		return Algorithm(m).String()
	}
}

// Describe returns the log line used when a run starts.
func (m Mode) Describe() string {
	switch m {
	case ModeAuto:
		return "auto (cubic for enlarge, area for shrink, linear otherwise)"
	case ModeRandom:
		return "random (nearest/linear/cubic/area/lanczos4)"
	default:
		return m.String()
	}
}

// areaKernel is a box filter. draw widens the support by the scale factor
// when shrinking, which turns it into a pixel-area average. A source pixel
// exactly half a pixel away gets half weight so a destination center landing
// on a boundary still averages its two neighbours.
var areaKernel = &draw.Kernel{
	Support: 0.5 + 1e-9,
	At: func(t float64) float64 {
		if t < 0.5 {
			return 1
		}
		return 0.5
	},
}

var lanczos4Kernel = &draw.Kernel{
	Support: 4,
	At: func(t float64) float64 {
		if t == 0 {
			return 1
		}
		if t >= 4 {
			return 0
		}
		x := math.Pi * t
		return 4 * math.Sin(x) * math.Sin(x/4) / (x * x)
	},
}

// Scaler returns the interpolator implementing a.
func (a Algorithm) Scaler() draw.Scaler {
	switch a {
	case Nearest:
		return draw.NearestNeighbor
	case Cubic:
		return draw.CatmullRom
	case Area:
		return areaKernel
	case Lanczos4:
		return lanczos4Kernel
	default:
		return draw.BiLinear
	}
}
