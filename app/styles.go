package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lpenlpen/atlas/util"
	"github.com/lucasb-eyer/go-colorful"
)

func hex(s string) colorful.Color {
	return util.Must1(colorful.Hex(s))
}

// RGBA converts a palette color for drawing.
func RGBA(c colorful.Color, alpha uint8) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.Color{R: r, G: g, B: b, A: alpha}
}

var (
	Night    = hex("#0c0e11")
	Charcoal = hex("#141619")
	DarkGray = hex("#212428")
	Gray     = hex("#43474f")
	White    = hex("#fafafc")

	Accent = hex("#e8a33d")
	Danger = hex("#d9534f")
)

// Marker colors go from idle to hovered by blending in Lab space.
var (
	MarkerIdle    = Accent
	MarkerHover   = Accent.BlendLab(White, 0.45)
	MarkerMissing = Accent.BlendLab(Gray, 0.7)
)

// Placeholder is drawn where an image could not be loaded.
var Placeholder = DarkGray.BlendLab(Danger, 0.25)

const S1 = 4
const S2 = 8
const S3 = 16

const F1 = 14
const F2 = 18
