package core

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// V2 is the point and size type used throughout the engine.
type V2 = rl.Vector2

// Position is anything that can report a 2D point. Cameras accept it so
// callers can hand in whatever point representation they already have.
type Position interface {
	XY() (x, y float32)
}

// Vec adapts a raylib vector to Position.
type Vec rl.Vector2

func (v Vec) XY() (float32, float32) { return v.X, v.Y }

// Pair adapts an (x, y) tuple to Position.
type Pair [2]float32

func (p Pair) XY() (float32, float32) { return p[0], p[1] }

// Pos converts any Position into a V2.
func Pos(p Position) V2 {
	x, y := p.XY()
	return V2{X: x, Y: y}
}

func xy(x, y float32) V2 { return V2{X: x, Y: y} }
