package core

import (
	"fmt"
	"math"

	"github.com/lpenlpen/atlas/util"
)

// ZoomRange is the ratio between the largest and smallest allowed scale.
const ZoomRange = 5

// Camera is one independently panned and zoomed viewport.
//
// Content is drawn at ForwardTransform(p) = p*Scale + Offset, relative to the
// top-left corner of the viewport. Scale stays within [ScaleMin, ScaleMax] and
// Offset within [OffsetMin, OffsetMax] componentwise.
type Camera struct {
	Offset V2
	Scale  float32

	OffsetMin V2
	OffsetMax V2

	ScaleMin float32
	ScaleMax float32

	ViewportPosition V2
	ViewportSize     V2
}

func NewCamera() *Camera {
	return &Camera{
		Scale:    1,
		ScaleMin: 1,
		ScaleMax: 1,
	}
}

// DrawParam is what the renderer needs to place one piece of content.
// Dest is relative to Origin, the top-left corner of the camera's viewport.
type DrawParam struct {
	Dest   V2
	Scale  V2
	Origin V2
}

// Screen returns the absolute screen position of Dest.
func (d DrawParam) Screen() V2 {
	return xy(d.Dest.X+d.Origin.X, d.Dest.Y+d.Origin.Y)
}

// IdentityDrawParam places content at its own coordinates, unscaled.
func IdentityDrawParam(p Position) DrawParam {
	return DrawParam{Dest: Pos(p), Scale: xy(1, 1)}
}

func validDim(v float32) bool {
	f := float64(v)
	return v > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func checkDims(what string, sizes ...V2) error {
	for _, s := range sizes {
		if !validDim(s.X) || !validDim(s.Y) {
			return fmt.Errorf("%w: %s %vx%v", ErrInvalidDimension, what, s.X, s.Y)
		}
	}
	return nil
}

// SetLimits recomputes the scale and offset limits for the given viewport and
// content. It does not move the camera; follow with ZoomOut or Clamp.
func (c *Camera) SetLimits(viewportSize, contentSize, viewportPosition V2) error {
	if err := checkDims("viewport/content", viewportSize, contentSize); err != nil {
		return err
	}

	scaleMin := util.Max(viewportSize.X/contentSize.X, viewportSize.Y/contentSize.Y)

	c.ScaleMin = scaleMin
	c.ScaleMax = ZoomRange * scaleMin
	c.OffsetMax = V2{}
	c.OffsetMin = xy(
		util.Min(viewportSize.X-scaleMin*contentSize.X, 0),
		util.Min(viewportSize.Y-scaleMin*contentSize.Y, 0),
	)
	c.ViewportSize = viewportSize
	c.ViewportPosition = viewportPosition
	return nil
}

// ZoomOut shows the whole content at the smallest scale.
func (c *Camera) ZoomOut() *Camera {
	c.Scale = c.ScaleMin
	c.Offset = V2{}
	return c
}

// Clamp pulls Scale and Offset back inside the current limits. OffsetMin is
// widened to the clamped scale so zoomed-in content stays reachable.
func (c *Camera) Clamp() *Camera {
	c.Scale = util.Clamp(c.Scale, c.ScaleMin, c.ScaleMax)
	if c.ScaleMin > 0 {
		ratio := c.Scale / c.ScaleMin
		c.OffsetMin = xy(
			util.Min(c.ViewportSize.X-(c.ViewportSize.X-c.OffsetMin.X)*ratio, 0),
			util.Min(c.ViewportSize.Y-(c.ViewportSize.Y-c.OffsetMin.Y)*ratio, 0),
		)
	}
	c.Offset = xy(
		util.Clamp(c.Offset.X, c.OffsetMin.X, c.OffsetMax.X),
		util.Clamp(c.Offset.Y, c.OffsetMin.Y, c.OffsetMax.Y),
	)
	return c
}

func (c *Camera) Pan(delta Position) {
	dx, dy := delta.XY()
	c.Offset.X = util.Clamp(c.Offset.X+dx, c.OffsetMin.X, c.OffsetMax.X)
	c.Offset.Y = util.Clamp(c.Offset.Y+dy, c.OffsetMin.Y, c.OffsetMax.Y)
}

// Zoom multiplies the scale by factor while keeping the content under target
// (in viewport space) in place. With recenterOffsetMin the lower offset bound
// is rescaled about the far edge of the viewport so the whole zoomed content
// stays reachable by panning.
func (c *Camera) Zoom(factor float32, target Position, recenterOffsetMin bool) {
	tx, ty := target.XY()

	prev := c.Scale
	c.Scale = util.Clamp(c.Scale*factor, c.ScaleMin, c.ScaleMax)
	ratio := c.Scale / prev

	if recenterOffsetMin {
		c.OffsetMin.X = util.Min(c.ViewportSize.X-(c.ViewportSize.X-c.OffsetMin.X)*ratio, 0)
		c.OffsetMin.Y = util.Min(c.ViewportSize.Y-(c.ViewportSize.Y-c.OffsetMin.Y)*ratio, 0)
	}

	c.Offset.X = util.Clamp(-(tx-c.Offset.X)*ratio+tx, c.OffsetMin.X, c.OffsetMax.X)
	c.Offset.Y = util.Clamp(-(ty-c.Offset.Y)*ratio+ty, c.OffsetMin.Y, c.OffsetMax.Y)
}

// ForwardTransform maps content space to viewport space.
func (c *Camera) ForwardTransform(p Position) V2 {
	x, y := p.XY()
	return xy(x*c.Scale+c.Offset.X, y*c.Scale+c.Offset.Y)
}

// InverseTransform maps viewport space back to content space.
func (c *Camera) InverseTransform(p Position) V2 {
	x, y := p.XY()
	return xy((x-c.Offset.X)/c.Scale, (y-c.Offset.Y)/c.Scale)
}

func (c *Camera) DrawParam(p Position) DrawParam {
	return DrawParam{
		Dest:   c.ForwardTransform(p),
		Scale:  xy(c.Scale, c.Scale),
		Origin: c.ViewportPosition,
	}
}

// IsWithin reports whether the screen point lies strictly inside the
// viewport. Points on the border are outside.
func (c *Camera) IsWithin(p Position) bool {
	x, y := p.XY()
	return c.ViewportPosition.X < x && x < c.ViewportPosition.X+c.ViewportSize.X &&
		c.ViewportPosition.Y < y && y < c.ViewportPosition.Y+c.ViewportSize.Y
}

// Local converts an absolute screen point to viewport space.
func (c *Camera) Local(p Position) V2 {
	x, y := p.XY()
	return xy(x-c.ViewportPosition.X, y-c.ViewportPosition.Y)
}

// ScaleToFitHorizontal locks the scale so the content exactly fills the
// viewport width and only vertical scrolling is possible. The vertical offset
// is set to indicatorOffsetY, clamped, so the caller can keep a cursor in view.
func (c *Camera) ScaleToFitHorizontal(viewportSize, contentSize, viewportPosition V2, indicatorOffsetY float32) error {
	if err := checkDims("viewport/content", viewportSize, contentSize); err != nil {
		return err
	}

	scale := viewportSize.X / contentSize.X

	c.Scale = scale
	c.ScaleMin = scale
	c.ScaleMax = scale
	c.OffsetMax = V2{}
	c.OffsetMin = xy(0, util.Min(viewportSize.Y-scale*contentSize.Y, 0))
	c.ViewportSize = viewportSize
	c.ViewportPosition = viewportPosition
	c.Offset = xy(0, util.Clamp(indicatorOffsetY, c.OffsetMin.Y, c.OffsetMax.Y))
	return nil
}
