package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lpenlpen/atlas/app/core"
)

type V2 = rl.Vector2

// Pointer movement below this many pixels between press and release is a
// click, not a drag.
const DragThreshold = 3

type InputProvider interface {
	IsKeyPressed(key int32) bool
	IsKeyPressedRepeat(key int32) bool
	IsKeyDown(key int32) bool
	IsMouseButtonReleased(button rl.MouseButton) bool
	IsMouseButtonDown(button rl.MouseButton) bool
	GetMousePosition() rl.Vector2
	GetMouseWheelMove() float32
	GetCharPressed() int32
}

type RealInputProvider struct{}

func (p RealInputProvider) IsKeyPressed(key int32) bool {
	return rl.IsKeyPressed(key)
}
func (p RealInputProvider) IsKeyPressedRepeat(key int32) bool {
	return rl.IsKeyPressedRepeat(key)
}
func (p RealInputProvider) IsKeyDown(key int32) bool {
	return rl.IsKeyDown(key)
}
func (p RealInputProvider) IsMouseButtonReleased(button rl.MouseButton) bool {
	return rl.IsMouseButtonReleased(button)
}
func (p RealInputProvider) IsMouseButtonDown(button rl.MouseButton) bool {
	return rl.IsMouseButtonDown(button)
}
func (p RealInputProvider) GetMousePosition() rl.Vector2 {
	return rl.GetMousePosition()
}
func (p RealInputProvider) GetMouseWheelMove() float32 {
	return rl.GetMouseWheelMove()
}
func (p RealInputProvider) GetCharPressed() int32 {
	return rl.GetCharPressed()
}

// Events is everything that happened to the pointer and keyboard in one
// frame.
type Events struct {
	Mouse V2

	// Clicked is set when the left button was released without dragging.
	Clicked  bool
	ClickPos V2

	// DragDelta is the pointer movement of this frame while dragging.
	// DragStart is where the drag began.
	Dragging  bool
	DragStart V2
	DragDelta V2

	Wheel float32
	Chars []rune
	Keys  []int32
	Ctrl  bool
}

// Pressed reports whether key was pressed (or auto-repeated) this frame.
func (e Events) Pressed(key int32) bool {
	for _, k := range e.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// watchedKeys are the keys the viewer reacts to.
var watchedKeys = []int32{
	rl.KeyBackspace, rl.KeyDelete, rl.KeyLeft, rl.KeyRight, rl.KeyUp,
	rl.KeyDown, rl.KeyHome, rl.KeyEnd, rl.KeyEnter, rl.KeyKpEnter,
	rl.KeyEscape, rl.KeyE, rl.KeyF, rl.KeyS,
}

// EditActions maps editor keys to note editing actions.
var EditActions = map[int32]core.EditAction{
	rl.KeyBackspace: core.EditBackspace,
	rl.KeyDelete:    core.EditDelete,
	rl.KeyLeft:      core.EditLeft,
	rl.KeyRight:     core.EditRight,
	rl.KeyUp:        core.EditUp,
	rl.KeyDown:      core.EditDown,
	rl.KeyHome:      core.EditHome,
	rl.KeyEnd:       core.EditEnd,
	rl.KeyEnter:     core.EditNewline,
	rl.KeyKpEnter:   core.EditNewline,
}

// Pointer tells clicks from drags on the left mouse button.
type Pointer struct {
	Input InputProvider

	Dragging bool
	Pending  bool
	Canceled bool

	MouseStart V2
	last       V2
}

func NewPointer(input InputProvider) *Pointer {
	return &Pointer{Input: input}
}

// Poll collects this frame's events. Call once per frame.
func (p *Pointer) Poll() Events {
	in := p.Input
	ev := Events{
		Mouse: in.GetMousePosition(),
		Wheel: in.GetMouseWheelMove(),
		Ctrl:  in.IsKeyDown(rl.KeyLeftControl) || in.IsKeyDown(rl.KeyRightControl),
	}

	for _, k := range watchedKeys {
		if in.IsKeyPressed(k) || in.IsKeyPressedRepeat(k) {
			ev.Keys = append(ev.Keys, k)
		}
	}
	for c := in.GetCharPressed(); c != 0; c = in.GetCharPressed() {
		ev.Chars = append(ev.Chars, rune(c))
	}

	switch {
	case p.Dragging && in.IsKeyPressed(rl.KeyEscape):
		p.Dragging = false
		p.Canceled = true
	case in.IsMouseButtonReleased(rl.MouseLeftButton):
		if p.Pending {
			ev.Clicked = true
			ev.ClickPos = p.MouseStart
		}
		p.Dragging = false
		p.Pending = false
	case in.IsMouseButtonDown(rl.MouseLeftButton):
		if !p.Dragging && !p.Pending && !p.Canceled {
			p.Pending = true
			p.MouseStart = ev.Mouse
			p.last = ev.Mouse
		}
		if p.Pending && rl.Vector2Length(rl.Vector2Subtract(ev.Mouse, p.MouseStart)) >= DragThreshold {
			p.Pending = false
			p.Dragging = true
		}
		if p.Dragging {
			ev.Dragging = true
			ev.DragStart = p.MouseStart
			ev.DragDelta = rl.Vector2Subtract(ev.Mouse, p.last)
			p.last = ev.Mouse
		}
	default:
		p.Dragging = false
		p.Pending = false
		p.Canceled = false
	}

	return ev
}
