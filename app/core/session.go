package core

import (
	"context"
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lpenlpen/atlas/util"
	"github.com/tliron/commonlog"
)

const (
	// MarkerSize is the hit radius of a marker, in map space.
	MarkerSize = 20.0

	// ZoomStep is the scale factor applied per wheel notch.
	ZoomStep = 1.1

	// TextFill is the room kept free below the notes for the panel chrome.
	TextFill = 48.0

	// ScrollStep is how far one wheel notch scrolls the notes panel.
	ScrollStep = 40.0
)

// ImageSizer reports the pixel size of an image reference. Unknown images
// return ErrMissingAsset.
type ImageSizer interface {
	ImageSize(ref string) (V2, error)
}

// EditAction is a non-character key press while editing notes.
type EditAction int

const (
	EditBackspace EditAction = iota
	EditDelete
	EditLeft
	EditRight
	EditUp
	EditDown
	EditHome
	EditEnd
	EditNewline
)

// Session is all state of one viewing session. Every operation runs on the
// frame loop; nothing here is safe for concurrent use.
type Session struct {
	Project  *Project
	Cameras  *CameraManager
	Text     *TextLayout
	Images   ImageSizer
	Measurer TextMeasurer
	Store    Store

	Window  V2
	Editing bool

	log commonlog.Logger
}

// NewSession enters the project's current map and lays out all cameras.
func NewSession(p *Project, images ImageSizer, measurer TextMeasurer, store Store, window V2, fontSize float32) (*Session, error) {
	s := &Session{
		Project:  p,
		Cameras:  NewCameraManager(),
		Text:     NewTextLayout(fontSize),
		Images:   images,
		Measurer: measurer,
		Store:    store,
		Window:   window,
		log:      commonlog.GetLogger("atlas.session"),
	}
	t, err := s.prepare(p.Current, window, true)
	if err != nil {
		return nil, err
	}
	s.commit(t)
	return s, nil
}

// transition is a fully computed view of one map, applied only once every
// piece of it succeeded.
type transition struct {
	target    *Map
	window    V2
	mapCam    Camera
	parentCam *Camera
	textCam   Camera
	text      TextLayout
}

// prepare computes the view of map id for the window. With fit set the map
// cameras are zoomed out, otherwise they keep their zoom within the new limits.
func (s *Session) prepare(id MapID, window V2, fit bool) (*transition, error) {
	target, err := s.Project.Resolve(id)
	if err != nil {
		return nil, err
	}

	t := &transition{target: target, window: window}

	size, err := s.Images.ImageSize(target.Image)
	if err != nil {
		return nil, fmt.Errorf("map %d: %w", id, err)
	}
	t.mapCam = *s.Cameras.Get(MapCamera)
	view := MapViewport(window)
	if err := t.mapCam.SetLimits(view.Size, size, view.Position); err != nil {
		return nil, fmt.Errorf("map %d: %w", id, err)
	}
	settle(&t.mapCam, fit)

	parent, ok, err := s.Project.ParentOf(target)
	if err != nil {
		return nil, fmt.Errorf("parent of map %d: %w", id, err)
	}
	if ok {
		psize, err := s.Images.ImageSize(parent.Image)
		if err != nil {
			return nil, fmt.Errorf("parent map %d: %w", parent.ID, err)
		}
		cam := *s.Cameras.Get(ParentMapCamera)
		view := ParentViewport(window)
		if err := cam.SetLimits(view.Size, psize, view.Position); err != nil {
			return nil, fmt.Errorf("parent map %d: %w", parent.ID, err)
		}
		settle(&cam, fit)
		t.parentCam = &cam
	}

	t.text = *s.Text
	content := target.Info.Content
	if target.ID == s.Project.Current && s.Editing {
		content = s.Text.Editor.Text
	}
	t.text.SetText(content)
	if target.ID != s.Project.Current {
		t.text.Editor.Indicator = 0
	}
	t.textCam = *s.Cameras.Get(TextWindowCamera)
	if err := t.text.Arrange(s.Measurer, &t.textCam, window, TextFill); err != nil {
		return nil, fmt.Errorf("notes of map %d: %w", id, err)
	}

	return t, nil
}

func settle(c *Camera, fit bool) {
	if fit {
		c.ZoomOut()
		return
	}
	c.Clamp()
}

func (s *Session) commit(t *transition) {
	util.Assert(t.target != nil, "commit without a target map")
	s.Cameras.Set(MapCamera, t.mapCam)
	if t.parentCam != nil {
		s.Cameras.Set(ParentMapCamera, *t.parentCam)
	}
	s.Cameras.Set(TextWindowCamera, t.textCam)
	*s.Text = t.text
	s.Window = t.window
	s.Project.Current = t.target.ID
}

// flushEdits writes the editor buffer into the current map's notes.
func (s *Session) flushEdits() {
	if !s.Editing {
		return
	}
	if cur, err := s.Project.CurrentMap(); err == nil {
		cur.Info.Content = s.Text.Editor.Text
	}
}

type historyMode int

const (
	pushHistory historyMode = iota
	popHistory
)

func (s *Session) navigate(id MapID, mode historyMode) error {
	from := s.Project.Current
	s.flushEdits()
	wasEditing := s.Editing
	s.Editing = false

	t, err := s.prepare(id, s.Window, true)
	if err != nil {
		s.Editing = wasEditing
		s.log.Errorf("navigate %d -> %d: %s", from, id, err.Error())
		return err
	}

	switch mode {
	case pushHistory:
		s.Project.PushHistory(from)
	case popHistory:
		s.Project.PopHistory()
	}
	s.commit(t)
	s.log.Infof("navigate %d -> %d (history %d)", from, id, len(s.Project.History))
	return nil
}

// CurrentParent returns the current map's parent, if it has one.
func (s *Session) CurrentParent() (*Map, bool) {
	cur, err := s.Project.CurrentMap()
	if err != nil {
		return nil, false
	}
	parent, ok, err := s.Project.ParentOf(cur)
	if err != nil {
		return nil, false
	}
	return parent, ok
}

// HitMarker finds the marker under a screen point in the Map viewport. The
// nearest marker within MarkerSize wins; equal distances go to the lower id.
func (s *Session) HitMarker(p Position) (MarkerID, *Marker, bool) {
	cam, ok := s.Cameras.Lookup(MapCamera)
	if !ok || !cam.IsWithin(p) {
		return 0, nil, false
	}
	cur, err := s.Project.CurrentMap()
	if err != nil {
		return 0, nil, false
	}

	world := cam.InverseTransform(Vec(cam.Local(p)))
	var (
		bestID   MarkerID
		best     *Marker
		bestDist float32
	)
	for _, id := range cur.SortedMarkerIDs() {
		mk := cur.Markers[id]
		d := rl.Vector2Distance(world, mk.Position)
		if d >= MarkerSize {
			continue
		}
		if best == nil || d < bestDist {
			bestID, best, bestDist = id, mk, d
		}
	}
	return bestID, best, best != nil
}

// Click handles a pointer click at a screen point. A marker hit takes
// precedence; the parent inset is only tested when no marker was hit. It
// reports whether the current map changed.
func (s *Session) Click(p Position) (bool, error) {
	if _, mk, ok := s.HitMarker(p); ok {
		if err := s.navigate(mk.Target, pushHistory); err != nil {
			return false, err
		}
		return true, nil
	}

	if parent, ok := s.CurrentParent(); ok && s.Cameras.IsWithin(ParentMapCamera, p) {
		if err := s.navigate(parent.ID, pushHistory); err != nil {
			return false, err
		}
		return true, nil
	}

	if s.Editing && s.Cameras.IsWithin(TextWindowCamera, p) {
		cam := s.Cameras.Get(TextWindowCamera)
		s.Text.PlaceCursor(cam.InverseTransform(Vec(cam.Local(p))))
	}
	return false, nil
}

// Back returns to the previous map. An empty history is a no-op. An entry
// whose map no longer resolves is dropped so older entries stay reachable;
// the view is left as it was.
func (s *Session) Back() error {
	id, ok := s.Project.PeekHistory()
	if !ok {
		return nil
	}
	err := s.navigate(id, popHistory)
	if errors.Is(err, ErrMissingMap) {
		s.Project.PopHistory()
		s.log.Warningf("dropped history entry %d", id)
		return fmt.Errorf("history entry %d dropped: %w", id, err)
	}
	return err
}

// JumpTo navigates straight to a map, recording the current one in history.
func (s *Session) JumpTo(id MapID) error {
	return s.navigate(id, pushHistory)
}

// Resize relays out every camera for a new window size. The current map
// stays the same and the map views keep their zoom where the new limits
// allow it.
func (s *Session) Resize(window V2) error {
	if window == s.Window {
		return nil
	}
	t, err := s.prepare(s.Project.Current, window, false)
	if err != nil {
		s.log.Errorf("resize to %vx%v: %s", window.X, window.Y, err.Error())
		return err
	}
	s.commit(t)
	return nil
}

// Wheel zooms the map or scrolls the notes, depending on where the pointer
// is. It reports whether anything handled the wheel.
func (s *Session) Wheel(delta float32, p Position) bool {
	if delta == 0 {
		return false
	}
	if cam, ok := s.Cameras.Lookup(MapCamera); ok && cam.IsWithin(p) {
		factor := float32(ZoomStep)
		if delta < 0 {
			factor = 1 / ZoomStep
		}
		cam.Zoom(factor, Vec(cam.Local(p)), true)
		return true
	}
	if cam, ok := s.Cameras.Lookup(TextWindowCamera); ok && cam.IsWithin(p) {
		cam.Pan(Pair{0, delta * ScrollStep})
		return true
	}
	return false
}

// Drag pans the map by a screen-space delta.
func (s *Session) Drag(delta Position) {
	s.Cameras.Get(MapCamera).Pan(delta)
}

// ToggleEdit switches the notes panel between viewing and editing. Leaving
// edit mode stores the text in the current map.
func (s *Session) ToggleEdit() {
	if s.Editing {
		s.flushEdits()
		s.Editing = false
	} else {
		s.Editing = true
	}
	s.rearrange()
}

func (s *Session) TypeRune(r rune) {
	if !s.Editing {
		return
	}
	s.Text.Editor.Insert(r)
	s.Text.SetTextFromEditor()
	s.rearrange()
}

func (s *Session) EditKey(a EditAction) {
	if !s.Editing {
		return
	}
	e := &s.Text.Editor
	switch a {
	case EditBackspace:
		e.Backspace()
	case EditDelete:
		e.Delete()
	case EditLeft:
		e.Left()
	case EditRight:
		e.Right()
	case EditUp:
		s.Text.MoveLine(-1)
	case EditDown:
		s.Text.MoveLine(1)
	case EditHome:
		e.Home()
	case EditEnd:
		e.End()
	case EditNewline:
		e.Insert('\n')
	}
	s.Text.SetTextFromEditor()
	s.rearrange()
}

func (s *Session) rearrange() {
	if err := s.Text.Arrange(s.Measurer, s.Cameras.Get(TextWindowCamera), s.Window, TextFill); err != nil {
		s.log.Warningf("arrange notes: %s", err.Error())
	}
}

// Save stores the project, including unsaved notes.
func (s *Session) Save(ctx context.Context) error {
	s.flushEdits()
	if err := s.Store.Save(ctx, s.Project); err != nil {
		s.log.Errorf("save: %s", err.Error())
		return err
	}
	s.log.Infof("saved %d maps", len(s.Project.Maps))
	return nil
}
