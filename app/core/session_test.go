package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWindow = xy(1000, 800)

func newTestSession(t *testing.T, p *Project) (*Session, *memStore) {
	t.Helper()
	store := &memStore{}
	s, err := NewSession(p, testImages(), &monoMeasurer{Advance: 10}, store, testWindow, 16)
	require.NoError(t, err)
	return s, store
}

// screenOf projects a map-space point through the Map camera.
func screenOf(s *Session, p V2) V2 {
	return s.Cameras.DrawParam(MapCamera, Vec(p)).Screen()
}

func TestNewSessionLaysOutCameras(t *testing.T) {
	s, _ := newTestSession(t, testProject())

	mapCam, ok := s.Cameras.Lookup(MapCamera)
	require.True(t, ok)
	assert.InDelta(t, 800.0/1500.0, mapCam.Scale, eps)
	assert.Equal(t, xy(700, 800), mapCam.ViewportSize)
	assert.Equal(t, V2{}, mapCam.Offset)

	textCam, ok := s.Cameras.Lookup(TextWindowCamera)
	require.True(t, ok)
	assert.Equal(t, xy(700, 240), textCam.ViewportPosition)
	assert.Equal(t, "# World overview\nThe whole continent.", s.Text.Editor.Text)

	_, hasParent := s.CurrentParent()
	assert.False(t, hasParent)
}

func TestNewSessionFailsOnMissingImage(t *testing.T) {
	p := testProject()
	p.Current = 2
	_, err := NewSession(p, testImages(), &monoMeasurer{Advance: 10}, &memStore{}, testWindow, 16)
	assert.ErrorIs(t, err, ErrMissingAsset)
}

func TestClickMarkerNavigates(t *testing.T) {
	s, _ := newTestSession(t, testProject())

	changed, err := s.Click(Vec(screenOf(s, xy(880, 855))))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, MapID(1), s.Project.Current)
	assert.Equal(t, []MapID{0}, s.Project.History)
	assert.Equal(t, "City notes", s.Text.Editor.Text)

	mapCam := s.Cameras.Get(MapCamera)
	assert.InDelta(t, 0.8, mapCam.Scale, eps)

	parent, ok := s.CurrentParent()
	require.True(t, ok)
	assert.Equal(t, MapID(0), parent.ID)
	parentCam, ok := s.Cameras.Lookup(ParentMapCamera)
	require.True(t, ok)
	assert.Equal(t, xy(700, 0), parentCam.ViewportPosition)
	assert.Equal(t, xy(300, 240), parentCam.ViewportSize)
	assert.InDelta(t, 0.16, parentCam.Scale, eps)
}

func TestClickMissesEverything(t *testing.T) {
	s, _ := newTestSession(t, testProject())

	changed, err := s.Click(Vec(screenOf(s, xy(1200, 300))))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, MapID(0), s.Project.Current)
	assert.Empty(t, s.Project.History)

	// No parent, so the inset area is inert.
	changed, err = s.Click(Pair{850, 120})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestHitMarkerPrefersNearestThenLowestID(t *testing.T) {
	p := testProject()
	world := p.Maps[0]
	world.Markers[9] = &Marker{Target: 1, Position: xy(600, 600)}
	world.Markers[7] = &Marker{Target: 1, Position: xy(600, 600)}
	world.Markers[8] = &Marker{Target: 1, Position: xy(610, 600)}
	s, _ := newTestSession(t, p)

	id, _, ok := s.HitMarker(Vec(screenOf(s, xy(600, 600))))
	require.True(t, ok)
	assert.Equal(t, MarkerID(7), id)

	id, _, ok = s.HitMarker(Vec(screenOf(s, xy(609, 600))))
	require.True(t, ok)
	assert.Equal(t, MarkerID(8), id)

	_, _, ok = s.HitMarker(Vec(screenOf(s, xy(600, 625))))
	assert.False(t, ok)
}

func TestParentInsetAndBack(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	require.NoError(t, s.JumpTo(1))

	changed, err := s.Click(Pair{850, 120})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, MapID(0), s.Project.Current)
	assert.Equal(t, []MapID{0, 1}, s.Project.History)

	require.NoError(t, s.Back())
	assert.Equal(t, MapID(1), s.Project.Current)
	assert.Equal(t, []MapID{0}, s.Project.History)

	require.NoError(t, s.Back())
	assert.Equal(t, MapID(0), s.Project.Current)
	assert.Empty(t, s.Project.History)

	require.NoError(t, s.Back())
	assert.Equal(t, MapID(0), s.Project.Current)
}

func TestBackDropsUnresolvableEntry(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	before := *s.Cameras.Get(MapCamera)
	s.Project.History = []MapID{1, 2, 42}

	err := s.Back()
	assert.ErrorIs(t, err, ErrMissingMap)
	assert.Equal(t, MapID(0), s.Project.Current)
	assert.Equal(t, []MapID{1, 2}, s.Project.History)
	assert.Equal(t, before, *s.Cameras.Get(MapCamera))

	// A missing image may come back, so that entry stays.
	err = s.Back()
	assert.ErrorIs(t, err, ErrMissingAsset)
	assert.Equal(t, []MapID{1, 2}, s.Project.History)
	assert.Equal(t, MapID(0), s.Project.Current)
}

func TestMarkerBeatsParentInset(t *testing.T) {
	p := testProject()
	town := NewMap(5, "city.png")
	town.Parent = mapID(1)
	p.AddMap(town)
	p.Maps[1].Markers[3].Target = 5
	s, _ := newTestSession(t, p)
	require.NoError(t, s.JumpTo(1))

	// Stretch the inset over the whole window so both regions overlap.
	parentCam := *s.Cameras.Get(ParentMapCamera)
	parentCam.ViewportPosition = V2{}
	parentCam.ViewportSize = testWindow
	s.Cameras.Set(ParentMapCamera, parentCam)

	changed, err := s.Click(Vec(screenOf(s, xy(500, 500))))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, MapID(5), s.Project.Current)
	assert.Equal(t, []MapID{0, 1}, s.Project.History)
}

func TestFailedNavigationKeepsState(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	before := *s.Cameras.Get(MapCamera)
	text := s.Text.Editor.Text

	changed, err := s.Click(Vec(screenOf(s, xy(100, 100))))
	assert.ErrorIs(t, err, ErrMissingAsset)
	assert.False(t, changed)
	assert.Equal(t, MapID(0), s.Project.Current)
	assert.Empty(t, s.Project.History)
	assert.Equal(t, before, *s.Cameras.Get(MapCamera))
	assert.Equal(t, text, s.Text.Editor.Text)

	err = s.JumpTo(3)
	assert.ErrorIs(t, err, ErrMissingMap)
	assert.Equal(t, MapID(0), s.Project.Current)

	err = s.JumpTo(42)
	assert.ErrorIs(t, err, ErrMissingMap)
	assert.Empty(t, s.Project.History)
}

func TestResize(t *testing.T) {
	s, _ := newTestSession(t, testProject())

	require.NoError(t, s.Resize(xy(1200, 900)))
	cam := s.Cameras.Get(MapCamera)
	assert.InDelta(t, 0.6, cam.Scale, eps)
	assert.Equal(t, xy(840, 900), cam.ViewportSize)
	assert.Equal(t, xy(1200, 900), s.Window)
	assert.Equal(t, xy(840, 270), s.Cameras.Get(TextWindowCamera).ViewportPosition)

	before := *cam
	err := s.Resize(xy(0, 800))
	assert.ErrorIs(t, err, ErrInvalidDimension)
	assert.Equal(t, xy(1200, 900), s.Window)
	assert.Equal(t, before, *s.Cameras.Get(MapCamera))
}

func TestResizeKeepsZoom(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	s.Wheel(1, Pair{350, 400})
	zoomed := s.Cameras.Get(MapCamera).Scale
	require.Greater(t, zoomed, float32(0.54))

	require.NoError(t, s.Resize(xy(1000, 810)))
	cam := s.Cameras.Get(MapCamera)
	assert.InDelta(t, 0.54, cam.ScaleMin, eps)
	assert.Equal(t, zoomed, cam.Scale)
	assert.InDelta(t, 700-zoomed*2000, cam.OffsetMin.X, eps)
	assert.GreaterOrEqual(t, cam.Offset.X, cam.OffsetMin.X)
	assert.GreaterOrEqual(t, cam.Offset.Y, cam.OffsetMin.Y)
}

func TestResizeSameSizeKeepsView(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	s.Wheel(1, Pair{350, 400})
	zoomed := s.Cameras.Get(MapCamera).Scale

	require.NoError(t, s.Resize(testWindow))
	assert.Equal(t, zoomed, s.Cameras.Get(MapCamera).Scale)
}

func TestWheel(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	start := s.Cameras.Get(MapCamera).Scale

	assert.True(t, s.Wheel(1, Pair{350, 400}))
	assert.InDelta(t, start*ZoomStep, s.Cameras.Get(MapCamera).Scale, eps)

	assert.True(t, s.Wheel(-1, Pair{350, 400}))
	assert.InDelta(t, start, s.Cameras.Get(MapCamera).Scale, eps)

	assert.True(t, s.Wheel(1, Pair{850, 500}), "notes panel scrolls")
	assert.Equal(t, float32(0), s.Cameras.Get(TextWindowCamera).Offset.Y)

	assert.False(t, s.Wheel(1, Pair{850, 100}), "empty inset")
	assert.False(t, s.Wheel(0, Pair{350, 400}))
}

func TestDragIsClamped(t *testing.T) {
	s, _ := newTestSession(t, testProject())

	s.Drag(Pair{-10, -10})
	assertV2(t, xy(-10, 0), s.Cameras.Get(MapCamera).Offset)

	s.Drag(Pair{-10000, 0})
	cam := s.Cameras.Get(MapCamera)
	assert.Equal(t, cam.OffsetMin.X, cam.Offset.X)
}

func TestEditNotes(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	require.NoError(t, s.JumpTo(1))

	s.TypeRune('x')
	assert.Equal(t, "City notes", s.Text.Editor.Text, "typing needs edit mode")

	s.ToggleEdit()
	require.True(t, s.Editing)
	s.EditKey(EditEnd)
	s.TypeRune('!')
	assert.Equal(t, "City notes", s.Project.Maps[1].Info.Content)

	s.ToggleEdit()
	assert.False(t, s.Editing)
	assert.Equal(t, "City notes!", s.Project.Maps[1].Info.Content)
}

func TestEditKeys(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	require.NoError(t, s.JumpTo(1))
	s.ToggleEdit()

	s.EditKey(EditEnd)
	s.EditKey(EditNewline)
	s.TypeRune('a')
	s.EditKey(EditUp)
	assert.Equal(t, 1, s.Text.Editor.Indicator)
	s.EditKey(EditDown)
	assert.Equal(t, 12, s.Text.Editor.Indicator)
	s.EditKey(EditLeft)
	s.EditKey(EditBackspace)
	assert.Equal(t, "City notesa", s.Text.Editor.Text)
	s.EditKey(EditDelete)
	assert.Equal(t, "City notes", s.Text.Editor.Text)
	s.EditKey(EditHome)
	s.EditKey(EditRight)
	assert.Equal(t, 1, s.Text.Editor.Indicator)
}

func TestClickPlacesCursorWhileEditing(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	require.NoError(t, s.JumpTo(1))
	s.ToggleEdit()
	s.EditKey(EditEnd)
	require.Equal(t, 10, s.Text.Editor.Indicator)

	changed, err := s.Click(Pair{705, 245})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, s.Text.Editor.Indicator)
}

func TestNavigationFlushesEdits(t *testing.T) {
	s, _ := newTestSession(t, testProject())
	require.NoError(t, s.JumpTo(1))
	s.ToggleEdit()
	s.TypeRune('x')

	require.NoError(t, s.Back())
	assert.False(t, s.Editing)
	assert.Equal(t, "xCity notes", s.Project.Maps[1].Info.Content)
	assert.Equal(t, 0, s.Text.Editor.Indicator)
	assert.Equal(t, s.Project.Maps[0].Info.Content, s.Text.Editor.Text)
}

func TestSave(t *testing.T) {
	s, store := newTestSession(t, testProject())
	require.NoError(t, s.JumpTo(1))
	s.ToggleEdit()
	s.TypeRune('>')

	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, 1, store.Saves)
	assert.Equal(t, ">City notes", store.Saved.Maps[1].Info.Content)
	assert.True(t, s.Editing, "saving keeps edit mode")

	boom := errors.New("disk full")
	store.SaveErr = boom
	assert.ErrorIs(t, s.Save(context.Background()), boom)
}
