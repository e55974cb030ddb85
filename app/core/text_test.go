package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextEditorEditing(t *testing.T) {
	var e TextEditor
	e.SetText("héllo")
	assert.Equal(t, 0, e.Indicator)

	e.End()
	e.Insert('!')
	assert.Equal(t, "héllo!", e.Text)
	assert.Equal(t, 6, e.Indicator)

	e.Left()
	e.Left()
	e.Backspace()
	assert.Equal(t, "hélo!", e.Text)
	assert.Equal(t, 3, e.Indicator)

	e.Delete()
	assert.Equal(t, "hél!", e.Text)

	e.Home()
	e.Backspace()
	assert.Equal(t, "hél!", e.Text)
	assert.Equal(t, 0, e.Indicator)

	e.Left()
	assert.Equal(t, 0, e.Indicator)
	e.End()
	e.Right()
	e.Delete()
	assert.Equal(t, 4, e.Indicator)
	assert.Equal(t, "hél!", e.Text)
}

func TestTextEditorLines(t *testing.T) {
	var e TextEditor
	e.SetText("wörld\nsecond line")
	e.Indicator = 9

	e.Home()
	assert.Equal(t, 6, e.Indicator)
	e.End()
	assert.Equal(t, 17, e.Indicator)

	e.Indicator = 3
	e.End()
	assert.Equal(t, 5, e.Indicator)

	e.InsertString("!!")
	assert.Equal(t, "wörld!!\nsecond line", e.Text)

	e.SetText("ab")
	assert.Equal(t, 2, e.Indicator, "indicator is clamped to the new text")
}

func TestTextLayoutCachesMeasurement(t *testing.T) {
	m := &monoMeasurer{Advance: 10}
	tl := NewTextLayout(16)
	tl.SetText("one two three")

	_, err := tl.Measure(m, 200)
	require.NoError(t, err)
	calls := m.Calls

	_, err = tl.Measure(m, 200)
	require.NoError(t, err)
	assert.Equal(t, calls, m.Calls)

	tl.SetText("other")
	size, err := tl.Measure(m, 200)
	require.NoError(t, err)
	assert.Greater(t, m.Calls, calls)
	assert.Equal(t, xy(50, 16), size)
}

func TestComputeTextSize(t *testing.T) {
	window := xy(1000, 800)
	tl := NewTextLayout(16)

	tl.SetText("hi").ComputeTextSize(&monoMeasurer{Advance: 10}, window, 48)
	assert.Equal(t, xy(20, 64), tl.TextSize)

	tl.SetText("").ComputeTextSize(&monoMeasurer{Advance: 10}, window, 48)
	assert.Equal(t, MinTextBox(window), tl.TextSize)
}

func TestArrangeCameraShortText(t *testing.T) {
	window := xy(1000, 800)
	m := &monoMeasurer{Advance: 10}
	cam := NewCamera()

	tl := NewTextLayout(16)
	require.NoError(t, tl.SetText("hi").Arrange(m, cam, window, 48))

	view := TextViewport(window)
	assert.InDelta(t, 300.0/260.0, cam.Scale, eps)
	assert.Equal(t, view.Position, cam.ViewportPosition)
	assert.Equal(t, view.Size, cam.ViewportSize)
	assert.Equal(t, float32(0), cam.Offset.Y)
}

func TestArrangeCameraEmptyTextFallsBack(t *testing.T) {
	cam := NewCamera()
	tl := NewTextLayout(16)
	require.NoError(t, tl.SetText("").Arrange(&monoMeasurer{Advance: 10}, cam, xy(1000, 800), 48))
	assert.InDelta(t, 300.0/260.0, cam.Scale, eps)
	assert.Equal(t, float32(0), cam.Offset.Y)
}

func TestArrangeCameraKeepsCursorVisible(t *testing.T) {
	window := xy(1000, 800)
	m := &monoMeasurer{Advance: 10}
	cam := NewCamera()
	view := TextViewport(window)

	tl := NewTextLayout(16)
	tl.SetText(strings.Repeat("word\n", 99) + "word")

	for _, ind := range []int{0, 5 * 30, 5 * 50, 5 * 80, 5*99 + 4} {
		tl.Editor.Indicator = ind
		require.NoError(t, tl.SetTextFromEditor().Arrange(m, cam, window, 48))

		pos, lh, ok := tl.Cursor()
		require.True(t, ok)
		top := cam.ForwardTransform(Vec(pos)).Y
		bottom := cam.ForwardTransform(Vec(xy(pos.X, pos.Y+lh))).Y
		assert.GreaterOrEqual(t, top, float32(-eps), "indicator %d", ind)
		assert.LessOrEqual(t, bottom, view.Size.Y+eps, "indicator %d", ind)
		assert.GreaterOrEqual(t, cam.Offset.Y, cam.OffsetMin.Y)
	}

	tl.Editor.Indicator = 5*99 + 4
	require.NoError(t, tl.SetTextFromEditor().Arrange(m, cam, window, 48))
	assert.Equal(t, cam.OffsetMin.Y, cam.Offset.Y)
}

func TestArrangeCameraRemeasuresStaleLayout(t *testing.T) {
	window := xy(1000, 800)
	m := &monoMeasurer{Advance: 10}

	tl := NewTextLayout(16)
	tl.SetText(strings.Repeat("word\n", 99) + "word")
	tl.Editor.Indicator = 5*99 + 4

	cam := NewCamera()
	require.NoError(t, tl.Arrange(m, cam, window, 48))
	require.Less(t, cam.Offset.Y, float32(0))

	// The editor changed but nothing remeasured: the cursor still scrolls.
	tl.SetTextFromEditor()
	other := NewCamera()
	require.NoError(t, tl.ArrangeCamera(m, other, window))
	assert.Equal(t, cam.Offset, other.Offset)
	assert.Equal(t, cam.Scale, other.Scale)
}

func TestTextLayoutMoveLineAndPlaceCursor(t *testing.T) {
	m := &monoMeasurer{Advance: 10}
	tl := NewTextLayout(16)
	tl.SetText("ab\ncd")
	_, err := tl.Measure(m, 1000)
	require.NoError(t, err)

	tl.Editor.Indicator = 4
	tl.MoveLine(-1)
	assert.Equal(t, 1, tl.Editor.Indicator)
	tl.MoveLine(1)
	assert.Equal(t, 4, tl.Editor.Indicator)
	tl.MoveLine(1)
	assert.Equal(t, 5, tl.Editor.Indicator)
	tl.Editor.Indicator = 1
	tl.MoveLine(-1)
	assert.Equal(t, 0, tl.Editor.Indicator)

	tl.PlaceCursor(xy(19, 20))
	assert.Equal(t, 5, tl.Editor.Indicator)
}
