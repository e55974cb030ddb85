package core

import (
	"unicode/utf8"

	"github.com/lpenlpen/atlas/util"
)

// CursorOvershoot scrolls a little past the cursor so the line after it is
// still visible.
const CursorOvershoot = 1.1

// TextEditor is a text buffer with a cursor. Indicator is a rune index in
// [0, rune count].
type TextEditor struct {
	Text      string
	Indicator int
}

func (e *TextEditor) runes() []rune { return []rune(e.Text) }

func (e *TextEditor) clampIndicator() {
	e.Indicator = util.Clamp(e.Indicator, 0, utf8.RuneCountInString(e.Text))
}

func (e *TextEditor) SetText(s string) {
	e.Text = s
	e.clampIndicator()
}

func (e *TextEditor) Insert(r rune) {
	e.InsertString(string(r))
}

func (e *TextEditor) InsertString(s string) {
	e.clampIndicator()
	rs := e.runes()
	ins := []rune(s)
	out := make([]rune, 0, len(rs)+len(ins))
	out = append(out, rs[:e.Indicator]...)
	out = append(out, ins...)
	out = append(out, rs[e.Indicator:]...)
	e.Text = string(out)
	e.Indicator += len(ins)
}

// Backspace deletes the rune before the cursor.
func (e *TextEditor) Backspace() {
	e.clampIndicator()
	if e.Indicator == 0 {
		return
	}
	rs := e.runes()
	e.Text = string(append(rs[:e.Indicator-1:e.Indicator-1], rs[e.Indicator:]...))
	e.Indicator--
}

// Delete deletes the rune after the cursor.
func (e *TextEditor) Delete() {
	e.clampIndicator()
	rs := e.runes()
	if e.Indicator >= len(rs) {
		return
	}
	e.Text = string(append(rs[:e.Indicator:e.Indicator], rs[e.Indicator+1:]...))
}

func (e *TextEditor) Left() {
	e.Indicator = util.Clamp(e.Indicator-1, 0, utf8.RuneCountInString(e.Text))
}

func (e *TextEditor) Right() {
	e.Indicator = util.Clamp(e.Indicator+1, 0, utf8.RuneCountInString(e.Text))
}

// Home moves to the start of the current hard line.
func (e *TextEditor) Home() {
	e.clampIndicator()
	rs := e.runes()
	i := e.Indicator
	for i > 0 && rs[i-1] != '\n' {
		i--
	}
	e.Indicator = i
}

// End moves to the end of the current hard line.
func (e *TextEditor) End() {
	e.clampIndicator()
	rs := e.runes()
	i := e.Indicator
	for i < len(rs) && rs[i] != '\n' {
		i++
	}
	e.Indicator = i
}

// TextLayout keeps the notes panel's measured size in sync with the text and
// drives the TextWindow camera so the cursor stays on screen.
type TextLayout struct {
	Editor   TextEditor
	FontSize float32

	// TextSize is the measured size plus the vertical fill below the text.
	TextSize V2

	layout      *Layout
	layoutWidth float32
}

func NewTextLayout(fontSize float32) *TextLayout {
	return &TextLayout{
		FontSize: fontSize,
		TextSize: xy(1, 1),
	}
}

// SetText replaces the buffer and drops the cached measurement.
func (t *TextLayout) SetText(s string) *TextLayout {
	t.Editor.SetText(s)
	t.invalidate()
	return t
}

// SetTextFromEditor drops the cached measurement after the editor changed.
func (t *TextLayout) SetTextFromEditor() *TextLayout {
	t.Editor.clampIndicator()
	t.invalidate()
	return t
}

func (t *TextLayout) invalidate() {
	t.layout = nil
}

// Measure lays the text out within boundingWidth and returns its tight
// bounding box. The layout is cached until the text or width changes.
func (t *TextLayout) Measure(m TextMeasurer, boundingWidth float32) (V2, error) {
	if t.layout != nil && t.layoutWidth == boundingWidth {
		return t.layout.Size, nil
	}
	l, err := WrapLayout(m, t.Editor.Text, t.FontSize, boundingWidth)
	if err != nil {
		t.layout = nil
		return V2{}, err
	}
	t.layout, t.layoutWidth = l, boundingWidth
	return l.Size, nil
}

// ComputeTextSize measures the text for the panel of the given window and
// reserves yFill extra room below it. Text that cannot be measured falls back
// to the minimum box.
func (t *TextLayout) ComputeTextSize(m TextMeasurer, window V2, yFill float32) *TextLayout {
	size, err := t.Measure(m, TextBoundingWidth(window))
	if err != nil {
		t.TextSize = MinTextBox(window)
		return t
	}
	t.TextSize = xy(size.X, size.Y+yFill)
	return t
}

// CursorY is the content-space y of the glyph under the cursor, or 0 when
// nothing is laid out.
func (t *TextLayout) CursorY() float32 {
	if t.layout == nil || len(t.layout.Glyphs) == 0 {
		return 0
	}
	i := util.Clamp(t.Editor.Indicator, 0, len(t.layout.Glyphs)-1)
	return t.layout.Glyphs[i].Y
}

// Cursor returns the content-space position of the cursor and the line
// height, for drawing the caret.
func (t *TextLayout) Cursor() (V2, float32, bool) {
	if t.layout == nil || len(t.layout.Glyphs) == 0 {
		return V2{}, t.FontSize, false
	}
	i := util.Clamp(t.Editor.Indicator, 0, len(t.layout.Glyphs)-1)
	return t.layout.Glyphs[i], t.layout.LineHeight, true
}

// Lines returns the wrapped lines of the last measurement.
func (t *TextLayout) Lines() []LayoutLine {
	if t.layout == nil {
		return nil
	}
	return t.layout.Lines
}

// ArrangeCamera fits the panel camera to the text width and scrolls it so the
// cursor is visible.
func (t *TextLayout) ArrangeCamera(m TextMeasurer, cam *Camera, window V2) error {
	var cursorY float32
	if _, err := t.Measure(m, TextBoundingWidth(window)); err == nil {
		cursorY = t.CursorY()
	}

	view := TextViewport(window)
	minBox := MinTextBox(window)
	content := xy(util.Max(t.TextSize.X, minBox.X), util.Max(t.TextSize.Y, minBox.Y))

	return cam.ScaleToFitHorizontal(view.Size, content, view.Position, -CursorOvershoot*cursorY)
}

// Arrange remeasures and rearranges in one step.
func (t *TextLayout) Arrange(m TextMeasurer, cam *Camera, window V2, yFill float32) error {
	return t.ComputeTextSize(m, window, yFill).ArrangeCamera(m, cam, window)
}

// PlaceCursor moves the cursor to the glyph nearest a content-space point.
func (t *TextLayout) PlaceCursor(p V2) {
	if t.layout == nil {
		return
	}
	t.Editor.Indicator = t.layout.IndexAt(p)
}

// MoveLine moves the cursor up (dir < 0) or down (dir > 0) one visual line,
// keeping its x position as close as possible.
func (t *TextLayout) MoveLine(dir int) {
	pos, lh, ok := t.Cursor()
	if !ok {
		return
	}
	target := xy(pos.X, pos.Y+float32(dir)*lh+lh/2)
	if target.Y < 0 {
		t.Editor.Indicator = 0
		return
	}
	if n := len(t.layout.Lines); n > 0 && target.Y >= float32(n)*lh {
		t.Editor.Indicator = utf8.RuneCountInString(t.Editor.Text)
		return
	}
	t.Editor.Indicator = t.layout.IndexAt(target)
}
