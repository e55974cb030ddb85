package core

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/lpenlpen/atlas/util"
	"github.com/rivo/uniseg"
)

// TextMeasurer measures a single unwrapped run of text. Implementations must
// be deterministic for a given text and font size.
type TextMeasurer interface {
	MeasureText(text string, fontSize float32) V2
}

// LayoutLine is one visual line of wrapped text. Start and End are rune
// indices into the source text; End excludes any trailing newline.
type LayoutLine struct {
	Text  string
	Start int
	End   int
	Y     float32
}

// Layout is wrapped text with a glyph position for every rune, plus one extra
// slot after the last rune so every cursor position has a glyph.
type Layout struct {
	Size       V2
	LineHeight float32
	Lines      []LayoutLine
	Glyphs     []V2
}

// WrapLayout greedily wraps text to boundingWidth, breaking at Unicode line
// break opportunities. A run with no opportunity inside the bound is broken
// between runes. Trailing spaces hang past the bound.
func WrapLayout(m TextMeasurer, text string, fontSize, boundingWidth float32) (*Layout, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrMeasurement)
	}
	if !validDim(fontSize) || !validDim(boundingWidth) {
		return nil, fmt.Errorf("%w: font size %v, bounding width %v", ErrMeasurement, fontSize, boundingWidth)
	}

	lineHeight := m.MeasureText("Mg", fontSize).Y
	if lineHeight <= 0 {
		lineHeight = fontSize
	}

	runes := []rune(text)
	w := &wrapper{
		measure: func(r []rune) float32 { return m.MeasureText(string(r), fontSize).X },
		bound:   boundingWidth,
		layout: &Layout{
			LineHeight: lineHeight,
			Glyphs:     make([]V2, 0, len(runes)+1),
		},
	}

	paraStart := 0
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && runes[i] != '\n' {
			continue
		}
		w.paragraph(runes, paraStart, i)
		if i < len(runes) {
			// The newline itself sits at the end of the line it terminates.
			w.endSlot()
		}
		paraStart = i + 1
	}

	// Cursor slot after the final rune.
	w.endSlot()

	l := w.layout
	l.Size.Y = float32(len(l.Lines)) * lineHeight
	return l, nil
}

type wrapper struct {
	measure func([]rune) float32
	bound   float32
	layout  *Layout

	// lastX is the width of the most recent line, where its end slot goes.
	lastX float32
}

// paragraph lays out runes[start:end], which holds no newline.
func (w *wrapper) paragraph(runes []rune, start, end int) {
	para := runes[start:end]
	breaks := lineBreaks(para)

	pos := 0
	for {
		// xs[k] is the width of the first k runes of the line; each prefix is
		// measured once.
		xs := []float32{0}
		i, cut := pos, -1
		for i < len(para) {
			x := w.measure(para[pos : i+1])
			if x > w.bound && i > pos && !unicode.IsSpace(para[i]) {
				break
			}
			xs = append(xs, x)
			i++
			if breaks[i] == breakAllowed {
				cut = i
			}
			if breaks[i] == breakMandatory && i < len(para) {
				cut = i
				break
			}
		}
		if i < len(para) && cut > pos {
			i = cut
		}
		w.line(runes, start+pos, start+i, xs[:i-pos+1])
		pos = i
		if pos >= len(para) {
			return
		}
	}
}

// line records runes[start:end] with its prefix widths.
func (w *wrapper) line(runes []rune, start, end int, xs []float32) {
	l := w.layout
	y := float32(len(l.Lines)) * l.LineHeight
	for k := range end - start {
		l.Glyphs = append(l.Glyphs, xy(xs[k], y))
	}
	trimmed := end
	for trimmed > start && unicode.IsSpace(runes[trimmed-1]) {
		trimmed--
	}
	l.Size.X = max(l.Size.X, xs[trimmed-start])
	l.Lines = append(l.Lines, LayoutLine{Text: string(runes[start:end]), Start: start, End: end, Y: y})
	w.lastX = xs[end-start]
}

func (w *wrapper) endSlot() {
	last := w.layout.Lines[len(w.layout.Lines)-1]
	w.layout.Glyphs = append(w.layout.Glyphs, xy(w.lastX, last.Y))
}

type breakKind uint8

const (
	breakNone breakKind = iota
	breakAllowed
	breakMandatory
)

// lineBreaks classifies the position after each rune of para (index k is
// the boundary before para[k]) using the UAX #14 line breaking rules.
func lineBreaks(para []rune) []breakKind {
	breaks := make([]breakKind, len(para)+1)
	rest, state, k := string(para), -1, 0
	for rest != "" {
		var segment string
		var must bool
		segment, rest, must, state = uniseg.FirstLineSegmentInString(rest, state)
		k += utf8.RuneCountInString(segment)
		breaks[k] = util.Tern(must, breakMandatory, breakAllowed)
	}
	return breaks
}

// IndexAt returns the cursor index closest to a content-space point.
func (l *Layout) IndexAt(p V2) int {
	if len(l.Lines) == 0 {
		return 0
	}
	line := int(p.Y / l.LineHeight)
	line = max(0, min(line, len(l.Lines)-1))
	ln := l.Lines[line]

	last := ln.End
	if last >= len(l.Glyphs) {
		last = len(l.Glyphs) - 1
	}
	best, bestDist := ln.Start, float32(-1)
	for i := ln.Start; i <= last; i++ {
		if l.Glyphs[i].Y != ln.Y {
			continue
		}
		d := l.Glyphs[i].X - p.X
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
