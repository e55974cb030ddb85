package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const DefaultFontSize = 20

// LetterSpacing is the extra space between glyphs, relative to the font size.
const LetterSpacing = 0.1

type FontDesc struct {
	Path string
	Size int
}

var fontCache = make(map[FontDesc]rl.Font)

// LoadFont returns the font at path rasterized for size, or raylib's built-in
// font when path is empty or cannot be loaded.
func LoadFont(path string, size int) rl.Font {
	if path == "" {
		return rl.GetFontDefault()
	}
	desc := FontDesc{path, size}
	if cached, ok := fontCache[desc]; ok {
		return cached
	}

	dpi := rl.GetWindowScaleDPI()

	font := rl.LoadFontEx(path, int32(float32(size)*dpi.X), nil)
	if font.Texture.ID == 0 {
		font = rl.GetFontDefault()
	}
	fontCache[desc] = font

	return font
}

func UnloadFonts() {
	def := rl.GetFontDefault()
	for desc, font := range fontCache {
		if font.Texture.ID != def.Texture.ID {
			rl.UnloadFont(font)
		}
		delete(fontCache, desc)
	}
}

// FontMeasurer measures notes text with a raylib font.
type FontMeasurer struct {
	FontPath string
}

func (m FontMeasurer) MeasureText(text string, fontSize float32) V2 {
	font := LoadFont(m.FontPath, int(fontSize))
	return rl.MeasureTextEx(font, text, fontSize, fontSize*LetterSpacing)
}
