package app

import (
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lpenlpen/atlas/app/core"
	"github.com/tliron/commonlog"
)

// ImageCache loads images by reference on first use and keeps them for the
// rest of the session. Failed loads are remembered too, so a missing file is
// reported once and not retried every frame.
type ImageCache[T any] struct {
	Dir string

	load    func(path string) (T, V2, error)
	unload  func(T)
	entries map[string]imageEntry[T]
	log     commonlog.Logger
}

type imageEntry[T any] struct {
	img  T
	size V2
	err  error
}

func newImageCache[T any](dir string, load func(string) (T, V2, error), unload func(T)) *ImageCache[T] {
	return &ImageCache[T]{
		Dir:     dir,
		load:    load,
		unload:  unload,
		entries: make(map[string]imageEntry[T]),
		log:     commonlog.GetLogger("atlas.images"),
	}
}

// TextureCache holds GPU textures and needs an open window.
type TextureCache = ImageCache[rl.Texture2D]

func NewTextureCache(dir string) *TextureCache {
	return newImageCache(dir, loadTexture, rl.UnloadTexture)
}

// ImageProbe only reads image sizes and works without a window.
type ImageProbe = ImageCache[struct{}]

func NewImageProbe(dir string) *ImageProbe {
	return newImageCache(dir, probeImage, nil)
}

func (c *ImageCache[T]) path(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(c.Dir, ref)
}

// Get returns the image for ref, loading it on first use.
func (c *ImageCache[T]) Get(ref string) (T, V2, error) {
	if e, ok := c.entries[ref]; ok {
		return e.img, e.size, e.err
	}

	var e imageEntry[T]
	if ref == "" {
		e.err = fmt.Errorf("%w: empty image reference", core.ErrMissingAsset)
	} else {
		img, size, err := c.load(c.path(ref))
		if err != nil {
			e.err = fmt.Errorf("%w: %s: %v", core.ErrMissingAsset, ref, err)
			c.log.Warningf("%s", e.err.Error())
		} else {
			e.img, e.size = img, size
			c.log.Debugf("loaded %s (%vx%v)", ref, size.X, size.Y)
		}
	}
	c.entries[ref] = e
	return e.img, e.size, e.err
}

// ImageSize implements core.ImageSizer.
func (c *ImageCache[T]) ImageSize(ref string) (V2, error) {
	_, size, err := c.Get(ref)
	return size, err
}

// Close releases every loaded image.
func (c *ImageCache[T]) Close() {
	for ref, e := range c.entries {
		if e.err == nil && c.unload != nil {
			c.unload(e.img)
		}
		delete(c.entries, ref)
	}
}

func loadTexture(path string) (rl.Texture2D, V2, error) {
	if _, err := os.Stat(path); err != nil {
		return rl.Texture2D{}, V2{}, err
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 || tex.Width <= 0 || tex.Height <= 0 {
		return rl.Texture2D{}, V2{}, fmt.Errorf("could not decode %s", path)
	}
	return tex, V2{X: float32(tex.Width), Y: float32(tex.Height)}, nil
}

func probeImage(path string) (struct{}, V2, error) {
	if _, err := os.Stat(path); err != nil {
		return struct{}{}, V2{}, err
	}
	img := rl.LoadImage(path)
	defer rl.UnloadImage(img)
	if img.Width <= 0 || img.Height <= 0 {
		return struct{}{}, V2{}, fmt.Errorf("could not decode %s", path)
	}
	return struct{}{}, V2{X: float32(img.Width), Y: float32(img.Height)}, nil
}
