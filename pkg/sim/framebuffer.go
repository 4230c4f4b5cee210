package sim

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"sync"

	pkgerrs "github.com/pkg/errors"
)

// ErrInvalidRect is returned when filling a rectangle with negative size.
var ErrInvalidRect = errors.New("invalid rectangle")

// Framebuffer is a simulated display. Drawing goes to a back buffer and
// Display copies it to the visible front buffer.
type Framebuffer struct {
	ChangeCaster

	lock    sync.Mutex
	back    *image.RGBA
	front   *image.RGBA
	frames  int
	failure error
}

// NewFramebuffer creates a Framebuffer of the given size, all black.
func NewFramebuffer(width, height int) *Framebuffer {
	rect := image.Rect(0, 0, width, height)
	fb := &Framebuffer{back: image.NewRGBA(rect), front: image.NewRGBA(rect)}
	black := image.NewUniform(color.RGBA{A: 0xff})
	draw.Draw(fb.back, rect, black, image.Point{}, draw.Src)
	draw.Draw(fb.front, rect, black, image.Point{}, draw.Src)
	return fb
}

// Name implements Object.
func (fb *Framebuffer) Name() string {
	return "display"
}

// Size implements drivers.Displayer.
func (fb *Framebuffer) Size() (x, y int16) {
	size := fb.back.Rect.Size()
	return int16(size.X), int16(size.Y)
}

// SetPixel implements drivers.Displayer. Pixels off screen are ignored.
func (fb *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	fb.lock.Lock()
	fb.back.SetRGBA(int(x), int(y), c)
	fb.lock.Unlock()
}

// FillRectangle fills the rectangle clipped to the screen.
func (fb *Framebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if width < 0 || height < 0 {
		return ErrInvalidRect
	}
	rect := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height))
	fb.lock.Lock()
	draw.Draw(fb.back, rect.Intersect(fb.back.Rect), image.NewUniform(c), image.Point{}, draw.Src)
	fb.lock.Unlock()
	return nil
}

// Display implements drivers.Displayer.
func (fb *Framebuffer) Display() error {
	fb.lock.Lock()
	if err := fb.failure; err != nil {
		fb.lock.Unlock()
		return err
	}
	copy(fb.front.Pix, fb.back.Pix)
	fb.frames++
	fb.lock.Unlock()
	fb.ObjectChanged(fb)
	return nil
}

// FailWith makes subsequent Display calls fail with err, nil restores it.
func (fb *Framebuffer) FailWith(err error) {
	fb.lock.Lock()
	fb.failure = err
	fb.lock.Unlock()
}

// Frames returns the number of successful Display calls.
func (fb *Framebuffer) Frames() int {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	return fb.frames
}

// Image returns a copy of the visible frame.
func (fb *Framebuffer) Image() *image.RGBA {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	img := image.NewRGBA(fb.front.Rect)
	copy(img.Pix, fb.front.Pix)
	return img
}

// WritePNG encodes the visible frame as PNG.
func (fb *Framebuffer) WritePNG(w io.Writer) error {
	return png.Encode(w, fb.Image())
}

// SavePNG writes the visible frame to a PNG file.
func (fb *Framebuffer) SavePNG(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return pkgerrs.Wrapf(err, "create snapshot %s", fn)
	}
	if err = fb.WritePNG(f); err != nil {
		f.Close()
		return pkgerrs.Wrapf(err, "encode snapshot %s", fn)
	}
	return pkgerrs.Wrapf(f.Close(), "close snapshot %s", fn)
}
