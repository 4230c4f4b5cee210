// Package display draws the owl scene and moves the owl on button events.
package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"

	"github.com/robotalks/badge.go/pkg/event"
)

// Display is a screen the scene can be drawn on.
type Display interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// Screen and owl geometry, in pixels.
const (
	ScreenWidth  = 320
	ScreenHeight = 170

	OwlBodyDiameter = 80
	OwlHeadDiameter = 50
	OwlBeakY        = 42
	OwlBeakDX       = 7
	OwlBeakDY       = 10
	OwlEyeDiameter  = 12
	OwlEyeY         = 20
	OwlEyeDX        = 3
	OwlY            = 10

	OwlMinX = 0
	OwlMaxX = ScreenWidth - OwlBodyDiameter
	// OwlStartX centers the owl horizontally.
	OwlStartX = ScreenWidth/2 - OwlBodyDiameter/2

	CaptionY = ScreenHeight - 6
)

// Caption is written at the bottom of the screen.
const Caption = "HELLO I AM AN OWL"

// Scene colors.
var (
	Background = color.RGBA{A: 0xff}
	Foreground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Position is the horizontal position of the owl.
type Position struct {
	X int
}

// StartPosition returns the owl position at startup.
func StartPosition() Position {
	return Position{X: OwlStartX}
}

// Apply moves the position by one pixel for Left and Right, staying within
// [OwlMinX, OwlMaxX]. It reports whether the position changed.
func (p *Position) Apply(ev event.Event) bool {
	x := p.X
	switch ev {
	case event.Left:
		x = max(x-1, OwlMinX)
	case event.Right:
		x = min(x+1, OwlMaxX)
	default:
		return false
	}
	if x == p.X {
		return false
	}
	p.X = x
	return true
}

// Scene draws the owl and its background.
type Scene struct {
	Font tinyfont.Fonter
}

// DefaultScene returns a Scene using the bold mono font for the caption.
func DefaultScene() *Scene {
	return &Scene{Font: &freemono.Bold9pt7b}
}

// DrawBackground blanks the screen and writes the caption centered at
// the bottom.
func (s *Scene) DrawBackground(d Display) error {
	if err := d.FillRectangle(0, 0, ScreenWidth, ScreenHeight, Background); err != nil {
		return err
	}
	if s.Font == nil {
		return nil
	}
	_, width := tinyfont.LineWidth(s.Font, Caption)
	x := (ScreenWidth - int16(width)) / 2
	tinyfont.WriteLine(d, s.Font, x, CaptionY, Caption, Foreground)
	return nil
}

// Clear erases the owl drawn at x.
func (s *Scene) Clear(d Display, x int) error {
	return d.FillRectangle(int16(x), OwlY, OwlBodyDiameter, OwlBodyDiameter+OwlHeadDiameter, Background)
}

// DrawOwl draws the owl outline with its left edge at x.
func (s *Scene) DrawOwl(d Display, x int) {
	headX := x + (OwlBodyDiameter-OwlHeadDiameter)/2
	headMid := headX + OwlHeadDiameter/2

	circle(d, x, OwlY+OwlHeadDiameter, OwlBodyDiameter)
	circle(d, headX, OwlY, OwlHeadDiameter)
	circle(d, headMid-OwlEyeDX-OwlEyeDiameter, OwlEyeY, OwlEyeDiameter)
	circle(d, headMid+OwlEyeDX, OwlEyeY, OwlEyeDiameter)

	line(d, headMid-OwlBeakDX, OwlBeakY, headMid, OwlBeakY+OwlBeakDY)
	line(d, headMid+OwlBeakDX, OwlBeakY, headMid, OwlBeakY+OwlBeakDY)
	line(d, headMid-OwlBeakDX, OwlBeakY, headMid+OwlBeakDX, OwlBeakY)
}

// circle draws a circle of the given diameter inside the square at (x, y).
func circle(d Display, x, y, diameter int) {
	r := (diameter - 1) / 2
	tinydraw.Circle(d, int16(x+r), int16(y+r), int16(r), Foreground)
}

func line(d Display, x0, y0, x1, y1 int) {
	tinydraw.Line(d, int16(x0), int16(y0), int16(x1), int16(y1), Foreground)
}
