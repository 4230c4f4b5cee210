// Package led drives the badge LED strip.
package led

import (
	"context"
	"fmt"
	"image/color"

	"github.com/robotalks/badge.go/pkg/event"
)

// Strip is an addressable LED strip.
type Strip interface {
	// Fill sets every LED of the pending frame to c.
	Fill(c color.RGBA)
	// Update commits the pending frame to the hardware.
	Update(ctx context.Context) error
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Palette holds one color per button event.
type Palette struct {
	Up, Down, Left, Right, Stick, A, B, Start, Select color.RGBA
}

// DefaultPalette returns the colors of the badge demo.
func DefaultPalette() Palette {
	return Palette{
		Up:     RGB(80, 0, 0),
		Down:   RGB(80, 80, 0),
		Left:   RGB(0, 80, 0),
		Right:  RGB(0, 80, 80),
		Stick:  RGB(0, 0, 80),
		A:      RGB(80, 0, 80),
		B:      RGB(80, 80, 80),
		Start:  RGB(0, 0, 0),
		Select: RGB(120, 60, 30),
	}
}

// ColorFor returns the color for ev. Unknown events panic.
func (p *Palette) ColorFor(ev event.Event) color.RGBA {
	switch ev {
	case event.Up:
		return p.Up
	case event.Down:
		return p.Down
	case event.Left:
		return p.Left
	case event.Right:
		return p.Right
	case event.Stick:
		return p.Stick
	case event.A:
		return p.A
	case event.B:
		return p.B
	case event.Start:
		return p.Start
	case event.Select:
		return p.Select
	}
	panic(fmt.Sprintf("led: no color for %v", ev))
}

// Set replaces the color of ev.
func (p *Palette) Set(ev event.Event, c color.RGBA) {
	switch ev {
	case event.Up:
		p.Up = c
	case event.Down:
		p.Down = c
	case event.Left:
		p.Left = c
	case event.Right:
		p.Right = c
	case event.Stick:
		p.Stick = c
	case event.A:
		p.A = c
	case event.B:
		p.B = c
	case event.Start:
		p.Start = c
	case event.Select:
		p.Select = c
	default:
		panic(fmt.Sprintf("led: no color for %v", ev))
	}
}

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB(r, g, b), nil
}

// FormatColor formats c as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
