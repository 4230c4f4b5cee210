// Package input turns raw button lines into debounced button events.
package input

import "github.com/robotalks/badge.go/pkg/event"

// Line is a digital input reporting whether the button is pressed.
type Line interface {
	Get() bool
}

// LineFunc is the func form of Line.
type LineFunc func() bool

// Get implements Line.
func (f LineFunc) Get() bool {
	return f()
}

// ActiveLow inverts a raw pin level, for buttons wired with a pull-up.
func ActiveLow(level func() bool) Line {
	return LineFunc(func() bool { return !level() })
}

// Buttons are the badge button lines in event index order.
type Buttons [event.Count]Line

// NewButtons builds Buttons by creating a line for every event.
func NewButtons(create func(event.Event) Line) Buttons {
	var b Buttons
	for _, ev := range event.All() {
		b[ev.Index()] = create(ev)
	}
	return b
}

// Line returns the line of the given event.
func (b *Buttons) Line(ev event.Event) Line {
	return b[ev.Index()]
}
