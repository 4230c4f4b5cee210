package sim

import (
	"sync/atomic"

	"github.com/robotalks/badge.go/pkg/event"
)

// Line is a simulated button line, pressed while held.
type Line struct {
	ChangeCaster
	name    string
	pressed atomic.Bool
}

// NewLine creates a released Line.
func NewLine(name string) *Line {
	return &Line{name: name}
}

// Name implements Object.
func (l *Line) Name() string {
	return l.name
}

// Get implements input.Line.
func (l *Line) Get() bool {
	return l.pressed.Load()
}

// Press holds the button down.
func (l *Line) Press() {
	l.set(true)
}

// Release lets the button go.
func (l *Line) Release() {
	l.set(false)
}

func (l *Line) set(pressed bool) {
	if l.pressed.Swap(pressed) != pressed {
		l.ObjectChanged(l)
	}
}

// Lines are simulated lines for all button events.
type Lines [event.Count]*Line

// NewLines creates released lines named after the events.
func NewLines() *Lines {
	var lines Lines
	for _, ev := range event.All() {
		lines[ev.Index()] = NewLine(ev.String())
	}
	return &lines
}

// Of returns the line of ev.
func (l *Lines) Of(ev event.Event) *Line {
	return l[ev.Index()]
}

// Set presses or releases the line of ev.
func (l *Lines) Set(ev event.Event, pressed bool) {
	if pressed {
		l.Of(ev).Press()
	} else {
		l.Of(ev).Release()
	}
}
