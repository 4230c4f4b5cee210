// Package event defines the button events flowing over the badge bus.
package event

import (
	"context"
	"fmt"
	"strings"
)

// Event identifies which badge button was pressed.
type Event uint8

// Button events in dispatcher index order.
const (
	Up Event = iota
	Down
	Left
	Right
	Stick
	A
	B
	Start
	Select
)

// Count is the number of button events.
const Count = 9

var names = [Count]string{
	Up:     "Up",
	Down:   "Down",
	Left:   "Left",
	Right:  "Right",
	Stick:  "Stick",
	A:      "A",
	B:      "B",
	Start:  "Start",
	Select: "Select",
}

// String implements fmt.Stringer.
func (e Event) String() string {
	if int(e) < Count {
		return names[e]
	}
	return fmt.Sprintf("Event(%d)", uint8(e))
}

// Index returns the dispatcher index of the event.
func (e Event) Index() int {
	return int(e)
}

// Valid reports whether e is one of the nine button events.
func (e Event) Valid() bool {
	return int(e) < Count
}

// FromIndex maps a dispatcher index to its event.
// Indexes outside [0, Count) are a programming error and panic.
func FromIndex(i int) Event {
	switch i {
	case 0:
		return Up
	case 1:
		return Down
	case 2:
		return Left
	case 3:
		return Right
	case 4:
		return Stick
	case 5:
		return A
	case 6:
		return B
	case 7:
		return Start
	case 8:
		return Select
	}
	panic(fmt.Sprintf("event: index %d out of range", i))
}

// ParseEvent parses an event name, case-insensitive.
func ParseEvent(name string) (Event, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return Event(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", name)
}

// All returns every event in index order.
func All() []Event {
	evs := make([]Event, Count)
	for i := range evs {
		evs[i] = Event(i)
	}
	return evs
}

// Receiver is the consuming end of an event bus.
type Receiver interface {
	NextPure(ctx context.Context) (Event, error)
}

// Sender is the producing end of an event bus.
type Sender interface {
	Publish(ctx context.Context, ev Event) error
}
