package joystick

import (
	"context"
	"slices"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/event"
	"github.com/robotalks/badge.go/pkg/joystick/device"
)

// Target receives button level changes.
type Target interface {
	Set(ev event.Event, pressed bool)
}

// AxisThreshold is the deflection at which an axis counts as a press.
const AxisThreshold = 16384

// Mapping maps joystick buttons and axes to badge buttons.
type Mapping struct {
	Buttons map[int]event.Event
	// HorizontalAxes press Left/Right, VerticalAxes press Up/Down.
	HorizontalAxes []int
	VerticalAxes   []int
}

// DefaultMapping fits common gamepads: the left stick and the D-pad move,
// face buttons are A and B.
func DefaultMapping() Mapping {
	return Mapping{
		Buttons: map[int]event.Event{
			0: event.A,
			1: event.B,
			6: event.Select,
			7: event.Start,
			9: event.Stick,
		},
		HorizontalAxes: []int{0, 6},
		VerticalAxes:   []int{1, 7},
	}
}

// Source is a Runnable which opens a joystick, retrying every second, and
// applies its events to Target.
type Source struct {
	Target      Target
	Mapping     Mapping
	DeviceIndex int
	Verbose     bool
	// Open defaults to device.Open/device.DetectAndOpen.
	Open func(index int) (device.Device, error)
}

// NewSource creates a Source.
func NewSource(target Target) *Source {
	return &Source{
		Target:      target,
		Mapping:     DefaultMapping(),
		DeviceIndex: defaultConfig.DeviceIndex,
		Verbose:     defaultConfig.Verbose,
	}
}

// Name implements framework.Named.
func (s *Source) Name() string {
	return "joystick"
}

// Run implements Runnable.
func (s *Source) Run(ctx context.Context) error {
	retry := time.After(0)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-retry:
		}
		js, err := s.open()
		if err == device.ErrUnsupported {
			glog.Warning("joystick not supported, source disabled")
			<-ctx.Done()
			return ctx.Err()
		}
		if err != nil || js == nil {
			if err != nil {
				glog.V(2).Infof("open joystick error: %v", err)
			}
			retry = time.After(time.Second)
			continue
		}
		glog.Infof("Joystick %d %q opened", js.Index(), js.Name())
		s.poll(ctx, js)
		retry = time.After(time.Second)
	}
}

func (s *Source) open() (device.Device, error) {
	if s.Open != nil {
		return s.Open(s.DeviceIndex)
	}
	if s.DeviceIndex >= 0 {
		return device.Open(s.DeviceIndex)
	}
	return device.DetectAndOpen(0)
}

func (s *Source) poll(ctx context.Context, js device.Device) {
	stop := context.AfterFunc(ctx, func() { js.Close() })
	defer func() {
		if stop() {
			js.Close()
		}
		s.releaseAll()
	}()
	for {
		ev, err := js.ReadEvent()
		if err != nil {
			if ctx.Err() == nil {
				glog.Warningf("Joystick read error: %v", err)
			}
			return
		}
		s.Apply(ev)
	}
}

func (s *Source) releaseAll() {
	for _, ev := range event.All() {
		s.Target.Set(ev, false)
	}
}

// Apply maps one joystick event onto the target.
func (s *Source) Apply(ev device.Event) {
	switch e := ev.(type) {
	case device.ButtonEvent:
		if s.Verbose {
			glog.Infof("Button %d: %v", e.Index(), e.Pressed())
		}
		if bev, ok := s.Mapping.Buttons[e.Index()]; ok {
			s.Target.Set(bev, e.Pressed())
		}
	case device.AxisEvent:
		if s.Verbose {
			glog.Infof("Axis %d: %d", e.Index(), e.Value())
		}
		if slices.Contains(s.Mapping.HorizontalAxes, e.Index()) {
			s.Target.Set(event.Left, e.Value() <= -AxisThreshold)
			s.Target.Set(event.Right, e.Value() >= AxisThreshold)
		} else if slices.Contains(s.Mapping.VerticalAxes, e.Index()) {
			s.Target.Set(event.Up, e.Value() <= -AxisThreshold)
			s.Target.Set(event.Down, e.Value() >= AxisThreshold)
		}
	}
}

