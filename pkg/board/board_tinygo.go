//go:build tinygo

package board

import (
	"context"
	"image/color"
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/st7789"
	"tinygo.org/x/drivers/ws2812"

	"github.com/robotalks/badge.go/pkg/badge"
	"github.com/robotalks/badge.go/pkg/display"
	"github.com/robotalks/badge.go/pkg/event"
	"github.com/robotalks/badge.go/pkg/input"
)

// Pins is the badge wiring.
type Pins struct {
	Buttons [event.Count]machine.Pin
	LEDData machine.Pin
	LEDs    int

	SCK, SDO                    machine.Pin
	Reset, DC, CS, Backlight    machine.Pin
	DisplayWidth, DisplayHeight int16
}

// DefaultPins is the wiring of the conference badge.
// Buttons are listed in event order.
var DefaultPins = Pins{
	Buttons: [event.Count]machine.Pin{
		machine.Pin(11), // Up
		machine.Pin(1),  // Down
		machine.Pin(21), // Left
		machine.Pin(2),  // Right
		machine.Pin(14), // Stick
		machine.Pin(13), // A
		machine.Pin(38), // B
		machine.Pin(12), // Start
		machine.Pin(45), // Select
	},
	LEDData:       machine.Pin(18),
	LEDs:          10,
	SCK:           machine.Pin(4),
	SDO:           machine.Pin(5),
	Reset:         machine.Pin(48),
	DC:            machine.Pin(15),
	CS:            machine.Pin(6),
	Backlight:     machine.Pin(19),
	DisplayWidth:  display.ScreenHeight,
	DisplayHeight: display.ScreenWidth,
}

// SetupFlags is a no-op on the badge.
func SetupFlags() {}

// strip drives a ws2812 chain.
type strip struct {
	dev    ws2812.Device
	colors []color.RGBA
}

func (s *strip) Fill(c color.RGBA) {
	for i := range s.colors {
		s.colors[i] = c
	}
}

func (s *strip) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dev.WriteColors(s.colors)
}

// Resources brings up the peripherals wired as pins.
func (p *Pins) Resources() (badge.Resources, error) {
	buttons := input.NewButtons(func(ev event.Event) input.Line {
		pin := p.Buttons[ev.Index()]
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		return input.ActiveLow(pin.Get)
	})

	p.LEDData.Configure(machine.PinConfig{Mode: machine.PinOutput})
	leds := &strip{dev: ws2812.New(p.LEDData), colors: make([]color.RGBA, p.LEDs)}

	bus := machine.SPI0
	if err := bus.Configure(machine.SPIConfig{
		Frequency: 40 * machine.MHz,
		SCK:       p.SCK,
		SDO:       p.SDO,
		Mode:      0,
	}); err != nil {
		return badge.Resources{}, err
	}
	dev := st7789.New(bus, p.Reset, p.DC, p.CS, p.Backlight)
	dev.Configure(st7789.Config{
		Width:        p.DisplayWidth,
		Height:       p.DisplayHeight,
		Rotation:     drivers.Rotation90,
		ColumnOffset: 35,
	})
	return badge.Resources{Buttons: buttons, LEDs: leds, Display: &dev}, nil
}

// Open brings up the badge hardware.
func Open(ctx context.Context, conf *badge.Config) (*Board, error) {
	res, err := DefaultPins.Resources()
	if err != nil {
		return nil, err
	}
	return &Board{Badge: badge.New(conf, res)}, nil
}
