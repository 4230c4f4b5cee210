package led

import (
	"context"
	"image/color"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/event"
	"github.com/robotalks/badge.go/pkg/framework"
	"github.com/robotalks/badge.go/pkg/metrics"
)

// Responder is the LED task. Every received event paints the whole strip
// with the event color.
type Responder struct {
	Events   event.Receiver
	Strip    Strip
	Palette  Palette
	Hold     time.Duration
	Recorder metrics.Recorder
}

// Name implements framework.Named.
func (r *Responder) Name() string {
	return "leds"
}

// Run implements framework.Runnable.
func (r *Responder) Run(ctx context.Context) error {
	recorder := metrics.OrNop(r.Recorder)
	for {
		ev, err := r.Events.NextPure(ctx)
		if err != nil {
			return err
		}
		r.Strip.Fill(r.Palette.ColorFor(ev))
		err = r.Strip.Update(ctx)
		recorder.LEDCommitted(err)
		if err != nil {
			glog.Warningf("LED update failed: %v", err)
		}
		if r.Hold > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.Hold):
			}
		}
	}
}

// Rainbow returns the six colors cycled by the Rainbow controller.
func Rainbow() []color.RGBA {
	return []color.RGBA{
		RGB(80, 0, 0),
		RGB(80, 80, 0),
		RGB(0, 80, 0),
		RGB(0, 80, 80),
		RGB(0, 0, 80),
		RGB(80, 0, 80),
	}
}

// RainbowController paints the next rainbow color on every loop tick.
type RainbowController struct {
	Strip    Strip
	Colors   []color.RGBA
	Recorder metrics.Recorder

	next int
}

// NewRainbow creates a RainbowController with the default colors.
func NewRainbow(strip Strip) *RainbowController {
	return &RainbowController{Strip: strip, Colors: Rainbow()}
}

// AddToLoop implements framework.LoopAdder.
func (c *RainbowController) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvAcuate, c)
}

// Control implements framework.Controller.
func (c *RainbowController) Control(cc framework.ControlContext) error {
	if len(c.Colors) == 0 {
		return nil
	}
	c.Strip.Fill(c.Colors[c.next])
	c.next = (c.next + 1) % len(c.Colors)
	err := c.Strip.Update(cc.Context())
	metrics.OrNop(c.Recorder).LEDCommitted(err)
	if err != nil {
		glog.Warningf("LED update failed: %v", err)
	}
	return nil
}
