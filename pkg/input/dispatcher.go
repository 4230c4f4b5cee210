package input

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/event"
	"github.com/robotalks/badge.go/pkg/metrics"
)

// Dispatcher is the button task. It waits for a settled press on any
// button and publishes the matching event.
type Dispatcher struct {
	Buttons   Buttons
	Debouncer Debouncer
	Events    event.Sender
	Recorder  metrics.Recorder
}

// Name implements framework.Named.
func (d *Dispatcher) Name() string {
	return "buttons"
}

// Run implements framework.Runnable.
func (d *Dispatcher) Run(ctx context.Context) error {
	recorder := metrics.OrNop(d.Recorder)
	waits := make([]WaitFunc, len(d.Buttons))
	for n, line := range d.Buttons {
		waits[n] = d.Debouncer.Wait(line)
	}
	for {
		index, err := Select(ctx, waits...)
		if err != nil {
			return err
		}
		ev := event.FromIndex(index)
		glog.V(2).Infof("button %s pressed", ev)
		recorder.ButtonPressed(ev.String())
		if err := d.Events.Publish(ctx, ev); err != nil {
			return err
		}
	}
}
