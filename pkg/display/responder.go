package display

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/event"
	"github.com/robotalks/badge.go/pkg/metrics"
)

// Responder is the display task. Left and Right move the owl by a pixel.
type Responder struct {
	Events   event.Receiver
	Display  Display
	Scene    *Scene
	Recorder metrics.Recorder

	pos Position
}

// NewResponder creates a Responder with the owl at the start position.
func NewResponder(events event.Receiver, d Display) *Responder {
	return &Responder{Events: events, Display: d, Scene: DefaultScene(), pos: StartPosition()}
}

// Name implements framework.Named.
func (r *Responder) Name() string {
	return "display"
}

// Position returns the current owl position.
func (r *Responder) Position() Position {
	return r.pos
}

// Run implements framework.Runnable.
func (r *Responder) Run(ctx context.Context) error {
	recorder := metrics.OrNop(r.Recorder)
	if r.Scene == nil {
		r.Scene = DefaultScene()
	}
	if err := r.Scene.DrawBackground(r.Display); err != nil {
		glog.Warningf("Unable to blank display: %v", err)
	}
	r.Scene.DrawOwl(r.Display, r.pos.X)
	recorder.DisplayRedrawn(r.commit())

	for {
		ev, err := r.Events.NextPure(ctx)
		if err != nil {
			return err
		}
		old := r.pos.X
		if !r.pos.Apply(ev) {
			continue
		}
		if err := r.Scene.Clear(r.Display, old); err != nil {
			glog.Warningf("Unable to clear old owl: %v", err)
		}
		r.Scene.DrawOwl(r.Display, r.pos.X)
		recorder.DisplayRedrawn(r.commit())
		glog.V(2).Infof("owl moved to %d", r.pos.X)
	}
}

func (r *Responder) commit() error {
	err := r.Display.Display()
	if err != nil {
		glog.Warningf("Unable to update display: %v", err)
	}
	return err
}
