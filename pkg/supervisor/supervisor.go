// Package supervisor contains the main task logging what happens on the bus.
package supervisor

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/event"
	fx "github.com/robotalks/badge.go/pkg/framework"
)

// Tracer mirrors events to somewhere outside the badge.
type Tracer interface {
	Trace(ctx context.Context, ev event.Event) error
}

// DefaultTraceBacklog is the number of events waiting for the tracer
// before new ones are dropped.
const DefaultTraceBacklog = 16

// Supervisor logs every event received from the bus.
// Tracing runs in its own goroutine and never holds back the bus: events
// arriving while the backlog is full are dropped from the trace.
type Supervisor struct {
	Events       event.Receiver
	Tracer       Tracer
	TraceBacklog int
}

// Name implements framework.Named.
func (s *Supervisor) Name() string {
	return "main"
}

// Run implements framework.Runnable.
func (s *Supervisor) Run(ctx context.Context) error {
	var traceCh chan event.Event
	if s.Tracer != nil {
		backlog := s.TraceBacklog
		if backlog <= 0 {
			backlog = DefaultTraceBacklog
		}
		traceCh = make(chan event.Event, backlog)
		done := make(chan struct{})
		go s.trace(ctx, traceCh, done)
		defer func() {
			close(traceCh)
			<-done
		}()
	}
	var dropped uint64
	for {
		ev, err := s.Events.NextPure(ctx)
		if err != nil {
			return err
		}
		glog.Infof("Main received message: %v", ev)
		if traceCh == nil {
			continue
		}
		select {
		case traceCh <- ev:
		default:
			dropped++
			glog.Warningf("trace backlog full, %v dropped (%d so far)", ev, dropped)
		}
	}
}

func (s *Supervisor) trace(ctx context.Context, traceCh <-chan event.Event, done chan<- struct{}) {
	defer close(done)
	for ev := range traceCh {
		if ctx.Err() != nil {
			continue
		}
		if err := s.Tracer.Trace(ctx, ev); err != nil {
			glog.Warningf("trace %v failed: %v", ev, err)
		}
	}
}

// HeartbeatPeriod is how often the main task reports it's alive.
const HeartbeatPeriod = 5 * time.Second

// Heartbeat logs that the main task is alive on every loop tick but the
// first, so a loop ticking every period logs once per period.
type Heartbeat struct {
	// Log defaults to glog.Info.
	Log func(args ...interface{})
}

// AddToLoop implements framework.LoopAdder.
func (h *Heartbeat) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvIdle, h)
}

// Control implements framework.Controller.
func (h *Heartbeat) Control(cc fx.ControlContext) error {
	if cc.Tick() == 0 {
		return nil
	}
	logFn := h.Log
	if logFn == nil {
		logFn = glog.Info
	}
	logFn("Main task still alive")
	return nil
}
