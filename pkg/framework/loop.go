package framework

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// Loop runs controllers periodically, ordered by priority level.
// It is used for timer-driven tasks, like cycling LED colors or
// printing a heartbeat.
type Loop struct {
	Interval time.Duration

	controllers [PriorityLevels][]Controller
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	ctx           context.Context
	time          time.Time
	tick          uint64
	priorityLevel int
}

// DefaultLoopInterval is used when Loop.Interval is not set.
const DefaultLoopInterval = 100 * time.Millisecond

// NewLoopEvery creates a Loop ticking at the given interval.
func NewLoopEvery(interval time.Duration) *Loop {
	return &Loop{Interval: interval}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	return l
}

// Run implements Runnable. The first iteration runs immediately.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultLoopInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var tick uint64
	for {
		l.runIteration(ctx, tick, time.Now())
		tick++
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Loop) runIteration(ctx context.Context, tick uint64, now time.Time) {
	iter := &loopIteration{ctx: ctx, time: now, tick: tick}
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}

func (t *loopIteration) Tick() uint64 {
	return t.tick
}
