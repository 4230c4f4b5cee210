package supervisor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/badge.go/pkg/event"
	fx "github.com/robotalks/badge.go/pkg/framework"
	"github.com/robotalks/badge.go/pkg/pubsub"
)

type recordingTracer struct {
	events chan event.Event
	err    error
}

func (r *recordingTracer) Trace(ctx context.Context, ev event.Event) error {
	r.events <- ev
	return r.err
}

type slowTracer struct {
	delay time.Duration
}

func (s *slowTracer) Trace(ctx context.Context, ev event.Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}

type tick struct {
	n uint64
}

func (t tick) Time() time.Time          { return time.Unix(1000+int64(t.n)*5, 0) }
func (t tick) Context() context.Context { return context.Background() }
func (t tick) PriorityLevel() int       { return fx.PrLvIdle }
func (t tick) Tick() uint64             { return t.n }

func TestSupervisorTraces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := pubsub.New[event.Event](8, 1, 1, pubsub.Block)
	pub := bus.MustPublisher()
	tracer := &recordingTracer{events: make(chan event.Event, 4), err: errors.New("offline")}
	s := &Supervisor{Events: bus.MustSubscriber(), Tracer: tracer}
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.NoError(t, pub.Publish(ctx, event.Stick))
	require.NoError(t, pub.Publish(ctx, event.B))
	require.Equal(t, event.Stick, <-tracer.events)
	require.Equal(t, event.B, <-tracer.events)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestSlowTracerDoesNotBlockBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := pubsub.New[event.Event](8, 2, 1, pubsub.Block)
	pub := bus.MustPublisher()
	leds := bus.MustSubscriber()
	s := &Supervisor{Events: bus.MustSubscriber(), Tracer: &slowTracer{delay: time.Second}, TraceBacklog: 2}
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	received := make(chan event.Event, 32)
	go func() {
		for {
			ev, err := leds.NextPure(ctx)
			if err != nil {
				return
			}
			received <- ev
		}
	}()

	pubCtx, pubCancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer pubCancel()
	for i := 0; i < 20; i++ {
		require.NoError(t, pub.Publish(pubCtx, event.FromIndex(i%event.Count)))
	}
	for i := 0; i < 20; i++ {
		select {
		case ev := <-received:
			require.Equal(t, event.FromIndex(i%event.Count), ev)
		case <-time.After(time.Second):
			t.Fatalf("LED subscriber got only %d events", i)
		}
	}

	start := time.Now()
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestHeartbeat(t *testing.T) {
	var logs []string
	h := &Heartbeat{Log: func(args ...interface{}) { logs = append(logs, fmt.Sprint(args...)) }}
	for n := uint64(0); n < 3; n++ {
		require.NoError(t, h.Control(tick{n: n}))
	}
	require.Equal(t, []string{"Main task still alive", "Main task still alive"}, logs)
}

func TestHeartbeatLoop(t *testing.T) {
	logs := make(chan string, 8)
	h := &Heartbeat{Log: func(args ...interface{}) {
		select {
		case logs <- fmt.Sprint(args...):
		default:
		}
	}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fx.NewLoopEvery(2 * time.Millisecond).Add(h).Run(ctx) }()
	for i := 0; i < 2; i++ {
		select {
		case msg := <-logs:
			require.Equal(t, "Main task still alive", msg)
		case <-time.After(time.Second):
			t.Fatal("no heartbeat")
		}
	}
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
