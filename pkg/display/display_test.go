package display

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/badge.go/pkg/event"
	"github.com/robotalks/badge.go/pkg/pubsub"
	"github.com/robotalks/badge.go/pkg/sim"
)

type redrawCounter struct {
	ok, failed chan struct{}
}

func newRedrawCounter() *redrawCounter {
	return &redrawCounter{ok: make(chan struct{}, 256), failed: make(chan struct{}, 256)}
}

func (c *redrawCounter) ButtonPressed(string) {}
func (c *redrawCounter) LEDCommitted(error)   {}
func (c *redrawCounter) DisplayRedrawn(err error) {
	if err != nil {
		c.failed <- struct{}{}
	} else {
		c.ok <- struct{}{}
	}
}

func TestPositionBounds(t *testing.T) {
	require.Equal(t, 240, OwlMaxX)
	require.Equal(t, 120, StartPosition().X)

	testCases := []struct {
		name     string
		start    int
		events   []event.Event
		expected int
	}{
		{"left at min", 0, []event.Event{event.Left}, 0},
		{"right at max", OwlMaxX, []event.Event{event.Right}, OwlMaxX},
		{"one right", 120, []event.Event{event.Right}, 121},
		{"one left", 120, []event.Event{event.Left}, 119},
		{"others", 120, []event.Event{event.Up, event.Down, event.Stick, event.A, event.B, event.Start, event.Select}, 120},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			pos := Position{X: c.start}
			for _, ev := range c.events {
				changed := pos.Apply(ev)
				require.Equal(t, changed, pos.X != c.start)
			}
			require.Equal(t, c.expected, pos.X)
		})
	}
}

func TestPositionSaturates(t *testing.T) {
	pos := StartPosition()
	for i := 0; i < 200; i++ {
		pos.Apply(event.Right)
		require.LessOrEqual(t, pos.X, OwlMaxX)
	}
	require.Equal(t, OwlMaxX, pos.X)
	for i := 0; i < 500; i++ {
		pos.Apply(event.Left)
		require.GreaterOrEqual(t, pos.X, OwlMinX)
	}
	require.Equal(t, OwlMinX, pos.X)
	require.False(t, pos.Apply(event.Left))
}

func lit(img *image.RGBA, rect image.Rectangle) int {
	var n int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if img.RGBAAt(x, y) == Foreground {
				n++
			}
		}
	}
	return n
}

func owlRect(x int) image.Rectangle {
	return image.Rect(x, OwlY, x+OwlBodyDiameter, OwlY+OwlBodyDiameter+OwlHeadDiameter)
}

func TestSceneDrawAndClear(t *testing.T) {
	fb := sim.NewFramebuffer(ScreenWidth, ScreenHeight)
	scene := DefaultScene()
	require.NoError(t, scene.DrawBackground(fb))
	scene.DrawOwl(fb, 100)
	require.NoError(t, fb.Display())

	img := fb.Image()
	screen := img.Rect
	inside := lit(img, owlRect(100))
	require.Greater(t, inside, 0)
	caption := lit(img, image.Rect(0, OwlY+OwlBodyDiameter+OwlHeadDiameter, ScreenWidth, ScreenHeight))
	require.Greater(t, caption, 0)
	require.Equal(t, lit(img, screen), inside+caption)

	require.NoError(t, scene.Clear(fb, 100))
	require.NoError(t, fb.Display())
	img = fb.Image()
	require.Zero(t, lit(img, owlRect(100)))
	require.Equal(t, caption, lit(img, screen))
}

func TestResponder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := pubsub.New[event.Event](8, 1, 1, pubsub.Block)
	pub := bus.MustPublisher()
	fb := sim.NewFramebuffer(ScreenWidth, ScreenHeight)
	counter := newRedrawCounter()
	r := NewResponder(bus.MustSubscriber(), fb)
	r.Recorder = counter
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	<-counter.ok
	require.Equal(t, 1, fb.Frames())
	require.Greater(t, lit(fb.Image(), owlRect(OwlStartX)), 0)

	// non-movement events cause no redraw
	for _, ev := range []event.Event{event.Up, event.A, event.Select} {
		require.NoError(t, pub.Publish(ctx, ev))
	}
	require.NoError(t, pub.Publish(ctx, event.Right))
	<-counter.ok
	require.Equal(t, 2, fb.Frames())
	require.Equal(t, OwlStartX+1, r.Position().X)

	img := fb.Image()
	// left edge of the body at the old position is erased
	require.Zero(t, lit(img, image.Rect(OwlStartX, OwlY, OwlStartX+1, OwlY+OwlBodyDiameter+OwlHeadDiameter)))
	require.Greater(t, lit(img, owlRect(OwlStartX+1)), 0)

	fb.FailWith(errors.New("spi timeout"))
	require.NoError(t, pub.Publish(ctx, event.Left))
	<-counter.failed
	fb.FailWith(nil)
	require.NoError(t, pub.Publish(ctx, event.Left))
	<-counter.ok
	require.Equal(t, OwlStartX-1, r.Position().X)
	require.Equal(t, 3, fb.Frames())

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	select {
	case <-counter.ok:
		t.Fatal("unexpected redraw")
	case <-time.After(time.Millisecond):
	}
}

func TestResponderRightEdge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := pubsub.New[event.Event](8, 1, 1, pubsub.Block)
	pub := bus.MustPublisher()
	fb := sim.NewFramebuffer(ScreenWidth, ScreenHeight)
	counter := newRedrawCounter()
	r := NewResponder(bus.MustSubscriber(), fb)
	r.Recorder = counter
	go r.Run(ctx)
	<-counter.ok

	for i := 0; i < 200; i++ {
		require.NoError(t, pub.Publish(ctx, event.Right))
	}
	for i := 0; i < OwlMaxX-OwlStartX; i++ {
		<-counter.ok
	}
	require.Eventually(t, func() bool { return bus.Stats().Published == 200 }, time.Second, time.Millisecond)
	img := fb.Image()
	require.Greater(t, lit(img, owlRect(OwlMaxX)), 0)
	require.Zero(t, lit(img, image.Rect(0, OwlY, OwlMaxX, OwlY+OwlBodyDiameter+OwlHeadDiameter)))
}
