package badge

import (
	"context"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/badge.go/pkg/display"
	"github.com/robotalks/badge.go/pkg/event"
	fx "github.com/robotalks/badge.go/pkg/framework"
	"github.com/robotalks/badge.go/pkg/input"
	"github.com/robotalks/badge.go/pkg/led"
	"github.com/robotalks/badge.go/pkg/pubsub"
	"github.com/robotalks/badge.go/pkg/sim"
)

type traceLog struct {
	lock   sync.Mutex
	events []event.Event
}

func (l *traceLog) Trace(ctx context.Context, ev event.Event) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *traceLog) get() []event.Event {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]event.Event(nil), l.events...)
}

type testBoard struct {
	lines   *sim.Lines
	strip   *sim.Strip
	display *sim.Framebuffer
}

func newTestBadge() (*Badge, *testBoard, *traceLog) {
	board := &testBoard{
		lines:   sim.NewLines(),
		strip:   sim.NewStrip(3),
		display: sim.NewFramebuffer(display.ScreenWidth, display.ScreenHeight),
	}
	conf := NewConfig()
	conf.Settle = time.Millisecond
	conf.PollInterval = time.Millisecond
	conf.Hold = time.Millisecond
	conf.RainbowInterval = time.Millisecond
	res := Resources{
		Buttons: input.NewButtons(func(ev event.Event) input.Line { return board.lines.Of(ev) }),
		LEDs:    board.strip,
		Display: board.display,
	}
	tracer := &traceLog{}
	b := New(conf, res)
	b.Tracer = tracer
	return b, board, tracer
}

func press(t *testing.T, line *sim.Line) {
	line.Press()
	time.Sleep(10 * time.Millisecond)
	line.Release()
	time.Sleep(10 * time.Millisecond)
}

func TestStepSlots(t *testing.T) {
	b, _, _ := newTestBadge()
	var stats []func() pubsub.Stats
	b.OnChannel = func(name string, fn func() pubsub.Stats) {
		require.Equal(t, "buttons", name)
		stats = append(stats, fn)
	}

	tasks, err := b.Tasks(StepButtons)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, pubsub.Stats{Subscribers: 2, Publishers: 1}, stats[0]())

	tasks, err = b.Tasks(StepDisplay)
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	require.Equal(t, pubsub.Stats{Subscribers: 3, Publishers: 1}, stats[1]())

	step03 := b.Step03Tasks()
	require.Len(t, step03, 2)
	require.Equal(t, "leds", step03[0].(fx.Named).Name())
	require.Equal(t, "main", step03[1].(fx.Named).Name())
	_, err = b.Tasks(Step(9))
	require.Error(t, err)
}

func TestStepButtons(t *testing.T) {
	b, board, tracer := newTestBadge()
	ctx, cancel := context.WithCancel(context.Background())
	runner := fx.NewRunnerWith(ctx)
	done := make(chan error, 1)
	go func() { done <- b.Run(runner, StepButtons) }()

	press(t, board.lines.Of(event.Select))
	require.Eventually(t, func() bool {
		return board.strip.Snapshot()[0] == led.RGB(120, 60, 30)
	}, time.Second, time.Millisecond)

	press(t, board.lines.Of(event.Down))
	require.Eventually(t, func() bool {
		return board.strip.Snapshot()[2] == led.RGB(80, 80, 0)
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return len(tracer.get()) == 2
	}, time.Second, time.Millisecond)
	require.Equal(t, []event.Event{event.Select, event.Down}, tracer.get())

	cancel()
	require.NoError(t, <-done)
}

func TestStepDisplay(t *testing.T) {
	b, board, _ := newTestBadge()
	ctx, cancel := context.WithCancel(context.Background())
	runner := fx.NewRunnerWith(ctx)
	done := make(chan error, 1)
	go func() { done <- b.Run(runner, StepDisplay) }()

	require.Eventually(t, func() bool { return board.display.Frames() == 1 }, time.Second, time.Millisecond)
	press(t, board.lines.Of(event.Right))
	press(t, board.lines.Of(event.Up))
	require.Eventually(t, func() bool {
		return board.strip.Snapshot()[0] == led.RGB(80, 0, 0)
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return board.display.Frames() == 2 }, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestStepTasks(t *testing.T) {
	b, board, _ := newTestBadge()
	ctx, cancel := context.WithCancel(context.Background())
	runner := fx.NewRunnerWith(ctx)
	done := make(chan error, 1)
	go func() { done <- b.Run(runner, StepTasks) }()

	seen := make(map[color.RGBA]bool)
	require.Eventually(t, func() bool {
		seen[board.strip.Snapshot()[0]] = true
		return len(seen) >= 3
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestApplyConfig(t *testing.T) {
	conf := NewConfig()
	err := conf.Apply([]byte(`
capacity = 4
policy = "drop-oldest"
settle = "30ms"
hold = "250ms"

[palette]
select = "#ffffff"
up = "010203"
`), map[string]bool{FlagHold: true})
	require.NoError(t, err)
	require.Equal(t, 4, conf.Capacity)
	require.Equal(t, pubsub.DropOldest, conf.OverflowPolicy())
	require.Equal(t, 30*time.Millisecond, conf.Settle)
	require.Equal(t, time.Second, conf.Hold)
	require.Equal(t, led.RGB(255, 255, 255), conf.Palette.ColorFor(event.Select))
	require.Equal(t, led.RGB(1, 2, 3), conf.Palette.ColorFor(event.Up))
	require.Equal(t, led.RGB(0, 80, 0), conf.Palette.ColorFor(event.Left))
	require.Equal(t, led.RGB(120, 60, 30), Default().Palette.ColorFor(event.Select))
}

func TestApplyConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		toml string
	}{
		{"syntax", `capacity = `},
		{"capacity", `capacity = 0`},
		{"policy", `policy = "sometimes"`},
		{"duration", `settle = "soon"`},
		{"palette event", "[palette]\nhome = \"#000000\""},
		{"palette color", "[palette]\nup = \"red\""},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			require.Error(t, NewConfig().Apply([]byte(c.toml), nil))
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.LoadFile(nil))
	conf.ConfigFile = "/nonexistent/badge.toml"
	require.Error(t, conf.LoadFile(nil))
}

func TestLoadFileValidatesFlags(t *testing.T) {
	testCases := []struct {
		name  string
		apply func(*Config)
	}{
		{"policy", func(c *Config) { c.Policy = "drop-newest" }},
		{"capacity", func(c *Config) { c.Capacity = -3 }},
		{"poll", func(c *Config) { c.PollInterval = 0 }},
		{"hold", func(c *Config) { c.Hold = -time.Second }},
		{"heartbeat", func(c *Config) { c.Heartbeat = 0 }},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			conf := NewConfig()
			c.apply(conf)
			require.Error(t, conf.LoadFile(map[string]bool{}))
		})
	}
	conf := NewConfig()
	conf.Policy = "drop"
	require.NoError(t, conf.LoadFile(nil))
	require.Equal(t, pubsub.DropOldest, conf.OverflowPolicy())
}
