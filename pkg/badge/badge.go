package badge

import (
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/display"
	"github.com/robotalks/badge.go/pkg/event"
	fx "github.com/robotalks/badge.go/pkg/framework"
	"github.com/robotalks/badge.go/pkg/input"
	"github.com/robotalks/badge.go/pkg/led"
	"github.com/robotalks/badge.go/pkg/metrics"
	"github.com/robotalks/badge.go/pkg/pubsub"
	"github.com/robotalks/badge.go/pkg/supervisor"
)

// Resources are the badge peripherals. Each is handed to exactly one task.
type Resources struct {
	Buttons input.Buttons
	LEDs    led.Strip
	Display display.Display
}

// Step selects a demo.
type Step int

// Demo steps.
const (
	StepTasks Step = iota + 3
	StepButtons
	StepDisplay
)

func (s Step) String() string {
	switch s {
	case StepTasks:
		return "tasks"
	case StepButtons:
		return "buttons"
	case StepDisplay:
		return "display"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// ChannelObserver is told about every bus channel created.
type ChannelObserver func(name string, stats func() pubsub.Stats)

// Badge builds the tasks of a step.
type Badge struct {
	Config    *Config
	Resources Resources
	Recorder  metrics.Recorder
	Tracer    supervisor.Tracer
	OnChannel ChannelObserver
}

// New creates a Badge.
func New(conf *Config, res Resources) *Badge {
	return &Badge{Config: conf, Resources: res}
}

// Tasks returns the tasks of the step.
func (b *Badge) Tasks(step Step) ([]fx.Runnable, error) {
	switch step {
	case StepTasks:
		return b.Step03Tasks(), nil
	case StepButtons:
		return b.Step04Buttons()
	case StepDisplay:
		return b.Step05Display()
	}
	return nil, fmt.Errorf("unknown step %v", step)
}

// Step03Tasks cycles the rainbow on the LEDs while the main task reports
// it's alive every heartbeat period.
func (b *Badge) Step03Tasks() []fx.Runnable {
	rainbow := led.NewRainbow(b.Resources.LEDs)
	rainbow.Recorder = b.Recorder
	return []fx.Runnable{
		fx.NamedRun("leds", fx.NewLoopEvery(b.Config.RainbowInterval).Add(rainbow)),
		fx.NamedRun("main", fx.NewLoopEvery(b.Config.Heartbeat).Add(&supervisor.Heartbeat{})),
	}
}

// Step04Buttons paints the LEDs with the color of the pressed button.
func (b *Badge) Step04Buttons() ([]fx.Runnable, error) {
	bus := b.newBus(2, 1)
	leds, err := b.ledTask(bus, b.Config.Hold)
	if err != nil {
		return nil, err
	}
	return b.withButtonsAndMain(bus, leds)
}

// Step05Display adds the display task moving the owl with Left and Right.
func (b *Badge) Step05Display() ([]fx.Runnable, error) {
	bus := b.newBus(3, 1)
	leds, err := b.ledTask(bus, 0)
	if err != nil {
		return nil, err
	}
	sub, err := bus.Subscriber()
	if err != nil {
		return nil, err
	}
	owl := display.NewResponder(sub, b.Resources.Display)
	owl.Recorder = b.Recorder
	return b.withButtonsAndMain(bus, leds, owl)
}

func (b *Badge) newBus(subscribers, publishers int) *pubsub.Channel[event.Event] {
	bus := pubsub.New[event.Event](b.Config.Capacity, subscribers, publishers, b.Config.OverflowPolicy())
	if b.OnChannel != nil {
		b.OnChannel("buttons", bus.Stats)
	}
	return bus
}

func (b *Badge) ledTask(bus *pubsub.Channel[event.Event], hold time.Duration) (fx.Runnable, error) {
	sub, err := bus.Subscriber()
	if err != nil {
		return nil, err
	}
	return &led.Responder{
		Events:   sub,
		Strip:    b.Resources.LEDs,
		Palette:  b.Config.Palette,
		Hold:     hold,
		Recorder: b.Recorder,
	}, nil
}

func (b *Badge) withButtonsAndMain(bus *pubsub.Channel[event.Event], tasks ...fx.Runnable) ([]fx.Runnable, error) {
	pub, err := bus.Publisher()
	if err != nil {
		return nil, err
	}
	sub, err := bus.Subscriber()
	if err != nil {
		return nil, err
	}
	tasks = append(tasks,
		&input.Dispatcher{
			Buttons:   b.Resources.Buttons,
			Debouncer: b.Config.Debouncer(),
			Events:    pub,
			Recorder:  b.Recorder,
		},
		&supervisor.Supervisor{Events: sub, Tracer: b.Tracer},
	)
	return tasks, nil
}

// Run spawns the tasks of the step and extra runnables on runner, then
// waits until they stop. Any task exiting stops the others.
func (b *Badge) Run(runner *fx.Runner, step Step, extra ...fx.Runnable) error {
	tasks, err := b.Tasks(step)
	if err != nil {
		return err
	}
	glog.Infof("Starting step %v with %d tasks", step, len(tasks))
	runner.StopOnExit = true
	runner.Go(tasks...).Go(extra...)
	return runner.Wait()
}
