// Package console provides an interactive shell driving the simulated badge.
package console

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/event"
	fx "github.com/robotalks/badge.go/pkg/framework"
	"github.com/robotalks/badge.go/pkg/led"
	"github.com/robotalks/badge.go/pkg/sim"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Shell   *ishell.Shell
	Lines   *sim.Lines
	Strip   *sim.Strip
	Display *sim.Framebuffer
	// PressDuration is how long a press holds a line, it must exceed the
	// debounce settle time.
	PressDuration time.Duration

	// interact reads commands until the input ends, stop interrupts it.
	interact, stop func()
}

const (
	shellKey      = "$shell"
	prompt        = "badge > "
	maxPressCount = 100
)

var (
	pressDuration = 60 * time.Millisecond

	commands = []*ishell.Cmd{
		&PressCmd,
		&HoldCmd,
		&ReleaseCmd,
		&ButtonsCmd,
		&LEDsCmd,
		&SnapshotCmd,
	}
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.DurationVar(&pressDuration, "press-duration", pressDuration, "How long a simulated press holds the button.")
}

// New creates a new shell. strip and display may be nil.
func New(lines *sim.Lines, strip *sim.Strip, display *sim.Framebuffer) *Shell {
	s := &Shell{
		Shell:         ishell.New(),
		Lines:         lines,
		Strip:         strip,
		Display:       display,
		PressDuration: pressDuration,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Name implements framework.Named.
func (s *Shell) Name() string {
	return "console"
}

// Run implements framework.Runnable. When the input ends (EOF or exit)
// the badge keeps running until ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	interact, stop := s.interact, s.stop
	if interact == nil {
		interact, stop = s.Shell.Run, s.Shell.Close
	}
	return fx.RunWithContextCancel(ctx, stop, func() error {
		interact()
		glog.Info("console input closed, badge keeps running")
		<-ctx.Done()
		return ctx.Err()
	})
}

// Press presses and releases the button count times.
func (s *Shell) Press(ctx context.Context, name string, count int) error {
	line, err := s.line(name)
	if err != nil {
		return err
	}
	if count < 1 || count > maxPressCount {
		return fmt.Errorf("count must be within [1, %d]", maxPressCount)
	}
	for i := 0; i < count; i++ {
		line.Press()
		err := wait(ctx, s.PressDuration)
		line.Release()
		if err == nil {
			err = wait(ctx, s.PressDuration)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Hold keeps the button pressed.
func (s *Shell) Hold(name string) error {
	line, err := s.line(name)
	if err != nil {
		return err
	}
	line.Press()
	return nil
}

// Release releases one button, or all with "all".
func (s *Shell) Release(name string) error {
	if strings.EqualFold(name, "all") {
		for _, ev := range event.All() {
			s.Lines.Of(ev).Release()
		}
		return nil
	}
	line, err := s.line(name)
	if err != nil {
		return err
	}
	line.Release()
	return nil
}

// ButtonStates formats the level of every button.
func (s *Shell) ButtonStates() string {
	states := make([]string, 0, event.Count)
	for _, ev := range event.All() {
		state := "-"
		if s.Lines.Of(ev).Get() {
			state = "pressed"
		}
		states = append(states, ev.String()+":"+state)
	}
	return strings.Join(states, " ")
}

// LEDColors formats the committed LED colors.
func (s *Shell) LEDColors() (string, error) {
	if s.Strip == nil {
		return "", fmt.Errorf("no LED strip")
	}
	colors := s.Strip.Snapshot()
	strs := make([]string, len(colors))
	for n, c := range colors {
		strs[n] = led.FormatColor(c)
	}
	return fmt.Sprintf("%s (%d updates)", strings.Join(strs, " "), s.Strip.Commits()), nil
}

// Snapshot saves the visible display frame as PNG.
func (s *Shell) Snapshot(fn string) error {
	if s.Display == nil {
		return fmt.Errorf("no display")
	}
	return s.Display.SavePNG(fn)
}

func (s *Shell) line(name string) (*sim.Line, error) {
	ev, err := event.ParseEvent(name)
	if err != nil {
		return nil, err
	}
	return s.Lines.Of(ev), nil
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func buttonNames() string {
	names := make([]string, 0, event.Count)
	for _, ev := range event.All() {
		names = append(names, strings.ToLower(ev.String()))
	}
	return strings.Join(names, "|")
}

func requireArgs(c *ishell.Context, n int) bool {
	if len(c.Args) < n {
		c.Err(fmt.Errorf("expect %d argument(s), see help", n))
		return false
	}
	return true
}

var (
	// PressCmd presses a button.
	PressCmd = ishell.Cmd{
		Name:    "press",
		Aliases: []string{"p"},
		Help:    "BUTTON [COUNT], BUTTON is " + buttonNames(),
		Func: func(c *ishell.Context) {
			if !requireArgs(c, 1) {
				return
			}
			count := 1
			if len(c.Args) > 1 {
				n, err := strconv.Atoi(c.Args[1])
				if err != nil {
					c.Err(err)
					return
				}
				count = n
			}
			if err := ShellFrom(c).Press(context.Background(), c.Args[0], count); err != nil {
				c.Err(err)
			}
		},
	}

	// HoldCmd holds a button down.
	HoldCmd = ishell.Cmd{
		Name: "hold",
		Help: "BUTTON",
		Func: func(c *ishell.Context) {
			if !requireArgs(c, 1) {
				return
			}
			if err := ShellFrom(c).Hold(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// ReleaseCmd releases a held button.
	ReleaseCmd = ishell.Cmd{
		Name:    "release",
		Aliases: []string{"r"},
		Help:    "BUTTON|all",
		Func: func(c *ishell.Context) {
			if !requireArgs(c, 1) {
				return
			}
			if err := ShellFrom(c).Release(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// ButtonsCmd shows button levels.
	ButtonsCmd = ishell.Cmd{
		Name:    "buttons",
		Aliases: []string{"b"},
		Help:    "show button states",
		Func: func(c *ishell.Context) {
			c.Println(ShellFrom(c).ButtonStates())
		},
	}

	// LEDsCmd shows LED colors.
	LEDsCmd = ishell.Cmd{
		Name:    "leds",
		Aliases: []string{"l"},
		Help:    "show LED colors",
		Func: func(c *ishell.Context) {
			out, err := ShellFrom(c).LEDColors()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(out)
		},
	}

	// SnapshotCmd saves the display as PNG.
	SnapshotCmd = ishell.Cmd{
		Name:    "snapshot",
		Aliases: []string{"snap"},
		Help:    "FILE.png",
		Func: func(c *ishell.Context) {
			if !requireArgs(c, 1) {
				return
			}
			if err := ShellFrom(c).Snapshot(c.Args[0]); err != nil {
				c.Err(err)
				return
			}
			c.Println("saved", c.Args[0])
		},
	}
)
