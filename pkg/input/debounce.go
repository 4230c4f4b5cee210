package input

import (
	"context"
	"sync"
	"time"
)

// Default debounce timings.
const (
	DefaultSettle       = 20 * time.Millisecond
	DefaultPollInterval = 5 * time.Millisecond
)

// Debouncer waits for settled button presses.
type Debouncer struct {
	// Settle is how long a press must last to count.
	Settle time.Duration
	// PollInterval is how often the line level is sampled.
	PollInterval time.Duration
}

// DefaultDebouncer returns a Debouncer with default timings.
func DefaultDebouncer() Debouncer {
	return Debouncer{Settle: DefaultSettle, PollInterval: DefaultPollInterval}
}

func (d Debouncer) poll() time.Duration {
	if d.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return d.PollInterval
}

// WaitPress returns once a press on line is observed and still held after
// Settle. A button already held when called must be released first.
// Only context errors are returned.
func (d Debouncer) WaitPress(ctx context.Context, line Line) error {
	ticker := time.NewTicker(d.poll())
	defer ticker.Stop()
	waitLevel := func(pressed bool) error {
		for line.Get() != pressed {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		return nil
	}
	if err := waitLevel(false); err != nil {
		return err
	}
	for {
		if err := waitLevel(true); err != nil {
			return err
		}
		if err := sleep(ctx, d.Settle); err != nil {
			return err
		}
		if line.Get() {
			return nil
		}
	}
}

// Wait binds a line to the debouncer.
func (d Debouncer) Wait(line Line) WaitFunc {
	return func(ctx context.Context) error {
		return d.WaitPress(ctx, line)
	}
}

func sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WaitFunc is a wait operation which completes with nil.
type WaitFunc func(context.Context) error

// Select runs all waits concurrently and returns the index of the first
// one completing without error. The others are canceled and finished
// before Select returns. When ctx is done first, -1 and the context error
// are returned.
func Select(ctx context.Context, waits ...WaitFunc) (int, error) {
	if len(waits) == 0 {
		<-ctx.Done()
		return -1, ctx.Err()
	}
	selCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	winner := make(chan int, len(waits))
	var wg sync.WaitGroup
	for n, wait := range waits {
		wg.Add(1)
		go func(n int, wait WaitFunc) {
			defer wg.Done()
			if wait(selCtx) == nil {
				winner <- n
			}
		}(n, wait)
	}

	index, err := -1, error(nil)
	select {
	case index = <-winner:
	case <-ctx.Done():
		err = ctx.Err()
	}
	cancel()
	wg.Wait()
	return index, err
}
