package framework

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunnerAggregatesErrors(t *testing.T) {
	errA := errors.New("a failed")
	runner := NewRunner()
	runner.Go(
		NamedFunc("a", func(context.Context) error { return errA }),
		NamedFunc("b", func(context.Context) error { return nil }),
		NamedFunc("c", func(context.Context) error { return context.Canceled }),
	)
	err := runner.Wait()
	require.Error(t, err)
	require.ErrorIs(t, err, errA)
	require.Equal(t, "a failed", err.Error())
}

func TestRunnerStopOnExit(t *testing.T) {
	runner := NewRunner()
	runner.StopOnExit = true
	runner.Go(
		NamedFunc("forever", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
		NamedFunc("short", func(context.Context) error { return nil }),
	)
	done := make(chan error, 1)
	go func() { done <- runner.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunnerStop(t *testing.T) {
	runner := NewRunner()
	runner.Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	runner.Stop()
	require.NoError(t, runner.Wait())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil, errors.New("x"), nil, errors.New("y"))
	require.Len(t, errs.Errors, 2)
	require.Equal(t, "Multiple errors:\nx\ny", errs.Aggregate().Error())
}

func TestLoopRunsByPriority(t *testing.T) {
	var order []int
	var ticks int32
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoopEvery(time.Millisecond)
	loop.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		order = append(order, cc.PriorityLevel())
		if atomic.AddInt32(&ticks, 1) == 3 {
			cancel()
		}
		return nil
	}))
	loop.AddController(PrLvTop, ControlFunc(func(cc ControlContext) error {
		order = append(order, cc.PriorityLevel())
		return errors.New("ignored")
	}))
	err := loop.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []int{PrLvTop, PrLvIdle, PrLvTop, PrLvIdle, PrLvTop, PrLvIdle}, order)
}

func TestLoopFirstIterationImmediate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var first uint64 = 99
	start := time.Now()
	loop := NewLoopEvery(time.Hour)
	loop.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		first = cc.Tick()
		cancel()
		return nil
	}))
	loop.Run(ctx)
	require.Equal(t, uint64(0), first)
	require.Less(t, time.Since(start), time.Minute)
}

func TestRunWithContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	var canceled bool
	cancel()
	err := RunWithContextCancel(ctx, func() {
		canceled = true
		close(release)
	}, func() error {
		<-release
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, canceled)
}
