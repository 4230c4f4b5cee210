//go:build !tinygo

package board

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/badge.go/pkg/badge"
	"github.com/robotalks/badge.go/pkg/event"
	fx "github.com/robotalks/badge.go/pkg/framework"
	"github.com/robotalks/badge.go/pkg/telemetry"
	"github.com/robotalks/badge.go/pkg/telemetry/stream"
)

func TestOpenHost(t *testing.T) {
	dir := t.TempDir()
	conf := &Config{
		LEDCount: 4,
		BadgeID:  "owl",
		TraceURL: "file://" + filepath.Join(dir, "trace.bin"),
		Snapshot: filepath.Join(dir, "display.png"),
	}
	bc := badge.NewConfig()
	bc.Settle = time.Millisecond
	bc.PollInterval = time.Millisecond

	b, err := conf.Open(context.Background(), bc)
	require.NoError(t, err)
	require.Empty(t, b.Extra)
	require.NotNil(t, b.Badge.Tracer)

	ctx, cancel := context.WithCancel(context.Background())
	runner := fx.NewRunnerWith(ctx)
	done := make(chan error, 1)
	go func() {
		done <- b.Badge.Run(runner, badge.StepDisplay)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	require.NoError(t, b.Close())

	info, err := os.Stat(conf.Snapshot)
	require.NoError(t, err)
	require.NotZero(t, info.Size())
}

func TestOpenHostWithExtras(t *testing.T) {
	conf := &Config{LEDCount: 1, MetricsAddr: "127.0.0.1:0", Joystick: true}
	b, err := conf.Open(context.Background(), badge.NewConfig())
	require.NoError(t, err)
	require.Len(t, b.Extra, 2)
	require.NotNil(t, b.Badge.Recorder)
	require.NotNil(t, b.Badge.OnChannel)
	require.Nil(t, b.Badge.Tracer)
	require.NoError(t, b.Close())
}

func TestSimButtonsTrace(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "trace.bin")
	conf := &Config{BadgeID: "owl", TraceURL: fn}
	bc := badge.NewConfig()
	bc.Settle = time.Millisecond
	bc.PollInterval = time.Millisecond
	bc.Hold = 0
	hw := NewSim(2)
	b, err := conf.OpenSim(context.Background(), bc, hw)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runner := fx.NewRunnerWith(ctx)
	done := make(chan error, 1)
	go func() {
		done <- b.Badge.Run(runner, badge.StepButtons)
	}()
	hw.Lines.Set(event.A, true)
	time.Sleep(10 * time.Millisecond)
	hw.Lines.Set(event.A, false)
	require.Eventually(t, func() bool {
		return hw.Strip.Snapshot()[1] == bc.Palette.A
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		info, err := os.Stat(fn)
		return err == nil && info.Size() > 0
	}, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	require.NoError(t, b.Close())

	f, err := os.Open(fn)
	require.NoError(t, err)
	defer f.Close()
	pkt, err := stream.NewReader(f).ReadPacket()
	require.NoError(t, err)
	trace, err := telemetry.DecodeTrace(pkt)
	require.NoError(t, err)
	require.Equal(t, "owl", trace.BadgeID)
	require.Equal(t, uint32(1), trace.Seq)
	require.Equal(t, event.A.String(), trace.Event)
}
