// Package board brings up the badge peripherals and runs a demo step.
package board

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/badge"
	fx "github.com/robotalks/badge.go/pkg/framework"
)

// Board is a brought up badge with its supporting tasks.
type Board struct {
	Badge *badge.Badge
	// Extra runs alongside the step tasks.
	Extra []fx.Runnable

	closers []func() error
}

func (b *Board) onClose(fn func() error) {
	b.closers = append(b.closers, fn)
}

// Close releases what the board opened, in reverse order.
func (b *Board) Close() error {
	var errs fx.AggregatedError
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs.Add(b.closers[i]())
	}
	b.closers = nil
	return errs.Aggregate()
}

// Main parses flags, brings up the board and runs step until stopped.
func Main(step badge.Step) {
	badge.SetupFlags()
	SetupFlags()
	flag.Parse()
	defer glog.Flush()

	conf := badge.MustLoad()
	runner := fx.NewRunner().HandleSignals()
	b, err := Open(runner.Context, conf)
	if err != nil {
		glog.Fatalf("bring up: %v", err)
	}
	err = b.Badge.Run(runner, step, b.Extra...)
	if cerr := b.Close(); cerr != nil {
		glog.Warningf("shutdown: %v", cerr)
	}
	if err != nil {
		glog.Exitf("step %v: %v", step, err)
	}
}
