package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/robotalks/badge.go/pkg/event"
	fx "github.com/robotalks/badge.go/pkg/framework"
)

// Tracer encodes events as traces and writes them to a sink.
type Tracer struct {
	BadgeID string
	Sink    PacketWriter
	// Now defaults to time.Now.
	Now func() time.Time

	lock sync.Mutex
	seq  uint32
}

// NewTracer creates a Tracer.
func NewTracer(badgeID string, sink PacketWriter) *Tracer {
	return &Tracer{BadgeID: badgeID, Sink: sink}
}

// Trace writes a trace for ev. Sequence numbers start from 1.
func (t *Tracer) Trace(ctx context.Context, ev event.Event) error {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	t.seq++
	pkt, err := (&Trace{
		BadgeID: t.BadgeID,
		Seq:     t.seq,
		Event:   ev.String(),
		Nanos:   now().UnixNano(),
	}).Encode()
	if err != nil {
		return err
	}
	return fx.RunWithContext(ctx, func() error {
		return t.Sink.WritePacket(pkt)
	})
}
