package mqtt

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// TraceTopicPattern matches the trace topics of all badges.
const TraceTopicPattern = "+/trace"

// ErrTimeout is returned when the broker didn't acknowledge in time.
var ErrTimeout = errors.New("mqtt timeout")

// TraceTopic returns the topic a badge publishes its traces to.
func TraceTopic(badgeID string) string {
	return badgeID + "/trace"
}

// BadgeIDFromTopic extracts the badge id from a trace topic.
func BadgeIDFromTopic(topic string) (string, bool) {
	id, ok := strings.CutSuffix(topic, "/trace")
	return id, ok && id != "" && !strings.Contains(id, "/")
}

// Writer implements PacketWriter by publishing to a topic.
type Writer struct {
	Queue   *Queue
	Topic   string
	Timeout time.Duration
}

// NewWriter creates the Writer.
func NewWriter(q *Queue, topic string) *Writer {
	return &Writer{Queue: q, Topic: topic, Timeout: 5 * time.Second}
}

// WritePacket implements PacketWriter.
func (w *Writer) WritePacket(pkt []byte) error {
	token := w.Queue.Pub(w.Topic, pkt)
	if w.Timeout > 0 {
		if !token.WaitTimeout(w.Timeout) {
			return ErrTimeout
		}
	} else {
		token.Wait()
	}
	return token.Error()
}

// Close implements io.Closer.
func (w *Writer) Close() error {
	return w.Queue.Close()
}

// Packet is a payload received with its topic.
type Packet struct {
	Topic   string
	Payload []byte
}

// Reader implements PacketReader by subscribing a topic.
// Run must be running for packets to be delivered. Packets arriving while
// nobody reads wait in a small buffer until Run stops.
type Reader struct {
	Queue *Queue
	Topic string

	packetCh chan Packet
	done     chan struct{}
}

// NewReader creates the Reader.
func NewReader(q *Queue, topic string) *Reader {
	return &Reader{
		Queue:    q,
		Topic:    topic,
		packetCh: make(chan Packet, 16),
		done:     make(chan struct{}),
	}
}

// ReadPacket implements PacketReader.
func (r *Reader) ReadPacket() ([]byte, error) {
	pkt, err := r.ReadTopicPacket()
	return pkt.Payload, err
}

// ReadTopicPacket reads the next packet with its topic. Once Run stops,
// buffered packets are still returned, then io.EOF.
func (r *Reader) ReadTopicPacket() (Packet, error) {
	select {
	case pkt := <-r.packetCh:
		return pkt, nil
	case <-r.done:
	}
	select {
	case pkt := <-r.packetCh:
		return pkt, nil
	default:
		return Packet{}, io.EOF
	}
}

// Run implements Runnable.
func (r *Reader) Run(ctx context.Context) error {
	sub := r.Queue.Sub(r.Topic, Handler(r.handleMsg))
	defer close(r.done)
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

func (r *Reader) handleMsg(topic string, payload []byte) {
	select {
	case r.packetCh <- Packet{Topic: topic, Payload: payload}:
	case <-r.done:
	}
}
