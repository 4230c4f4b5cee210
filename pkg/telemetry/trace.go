package telemetry

import (
	"time"

	"github.com/golang/protobuf/proto"
)

// Trace records one event seen on a badge bus.
type Trace struct {
	BadgeID string `protobuf:"bytes,1,opt,name=badge_id,proto3" json:"badge_id,omitempty"`
	Seq     uint32 `protobuf:"varint,2,opt,name=seq,proto3" json:"seq,omitempty"`
	Event   string `protobuf:"bytes,3,opt,name=event,proto3" json:"event,omitempty"`
	Nanos   int64  `protobuf:"varint,4,opt,name=nanos,proto3" json:"nanos,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Trace) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Trace) Reset() { *m = Trace{} }

// String implements proto.Message.
func (m *Trace) String() string { return proto.CompactTextString(m) }

// Time returns the time the event was received.
func (m *Trace) Time() time.Time {
	return time.Unix(0, m.Nanos)
}

// Encode serializes the trace.
func (m *Trace) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeTrace parses a serialized trace.
func DecodeTrace(pkt []byte) (*Trace, error) {
	var m Trace
	if err := proto.Unmarshal(pkt, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
