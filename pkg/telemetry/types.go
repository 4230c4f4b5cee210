// Package telemetry mirrors bus events out of the badge as traces.
package telemetry

import "io"

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// Sink is a closable PacketWriter traces are written to.
type Sink interface {
	PacketWriter
	io.Closer
}
