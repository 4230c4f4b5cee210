// Package stream frames packets on byte streams, like files and pipes.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"
)

// MaxPacketSize limits the size of a packet being read.
const MaxPacketSize = 1 << 16

// ErrPacketTooLarge is returned when a length prefix exceeds MaxPacketSize.
var ErrPacketTooLarge = errors.New("packet too large")

// Reader implements PacketReader.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type Reader struct {
	io.Reader
}

// NewReader creates a Reader with io.Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r}
}

// ReadPacket implements PacketReader.
func (p *Reader) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	_, err := io.ReadFull(p, pkt)
	return pkt, err
}

// Writer implements PacketWriter with the same framing as Reader.
type Writer struct {
	w    io.Writer
	lock sync.Mutex
}

// NewWriter creates a Writer with io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WritePacket implements PacketWriter. The length prefix and the packet
// are written in one call.
func (p *Writer) WritePacket(pkt []byte) error {
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	p.lock.Lock()
	defer p.lock.Unlock()
	_, err := p.w.Write(buf)
	return err
}

// Close closes the underlying writer if it's an io.Closer.
func (p *Writer) Close() error {
	if closer, ok := p.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
