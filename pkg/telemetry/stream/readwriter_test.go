package stream

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFraming(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WritePacket([]byte("owl")))
	require.NoError(t, w.WritePacket(nil))
	require.Equal(t, []byte{3, 0, 0, 0, 'o', 'w', 'l', 0, 0, 0, 0}, buf.Bytes())

	r := NewReader(&buf)
	pkt, err := r.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("owl"), pkt)
	pkt, err = r.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	_, err = r.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, w.Close())
}

func TestTooLarge(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(MaxPacketSize+1))
	_, err := NewReader(&buf).ReadPacket()
	require.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestTruncated(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{5, 0, 0, 0, 1})).ReadPacket()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
