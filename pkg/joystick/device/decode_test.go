package device

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	ev, err := Decode([]byte{1, 0, 0, 0, 1, 0, 0x81, 3})
	require.NoError(t, err)
	btn, ok := ev.(ButtonEvent)
	require.True(t, ok)
	require.True(t, btn.IsInit())
	require.True(t, btn.Pressed())
	require.Equal(t, 3, btn.Index())

	ev, err = Decode([]byte{0, 0, 0, 0, 0x01, 0x80, 0x02, 6})
	require.NoError(t, err)
	axis, ok := ev.(AxisEvent)
	require.True(t, ok)
	require.False(t, axis.IsInit())
	require.Equal(t, -32767, axis.Value())
	require.Equal(t, 6, axis.Index())

	_, err = Decode([]byte{1, 2, 3})
	require.Error(t, err)
}
