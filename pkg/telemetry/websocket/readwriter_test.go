package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestEcho(t *testing.T) {
	srv := httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		rw := New(conn)
		for {
			pkt, err := rw.ReadPacket()
			if err != nil {
				return
			}
			if err := rw.WritePacket(append([]byte("echo:"), pkt...)); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	rw, err := Dial("ws://" + strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	defer rw.Close()

	for _, msg := range []string{"\x00\x01", "trace"} {
		require.NoError(t, rw.WritePacket([]byte(msg)))
		pkt, err := rw.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, "echo:"+msg, string(pkt))
	}
}
