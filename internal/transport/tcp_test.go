package transport

import (
	"context"
	"crypto/tls"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTCPTransport_StreamErrorsBeforeConnect(t *testing.T) {
	tr := NewTCP("127.0.0.1:0", nil)
	require.False(t, tr.Connected())

	_, err := tr.Stream()
	require.Error(t, err)
}

func TestTCPTransport_ReconnectIsNoOpWhenConnected(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan struct{})
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
		}
		close(accepted)
	}()

	tr := NewTCP(ln.Addr().String(), nil)
	require.NoError(t, tr.Reconnect(context.Background()))
	<-accepted
	require.True(t, tr.Connected())
	require.NotEmpty(t, tr.RemoteAddress())

	// A second Reconnect while still connected must not redial.
	require.NoError(t, tr.Reconnect(context.Background()))

	require.NoError(t, tr.Close())
	require.False(t, tr.Connected())
}

func TestTCPTransport_CloseIsIdempotent(t *testing.T) {
	tr := NewTCP("127.0.0.1:0", nil)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
}

func TestTCPTransport_ReconnectWithTLSConfig(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	tr := NewTCP(ln.Addr().String(), &tls.Config{InsecureSkipVerify: true})
	require.NoError(t, tr.Reconnect(context.Background()))
	defer tr.Close()

	require.True(t, tr.Connected())
}
