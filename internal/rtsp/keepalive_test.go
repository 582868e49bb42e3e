package rtsp

import (
	"bufio"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeepAliveSender_SendsOnTick(t *testing.T) {
	ft := newFakeTransport()
	l := New(ft, WithAutoReconnect(false))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, l.Start(ctx))
	defer l.Dispose()

	peer := <-ft.peerCh

	sender := NewKeepAliveSender(l, "rtsp://x/stream")
	sender.Interval = 10 * time.Millisecond

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()
	go sender.Run(runCtx)

	br := bufio.NewReader(peer)
	cseq := readRequestCSeq(t, br)
	require.Equal(t, uint32(1), cseq)

	_, err := peer.Write([]byte("RTSP/1.0 200 OK\r\nCSeq: 1\r\nContent-Length: 0\r\n\r\n"))
	require.NoError(t, err)
}
