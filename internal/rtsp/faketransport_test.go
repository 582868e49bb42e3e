package rtsp

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
)

// fakeTransport is a transport.Transport test double backed by
// net.Pipe: each Reconnect hands the listener one end of a fresh pipe
// and pushes the other end onto peerCh for the test to drive as the
// "server".
type fakeTransport struct {
	mu         sync.Mutex
	connected  bool
	client     net.Conn
	peerCh     chan net.Conn
	reconnects int
	failNext   bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{peerCh: make(chan net.Conn, 8)}
}

func (f *fakeTransport) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeTransport) RemoteAddress() string {
	return "fake-peer"
}

func (f *fakeTransport) Stream() (io.ReadWriteCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client == nil {
		return nil, errors.New("fake transport: not connected")
	}
	return f.client, nil
}

func (f *fakeTransport) Reconnect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.connected {
		return nil
	}
	if f.failNext {
		f.failNext = false
		return errors.New("fake transport: dial failed")
	}

	client, peer := net.Pipe()
	f.client = client
	f.connected = true
	f.reconnects++
	f.peerCh <- peer
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		_ = f.client.Close()
	}
	f.client = nil
	f.connected = false
	return nil
}
