// Package transport supplies the byte-stream capability the rtsp
// package is built on top of. The listener never dials a socket
// itself; it is handed a Transport and only ever asks it for a
// stream, or tells it to reconnect or close.
package transport

import (
	"context"
	"io"
)

// Transport is the capability an rtsp.Listener is injected with. It
// owns socket lifecycle (connect, reconnect, close); the listener
// owns framing and dispatch on top of whatever Stream returns.
type Transport interface {
	// Connected reports whether a live stream is currently available.
	Connected() bool

	// RemoteAddress returns the peer address, or "" if never connected.
	RemoteAddress() string

	// Stream returns the current bidirectional byte stream. It must
	// return the same stream across calls until Reconnect or Close is
	// invoked.
	Stream() (io.ReadWriteCloser, error)

	// Reconnect establishes a new stream when none is live. It is a
	// no-op if already connected.
	Reconnect(ctx context.Context) error

	// Close releases the stream and any underlying resources. Any
	// blocked read/write on the current stream must fail promptly.
	Close() error
}
