package rtsp

import "errors"

var (
	// ErrOversizeFrame is returned when an interleaved payload exceeds
	// the 16-bit length field and is rejected before any bytes reach
	// the wire.
	ErrOversizeFrame = errors.New("rtsp: interleaved payload exceeds 65535 bytes")

	// ErrNotStarted is returned by SendDataAsync and SendDataSync when
	// the listener is not Running (before Start, or after Stop or
	// Dispose).
	ErrNotStarted = errors.New("rtsp: listener is not started")

	// ErrAlreadyRunning is returned by Start when the listener is no
	// longer Idle, i.e. it has already been started once.
	ErrAlreadyRunning = errors.New("rtsp: listener is already running")

	// ErrNilMessage is returned by SendMessage when msg is nil.
	ErrNilMessage = errors.New("rtsp: message must not be nil")

	// ErrDisconnected is returned by SendMessage when the transport is
	// disconnected and auto-reconnect is disabled. A failed
	// auto-reconnect surfaces its own error instead.
	ErrDisconnected = errors.New("rtsp: transport is disconnected")
)
