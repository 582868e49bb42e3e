// Package transportspec parses and builds the RTSP "Transport:" header
// (RFC 2326 §12.39). This is session-setup semantics, not framing, so
// it lives outside the framing core proper; the demo client uses it to
// negotiate an interleaved TCP transport before it starts consuming a
// Listener's Data chunks.
package transportspec

import "errors"

// Protocol is the lower-layer protocol an Option negotiates.
type Protocol string

const (
	ProtocolUDP Protocol = "UDP"
	ProtocolTCP Protocol = "TCP"
)

const (
	UnsupportedTransportMessage = "Unsupported Transport"
	UnsupportedTransportCode    = 461
)

// ErrUnsupportedTransport is returned by Parse when any of the
// comma-separated options names something other than RTP/AVP,
// RTP/AVP/UDP, or RTP/AVP/TCP.
var ErrUnsupportedTransport = errors.New("transportspec: unsupported transport")

// Header is a parsed "Transport:" header: one or more alternative
// Options, tried by the caller in order.
type Header interface {
	Options() []Option
}

// Option is a single transport alternative, e.g.
// "RTP/AVP/TCP;unicast;interleaved=0-1".
type Option interface {
	IsUnicast() bool
	Protocol() Protocol
	Parameters() []Parameter
	String() string
}

// Parameter is one semicolon-delimited piece of an Option, e.g.
// "interleaved=0-1" or "ttl=15".
type Parameter interface {
	String() string
}
