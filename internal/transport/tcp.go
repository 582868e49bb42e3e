package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"sync"
)

// TCPTransport dials a plain TCP or, when TLSConfig is set, a TLS
// connection to Addr. It is the default Transport implementation,
// grounded on the dial-then-optionally-wrap-in-tls.Client shape used
// throughout the RTSP client code this package's callers are modeled
// on.
type TCPTransport struct {
	Addr      string
	TLSConfig *tls.Config
	Dialer    net.Dialer

	mu     sync.Mutex
	conn   net.Conn
	remote string
}

// NewTCP constructs a TCPTransport for addr. If tlsConfig is non-nil,
// Reconnect wraps the dialed connection with tls.Client.
func NewTCP(addr string, tlsConfig *tls.Config) *TCPTransport {
	return &TCPTransport{Addr: addr, TLSConfig: tlsConfig}
}

func (t *TCPTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

func (t *TCPTransport) RemoteAddress() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remote
}

func (t *TCPTransport) Stream() (io.ReadWriteCloser, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil, fmt.Errorf("transport: not connected to %s", t.Addr)
	}
	return t.conn, nil
}

func (t *TCPTransport) Reconnect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return nil
	}

	conn, err := t.Dialer.DialContext(ctx, "tcp", t.Addr)
	if err != nil {
		return fmt.Errorf("transport: dial %s: %w", t.Addr, err)
	}

	if t.TLSConfig != nil {
		host, _, splitErr := net.SplitHostPort(t.Addr)
		cfg := t.TLSConfig.Clone()
		if cfg.ServerName == "" && splitErr == nil {
			cfg.ServerName = host
		}
		conn = tls.Client(conn, cfg)
	}

	t.conn = conn
	t.remote = conn.RemoteAddr().String()
	return nil
}

func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
