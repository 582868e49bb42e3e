package rtsp

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// KeepAliveSender periodically issues a request on an established
// Listener session so that an idle connection is not torn down by the
// peer's session timeout. It is caller-side orchestration on top of
// Listener, not part of the read/dispatch core: nothing here runs
// unless something constructs and runs one.
type KeepAliveSender struct {
	Listener *Listener
	Interval time.Duration
	Method   Method
	URI      string
	Logger   *log.Logger
}

// NewKeepAliveSender builds a sender that issues GET_PARAMETER against
// uri every 30 seconds.
func NewKeepAliveSender(l *Listener, uri string) *KeepAliveSender {
	return &KeepAliveSender{
		Listener: l,
		Interval: 30 * time.Second,
		Method:   MethodGetParameter,
		URI:      uri,
		Logger:   log.StandardLogger(),
	}
}

// Run blocks, sending a keepalive request every Interval until ctx is
// canceled. A failed send is logged and does not stop the ticker: a
// single dropped keepalive is not fatal, a run of them will surface as
// the transport going disconnected on the next real send.
func (k *KeepAliveSender) Run(ctx context.Context) {
	ticker := time.NewTicker(k.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := k.Listener.SendMessage(ctx, &Request{
				Method:  k.Method,
				URI:     k.URI,
				Version: "1.0",
			})
			if err != nil || !ok {
				k.Logger.WithError(err).Warn("rtsp: keepalive send failed")
			}
		}
	}
}
