package rtsp

import (
	log "github.com/sirupsen/logrus"
)

// Option configures a Listener at construction time.
type Option func(*Listener)

// WithAutoReconnect sets the initial value of the auto-reconnect flag.
// It can also be changed later with SetAutoReconnect.
func WithAutoReconnect(enabled bool) Option {
	return func(l *Listener) {
		l.autoReconnect = enabled
	}
}

// WithLogger overrides the default logrus logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Listener) {
		l.logger = logger
	}
}

// WithBackoff overrides the delay function used between auto-reconnect
// attempts from SendMessage.
func WithBackoff(fn BackoffFunc) Option {
	return func(l *Listener) {
		if fn != nil {
			l.backoff = fn
		}
	}
}
