package rtsp

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/streamforge/rtsplistener/internal/metrics"
	"github.com/streamforge/rtsplistener/internal/transport"
)

// Listener pairs one Transport with one long-running read task,
// producing Chunks to subscribers and offering a send path for
// requests, responses, and interleaved data.
type Listener struct {
	id        ListenerID
	transport transport.Transport
	logger    *log.Logger
	backoff   BackoffFunc

	mu            sync.Mutex
	state         State
	autoReconnect bool
	parentCtx     context.Context
	cancel        context.CancelFunc
	done          chan struct{}
	reader        *chunkReader
	writer        *frameWriter

	seq  uint32
	corr *correlator

	subMu    sync.Mutex
	msgSubs  map[string]func(Chunk)
	dataSubs map[string]func(Data)
}

// New builds a Listener over t. The listener does not connect until
// Start is called.
func New(t transport.Transport, opts ...Option) *Listener {
	l := &Listener{
		id:        newListenerID(),
		transport: t,
		logger:    log.StandardLogger(),
		backoff:   defaultBackoff,
		state:     StateIdle,
		corr:      newCorrelator(),
		msgSubs:   make(map[string]func(Chunk)),
		dataSubs:  make(map[string]func(Data)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ID returns the listener's opaque identifier, the value attached to
// every Chunk it produces as Source.
func (l *Listener) ID() ListenerID {
	return l.id
}

// State reports the current lifecycle state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// RemoteAddress delegates to the transport.
func (l *Listener) RemoteAddress() string {
	return l.transport.RemoteAddress()
}

// SetAutoReconnect toggles whether SendMessage transparently
// reconnects a disconnected transport before sending.
func (l *Listener) SetAutoReconnect(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.autoReconnect = enabled
}

// Start transitions Idle -> Running: it connects the transport if
// needed and spawns the read task.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	l.mu.Unlock()

	if !l.transport.Connected() {
		if err := l.transport.Reconnect(ctx); err != nil {
			return fmt.Errorf("rtsp: start: %w", err)
		}
	}

	stream, err := l.transport.Stream()
	if err != nil {
		return fmt.Errorf("rtsp: start: %w", err)
	}

	l.mu.Lock()
	l.reader = newChunkReader(stream, l.id)
	l.writer = newFrameWriter(stream)
	l.parentCtx = ctx
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.state = StateRunning
	l.mu.Unlock()

	go l.readLoop(runCtx)
	return nil
}

// readLoop is the long-running read task: read one chunk, dispatch,
// repeat, until EOF or cancellation.
func (l *Listener) readLoop(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.state = StateStopped
		done := l.done
		l.mu.Unlock()
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		chunk, err := l.reader.readChunk()
		if err != nil {
			if err != io.EOF {
				l.logger.WithError(err).Warn("rtsp: read task terminating on transport fault")
				metrics.FramingFaults.Inc()
			}
			l.mu.Lock()
			if l.state == StateRunning {
				l.state = StateStopping
			}
			l.mu.Unlock()
			_ = l.transport.Close()
			return
		}

		l.dispatch(chunk)
	}
}

func (l *Listener) dispatch(chunk Chunk) {
	switch c := chunk.(type) {
	case *Request:
		metrics.ChunksReceived.WithLabelValues("request").Inc()
		l.publishMessage(c)
	case *Response:
		if req, ok := l.corr.take(c.CSeq); ok {
			c.OriginalRequest = req
		} else {
			l.logger.WithField("cseq", c.CSeq).Warn("rtsp: response with no outstanding request")
			metrics.CorrelationMisses.Inc()
		}
		metrics.OutstandingRequests.Set(float64(l.corr.len()))
		metrics.ChunksReceived.WithLabelValues("response").Inc()
		l.publishMessage(c)
	case *Data:
		metrics.ChunksReceived.WithLabelValues("data").Inc()
		l.publishData(c)
	}
}

func (l *Listener) publishMessage(chunk Chunk) {
	l.subMu.Lock()
	subs := make([]func(Chunk), 0, len(l.msgSubs))
	for _, fn := range l.msgSubs {
		subs = append(subs, fn)
	}
	l.subMu.Unlock()

	for _, fn := range subs {
		fn(chunk)
	}
}

func (l *Listener) publishData(d *Data) {
	l.subMu.Lock()
	subs := make([]func(Data), 0, len(l.dataSubs))
	for _, fn := range l.dataSubs {
		subs = append(subs, fn)
	}
	l.subMu.Unlock()

	for _, fn := range subs {
		fn(*d)
	}
}

// OnMessage registers fn to be invoked, on the read goroutine, for
// every Request and Response chunk. The returned func unsubscribes.
func (l *Listener) OnMessage(fn func(Chunk)) func() {
	id := uuid.NewString()
	l.subMu.Lock()
	l.msgSubs[id] = fn
	l.subMu.Unlock()
	return func() {
		l.subMu.Lock()
		delete(l.msgSubs, id)
		l.subMu.Unlock()
	}
}

// OnData registers fn to be invoked, on the read goroutine, for every
// interleaved Data chunk. The returned func unsubscribes.
func (l *Listener) OnData(fn func(Data)) func() {
	id := uuid.NewString()
	l.subMu.Lock()
	l.dataSubs[id] = fn
	l.subMu.Unlock()
	return func() {
		l.subMu.Lock()
		delete(l.dataSubs, id)
		l.subMu.Unlock()
	}
}

// Stop closes the transport, forcing any blocked read to fail, and
// signals cancellation to the read task. It does not wait for the
// task to exit; use Dispose for that.
func (l *Listener) Stop() {
	l.mu.Lock()
	if l.state == StateRunning {
		l.state = StateStopping
	}
	cancel := l.cancel
	l.mu.Unlock()

	_ = l.transport.Close()
	if cancel != nil {
		cancel()
	}
}

// Reconnect is a no-op if already connected; otherwise it waits for
// the current read task to finish, reconnects the transport, and
// restarts the read task. The outstanding-request table and sequence
// counter survive.
func (l *Listener) Reconnect(ctx context.Context) error {
	if l.transport.Connected() {
		return nil
	}

	l.mu.Lock()
	done := l.done
	parent := l.parentCtx
	l.mu.Unlock()

	if done != nil {
		<-done
	}
	if parent == nil {
		parent = context.Background()
	}

	if err := l.transport.Reconnect(ctx); err != nil {
		return fmt.Errorf("rtsp: reconnect: %w", err)
	}

	stream, err := l.transport.Stream()
	if err != nil {
		return fmt.Errorf("rtsp: reconnect: %w", err)
	}

	l.mu.Lock()
	if l.reader == nil {
		l.reader = newChunkReader(stream, l.id)
	} else {
		l.reader.reset(stream)
	}
	if l.writer == nil {
		l.writer = newFrameWriter(stream)
	} else {
		l.writer.reset(stream)
	}
	runCtx, cancel := context.WithCancel(parent)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.state = StateRunning
	l.mu.Unlock()

	go l.readLoop(runCtx)
	metrics.Reconnects.Inc()
	return nil
}

// Dispose stops the listener and releases the stream, waiting for the
// read task to fully exit.
func (l *Listener) Dispose() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	l.Stop()
	if done != nil {
		<-done
	}
	_ = l.transport.Close()
}

// SendMessage sends a Request or Response. For a Request it clones the
// caller's value (never mutating it), assigns the next CSeq, and
// records it in the correlator before writing. It returns (false,
// ErrDisconnected) when the transport is disconnected and
// auto-reconnect is disabled; a failed auto-reconnect attempt surfaces
// its own error instead.
func (l *Listener) SendMessage(ctx context.Context, msg Message) (bool, error) {
	if msg == nil {
		return false, ErrNilMessage
	}

	if !l.transport.Connected() {
		l.mu.Lock()
		auto := l.autoReconnect
		l.mu.Unlock()
		if !auto {
			return false, ErrDisconnected
		}
		if err := l.reconnectWithBackoff(ctx); err != nil {
			return false, err
		}
	}

	switch m := msg.(type) {
	case *Request:
		clone := m.clone().(*Request)
		cseq := atomic.AddUint32(&l.seq, 1)
		clone.setCSeq(cseq)
		l.corr.insert(cseq, clone)
		metrics.OutstandingRequests.Set(float64(l.corr.len()))

		if err := l.sendWithContext(ctx, func() error {
			return l.writer.sendMessage(clone)
		}); err != nil {
			l.corr.take(cseq)
			return false, err
		}
		return true, nil

	case *Response:
		clone := m.clone().(*Response)
		if err := l.sendWithContext(ctx, func() error {
			return l.writer.sendMessage(clone)
		}); err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, fmt.Errorf("rtsp: unsupported message type %T", msg)
	}
}

// reconnectWithBackoff retries Reconnect using l.backoff until ctx is
// done or five attempts have failed.
func (l *Listener) reconnectWithBackoff(ctx context.Context) error {
	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := l.Reconnect(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("rtsp: auto-reconnect: %w (last attempt: %v)", ctx.Err(), lastErr)
		case <-time.After(l.backoff(attempt)):
		}

		if attempt >= 5 {
			return fmt.Errorf("rtsp: auto-reconnect: giving up after %d attempts: %w", attempt, lastErr)
		}
	}
}

// sendWithContext runs fn alongside a watcher on ctx.Done in an
// errgroup. It returns only once fn has finished; if ctx was canceled
// first, the context's error is returned instead of fn's.
func (l *Listener) sendWithContext(ctx context.Context, fn func() error) error {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		case <-done:
			return nil
		}
	})
	g.Go(func() error {
		defer close(done)
		return fn()
	})

	return g.Wait()
}

// SendDataAsync writes an interleaved frame without blocking the
// caller for the write to complete; write errors are logged, not
// returned, except for validation failures caught before dispatch.
func (l *Listener) SendDataAsync(channel uint8, payload []byte) error {
	if len(payload) > maxInterleavedPayload {
		return ErrOversizeFrame
	}
	if l.State() != StateRunning {
		return ErrNotStarted
	}

	go func() {
		if err := l.writer.sendData(channel, payload); err != nil {
			l.logger.WithError(err).Warn("rtsp: async interleaved send failed")
		}
	}()
	return nil
}

// SendDataSync writes an interleaved frame and waits for the write to
// complete.
func (l *Listener) SendDataSync(channel uint8, payload []byte) error {
	if len(payload) > maxInterleavedPayload {
		return ErrOversizeFrame
	}
	if l.State() != StateRunning {
		return ErrNotStarted
	}
	return l.writer.sendData(channel, payload)
}
