// Command rtsp-fake-source is a minimal RTSP server that serves one
// synthetic audio track over interleaved TCP: it answers OPTIONS,
// DESCRIBE (with a pion/sdp session description), SETUP, and PLAY, and
// then pushes fabricated RTP packets on a fixed cadence. It exists to
// give rtsp-probe something real to dial, not as a production media
// server.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	cli "github.com/jawher/mow.cli"
	"github.com/pion/rtp"
	"github.com/pion/sdp/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/streamforge/rtsplistener/internal/rtsp"
)

const appName = "rtsp-fake-source"

func main() {
	app := cli.App(appName, "serve a synthetic RTSP/RTP stream for exercising rtsp-probe")

	addr := app.String(cli.StringOpt{
		Name:  "listen",
		Desc:  "address to listen on",
		Value: ":8554",
	})

	app.Action = func() {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := serve(ctx, *addr); err != nil {
			log.WithError(err).Fatal("rtsp-fake-source: failed")
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("rtsp-fake-source: failed to start")
	}
}

func serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	defer ln.Close()

	log.WithField("addr", addr).Info("rtsp-fake-source: listening")

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		go func() {
			if err := handleSession(ctx, conn); err != nil {
				log.WithError(err).Warn("rtsp-fake-source: session ended")
			}
		}()
	}
}

// acceptedTransport wraps a connection the OS already accepted for us.
// It never redials: an accepted socket that drops is a finished
// session, not one to reconnect.
type acceptedTransport struct {
	conn net.Conn
}

func (t *acceptedTransport) Connected() bool      { return t.conn != nil }
func (t *acceptedTransport) RemoteAddress() string {
	if t.conn == nil {
		return ""
	}
	return t.conn.RemoteAddr().String()
}
func (t *acceptedTransport) Stream() (io.ReadWriteCloser, error) {
	if t.conn == nil {
		return nil, fmt.Errorf("acceptedTransport: session closed")
	}
	return t.conn, nil
}
func (t *acceptedTransport) Reconnect(context.Context) error {
	return fmt.Errorf("acceptedTransport: cannot reconnect an accepted session")
}
func (t *acceptedTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

func handleSession(ctx context.Context, conn net.Conn) error {
	t := &acceptedTransport{conn: conn}
	l := rtsp.New(t, rtsp.WithAutoReconnect(false))

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := l.Start(sessionCtx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer l.Dispose()

	sessionID := uuid.NewString()
	var playing atomic.Bool

	unsub := l.OnMessage(func(c rtsp.Chunk) {
		req, ok := c.(*rtsp.Request)
		if !ok {
			return
		}
		if err := handleRequest(sessionCtx, l, req, sessionID, &playing); err != nil {
			log.WithError(err).WithField("method", req.Method).Warn("rtsp-fake-source: request handling failed")
		}
	})
	defer unsub()

	group, gctx := errgroup.WithContext(sessionCtx)
	group.Go(func() error {
		return streamRTP(gctx, l, &playing)
	})
	group.Go(func() error {
		<-sessionCtx.Done()
		return sessionCtx.Err()
	})

	_ = group.Wait()
	return nil
}

func handleRequest(ctx context.Context, l *rtsp.Listener, req *rtsp.Request, sessionID string, playing *atomic.Bool) error {
	resp := &rtsp.Response{
		Version:    "1.0",
		StatusCode: 200,
		Reason:     "OK",
		CSeq:       req.CSeq,
	}

	switch req.Method {
	case rtsp.MethodOptions:
		resp.Header.Set("Public", "OPTIONS, DESCRIBE, SETUP, PLAY, TEARDOWN, GET_PARAMETER")

	case rtsp.MethodDescribe:
		body := buildSDP(req.URI)
		resp.Header.Set("Content-Type", "application/sdp")
		resp.Header.Set("Content-Base", req.URI+"/")
		resp.Body = body

	case rtsp.MethodSetup:
		resp.Header.Set("Session", sessionID+";timeout=60")
		transportHeader := req.Header.Get("Transport")
		if transportHeader == "" {
			resp.StatusCode = 461
			resp.Reason = "Unsupported Transport"
			break
		}
		resp.Header.Set("Transport", transportHeader)

	case rtsp.MethodPlay:
		resp.Header.Set("Session", sessionID)
		playing.Store(true)

	case rtsp.MethodGetParameter:
		resp.Header.Set("Session", sessionID)

	case rtsp.MethodTeardown:
		resp.Header.Set("Session", sessionID)
		playing.Store(false)

	default:
		resp.StatusCode = 501
		resp.Reason = "Not Implemented"
	}

	_, err := l.SendMessage(ctx, resp)
	return err
}

func buildSDP(uri string) []byte {
	desc := &sdp.SessionDescription{
		Version: 0,
		Origin: sdp.Origin{
			Username:       "-",
			SessionID:      uint64(time.Now().UnixNano()), //nolint:staticcheck // fake source, wall time is fine
			SessionVersion: 1,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "0.0.0.0",
		},
		SessionName: "rtsp-fake-source",
		TimeDescriptions: []sdp.TimeDescription{
			{Timing: sdp.Timing{StartTime: 0, StopTime: 0}},
		},
		MediaDescriptions: []*sdp.MediaDescription{
			{
				MediaName: sdp.MediaName{
					Media:   "audio",
					Port:    sdp.RangedPort{Value: 0},
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"0"},
				},
				Attributes: []sdp.Attribute{
					{Key: "control", Value: "trackID=0"},
					{Key: "rtpmap", Value: "0 PCMU/8000"},
				},
			},
		},
	}

	raw, err := desc.Marshal()
	if err != nil {
		log.WithError(err).Error("rtsp-fake-source: failed to marshal sdp")
		return nil
	}
	return raw
}

// streamRTP pushes one synthetic PCMU packet every 20ms on channel 0
// while playing is set, matching a typical G.711 packetization
// interval.
func streamRTP(ctx context.Context, l *rtsp.Listener, playing *atomic.Bool) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	var seq uint16
	ssrc := uint32(time.Now().UnixNano()) //nolint:staticcheck // fake source, wall time is fine

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !playing.Load() {
				continue
			}

			pkt := &rtp.Packet{
				Header: rtp.Header{
					Version:        2,
					PayloadType:    0,
					SequenceNumber: seq,
					Timestamp:      uint32(seq) * 160,
					SSRC:           ssrc,
				},
				Payload: make([]byte, 160),
			}
			seq++

			raw, err := pkt.Marshal()
			if err != nil {
				return fmt.Errorf("marshal rtp packet: %w", err)
			}

			if err := l.SendDataSync(0, raw); err != nil {
				return fmt.Errorf("send rtp frame: %w", err)
			}
		}
	}
}
