// Command rtsp-probe is a minimal RTSP client demonstrating the
// rtsp.Listener framing engine: it DESCRIBEs a URL, SETUPs every media
// section over interleaved TCP, PLAYs, and prints every RTP/RTCP frame
// it receives until interrupted. It exists to exercise internal/rtsp
// against a real peer, not as a production client.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	cli "github.com/jawher/mow.cli"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/sdp/v3"
	log "github.com/sirupsen/logrus"

	"github.com/streamforge/rtsplistener/internal/rtsp"
	"github.com/streamforge/rtsplistener/internal/rtsp/transportspec"
	"github.com/streamforge/rtsplistener/internal/transport"
)

const appName = "rtsp-probe"

func main() {
	app := cli.App(appName, "drive an RTSP session and print interleaved RTP/RTCP frames")

	target := app.String(cli.StringArg{
		Name: "URL",
		Desc: "rtsp:// or rtsps:// URL to DESCRIBE",
	})

	insecure := app.Bool(cli.BoolOpt{
		Name:  "k insecure",
		Desc:  "skip TLS certificate verification for rtsps:// targets",
		Value: false,
	})

	app.Action = func() {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := run(ctx, *target, *insecure); err != nil {
			log.WithError(err).Fatal("rtsp-probe: failed")
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("rtsp-probe: failed to start")
	}
}

func run(ctx context.Context, rawURL string, insecure bool) error {
	target, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	var tlsConfig *tls.Config
	if target.Scheme == "rtsps" {
		tlsConfig = &tls.Config{InsecureSkipVerify: insecure} //nolint:gosec // opt-in via -k for lab targets
	}

	addr := target.Host
	if target.Port() == "" {
		addr = addr + ":554"
	}

	t := transport.NewTCP(addr, tlsConfig)
	l := rtsp.New(t, rtsp.WithAutoReconnect(true))

	if err := l.Start(ctx); err != nil {
		return fmt.Errorf("start listener: %w", err)
	}
	defer l.Dispose()

	unsub := l.OnData(func(d rtsp.Data) {
		logInterleavedFrame(d)
	})
	defer unsub()

	desc, err := describe(ctx, l, target.String())
	if err != nil {
		return err
	}

	base := desc.contentBase
	if base == "" {
		base = target.String()
	}

	trackID := 0
	var sessionID string
	for i, md := range desc.sdp.MediaDescriptions {
		control, ok := md.Attribute("control")
		if !ok {
			log.WithField("index", i).Warn("rtsp-probe: media section has no control attribute, skipping")
			continue
		}

		setupURI := control
		if !strings.Contains(control, "://") {
			setupURI = path.Join(base, control)
		}

		rtpChan := trackID * 2
		rtcpChan := rtpChan + 1
		sid, err := setup(ctx, l, setupURI, sessionID, rtpChan, rtcpChan)
		if err != nil {
			return fmt.Errorf("setup track %d: %w", trackID, err)
		}
		sessionID = sid
		trackID++
	}

	if sessionID == "" {
		return fmt.Errorf("rtsp-probe: no track was set up")
	}

	if err := play(ctx, l, base, sessionID); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	keepAlive := rtsp.NewKeepAliveSender(l, base)
	go keepAlive.Run(ctx)

	log.Info("rtsp-probe: streaming, press ctrl-c to stop")
	<-ctx.Done()
	return nil
}

type sessionDescription struct {
	sdp         *sdp.SessionDescription
	contentBase string
}

func describe(ctx context.Context, l *rtsp.Listener, uri string) (*sessionDescription, error) {
	var hdr rtsp.Header
	hdr.Set("Accept", "application/sdp")

	resp, err := sendAndAwait(ctx, l, &rtsp.Request{
		Method:  rtsp.MethodDescribe,
		URI:     uri,
		Version: "1.0",
		Header:  hdr,
	})
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}

	desc := &sdp.SessionDescription{}
	if err := desc.Unmarshal(resp.Body); err != nil {
		return nil, fmt.Errorf("describe: parse sdp: %w", err)
	}

	return &sessionDescription{sdp: desc, contentBase: resp.Header.Get("Content-Base")}, nil
}

func setup(ctx context.Context, l *rtsp.Listener, uri, sessionID string, rtpChan, rtcpChan int) (string, error) {
	var hdr rtsp.Header
	hdr.Set("Transport", transportspec.NewInterleaved(rtpChan, rtcpChan).Options()[0].String())
	if sessionID != "" {
		hdr.Set("Session", sessionID)
	}

	resp, err := sendAndAwait(ctx, l, &rtsp.Request{
		Method:  rtsp.MethodSetup,
		URI:     uri,
		Version: "1.0",
		Header:  hdr,
	})
	if err != nil {
		return "", err
	}

	sid, _, _ := strings.Cut(resp.Header.Get("Session"), ";")
	if sid == "" {
		return "", fmt.Errorf("setup: response carried no Session header")
	}
	return sid, nil
}

func play(ctx context.Context, l *rtsp.Listener, uri, sessionID string) error {
	var hdr rtsp.Header
	hdr.Set("Session", sessionID)

	_, err := sendAndAwait(ctx, l, &rtsp.Request{
		Method:  rtsp.MethodPlay,
		URI:     uri,
		Version: "1.0",
		Header:  hdr,
	})
	return err
}

// sendAndAwait sends req and waits, via a one-shot subscription, for
// the correlated response. Listener.SendMessage only guarantees the
// request left the wire; correlation happens asynchronously on the
// read task, so the caller has to subscribe before sending.
func sendAndAwait(ctx context.Context, l *rtsp.Listener, req *rtsp.Request) (*rtsp.Response, error) {
	respCh := make(chan *rtsp.Response, 1)
	unsub := l.OnMessage(func(c rtsp.Chunk) {
		if resp, ok := c.(*rtsp.Response); ok {
			select {
			case respCh <- resp:
			default:
			}
		}
	})
	defer unsub()

	ok, err := l.SendMessage(ctx, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("send %s: not sent", req.Method)
	}

	select {
	case resp := <-respCh:
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%s: server returned %d %s", req.Method, resp.StatusCode, resp.Reason)
		}
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func logInterleavedFrame(d rtsp.Data) {
	defer d.Release()

	if d.Channel%2 == 0 {
		pkt := &rtp.Packet{}
		if err := pkt.Unmarshal(d.Payload); err != nil {
			log.WithError(err).Debug("rtsp-probe: dropping malformed RTP packet")
			return
		}
		log.WithFields(log.Fields{
			"channel": d.Channel,
			"seq":     pkt.SequenceNumber,
			"ssrc":    pkt.SSRC,
			"payload": len(pkt.Payload),
			"kind":    "rtp",
		}).Info("rtsp-probe: frame")
		return
	}

	packets, err := rtcp.Unmarshal(d.Payload)
	if err != nil {
		log.WithError(err).Debug("rtsp-probe: dropping malformed RTCP packet")
		return
	}
	for _, p := range packets {
		log.WithFields(log.Fields{
			"channel": d.Channel,
			"kind":    "rtcp",
			"type":    fmt.Sprintf("%T", p),
		}).Info("rtsp-probe: frame")
	}
}
