package transportspec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse parses the comma-separated values of one or more
// "Transport:" header lines into a Header of alternative Options.
func Parse(values []string) (Header, error) {
	var opts []Option
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			o, err := parseOption(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			opts = append(opts, o)
		}
	}
	return &header{options: opts}, nil
}

func parseOption(in string) (Option, error) {
	segments := strings.Split(in, ";")
	if len(segments) < 1 {
		return nil, fmt.Errorf("transportspec: malformed transport header %q", in)
	}

	opt := &option{}
	switch segments[0] {
	case "RTP/AVP", "RTP/AVP/UDP":
		opt.protocol = ProtocolUDP
	case "RTP/AVP/TCP":
		opt.protocol = ProtocolTCP
	default:
		return nil, ErrUnsupportedTransport
	}

	for _, seg := range segments[1:] {
		param, err := parseParameter(seg)
		if err != nil {
			return nil, err
		}
		if u, ok := param.(unicastMarker); ok {
			opt.unicast = bool(u)
			continue
		}
		opt.params = append(opt.params, param)
	}

	return opt, nil
}

// unicastMarker is a sentinel Parameter used only to carry the
// "unicast" flag out of parseParameter without adding it to the
// option's parameter list (it is rendered separately by
// option.String).
type unicastMarker bool

func (unicastMarker) String() string { return "unicast" }

func parseParameter(seg string) (Parameter, error) {
	switch {
	case seg == "unicast":
		return unicastMarker(true), nil
	case seg == "multicast":
		return unicastMarker(false), nil
	case seg == "append":
		return Append(""), nil
	case strings.HasPrefix(seg, "destination"):
		if _, v, ok := strings.Cut(seg, "="); ok {
			return Destination(v), nil
		}
		return Destination(""), nil
	case strings.HasPrefix(seg, "interleaved"):
		return parseIntPairParam(seg, "interleaved", func(v []int) Parameter { return Interleaved(v) })
	case strings.HasPrefix(seg, "client_port"):
		return parseIntPairParam(seg, "client_port", func(v []int) Parameter { return ClientPort(v) })
	case strings.HasPrefix(seg, "server_port"):
		return parseIntPairParam(seg, "server_port", func(v []int) Parameter { return ServerPort(v) })
	case strings.HasPrefix(seg, "ttl"):
		_, v, ok := strings.Cut(seg, "=")
		if !ok {
			return nil, fmt.Errorf("transportspec: malformed ttl parameter %q", seg)
		}
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("transportspec: parse ttl: %w", err)
		}
		return TTL(time.Duration(seconds) * time.Second), nil
	case strings.HasPrefix(seg, "layers"):
		_, v, ok := strings.Cut(seg, "=")
		if !ok {
			return nil, fmt.Errorf("transportspec: malformed layers parameter %q", seg)
		}
		layers, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("transportspec: parse layers: %w", err)
		}
		return Layers(layers), nil
	case strings.HasPrefix(seg, "ssrc"):
		_, v, ok := strings.Cut(seg, "=")
		if !ok {
			return nil, fmt.Errorf("transportspec: malformed ssrc parameter %q", seg)
		}
		ssrc, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("transportspec: parse ssrc: %w", err)
		}
		return SSRC(ssrc), nil
	case strings.HasPrefix(seg, "mode"):
		_, v, ok := strings.Cut(seg, "=")
		if !ok {
			return nil, fmt.Errorf("transportspec: malformed mode parameter %q", seg)
		}
		return Mode(v), nil
	case strings.HasPrefix(seg, "port"):
		return parseIntPairParam(seg, "port", func(v []int) Parameter { return Port(v) })
	default:
		return nil, fmt.Errorf("transportspec: unexpected parameter %q", seg)
	}
}

func parseIntPairParam(seg, name string, build func([]int) Parameter) (Parameter, error) {
	_, v, ok := strings.Cut(seg, "=")
	if !ok {
		return nil, fmt.Errorf("transportspec: malformed %s parameter %q", name, seg)
	}

	var values []int
	for _, s := range strings.Split(v, "-") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("transportspec: parse %s value %q: %w", name, s, err)
		}
		values = append(values, n)
	}
	return build(values), nil
}
