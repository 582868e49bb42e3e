package transportspec

import "strings"

type option struct {
	unicast  bool
	protocol Protocol
	params   []Parameter
}

func (o *option) Protocol() Protocol {
	return o.protocol
}

func (o *option) IsUnicast() bool {
	return o.unicast
}

func (o *option) Parameters() []Parameter {
	return o.params
}

func (o *option) String() string {
	segments := []string{"RTP/AVP"}
	if o.protocol == ProtocolTCP {
		segments[0] += "/TCP"
	}
	if o.unicast {
		segments = append(segments, "unicast")
	}

	for _, param := range o.params {
		segments = append(segments, param.String())
	}

	return strings.Join(segments, ";")
}

type header struct {
	options []Option
}

func (h *header) Options() []Option {
	return h.options
}

// NewInterleaved builds a single-option Header requesting the
// interleaved-TCP transport used for the framing core's Data
// channels: "RTP/AVP/TCP;unicast;interleaved=<rtpChannel>-<rtcpChannel>".
func NewInterleaved(rtpChannel, rtcpChannel int) Header {
	return &header{options: []Option{
		&option{
			unicast:  true,
			protocol: ProtocolTCP,
			params:   []Parameter{Interleaved{rtpChannel, rtcpChannel}},
		},
	}}
}
