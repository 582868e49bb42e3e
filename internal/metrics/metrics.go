// Package metrics exposes Prometheus counters for the rtsp listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChunksReceived counts chunks successfully produced by the frame
	// reader, labeled by kind ("request", "response", "data").
	ChunksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rtsp_listener",
		Name:      "chunks_received_total",
		Help:      "number of chunks produced by the frame reader",
	}, []string{"kind"})

	// FramingFaults counts read-loop terminations caused by a malformed
	// start-line. Other read failures, truncated frames included, reach
	// the read loop as io.EOF and are not counted.
	FramingFaults = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rtsp_listener",
		Name:      "framing_faults_total",
		Help:      "number of framing faults encountered by the frame reader",
	})

	// CorrelationMisses counts responses received with no matching
	// outstanding request.
	CorrelationMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rtsp_listener",
		Name:      "correlation_misses_total",
		Help:      "number of responses received with no outstanding request",
	})

	// Reconnects counts successful Listener.Reconnect calls.
	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rtsp_listener",
		Name:      "reconnects_total",
		Help:      "number of successful transport reconnects",
	})

	// OutstandingRequests tracks the current size of the correlator
	// table for the most recently observed listener.
	OutstandingRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rtsp_listener",
		Name:      "outstanding_requests",
		Help:      "current number of requests awaiting a response",
	})
)
