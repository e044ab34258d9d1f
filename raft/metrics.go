package raft

import "github.com/prometheus/client_golang/prometheus"

// ChannelMetrics holds the Prometheus instrumentation for FollowerChannels:
// a struct of counter/gauge fields plus a PrometheusCollectors accessor for
// registration. The metrics carry no per-follower label; when one instance
// is shared by several channels the counters sum over all of them and the
// request_on_going gauge holds the value most recently set by any of them.
type ChannelMetrics struct {
	submissionsAccepted  prometheus.Counter
	submissionsCoalesced prometheus.Counter
	submissionsRejected  prometheus.Counter
	rpcOutcomes          *prometheus.CounterVec
	requestOnGoing       prometheus.Gauge
}

func NewChannelMetrics() *ChannelMetrics {
	const (
		namespace = "raft"
		subsystem = "follower_channel"
	)

	return &ChannelMetrics{
		submissionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submissions_accepted_total",
			Help:      "Number of submissions that became the live in-flight request.",
		}),
		submissionsCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submissions_coalesced_total",
			Help:      "Number of submissions merged into the pending coalesced request.",
		}),
		submissionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submissions_rejected_total",
			Help:      "Number of submissions rejected for backpressure.",
		}),
		rpcOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rpc_outcomes_total",
			Help:      "AppendLog RPC completions by classification.",
		}, []string{"code"}),
		requestOnGoing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_on_going",
			Help:      "1 while an RPC is outstanding or a chained follow-up is queued.",
		}),
	}
}

// PrometheusCollectors satisfies the pack's prom.PrometheusCollector
// convention so ChannelMetrics can be registered with a prometheus.Registerer.
func (m *ChannelMetrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.submissionsAccepted,
		m.submissionsCoalesced,
		m.submissionsRejected,
		m.rpcOutcomes,
		m.requestOnGoing,
	}
}
