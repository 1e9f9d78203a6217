package malamute

/*------------------------------------------------------------------
 *
 * Purpose:	Optional Prometheus counters for watching the search
 *		behave (or misbehave) in a long-running receiver.
 *
 * Description:	Nothing here affects what gets decoded.  A nil
 *		*DecodeMetrics is a valid collector that does
 *		nothing, so library callers who don't run
 *		Prometheus pay only a nil check.
 *
 *------------------------------------------------------------------*/

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type DecodeMetrics struct {
	attempts          prometheus.Counter
	convergences      prometheus.Counter
	falseConvergences prometheus.Counter
	decodes           *prometheus.CounterVec // labelled by winning pass index
	noDecodes         prometheus.Counter
	iterations        prometheus.Histogram
	winningIterations prometheus.Histogram
}

func NewDecodeMetrics(reg prometheus.Registerer) *DecodeMetrics {
	var m = &DecodeMetrics{
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "malamute_decode_attempts_total",
			Help: "Decode passes attempted.",
		}),
		convergences: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "malamute_bp_convergences_total",
			Help: "Passes whose belief propagation converged on a parity-valid codeword.",
		}),
		falseConvergences: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "malamute_false_convergences_total",
			Help: "Parity-valid codewords rejected by the checksum.",
		}),
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "malamute_decodes_total",
			Help: "Frames decoded, by winning pass index.",
		}, []string{"pass"}),
		noDecodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "malamute_no_decodes_total",
			Help: "Frames that exhausted the whole pass list.",
		}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "malamute_bp_iterations",
			Help:    "Belief propagation iterations used per attempt.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
		winningIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "malamute_winning_bp_iterations",
			Help:    "Belief propagation iterations used by the winning pass.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.attempts, m.convergences, m.falseConvergences,
			m.decodes, m.noDecodes,
			m.iterations, m.winningIterations,
		)
	}

	return m
}

func (m *DecodeMetrics) CountAttempt(converged bool, iterations int) {
	if m == nil {
		return
	}
	m.attempts.Inc()
	m.iterations.Observe(float64(iterations))
	if converged {
		m.convergences.Inc()
	}
}

func (m *DecodeMetrics) CountFalseConvergence() {
	if m == nil {
		return
	}
	m.falseConvergences.Inc()
}

func (m *DecodeMetrics) CountDecode(passIndex int, iterations int) {
	if m == nil {
		return
	}
	m.decodes.WithLabelValues(strconv.Itoa(passIndex)).Inc()
	m.winningIterations.Observe(float64(iterations))
}

func (m *DecodeMetrics) CountNoDecode() {
	if m == nil {
		return
	}
	m.noDecodes.Inc()
}
