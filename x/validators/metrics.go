package validators

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsSubsystem = "validators"

// Metrics of the validator set changes. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	TotalVotingPower  prometheus.Gauge
	Validators        prometheus.Gauge
	Transitions       prometheus.Counter
	RejectedProposals *prometheus.CounterVec
}

// NewMetrics returns collectors for given namespace. They must be
// registered before they are exposed.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TotalVotingPower: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "total_voting_power",
			Help:      "Total voting power of the latest stored validator set.",
		}),
		Validators: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "validators",
			Help:      "Number of validators in the latest stored validator set.",
		}),
		Transitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "transitions_total",
			Help:      "Number of validator set changes applied after an approved election.",
		}),
		RejectedProposals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "rejected_proposals_total",
			Help:      "Number of validator change proposals rejected by validation.",
		}, []string{"reason"}),
	}
}

// Register adds all collectors to the registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.TotalVotingPower,
		m.Validators,
		m.Transitions,
		m.RejectedProposals,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observeSet(set *ValidatorSet) {
	if m == nil {
		return
	}
	m.TotalVotingPower.Set(float64(set.TotalPower()))
	m.Validators.Set(float64(len(set.Validators)))
}

func (m *Metrics) observeTransition(set *ValidatorSet) {
	if m == nil {
		return
	}
	m.Transitions.Inc()
	m.observeSet(set)
}

func (m *Metrics) observeRejection(reason string) {
	if m == nil {
		return
	}
	m.RejectedProposals.WithLabelValues(reason).Inc()
}
