package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// IboMetrics instruments the listing-governance module: proposal churn, phase
// transitions driven by the end-of-block scheduler, and reward settlement.
type IboMetrics struct {
	proposalsCreated *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	rewardsPaid      prometheus.Counter
	votingActive     prometheus.Gauge
	votingDeferred   prometheus.Counter
	treasuryRetries  prometheus.Counter
}

var (
	iboOnce     sync.Once
	iboRegistry *IboMetrics
)

// Ibo returns the process-wide ibo metrics bundle, registering the collectors
// on first use.
func Ibo() *IboMetrics {
	iboOnce.Do(func() {
		iboRegistry = &IboMetrics{
			proposalsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ibo_proposals_created_total",
				Help: "Count of governance proposals created by kind.",
			}, []string{"kind"}),
			transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ibo_proposal_transitions_total",
				Help: "Count of scheduler-driven proposal phase transitions by destination state.",
			}, []string{"to"}),
			rewardsPaid: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "ibo_rewards_paid_total",
				Help: "Total reward units credited to voters.",
			}),
			votingActive: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "ibo_voting_active",
				Help: "Whether a proposal currently occupies the public voting slot.",
			}),
			votingDeferred: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "ibo_voting_deferred_total",
				Help: "Count of review-complete proposals deferred because the voting slot was occupied.",
			}),
			treasuryRetries: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "ibo_treasury_credit_retries_total",
				Help: "Count of proposal close attempts postponed because the treasury credit failed.",
			}),
		}
		prometheus.MustRegister(
			iboRegistry.proposalsCreated,
			iboRegistry.transitions,
			iboRegistry.rewardsPaid,
			iboRegistry.votingActive,
			iboRegistry.votingDeferred,
			iboRegistry.treasuryRetries,
		)
	})
	return iboRegistry
}

// ObserveProposalCreated records a successful proposal create.
func (m *IboMetrics) ObserveProposalCreated(kind string) {
	if m == nil {
		return
	}
	m.proposalsCreated.WithLabelValues(kind).Inc()
}

// ObserveTransition records a scheduler-driven transition into the state.
func (m *IboMetrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}

// AddRewardsPaid accumulates reward units credited to voters.
func (m *IboMetrics) AddRewardsPaid(amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.rewardsPaid.Add(amount)
}

// SetVotingActive flags whether the voting singleton is occupied.
func (m *IboMetrics) SetVotingActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.votingActive.Set(1)
		return
	}
	m.votingActive.Set(0)
}

// IncVotingDeferred records a deferred Reviewing to Voting transition.
func (m *IboMetrics) IncVotingDeferred() {
	if m == nil {
		return
	}
	m.votingDeferred.Inc()
}

// IncTreasuryRetry records a postponed treasury sweep.
func (m *IboMetrics) IncTreasuryRetry() {
	if m == nil {
		return
	}
	m.treasuryRetries.Inc()
}
