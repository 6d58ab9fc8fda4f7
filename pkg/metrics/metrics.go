package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumeforge", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumeforge", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	ResumeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumeforge", Name: "resume_operations_total", Help: "Persistence gateway calls by operation and outcome."},
		[]string{"op", "outcome"},
	)
	DraftWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumeforge", Name: "draft_writes_total", Help: "Draft snapshots written by backend and outcome."},
		[]string{"backend", "outcome"},
	)
	ChatReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumeforge", Name: "chat_replies_total", Help: "FAQ replies by matched category."},
		[]string{"category"},
	)
	Exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumeforge", Name: "pdf_exports_total", Help: "PDF exports by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(ResumeOperations)
	reg.MustRegister(DraftWrites)
	reg.MustRegister(ChatReplies)
	reg.MustRegister(Exports)
}

// Outcome maps an error to the "outcome" label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
