package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dxcases_ai_requests_total",
		Help: "Calls made to the completion, image and moderation services",
	}, []string{"operation", "outcome"})

	AIRequestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dxcases_ai_request_seconds",
		Help:    "Latency of calls to the completion, image and moderation services",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 90},
	}, []string{"operation"})

	ConversationTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dxcases_conversation_turns_total",
		Help: "Conversation turns processed, by resulting state",
	}, []string{"state"})

	ModerationFlagged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dxcases_moderation_flagged_total",
		Help: "Submissions rejected by the moderation gate",
	})

	CasesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dxcases_cases_submitted_total",
		Help: "Cases persisted after passing moderation",
	})

	IllustrationJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dxcases_illustration_jobs_total",
		Help: "Illustration jobs finished by the worker, by status",
	}, []string{"status"})
)
