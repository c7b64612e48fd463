package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain metrics for the classifieds moderation pipeline.
var (
	SubmissionsAdmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yanjihub_submissions_admitted_total",
		Help: "Posts admitted through the submission gate, by category and initial status.",
	}, []string{"category", "status"})

	SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yanjihub_submissions_rejected_total",
		Help: "Submissions rejected by the gate, by reason (blocked_submitter, banned_content, translation_failed).",
	}, []string{"reason"})

	ReportsFiled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yanjihub_reports_filed_total",
		Help: "Report actions recorded, by target (post, comment).",
	}, []string{"target"})

	AutoModerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yanjihub_auto_moderations_total",
		Help: "Automatic threshold transitions applied (post_banned, comment_hidden).",
	}, []string{"transition"})

	ReactionDedupHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yanjihub_reaction_dedup_hits_total",
		Help: "Reactions suppressed because the viewer already reacted, by target.",
	}, []string{"target"})

	TranslationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yanjihub_translation_failures_total",
		Help: "Bilingual generation calls that failed and aborted a submission.",
	})

	FeedQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yanjihub_feed_query_duration_seconds",
		Help:    "Latency of feed composition queries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"viewer"})

	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yanjihub_redis_errors_total",
		Help: "Redis command errors by command name.",
	}, []string{"command"})
)
