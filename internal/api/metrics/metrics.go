// Package metrics defines the custom Prometheus metrics of the blog API. It is
// the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Authentication metrics ───────────────────────────────────────────────────

// LoginsTotal counts password login attempts.
// Label:
//   - result: "success", "invalid", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of password login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful local registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of authors registered with a password.",
	},
)

// OAuthCallbacksTotal counts completed Google callbacks.
// Label:
//   - outcome: "login", "signup", "link", "state", "link_required",
//     "password_required" or "failed"
var OAuthCallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_callbacks_total",
		Help:      "Total number of OAuth callbacks, by outcome.",
	},
	[]string{"outcome"},
)

// TokenRejectionsTotal counts bearer tokens refused by the auth middleware.
// Label:
//   - reason: "missing", "invalid", "identity_gone" or "error"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by reason.",
	},
	[]string{"reason"},
)

// ── Audit metrics ────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events discarded because a worker
// buffer was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped on a full buffer.",
	},
)

// AuditQueueDepth tracks the number of events waiting in each audit worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ── Blog metrics ─────────────────────────────────────────────────────────────

// BlogPostsCreatedTotal counts new posts.
var BlogPostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blog_posts_created_total",
		Help:      "Total number of blog posts created.",
	},
)

// CommentsWrittenTotal counts comment mutations.
// Label:
//   - op: "add", "update" or "delete"
var CommentsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_written_total",
		Help:      "Total number of comment writes, by operation.",
	},
	[]string{"op"},
)
