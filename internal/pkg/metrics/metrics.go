// Package metrics defines and registers all custom Prometheus metrics for the
// coffee shop API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init via
// promauto; /metrics is served by the echoprometheus handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coffeeshop"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - op: "register" or "login"
//   - result: "ok", "invalid", "conflict", "throttled" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// PolicyDenialsTotal counts authorization denials.
// Labels:
//   - kind: resource class (e.g. "news", "comment", "account")
//   - action: "create", "update", "delete", "assign-role" or "vote"
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of actions refused by the authorization policy.",
	},
	[]string{"kind", "action"},
)

// ── Reputation metrics ────────────────────────────────────────────────────────

// VotesTotal counts applied reputation votes.
// Labels:
//   - direction: "up" or "down"
//   - op: "inserted", "removed" or "switched"
var VotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reputation_votes_total",
		Help:      "Total number of reputation votes applied, by direction and ledger operation.",
	},
	[]string{"direction", "op"},
)

// ── Role metrics ──────────────────────────────────────────────────────────────

// RoleAssignmentsTotal counts successful role changes.
// Label:
//   - role: the role assigned
var RoleAssignmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_assignments_total",
		Help:      "Total number of role assignments, by assigned role.",
	},
	[]string{"role"},
)

// CreatorDemotionsTotal counts accounts demoted from creator to keep the role unique.
var CreatorDemotionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "creator_demotions_total",
		Help:      "Total number of accounts demoted from creator to manager.",
	},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts image uploads.
// Label:
//   - result: "stored", "rejected" or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image uploads, by outcome.",
	},
	[]string{"result"},
)

// UploadBytes observes the size of stored images.
var UploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_size_bytes",
		Help:      "Size of stored images in bytes.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 2, 9), // 16KiB … 4MiB
	},
)
