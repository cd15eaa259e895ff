// Package metrics defines the custom Prometheus metrics of the booking
// service. All metrics register on the default registry at init through
// promauto, next to the HTTP metrics exposed by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecolimpio"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login outcomes.
// Label:
//   - result: "success", "invalid", "locked" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GatekeeperRedirectsTotal counts requests bounced by the access hash gate.
// Label:
//   - reason: "no_hash", "malformed_hash", "no_session", "hash_mismatch"
//     or "invalid_role"
var GatekeeperRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gatekeeper_redirects_total",
		Help:      "Total number of protected requests redirected by the gatekeeper.",
	},
	[]string{"reason"},
)

// RateLimitRejectionsTotal counts requests refused by a rate limit policy.
var RateLimitRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejections_total",
		Help:      "Total number of requests rejected by rate limiting, by policy.",
	},
	[]string{"policy"},
)

// ── Verification metrics ──────────────────────────────────────────────────────

// VerificationCodesTotal counts verification code events.
// Label:
//   - event: "issued", "verified", "mismatch", "expired" or "locked"
var VerificationCodesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_codes_total",
		Help:      "Total number of verification code events.",
	},
	[]string{"event"},
)

// SMSDispatchedTotal counts background SMS deliveries.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var SMSDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sms_dispatched_total",
		Help:      "Total number of SMS handed to the dispatcher, by result.",
	},
	[]string{"result"},
)

// SMSQueueDepth tracks pending messages per dispatcher worker.
var SMSQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sms_queue_depth",
		Help:      "Current number of SMS pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// SMSSendDuration measures one provider call.
var SMSSendDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sms_send_duration_seconds",
		Help:      "Duration of a single SMS provider call.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts new bookings.
// Label:
//   - flow: "public" or "signup"
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by flow.",
	},
	[]string{"flow"},
)

// ContactsCreatedTotal counts contact form submissions that were stored.
var ContactsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contacts_created_total",
		Help:      "Total number of contact messages received.",
	},
)

// ── Maintenance metrics ───────────────────────────────────────────────────────

// SweptRecordsTotal counts expired records removed by the sweeper.
// Label:
//   - kind: "sessions", "verification_codes" or "counters"
var SweptRecordsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "swept_records_total",
		Help:      "Total number of expired records removed by the sweeper.",
	},
	[]string{"kind"},
)
