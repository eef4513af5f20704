package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef maps a counter MetricID to its exported name.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef maps a histogram MetricID to its exported name.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricLoginSuccess, Name: "gosession_login_success_total", Help: "Successful logins."},
	{ID: goSession.MetricLoginFailure, Name: "gosession_login_failure_total", Help: "Failed logins."},
	{ID: goSession.MetricLoginRateLimited, Name: "gosession_login_rate_limited_total", Help: "Logins refused by the login limiter."},
	{ID: goSession.MetricRegisterSuccess, Name: "gosession_register_success_total", Help: "Successful registrations."},
	{ID: goSession.MetricRegisterFailure, Name: "gosession_register_failure_total", Help: "Registrations rejected for invalid input or directory errors."},
	{ID: goSession.MetricRegisterDuplicate, Name: "gosession_register_duplicate_total", Help: "Registrations rejected because the email is taken."},
	{ID: goSession.MetricSessionCreated, Name: "gosession_session_created_total", Help: "Sessions issued by login, registration or CreateSession."},
	{ID: goSession.MetricSessionValid, Name: "gosession_session_valid_total", Help: "Resolves that produced a session user."},
	{ID: goSession.MetricSessionAbsent, Name: "gosession_session_absent_total", Help: "Resolves without a session cookie."},
	{ID: goSession.MetricSessionDecodeFailure, Name: "gosession_session_decode_failure_total", Help: "Resolves rejected because the cookie did not decrypt or decode."},
	{ID: goSession.MetricSessionExpired, Name: "gosession_session_expired_total", Help: "Resolves rejected because the session expired."},
	{ID: goSession.MetricSessionUserGone, Name: "gosession_session_user_gone_total", Help: "Resolves rejected because the user no longer exists."},
	{ID: goSession.MetricSessionResolveError, Name: "gosession_session_resolve_error_total", Help: "Resolves that failed on a directory error."},
	{ID: goSession.MetricRefreshSuccess, Name: "gosession_refresh_success_total", Help: "Sliding refreshes that re-issued the cookie."},
	{ID: goSession.MetricRefreshFailure, Name: "gosession_refresh_failure_total", Help: "Sliding refreshes that failed and kept the old cookie."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Session cookie deletions."},
	{ID: goSession.MetricAuthAllowed, Name: "gosession_auth_allowed_total", Help: "Authorization checks that passed."},
	{ID: goSession.MetricAuthUnauthorized, Name: "gosession_auth_unauthorized_total", Help: "Authorization checks rejected with 401."},
	{ID: goSession.MetricAuthForbidden, Name: "gosession_auth_forbidden_total", Help: "Authorization checks rejected with 403."},
	{ID: goSession.MetricAuthError, Name: "gosession_auth_error_total", Help: "Authorization checks that failed with 500."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricResolveLatency, Name: "gosession_resolve_latency_seconds", Help: "Session resolve latency histogram."},
}

// AuditDroppedName is the counter of audit events lost to backpressure.
const AuditDroppedName = "gosession_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// HistogramUpperBounds are the bucket upper bounds in seconds, without +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBounds are the text-format le labels, one per bucket.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// NormalizeBuckets copies raw into a fixed-size bucket array, zero-filling
// missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
