package internaldefs

import (
	"github.com/0ui-labs/authguard"
)

// CounterDef binds a metric ID to its exported name and help text.
type CounterDef struct {
	ID   authguard.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram metric ID to its exported name and help text.
type HistogramDef struct {
	ID   authguard.MetricID
	Name string
	Help string
}

// CounterDefs lists every engine counter with its stable exported name.
var CounterDefs = []CounterDef{
	{ID: authguard.MetricLoginSuccess, Name: "authguard_login_success_total", Help: "Successful login attempts."},
	{ID: authguard.MetricLoginFailure, Name: "authguard_login_failure_total", Help: "Failed login attempts."},
	{ID: authguard.MetricLoginRateLimited, Name: "authguard_login_rate_limited_total", Help: "Login attempts rejected while locked."},
	{ID: authguard.MetricAccountLocked, Name: "authguard_account_locked_total", Help: "Lockouts triggered by the failure threshold."},
	{ID: authguard.MetricAccountUnlocked, Name: "authguard_account_unlocked_total", Help: "Administrative account unlocks."},
	{ID: authguard.MetricLogout, Name: "authguard_logout_total", Help: "Single-token logout operations."},
	{ID: authguard.MetricLogoutAll, Name: "authguard_logout_all_total", Help: "All-device revocations."},
	{ID: authguard.MetricTokenRejectedBlacklist, Name: "authguard_token_rejected_blacklist_total", Help: "Tokens rejected by the JTI blacklist."},
	{ID: authguard.MetricTokenRejectedVersion, Name: "authguard_token_rejected_version_total", Help: "Tokens rejected for a stale token version."},
}

// HistogramDefs lists every engine histogram with its stable exported name.
var HistogramDefs = []HistogramDef{
	{ID: authguard.MetricValidateLatency, Name: "authguard_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds are the upper bounds of the fixed engine buckets, in seconds.
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

// HistogramBoundSuffix mirrors HistogramBounds with characters safe for
// metric attribute keys.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus histograms expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
