package internaldefs

import (
	authGate "github.com/wheelmarket/authGate"
)

// CounterDef defines a public type used by authGate APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authGate.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authGate APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authGate.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication gate.
var CounterDefs = []CounterDef{
	{ID: authGate.MetricAuthAllowed, Name: "authgate_auth_allowed_total", Help: "Requests allowed through the gate."},
	{ID: authGate.MetricAuthRejected, Name: "authgate_auth_rejected_total", Help: "Requests rejected by the gate."},
	{ID: authGate.MetricNoToken, Name: "authgate_no_token_total", Help: "Requests carrying no access token."},
	{ID: authGate.MetricTokenBlacklisted, Name: "authgate_token_blacklisted_total", Help: "Requests rejected on blacklist membership."},
	{ID: authGate.MetricTokenInvalid, Name: "authgate_token_invalid_total", Help: "Requests rejected on decode failure."},
	{ID: authGate.MetricTokenTypeMismatch, Name: "authgate_token_type_mismatch_total", Help: "Requests presenting a refresh token as access token."},
	{ID: authGate.MetricSessionInactive, Name: "authgate_session_inactive_total", Help: "Sessions ended by the inactivity limit."},
	{ID: authGate.MetricSessionExpired, Name: "authgate_session_expired_total", Help: "Sessions ended with no usable refresh token."},
	{ID: authGate.MetricTokenExpired, Name: "authgate_token_expired_total", Help: "Expired access tokens with no refresh carrier."},
	{ID: authGate.MetricSlidingRenewal, Name: "authgate_sliding_renewal_total", Help: "Access tokens re-minted with a fresh activity timestamp."},
	{ID: authGate.MetricPreemptiveRefresh, Name: "authgate_preemptive_refresh_total", Help: "Renewals inside the preemptive refresh window."},
	{ID: authGate.MetricRotationSuccess, Name: "authgate_rotation_success_total", Help: "Successful refresh token rotations."},
	{ID: authGate.MetricRotationFailure, Name: "authgate_rotation_failure_total", Help: "Failed refresh token rotations."},
	{ID: authGate.MetricRotationRaceLost, Name: "authgate_rotation_race_lost_total", Help: "Rotations lost to a concurrent duplicate request."},
	{ID: authGate.MetricUserNotFound, Name: "authgate_user_not_found_total", Help: "Rotations rejected because the user no longer exists."},
	{ID: authGate.MetricAccountLocked, Name: "authgate_account_locked_total", Help: "Rotations rejected for suspended or locked accounts."},
	{ID: authGate.MetricRevocationFailOpen, Name: "authgate_revocation_fail_open_total", Help: "Revocation lookups that failed and were treated as not revoked."},
	{ID: authGate.MetricTokenRevoked, Name: "authgate_token_revoked_total", Help: "Tokens written to the revocation blacklist."},
	{ID: authGate.MetricLogout, Name: "authgate_logout_total", Help: "Logout operations."},
}

// HistogramDefs is an exported constant or variable used by the authentication gate.
var HistogramDefs = []HistogramDef{
	{ID: authGate.MetricAuthenticateLatency, Name: "authgate_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication gate.
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

// HistogramBoundSuffix is an exported constant or variable used by the authentication gate.
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

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
