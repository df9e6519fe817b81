package authGate

import (
	"context"
	"io"

	"github.com/wheelmarket/authGate/internal/audit"
)

const (
	// RoleUser is an exported constant or variable used by the authentication gate.
	RoleUser = "user"
	// RoleModerator is an exported constant or variable used by the authentication gate.
	RoleModerator = "moderator"
	// RoleAdmin is an exported constant or variable used by the authentication gate.
	RoleAdmin = "admin"
)

// Principal defines a public type used by authGate APIs.
//
// Principal instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Principal struct {
	UserID string
	Role   string
}

// Identity is the request-scoped result of a successful authentication,
// attached to the request context for downstream handlers (ads, messaging,
// moderation). Permissions are derived from the role at decision time and
// are never encoded into tokens.
type Identity struct {
	UserID      string
	Role        string
	IsAdmin     bool
	IsModerator bool
	Permissions []string
}

// HasPermission describes the haspermission operation and its observable behavior.
//
// HasPermission may return an error when input validation, dependency calls, or security checks fail.
// HasPermission does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (id *Identity) HasPermission(perm string) bool {
	if id == nil {
		return false
	}
	for _, p := range id.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// AccountStatus defines a public type used by authGate APIs.
//
// AccountStatus instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AccountStatus uint8

const (
	// AccountActive is an exported constant or variable used by the authentication gate.
	AccountActive AccountStatus = iota
	// AccountSuspended is an exported constant or variable used by the authentication gate.
	AccountSuspended
	// AccountLocked is an exported constant or variable used by the authentication gate.
	AccountLocked
)

// UserRecord defines a public type used by authGate APIs.
//
// UserRecord instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserRecord struct {
	UserID string
	Role   string
	Status AccountStatus
}

// UserProvider is the application-owned user store consulted during refresh
// rotation. Implementations return [ErrUserNotFound] (possibly wrapped) when
// the user does not exist; any other error is treated as backend
// unavailability and fails the rotation closed.
type UserProvider interface {
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
}

// TokenPair defines a public type used by authGate APIs.
//
// TokenPair instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenPair struct {
	AccessToken    string
	RefreshToken   string
	RefreshTokenID string
}

// Credentials are the raw token carriers extracted from a request by the
// transport layer. Either field may be empty.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Result is the outcome of a successful [Gate.Authenticate]. AccessToken is
// always the serialization the transport layer should set going forward:
// every allowed request re-mints the access token with a fresh activity
// timestamp. RefreshToken is populated only when Rotated is true.
type Result struct {
	Identity     *Identity
	AccessToken  string
	RefreshToken string
	Rotated      bool
}

// AuditEvent defines a public type used by authGate APIs.
//
// AuditEvent instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditEvent = audit.Event

// AuditSink defines a public type used by authGate APIs.
//
// AuditSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditSink = audit.Sink

// NewAuditChannelSink describes the newauditchannelsink operation and its observable behavior.
//
// NewAuditChannelSink may return an error when input validation, dependency calls, or security checks fail.
// NewAuditChannelSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewAuditChannelSink(buffer int) *audit.ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewAuditJSONWriterSink describes the newauditjsonwritersink operation and its observable behavior.
//
// NewAuditJSONWriterSink may return an error when input validation, dependency calls, or security checks fail.
// NewAuditJSONWriterSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewAuditJSONWriterSink(w io.Writer) *audit.JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
