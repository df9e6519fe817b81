package authGate

import (
	"errors"
	"net/http"
)

var (
	// ErrNotReady is an exported constant or variable used by the authentication gate.
	ErrNotReady = errors.New("gate not initialized")
	// ErrRefreshInvalid is an exported constant or variable used by the authentication gate.
	ErrRefreshInvalid = errors.New("refresh token invalid")
	// ErrRefreshRevoked is an exported constant or variable used by the authentication gate.
	ErrRefreshRevoked = errors.New("refresh token revoked")
	// ErrRefreshReuse is an exported constant or variable used by the authentication gate.
	ErrRefreshReuse = errors.New("refresh token reuse detected")
	// ErrUserNotFound is an exported constant or variable used by the authentication gate.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserSuspended is an exported constant or variable used by the authentication gate.
	ErrUserSuspended = errors.New("user account suspended")
	// ErrUserLookupUnavailable is an exported constant or variable used by the authentication gate.
	ErrUserLookupUnavailable = errors.New("user lookup unavailable")
)

// Code defines a public type used by authGate APIs.
//
// Code values are stable wire identifiers: clients key retry, redirect, and
// forced-logout behavior off them, so existing values must never change.
type Code string

const (
	// CodeNoToken is an exported constant or variable used by the authentication gate.
	CodeNoToken Code = "NO_TOKEN"
	// CodeTokenBlacklisted is an exported constant or variable used by the authentication gate.
	CodeTokenBlacklisted Code = "TOKEN_BLACKLISTED"
	// CodeInvalidToken is an exported constant or variable used by the authentication gate.
	CodeInvalidToken Code = "INVALID_TOKEN"
	// CodeInvalidTokenType is an exported constant or variable used by the authentication gate.
	CodeInvalidTokenType Code = "INVALID_TOKEN_TYPE"
	// CodeSessionInactive is an exported constant or variable used by the authentication gate.
	CodeSessionInactive Code = "SESSION_INACTIVE"
	// CodeSessionExpired is an exported constant or variable used by the authentication gate.
	CodeSessionExpired Code = "SESSION_EXPIRED"
	// CodeTokenExpired is an exported constant or variable used by the authentication gate.
	CodeTokenExpired Code = "TOKEN_EXPIRED"
	// CodeRefreshTokenBlacklisted is an exported constant or variable used by the authentication gate.
	CodeRefreshTokenBlacklisted Code = "REFRESH_TOKEN_BLACKLISTED"
	// CodeUserNotFound is an exported constant or variable used by the authentication gate.
	CodeUserNotFound Code = "USER_NOT_FOUND"
	// CodeAccountLocked is an exported constant or variable used by the authentication gate.
	CodeAccountLocked Code = "ACCOUNT_LOCKED"
)

// Rejection defines a public type used by authGate APIs.
//
// Rejection instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Rejection struct {
	Code    Code
	Status  int
	Message string
}

func (r *Rejection) Error() string {
	if r == nil {
		return "rejected"
	}
	return "rejected: " + string(r.Code)
}

var rejections = map[Code]*Rejection{
	CodeNoToken:                 {Code: CodeNoToken, Status: http.StatusUnauthorized, Message: "authentication token missing"},
	CodeTokenBlacklisted:        {Code: CodeTokenBlacklisted, Status: http.StatusUnauthorized, Message: "token has been revoked"},
	CodeInvalidToken:            {Code: CodeInvalidToken, Status: http.StatusUnauthorized, Message: "token is invalid"},
	CodeInvalidTokenType:        {Code: CodeInvalidTokenType, Status: http.StatusUnauthorized, Message: "wrong token type"},
	CodeSessionInactive:         {Code: CodeSessionInactive, Status: http.StatusUnauthorized, Message: "session ended due to inactivity"},
	CodeSessionExpired:          {Code: CodeSessionExpired, Status: http.StatusUnauthorized, Message: "session expired, please log in again"},
	CodeTokenExpired:            {Code: CodeTokenExpired, Status: http.StatusUnauthorized, Message: "token expired"},
	CodeRefreshTokenBlacklisted: {Code: CodeRefreshTokenBlacklisted, Status: http.StatusUnauthorized, Message: "refresh token has been revoked"},
	CodeUserNotFound:            {Code: CodeUserNotFound, Status: http.StatusUnauthorized, Message: "user no longer exists"},
	CodeAccountLocked:           {Code: CodeAccountLocked, Status: http.StatusLocked, Message: "account is locked"},
}

// Rejections are shared immutable values; reject never allocates.
func reject(code Code) *Rejection {
	if r, ok := rejections[code]; ok {
		return r
	}
	return &Rejection{Code: code, Status: http.StatusUnauthorized, Message: "unauthorized"}
}

// AsRejection describes the asrejection operation and its observable behavior.
//
// AsRejection may return an error when input validation, dependency calls, or security checks fail.
// AsRejection does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
