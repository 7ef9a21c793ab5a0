package service

import "errors"

// Kind classifies a service failure. The transport maps each Kind to one
// status code.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnsupportedGrantType
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnsupportedGrantType:
		return "unsupported_grant_type"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "internal"
	}
}

// Error is a caller-facing failure. Detail is safe to show verbatim.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

var (
	// Session verification.
	ErrSessionMissing   = &Error{KindUnauthenticated, "Unauthorized"}
	ErrSessionMalformed = &Error{KindUnauthenticated, "Token malformed"}
	ErrSessionInvalid   = &Error{KindUnauthenticated, "Token invalid"}
	ErrSessionExpired   = &Error{KindUnauthenticated, "Token expired"}

	// Register and login.
	ErrInvalidCredentials = &Error{KindUnauthorized, "Invalid credentials"}
	ErrUsernameExists     = &Error{KindConflict, "Username exists"}
	ErrEmailExists        = &Error{KindConflict, "Email exists"}

	// Clients and approval.
	ErrClientNotFound        = &Error{KindNotFound, "Client not found"}
	ErrUnknownClient         = &Error{KindNotFound, "Invalid client_id"}
	ErrRedirectNotRegistered = &Error{KindInvalidRequest, "redirect_uri not registered"}
	ErrScopeNotAllowed       = &Error{KindInvalidRequest, "scope not allowed"}

	// Exchange, in check order.
	ErrUnsupportedGrantType = &Error{KindUnsupportedGrantType, "Unsupported grant_type"}
	ErrInvalidCode          = &Error{KindNotFound, "Invalid code"}
	ErrClientMismatch       = &Error{KindForbidden, "invalid client_id"}
	ErrRedirectMismatch     = &Error{KindForbidden, "invalid redirect_uri"}
	ErrInvalidClientSecret  = &Error{KindForbidden, "invalid client_secret"}

	ErrInvalidAccessToken = &Error{KindUnauthenticated, "Invalid access token"}
)

func invalidRequest(detail string) *Error {
	return &Error{Kind: KindInvalidRequest, Detail: detail}
}

// KindOf reports the Kind of err. Anything that is not an *Error is
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// DetailOf returns the caller-facing detail of err, or "" when err is not
// an *Error.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}
