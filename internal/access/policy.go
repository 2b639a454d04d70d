// Package access holds the request-level permission policies.
// A policy is a pure predicate over the acting principal; denial carries
// the HTTP status to respond with, so the transport layer stays dumb.
package access

import "net/http"

// Principal 当前请求的主体。Presented 表示请求带了凭证（无论是否有效）
type Principal struct {
	UserID        uint
	Authenticated bool
	Presented     bool
}

// Anonymous returns the principal for a request with no usable credentials.
func Anonymous(presented bool) Principal {
	return Principal{Presented: presented}
}

// Authenticated returns the principal for a verified user.
func Authenticated(userID uint) Principal {
	return Principal{UserID: userID, Authenticated: true, Presented: true}
}

type Decision struct {
	Allow   bool
	Status  int
	Message string
}

func permit() Decision { return Decision{Allow: true} }

func deny(status int, msg string) Decision {
	return Decision{Status: status, Message: msg}
}

// Policy decides whether the principal may reach the handler body.
type Policy func(p Principal) Decision

// AuthenticatedOnly permits verified users. Credentials that fail
// verification count as absent, so every denial here is a 401; there is
// no role to differentiate that could justify a 403.
func AuthenticatedOnly(p Principal) Decision {
	if p.Authenticated {
		return permit()
	}
	return deny(http.StatusUnauthorized, "authentication required")
}

// AnonymousOnly permits only unauthenticated requests (registration).
func AnonymousOnly(p Principal) Decision {
	if !p.Authenticated {
		return permit()
	}
	return deny(http.StatusForbidden, "already authenticated")
}
