// Package guard classifies request paths and decides whether a session may
// proceed. Guards are pure functions over an explicit session value; the
// middleware layer translates a redirect decision into an HTTP response.
package guard

import (
	"net/url"
	"strings"

	"craft-store/internal/model"
)

// Session is the read-only view of the authenticated caller threaded into
// every guard call. A nil *Session means an unauthenticated request.
type Session struct {
	UserID               string
	Role                 model.Role
	RequirePasswordReset bool
}

// PathClass is the coarse routing category a request path falls into.
type PathClass int

const (
	ClassPublic PathClass = iota
	ClassAuthPage
	ClassAccountArea
	ClassAsset
)

// Decision is the explicit outcome of a guard check. Allow and RedirectTo
// are mutually exclusive; redirecting is normal control flow, not an error.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func Proceed() Decision {
	return Decision{Allow: true}
}

func RedirectTo(target string) Decision {
	return Decision{RedirectTo: target}
}

var accountAreaPrefixes = []string{
	"/admin",
	"/crafter",
	"/user",
	"/profile",
	"/checkout",
	"/place-order",
	"/payment",
	"/shipping-address",
	"/order",
}

var assetPrefixes = []string{
	"/assets",
	"/static",
	"/images",
	"/favicon.ico",
}

func Classify(path string) PathClass {
	for _, prefix := range assetPrefixes {
		if hasPathPrefix(path, prefix) {
			return ClassAsset
		}
	}

	if hasPathPrefix(path, "/sign-in") || hasPathPrefix(path, "/sign-up") {
		return ClassAuthPage
	}

	for _, prefix := range accountAreaPrefixes {
		if hasPathPrefix(path, prefix) {
			return ClassAccountArea
		}
	}

	return ClassPublic
}

// hasPathPrefix matches whole path segments, so /ordering is not mistaken
// for /order.
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// CheckAccess runs the full guard chain for one request path. The reset
// gate runs first so a flagged session cannot render anything else; then
// session presence for account areas; then role membership.
func CheckAccess(session *Session, path string) Decision {
	class := Classify(path)
	if class == ClassAsset {
		return Proceed()
	}

	if decision := PasswordResetGate(session, path); !decision.Allow {
		return decision
	}

	if class != ClassAccountArea {
		return Proceed()
	}

	if decision := RequireSession(session, path); !decision.Allow {
		return decision
	}

	switch {
	case hasPathPrefix(path, "/admin"):
		return RequireRole(session, model.RoleAdmin)
	case hasPathPrefix(path, "/crafter"):
		return RequireRole(session, model.RoleCraft)
	}

	return Proceed()
}

// RequireSession redirects unauthenticated requests to sign-in, carrying
// the original path so a successful sign-in can return the user there.
func RequireSession(session *Session, path string) Decision {
	if session != nil {
		return Proceed()
	}

	return RedirectTo("/sign-in?callbackUrl=" + url.QueryEscape(path))
}

func RequireRole(session *Session, role model.Role) Decision {
	if session == nil {
		return RedirectTo("/unauthorized")
	}
	if session.Role != role {
		return RedirectTo("/unauthorized")
	}

	return Proceed()
}

// PasswordResetGate blocks every page except the reset form for sessions
// flagged with a forced password reset.
func PasswordResetGate(session *Session, path string) Decision {
	if session == nil || !session.RequirePasswordReset {
		return Proceed()
	}
	if hasPathPrefix(path, "/reset-password") || hasPathPrefix(path, "/sign-out") {
		return Proceed()
	}

	return RedirectTo("/reset-password")
}
