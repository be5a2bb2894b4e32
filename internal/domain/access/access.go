// Package access decides whether a navigation may proceed given the current session.
//
// Guards are pure: they read the session state and return a Decision. They never
// mutate the session. The HTTP console and the terminal client both evaluate the
// same guards.
package access

// Entry points used as redirect targets.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// State is the read-only session view guards evaluate against.
type State interface {
	IsAuthenticated() bool
	IsElevated() bool
	// Interactive is false in contexts without durable client storage or user input,
	// such as server-side prerendering. Authentication and guest guards pass there.
	Interactive() bool
}

// Decision is the outcome of evaluating a guard.
type Decision struct {
	Allow    bool
	Redirect string
}

// Allowed is the decision that lets navigation proceed.
var Allowed = Decision{Allow: true}

// RedirectTo returns a denial that redirects to target.
func RedirectTo(target string) Decision {
	return Decision{Redirect: target}
}

// Guard evaluates a navigation attempt.
type Guard func(State) Decision

// RequireAuthenticated admits authenticated sessions and non-interactive contexts.
func RequireAuthenticated(s State) Decision {
	if !s.Interactive() || s.IsAuthenticated() {
		return Allowed
	}
	return RedirectTo(LoginPath)
}

// RequireGuest admits unauthenticated sessions and non-interactive contexts.
func RequireGuest(s State) Decision {
	if !s.Interactive() || !s.IsAuthenticated() {
		return Allowed
	}
	return RedirectTo(DashboardPath)
}

// RequireElevated admits sessions whose principal holds an elevated role.
func RequireElevated(s State) Decision {
	if s.IsElevated() {
		return Allowed
	}
	return RedirectTo(DashboardPath)
}

// Evaluate runs guards in order and returns the first denial.
func Evaluate(s State, guards ...Guard) Decision {
	for _, g := range guards {
		if d := g(s); !d.Allow {
			return d
		}
	}
	return Allowed
}
