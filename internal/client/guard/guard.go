// Package guard decides, per navigation, whether a screen may be entered
// given the current session.
package guard

import (
	"context"
	"time"

	"github.com/securoserv/securovault/internal/client/session"
	"github.com/securoserv/securovault/internal/logging"
)

// Route classifies a navigation target.
type Route int

const (
	// RoutePublic needs no session at all (landing, features).
	RoutePublic Route = iota
	// RouteProtected requires a valid, non-expired session (dashboard, vault).
	RouteProtected
	// RouteAuthOnly is for login/signup screens, pointless with a session.
	RouteAuthOnly
)

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToDashboard
)

func (d Decision) String() string {
	switch d {
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToDashboard:
		return "redirect-to-dashboard"
	default:
		return "allow"
	}
}

// Guard evaluates navigation against the session store. Checks are never
// cached: token expiry is time-dependent, so every navigation re-derives the
// decision from storage.
type Guard struct {
	store session.Store
	log   logging.Logger
	now   func() time.Time
}

func New(store session.Store, log logging.Logger) *Guard {
	return &Guard{store: store, log: log, now: time.Now}
}

// Check returns the decision for entering the given route. Entering a
// protected route with an invalid or expired token clears the session as a
// side effect, so stale credentials never survive a failed navigation.
func (g *Guard) Check(ctx context.Context, route Route) (Decision, error) {
	if route == RoutePublic {
		return Allow, nil
	}

	token, err := g.store.Token(ctx)
	if err != nil {
		return Allow, err
	}

	valid := token != "" && !session.Expired(token, g.now())

	switch route {
	case RouteProtected:
		if !valid {
			g.log.Warn(ctx, "session invalid or expired, clearing", "route", "protected")
			if err := g.store.Clear(ctx); err != nil {
				return RedirectToLogin, err
			}
			return RedirectToLogin, nil
		}
		return Allow, nil

	case RouteAuthOnly:
		if valid {
			return RedirectToDashboard, nil
		}
		return Allow, nil
	}

	return Allow, nil
}
