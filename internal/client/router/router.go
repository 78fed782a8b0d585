// Package router maps client paths to pages and gates the protected ones
// behind an authenticated session.
package router

import (
	"path"
	"strings"

	"paisable/internal/client/session"
)

// Page identifiers.
const (
	PageWelcome      = "welcome"
	PageLogin        = "login"
	PageRegister     = "register"
	PageContact      = "contact"
	PageDashboard    = "dashboard"
	PageTransactions = "transactions"
	PageReceipts     = "receipts"
)

// Route binds a path to a page.
type Route struct {
	Path      string
	Page      string
	Protected bool
	// Layout is set for pages rendered inside the signed-in shell.
	Layout bool
}

// Routes is the full route table in display order.
var Routes = []Route{
	{Path: "/", Page: PageWelcome},
	{Path: "/login", Page: PageLogin},
	{Path: "/register", Page: PageRegister},
	{Path: "/contact", Page: PageContact},
	{Path: "/dashboard", Page: PageDashboard, Protected: true, Layout: true},
	{Path: "/transactions", Page: PageTransactions, Protected: true, Layout: true},
	{Path: "/receipts", Page: PageReceipts, Protected: true, Layout: true},
}

// Outcome is what the UI should do for a path.
type Outcome int

const (
	// Render shows Result.Route.
	Render Outcome = iota
	// Pending shows a loading indicator until the session settles.
	Pending
	// Redirect navigates to Result.Location.
	Redirect
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Pending:
		return "pending"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Result is the resolution of one path.
type Result struct {
	Outcome  Outcome
	Route    Route
	Location string
}

// Resolve decides what to show for p given the session state.
// Protected pages wait while the session is loading and redirect to the
// login page when it is anonymous.
func Resolve(p string, state session.State) Result {
	route, ok := Lookup(p)
	if !ok {
		return Result{Outcome: NotFound}
	}
	if !route.Protected {
		return Result{Outcome: Render, Route: route}
	}

	switch state {
	case session.StateAuthenticated:
		return Result{Outcome: Render, Route: route}
	case session.StateLoading:
		return Result{Outcome: Pending, Route: route}
	default:
		return Result{Outcome: Redirect, Route: route, Location: session.PathLogin}
	}
}

// Lookup finds the route for p, ignoring any query string, fragment and
// trailing slash.
func Lookup(p string) (Route, bool) {
	p = normalize(p)
	for _, r := range Routes {
		if r.Path == p {
			return r, true
		}
	}
	return Route{}, false
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
