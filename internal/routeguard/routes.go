package routeguard

// Navigation entry points.
const (
	HomePath  = "/"
	LoginPath = "/login"
)

// protected is the set of destinations that require an authenticated session.
var protected = map[string]bool{
	"/map":           true,
	"/create-report": true,
	"/report-form":   true,
	"/report-loaded": true,
	"/profile":       true,
}

// public is the set of destinations reachable without a session.
var public = map[string]bool{
	HomePath:    true,
	LoginPath:   true,
	"/register": true,
}

// Decision is the guard's verdict for a navigation request.
type Decision struct {
	// Allow permits rendering the destination.
	Allow bool
	// Pending means the session is still resolving; show the loading
	// indicator and re-decide after resolution.
	Pending bool
	// RedirectTo, when non-empty, is the destination to navigate to instead.
	RedirectTo string
}

// Decide resolves a navigation request against the current guard state.
// Unknown paths redirect to the root entry point regardless of session.
func (g *Guard) Decide(path string) Decision {
	if !protected[path] {
		if public[path] {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: HomePath}
	}
	switch g.State() {
	case Resolving:
		return Decision{Pending: true}
	case Allowed:
		return Decision{Allow: true}
	default:
		return Decision{RedirectTo: LoginPath}
	}
}
