// Package route decides which view the terminal shows for a requested
// path given the current session state.
package route

import "github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/session"

// View paths of the terminal.
const (
	Root  = "/"
	Login = "/login"
	// Venta is the protected default view: the sale registration screen.
	Venta = "/venta"
)

// Resolve maps the requested path to the path that should actually be
// shown. It is a pure function of the session snapshot and the path:
// unauthenticated requests for protected views land on the login view,
// authenticated requests for the login view land on the protected default,
// and the root path goes wherever the session allows.
func Resolve(s session.Snapshot, path string) string {
	switch path {
	case Login:
		if s.IsAuthenticated {
			return Venta
		}
		return Login
	case Root:
		if s.IsAuthenticated {
			return Venta
		}
		return Login
	default:
		if !s.IsAuthenticated {
			return Login
		}
		return path
	}
}
