// Package session owns the authentication state of the seller terminal.
// The controller is the single writer of the session state; every other
// component reads snapshots and never mutates it.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/api"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"go.uber.org/zap"
)

// State is the authentication state of the terminal.
type State int

const (
	// Unknown is the initial state, before the startup restore has run.
	Unknown State = iota
	// Authenticated means both the token and the profile are present.
	Authenticated
	// Unauthenticated means neither is present.
	Unauthenticated
)

// Snapshot is a read-only view of the session handed to consumers.
type Snapshot struct {
	IsAuthenticated bool
	User            *models.UserProfile
	Loading         bool
}

// LoginResult reports the outcome of a login attempt with a message fit
// for display.
type LoginResult struct {
	Success bool
	Message string
}

// Gateway is the slice of the API client the controller needs.
type Gateway interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
}

// Credentials is the persistence layer for the token/profile pair.
type Credentials interface {
	Token() (string, bool)
	SetToken(token string)
	User() (*models.UserProfile, bool)
	SetUser(u models.UserProfile)
	Clear()
}

// Controller implements the session state machine
// Unknown -> Authenticated | Unauthenticated.
type Controller struct {
	gateway Gateway
	creds   Credentials
	log     *zap.Logger

	mu      sync.Mutex
	state   State
	user    *models.UserProfile
	loading bool
}

// New returns a Controller in the Unknown state. Call Restore before
// resolving any route.
func New(gateway Gateway, creds Credentials, log *zap.Logger) *Controller {
	return &Controller{gateway: gateway, creds: creds, log: log, state: Unknown}
}

// Restore loads the persisted token and profile. Both present means the
// session resumes as Authenticated without asking the server; an expired
// token is only discovered when a later call comes back 401.
func (c *Controller) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, hasToken := c.creds.Token()
	user, hasUser := c.creds.User()
	if hasToken && hasUser {
		c.state = Authenticated
		c.user = user
		return
	}
	c.state = Unauthenticated
	c.user = nil
}

// Login authenticates against the server. On success the token and the
// profile are persisted together and the state flips to Authenticated.
// On failure both stay absent and the result carries a display message:
// the server's own detail when it sent one, a generic connectivity
// message otherwise.
func (c *Controller) Login(ctx context.Context, username, password string) LoginResult {
	c.setLoading(true)
	defer c.setLoading(false)

	resp, err := c.gateway.Login(ctx, username, password)
	if err != nil {
		c.log.Warn("login failed", zap.String("username", username), zap.Error(err))

		c.mu.Lock()
		c.state = Unauthenticated
		c.user = nil
		c.mu.Unlock()

		var srvErr *api.ServerError
		if errors.As(err, &srvErr) && srvErr.Detail != "" {
			return LoginResult{Message: srvErr.Detail}
		}
		return LoginResult{Message: "Error de conexión con el servidor"}
	}

	user := resp.User
	user.Branch = user.BranchProvince + "/" + user.BranchDistrict

	c.creds.SetToken(resp.AccessToken)
	c.creds.SetUser(user)

	c.mu.Lock()
	c.state = Authenticated
	c.user = &user
	c.mu.Unlock()

	c.log.Info("login successful", zap.String("username", user.Username), zap.String("branch", user.Branch))
	return LoginResult{Success: true}
}

// Logout clears the persisted pair and flips to Unauthenticated. Calling
// it when already logged out is a no-op.
func (c *Controller) Logout() {
	c.creds.Clear()

	c.mu.Lock()
	c.state = Unauthenticated
	c.user = nil
	c.mu.Unlock()
}

// Invalidate is the gateway's session-invalidated callback: some in-flight
// call hit a 401, so the credentials are gone no matter which feature
// triggered it.
func (c *Controller) Invalidate() {
	c.log.Info("session invalidated by server")
	c.Logout()
}

// State returns the current state machine state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the read-only session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		IsAuthenticated: c.state == Authenticated,
		User:            c.user,
		Loading:         c.loading,
	}
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}
