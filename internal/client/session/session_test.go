package session

import (
	"context"
	"errors"
	"testing"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/api"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGateway implements Gateway for testing.
type fakeGateway struct {
	loginFunc func(ctx context.Context, username, password string) (*api.LoginResponse, error)
}

func (f *fakeGateway) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	return f.loginFunc(ctx, username, password)
}

// fakeCreds is an in-memory credential store.
type fakeCreds struct {
	token string
	user  *models.UserProfile
}

func (f *fakeCreds) Token() (string, bool)            { return f.token, f.token != "" }
func (f *fakeCreds) SetToken(token string)            { f.token = token }
func (f *fakeCreds) User() (*models.UserProfile, bool) { return f.user, f.user != nil }
func (f *fakeCreds) SetUser(u models.UserProfile)     { f.user = &u }
func (f *fakeCreds) Clear()                           { f.token = ""; f.user = nil }

func TestRestore(t *testing.T) {
	tests := []struct {
		name  string
		creds *fakeCreds
		want  State
	}{
		{"both present", &fakeCreds{token: "tok", user: &models.UserProfile{Username: "jperez"}}, Authenticated},
		{"token only", &fakeCreds{token: "tok"}, Unauthenticated},
		{"user only", &fakeCreds{user: &models.UserProfile{Username: "jperez"}}, Unauthenticated},
		{"nothing", &fakeCreds{}, Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&fakeGateway{}, tt.creds, zap.NewNop())
			assert.Equal(t, Unknown, c.State(), "before restore")
			c.Restore()
			assert.Equal(t, tt.want, c.State())
		})
	}
}

func TestLogin_Success(t *testing.T) {
	gateway := &fakeGateway{
		loginFunc: func(_ context.Context, username, password string) (*api.LoginResponse, error) {
			return &api.LoginResponse{
				AccessToken: "tok-1",
				TokenType:   "bearer",
				User: models.UserProfile{
					Username:       "jperez",
					FullName:       "Juan Pérez",
					BranchProvince: "Lima",
					BranchDistrict: "Miraflores",
				},
			}, nil
		},
	}
	creds := &fakeCreds{}
	c := New(gateway, creds, zap.NewNop())
	c.Restore()

	result := c.Login(context.Background(), "jperez", "secret")
	require.True(t, result.Success)

	snap := c.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading, "loading must be cleared after completion")
	require.NotNil(t, snap.User)
	assert.Equal(t, "Lima/Miraflores", snap.User.Branch)

	// Credential and profile are persisted as a unit.
	token, ok := creds.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	user, ok := creds.User()
	require.True(t, ok)
	assert.Equal(t, "Lima/Miraflores", user.Branch)
}

func TestLogin_ServerDetail(t *testing.T) {
	gateway := &fakeGateway{
		loginFunc: func(context.Context, string, string) (*api.LoginResponse, error) {
			return nil, &api.ServerError{Status: 401, Detail: "Usuario o contraseña incorrectos"}
		},
	}
	creds := &fakeCreds{}
	c := New(gateway, creds, zap.NewNop())
	c.Restore()

	result := c.Login(context.Background(), "jperez", "wrong")
	require.False(t, result.Success)
	assert.Equal(t, "Usuario o contraseña incorrectos", result.Message)

	assert.Equal(t, Unauthenticated, c.State())
	_, ok := creds.Token()
	assert.False(t, ok, "failed login must not persist a token")
	_, ok = creds.User()
	assert.False(t, ok, "failed login must not persist a profile")
}

func TestLogin_ConnectivityError(t *testing.T) {
	gateway := &fakeGateway{
		loginFunc: func(context.Context, string, string) (*api.LoginResponse, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	c := New(gateway, &fakeCreds{}, zap.NewNop())
	c.Restore()

	result := c.Login(context.Background(), "jperez", "secret")
	require.False(t, result.Success)
	assert.Equal(t, "Error de conexión con el servidor", result.Message)
	assert.False(t, c.Snapshot().IsAuthenticated)
}

func TestLogout_Idempotent(t *testing.T) {
	creds := &fakeCreds{token: "tok", user: &models.UserProfile{Username: "jperez"}}
	c := New(&fakeGateway{}, creds, zap.NewNop())
	c.Restore()
	require.Equal(t, Authenticated, c.State())

	c.Logout()
	assert.Equal(t, Unauthenticated, c.State())
	_, ok := creds.Token()
	assert.False(t, ok)
	_, ok = creds.User()
	assert.False(t, ok)

	c.Logout()
	assert.Equal(t, Unauthenticated, c.State())
}

func TestInvalidate_ClearsSession(t *testing.T) {
	creds := &fakeCreds{token: "tok", user: &models.UserProfile{Username: "jperez"}}
	c := New(&fakeGateway{}, creds, zap.NewNop())
	c.Restore()

	// Simulates the gateway's 401 callback, whatever call triggered it.
	c.Invalidate()

	snap := c.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	_, ok := creds.Token()
	assert.False(t, ok)
}
