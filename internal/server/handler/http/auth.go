// Package http provides the HTTP handlers of the sales API: seller
// authentication, inventory listing and sale registration.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/middleware"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/repository"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Authenticate checks a username/password pair.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	// CreateToken mints a bearer token for the username.
	CreateToken(username string) (string, error)
	// GetUser fetches the full seller record.
	GetUser(ctx context.Context, username string) (*models.User, error)
}

// AuthHandler handles login, logout and profile requests.
type AuthHandler struct {
	AuthService AuthService
}

// Login handles POST /api/auth/login. It expects form-encoded username and
// password fields and responds with the bearer token and the seller profile.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		writeDetail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.AuthService.Authenticate(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Usuario o contraseña incorrectos")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := h.AuthService.CreateToken(user.Username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user.Profile(),
	})
}

// Me handles GET /api/auth/me and returns the profile of the bearer's
// subject.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUserFromContext(r.Context())

	user, err := h.AuthService.GetUser(r.Context(), username)
	if errors.Is(err, repository.ErrUserNotFound) {
		writeDetail(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so this only
// acknowledges the logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Usuario %s ha cerrado sesión exitosamente", username),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes an error response with the detail field the client
// surfaces verbatim.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
