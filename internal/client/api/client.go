// Package api implements the HTTP client for the AutomotrizJJ sales API.
// It attaches the stored bearer token to every request and reports
// authorization-denied responses through a single invalidation callback.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"go.uber.org/zap"
)

// requestTimeout applies to every outbound call.
const requestTimeout = 10 * time.Second

// ErrUnauthorized is returned when the server rejects the bearer token.
// The invalidation callback has already fired by the time a caller sees it.
var ErrUnauthorized = errors.New("unauthorized")

// ServerError carries the error detail the server attached to a non-2xx
// response, so callers can surface it verbatim.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) detect denied authorization
// while keeping the server's detail available to the caller.
func (e *ServerError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// TokenSource yields the stored bearer token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// Client talks to the sales API. All operations share the base URL, the
// request timeout and the bearer-token handling.
type Client struct {
	baseURL       string
	http          *http.Client
	tokens        TokenSource
	log           *zap.Logger
	onInvalidated func()
}

// New returns a Client for the API at baseURL. Tokens are read from tokens
// on every request; absent token means no Authorization header.
func New(baseURL string, tokens TokenSource, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		tokens:  tokens,
		log:     log,
	}
}

// OnSessionInvalidated registers the callback fired when any response comes
// back with status 401, regardless of which operation triggered the call.
// The session controller subscribes here; the transport never touches
// session state itself.
func (c *Client) OnSessionInvalidated(fn func()) {
	c.onInvalidated = fn
}

// do sends the request with the bearer token attached. A 401 response
// fires the invalidation callback and comes back as a *ServerError that
// unwraps to ErrUnauthorized, with the server's detail preserved. The
// caller owns the body of a returned response.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Warn("authorization denied, invalidating session", zap.String("path", req.URL.Path))
		if c.onInvalidated != nil {
			c.onInvalidated()
		}
		return nil, serverError(resp)
	}
	return resp, nil
}

// serverError drains the response and builds a ServerError from its
// "detail" field, falling back to the raw body.
func serverError(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return &ServerError{Status: resp.StatusCode, Detail: payload.Detail}
	}
	return &ServerError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
}

// LoginResponse is the payload of a successful login.
type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        models.UserProfile `json:"user"`
}

// Login authenticates with form-encoded credentials. On a rejected login
// the server's error detail is propagated; transport failures come back
// wrapped so the caller can show a generic connectivity message.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}

	var out LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &out, nil
}

// Me fetches the profile of the authenticated seller.
func (c *Client) Me(ctx context.Context) (*models.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}
	var out models.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &out, nil
}

// FetchAvailableVehicles lists vehicles on the lot, optionally narrowed by
// a server-side search term. A response without a vehicle list decodes as
// an empty slice.
func (c *Client) FetchAvailableVehicles(ctx context.Context, search string) ([]models.Vehicle, error) {
	u := c.baseURL + "/api/vehicles"
	if search != "" {
		u += "?search=" + url.QueryEscape(search)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}

	var out struct {
		Total    int              `json:"total"`
		Vehicles []models.Vehicle `json:"vehicles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}
	if out.Vehicles == nil {
		out.Vehicles = []models.Vehicle{}
	}
	return out.Vehicles, nil
}

// SaleConfirmation acknowledges a registered sale.
type SaleConfirmation struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	SaleID  int    `json:"sale_id"`
	Receipt string `json:"receipt"`
}

// SubmitSale registers the sale described by the draft.
func (c *Client) SubmitSale(ctx context.Context, draft models.SaleDraft) (*SaleConfirmation, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/sales", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}
	var out SaleConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode sale confirmation: %w", err)
	}
	return &out, nil
}

// MySales is the seller's sales history.
type MySales struct {
	Total  int           `json:"total"`
	Seller string        `json:"seller"`
	Branch string        `json:"branch"`
	Sales  []models.Sale `json:"sales"`
}

// FetchMySales lists the most recent sales of the authenticated seller.
func (c *Client) FetchMySales(ctx context.Context, limit int) (*MySales, error) {
	u := c.baseURL + "/api/sales/mine?limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}
	var out MySales
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode sales history: %w", err)
	}
	if out.Sales == nil {
		out.Sales = []models.Sale{}
	}
	return &out, nil
}

// Health probes the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return serverError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
