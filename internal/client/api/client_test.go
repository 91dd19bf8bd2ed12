package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"go.uber.org/zap"
)

// fakeTokens implements TokenSource for testing.
type fakeTokens struct {
	token string
}

func (f *fakeTokens) Token() (string, bool) {
	return f.token, f.token != ""
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 0})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{token: "tok-abc"}, zap.NewNop())
	if _, err := c.FetchAvailableVehicles(context.Background(), ""); err != nil {
		t.Fatalf("FetchAvailableVehicles: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q; want %q", gotAuth, "Bearer tok-abc")
	}
}

func TestClient_OmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 0})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{}, zap.NewNop())
	if _, err := c.FetchAvailableVehicles(context.Background(), ""); err != nil {
		t.Fatalf("FetchAvailableVehicles: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q; want empty", gotAuth)
	}
}

func TestClient_UnauthorizedFiresInvalidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "No autenticado"})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{token: "expired"}, zap.NewNop())
	invalidated := false
	c.OnSessionInvalidated(func() { invalidated = true })

	// Any operation hitting a 401 must fire the callback.
	_, err := c.FetchMySales(context.Background(), 10)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v; want ErrUnauthorized", err)
	}
	if !invalidated {
		t.Error("invalidation callback did not fire")
	}
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		_ = r.ParseForm()
		if r.PostForm.Get("username") != "jperez" || r.PostForm.Get("password") != "secret" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"token_type":   "bearer",
			"user": map[string]string{
				"username":        "jperez",
				"full_name":       "Juan Pérez",
				"branch_province": "Lima",
				"branch_district": "Miraflores",
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{}, zap.NewNop())
	resp, err := c.Login(context.Background(), "jperez", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "tok-1" || resp.User.FullName != "Juan Pérez" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestLogin_PropagatesServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Usuario o contraseña incorrectos"})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{}, zap.NewNop())
	_, err := c.Login(context.Background(), "jperez", "wrong")

	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("error = %v; want *ServerError", err)
	}
	if srvErr.Detail != "Usuario o contraseña incorrectos" {
		t.Errorf("Detail = %q", srvErr.Detail)
	}
}

func TestLogin_ConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, &fakeTokens{}, zap.NewNop())
	_, err := c.Login(context.Background(), "jperez", "secret")
	if err == nil {
		t.Fatal("expected connectivity error")
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		t.Errorf("connectivity failure must not be a ServerError, got %+v", srvErr)
	}
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"username":  "jperez",
			"full_name": "Juan Pérez",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{token: "tok"}, zap.NewNop())
	profile, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if profile.Username != "jperez" || profile.FullName != "Juan Pérez" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestFetchAvailableVehicles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "toyota" {
			t.Errorf("search = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total": 2,
			"vehicles": []models.Vehicle{
				{ID: 1, Make: "Toyota", Model: "Corolla", Year: 2020},
				{ID: 2, Make: "Toyota", Model: "Yaris", Year: 2021},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{}, zap.NewNop())
	vehicles, err := c.FetchAvailableVehicles(context.Background(), "toyota")
	if err != nil {
		t.Fatalf("FetchAvailableVehicles: %v", err)
	}
	if len(vehicles) != 2 || vehicles[0].Model != "Corolla" {
		t.Errorf("unexpected vehicles: %+v", vehicles)
	}
}

func TestFetchAvailableVehicles_AbsentListIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 0})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{}, zap.NewNop())
	vehicles, err := c.FetchAvailableVehicles(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchAvailableVehicles: %v", err)
	}
	if vehicles == nil || len(vehicles) != 0 {
		t.Errorf("vehicles = %#v; want empty non-nil slice", vehicles)
	}
}

func TestSubmitSale(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sales" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["vehicle_id"] != float64(7) || body["buyer_national_id"] != "12345678" {
			t.Errorf("unexpected body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true, "message": "Venta registrada exitosamente",
			"sale_id": 41, "receipt": "r-1",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{token: "tok"}, zap.NewNop())
	conf, err := c.SubmitSale(context.Background(), models.SaleDraft{
		VehicleID:       7,
		PurchaseType:    models.PurchaseCash,
		AmountFinancing: "S/. 50,000",
		BuyerName:       "María López",
		BuyerNationalID: "12345678",
		BuyerContact:    "999888777",
	})
	if err != nil {
		t.Fatalf("SubmitSale: %v", err)
	}
	if !conf.Success || conf.SaleID != 41 {
		t.Errorf("unexpected confirmation: %+v", conf)
	}
}

func TestFetchMySales(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total": 1, "seller": "Juan Pérez", "branch": "Lima/Miraflores",
			"sales": []models.Sale{{ID: 3, VehicleID: 7}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{token: "tok"}, zap.NewNop())
	history, err := c.FetchMySales(context.Background(), 5)
	if err != nil {
		t.Fatalf("FetchMySales: %v", err)
	}
	if history.Total != 1 || history.Seller != "Juan Pérez" || len(history.Sales) != 1 {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{}, zap.NewNop())
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}
