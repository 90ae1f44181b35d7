package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/marketbay/order-system/internal/api/response"
	"github.com/marketbay/order-system/internal/token"
)

func newTestProxy(t *testing.T, name, baseURL string) *Proxy {
	t.Helper()
	p, err := NewProxy(name, baseURL, 2*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProxy: %v", err)
	}
	return p
}

func TestForwardRelaysRequestAndResponse(t *testing.T) {
	var got *http.Request
	var gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"id":"abc"},"error":null}`))
	}))
	defer upstream.Close()

	p := newTestProxy(t, "orders", upstream.URL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders?page=2&sort_by=created_at", strings.NewReader(`{"items":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer sometoken")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := p.Forward(c); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	if got.Method != http.MethodPost {
		t.Errorf("upstream method = %s, want POST", got.Method)
	}
	if got.URL.Path != "/v1/orders" {
		t.Errorf("upstream path = %s, want /v1/orders", got.URL.Path)
	}
	if got.URL.RawQuery != "page=2&sort_by=created_at" {
		t.Errorf("upstream query = %s", got.URL.RawQuery)
	}
	if auth := got.Header.Get(echo.HeaderAuthorization); auth != "Bearer sometoken" {
		t.Errorf("upstream Authorization = %q", auth)
	}
	if gotBody != `{"items":[]}` {
		t.Errorf("upstream body = %q", gotBody)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("relayed status = %d, want 201", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"id":"abc"`) {
		t.Errorf("relayed body = %s", body)
	}
}

func TestForwardRelaysUpstreamErrorsUntouched(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"data":null,"error":{"code":"INVALID_STATUS_CHANGE","message":"no"}}`))
	}))
	defer upstream.Close()

	p := newTestProxy(t, "orders", upstream.URL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/v1/orders/x/status", nil)
	rec := httptest.NewRecorder()

	if err := p.Forward(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Error == nil || env.Error.Code != "INVALID_STATUS_CHANGE" {
		t.Fatalf("error code not preserved: %+v", env.Error)
	}
}

func TestForwardDeadUpstreamReturns503Envelope(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // dead on arrival

	p := newTestProxy(t, "identity", upstream.URL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	rec := httptest.NewRecorder()

	if err := p.Forward(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Success {
		t.Error("success = true on unreachable upstream")
	}
	if env.Error == nil || env.Error.Code != response.CodeServiceUnavailable {
		t.Fatalf("error = %+v, want SERVICE_UNAVAILABLE", env.Error)
	}
}

func TestRouterRejectsBadTokenBeforeForwarding(t *testing.T) {
	hits := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	identity := newTestProxy(t, "identity", upstream.URL)
	orders := newTestProxy(t, "orders", upstream.URL)
	authority := token.New("edge-secret", time.Minute)

	router := NewRouter(identity, orders, authority, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if hits != 0 {
		t.Fatalf("upstream hit %d times, want 0", hits)
	}

	// A valid credential passes through.
	tok, err := authority.Issue("u-1", "u@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if hits != 1 {
		t.Fatalf("upstream hit %d times, want 1", hits)
	}
}
