package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/viewstore"
	"go-chi-calculator/internal/web"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	reg := observability.NewPrometheusRegistry()
	views, err := viewstore.New(reg)
	if err != nil {
		t.Fatalf("viewstore.New: %v", err)
	}

	return NewRouter(Options{Views: views, Gatherer: reg})
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterMetricsEndpointExposesViewGauge(t *testing.T) {
	router := newRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/calculator/views", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "calculator_views_mounted 1") {
		t.Fatalf("expected mounted-view gauge in metrics output, got:\n%s", body)
	}
}

func TestNewRouterCalculatorAddSetsHeaderAndOmitsRequestIDInBody(t *testing.T) {
	observability.Logger = zap.NewNop()
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}
	if err := web.InitMetrics(); err != nil {
		t.Fatalf("initializing web metrics: %v", err)
	}

	router := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/calculator/views", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var mounted web.ViewResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&mounted); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}

	body := []byte(`{"a":"2","b":"3"}`)
	req := httptest.NewRequest(http.MethodPost, "/calculator/views/"+mounted.ID+"/add", bytes.NewReader(body))
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	if err := json.NewDecoder(w.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}

	if got, ok := payload["result"].(string); !ok || got != "5" {
		t.Fatalf("expected result \"5\", got %#v", payload["result"])
	}
}

func TestNewRouterUnknownViewReturnsJSONError(t *testing.T) {
	router := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/calculator/views/missing/add", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	if w.Result().Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header on error responses")
	}

	var payload map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
	if payload["error"] != "view not found" {
		t.Fatalf("expected error %q, got %q", "view not found", payload["error"])
	}
}

func TestNewRouterRejectsOversizedBodies(t *testing.T) {
	router := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/calculator/views", nil))

	var mounted web.ViewResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&mounted); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}

	huge := strings.Repeat("9", maxRequestBytes+1)

	t.Run("json", func(t *testing.T) {
		body := strings.NewReader(`{"a":"` + huge + `"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/calculator/views/"+mounted.ID+"/operands", body))

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected status %d, got %d", http.StatusRequestEntityTooLarge, w.Code)
		}

		var payload map[string]string
		if err := json.NewDecoder(w.Result().Body).Decode(&payload); err != nil {
			t.Fatalf("decoding JSON response: %v", err)
		}
		if payload["error"] != "request body too large" {
			t.Fatalf("expected error %q, got %q", "request body too large", payload["error"])
		}
	})

	t.Run("form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/view/"+mounted.ID, strings.NewReader("action=update&a="+huge))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected status %d, got %d", http.StatusRequestEntityTooLarge, w.Code)
		}
	})
}
