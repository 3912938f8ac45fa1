package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joestump/gift-certs/internal/api"
	"github.com/joestump/gift-certs/internal/service"
	"github.com/joestump/gift-certs/internal/store"
	"github.com/joestump/gift-certs/internal/testutil"
)

// testEnv holds the router and services needed for API integration tests.
type testEnv struct {
	Router       http.Handler
	Certificates *service.CertificateService
	Tags         *service.TagService
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real services.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := store.New(testutil.NewTestDB(t))

	v := service.NewValidator()
	certs := service.NewCertificateService(s, v, service.DefaultPipeline())
	tags := service.NewTagService(s, v)

	router := api.NewRouter(api.Deps{
		Certificates: certs,
		Tags:         tags,
		MaxPageSize:  10,
	})
	return &testEnv{Router: router, Certificates: certs, Tags: tags}
}

// seedCertificate adds a certificate through the service layer.
func seedCertificate(t *testing.T, env *testEnv, name string, tags ...string) *store.Certificate {
	t.Helper()
	c, err := env.Certificates.Add(context.Background(), &store.Certificate{
		Name:        name,
		Description: "A certificate used by API tests",
		Price:       decimal.RequireFromString("25.50"),
		Duration:    30,
		Tags:        service.TagsFromNames(tags),
	})
	if err != nil {
		t.Fatalf("seed certificate %q: %v", name, err)
	}
	return c
}

// do sends a request with an optional JSON body through the router.
func do(t *testing.T, env *testEnv, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

type errorResponse struct {
	Error      string   `json:"error"`
	Code       string   `json:"code"`
	Violations []string `json:"violations"`
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) errorResponse {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, status, rec.Body.String())
	}
	resp := decode[errorResponse](t, rec)
	if resp.Code != code {
		t.Errorf("code = %q, want %q", resp.Code, code)
	}
	return resp
}
