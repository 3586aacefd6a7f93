package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vantagehq/vantage-auth/internal/auth/service"
	"github.com/vantagehq/vantage-auth/internal/auth/store/drivers/sqlite"
	"github.com/vantagehq/vantage-auth/pkg/clockx"
	"github.com/vantagehq/vantage-auth/pkg/cryptox"
	"github.com/vantagehq/vantage-auth/pkg/jwtx"
	"github.com/vantagehq/vantage-auth/pkg/slogx"
)

const testPassword = "correct horse battery staple"

func newTestRouter(t *testing.T) (*Router, *clockx.Frozen) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256Signer(
		"0123456789abcdef0123456789abcdef", "vantage-auth", "vantage-api")
	require.NoError(t, err)

	clock := clockx.NewFrozen(time.Now().UTC())
	hasher := &cryptox.PasswordHasher{}

	r := NewRouter("test", st, slogx.New(slogx.Config{Level: "error"}))
	r.AuthService = &service.AuthService{
		Store:  st,
		Clock:  clock,
		Hasher: hasher,
		Signer: signer,
		Policy: service.Policy{
			AccessTTL:        15 * time.Minute,
			RefreshTTL:       7 * 24 * time.Hour,
			MaxLoginAttempts: 5,
			LockoutDuration:  15 * time.Minute,
		},
	}
	r.UserService = &service.UserService{Store: st, Clock: clock, Hasher: hasher}
	r.ApplyRoutes()

	return r, clock
}

func seedAccount(t *testing.T, r *Router) {
	t.Helper()

	_, err := r.UserService.Create(t.Context(), service.CreateUserRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
}

func doJSON(r *Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	seedAccount(t, r)

	rec := doJSON(r, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	require.Len(t, body.RefreshToken, 86)
	require.EqualValues(t, 900, body.ExpiresIn)
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)
	seedAccount(t, r)

	rec := doJSON(r, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "unauthorized", body.Error)
}

func TestLoginUnknownAccount(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/auth/login",
		`{"email":"nobody@example.com","password":"whatever"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/auth/login", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginValidationFields(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/auth/login", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "validation_failed", body.Error)
	require.Contains(t, body.Fields, "email")
	require.Contains(t, body.Fields, "password")
}

func TestLoginRateLimited(t *testing.T) {
	r, _ := newTestRouter(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = doJSON(r, http.MethodPost, "/v1/auth/login",
			`{"email":"nobody@example.com","password":"whatever"}`)
	}
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestRefreshRotationEndpoint(t *testing.T) {
	r, clock := newTestRouter(t)
	seedAccount(t, r)

	rec := doJSON(r, http.MethodPost, "/v1/auth/login",
		`{"email":"alice@example.com","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	clock.Advance(time.Hour)
	rec = doJSON(r, http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"`+login.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// The spent token is rejected on the second exchange.
	rec = doJSON(r, http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"`+login.RefreshToken+`"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshUnknownTokenEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"never-issued"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateUserEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/users",
		`{"name":"Bob","email":"bob@example.com","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.ID)
	require.Equal(t, "bob@example.com", body.Email)
	require.NotContains(t, rec.Body.String(), "password")

	rec = doJSON(r, http.MethodPost, "/v1/users",
		`{"name":"Bob","email":"bob@example.com","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "ok", body.Checks.Database)
}
