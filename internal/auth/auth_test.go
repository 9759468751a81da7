package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mediahub/discoveryservice/internal/domain"
)

const testSecret = "test-secret"

func newTestJWT(t *testing.T) *JWTAuthenticator {
	t.Helper()
	a, err := NewJWTAuthenticator(testSecret)
	if err != nil {
		t.Fatalf("NewJWTAuthenticator: %v", err)
	}
	return a
}

// ---------------------------------------------------------------------------
// JWT
// ---------------------------------------------------------------------------

func TestJWTFromBearerHeader(t *testing.T) {
	a := newTestJWT(t)
	token, err := a.IssueToken(domain.User{ID: "user-1", Email: "a@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.Header.Set("Authorization", "bearer "+token)

	user, err := a.Authenticate(req)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != "user-1" || user.Email != "a@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestJWTFromCookie(t *testing.T) {
	a := newTestJWT(t)
	token, _ := a.IssueToken(domain.User{ID: "user-2"}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	user, err := a.Authenticate(req)
	if err != nil || user.ID != "user-2" {
		t.Fatalf("unexpected result: %+v, %v", user, err)
	}
}

func TestJWTUserIDClaimFallback(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "firebase-uid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	user, err := newTestJWT(t).Authenticate(req)
	if err != nil || user.ID != "firebase-uid" {
		t.Fatalf("unexpected result: %+v, %v", user, err)
	}
}

func TestJWTRejections(t *testing.T) {
	a := newTestJWT(t)

	expired, _ := a.IssueToken(domain.User{ID: "u"}, -time.Hour)
	other, _ := (&JWTAuthenticator{secret: []byte("other"), tokenCookie: "token"}).IssueToken(domain.User{ID: "u"}, time.Hour)
	noSubject, _ := a.IssueToken(domain.User{}, time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing", "", ErrNoCredentials},
		{"basic scheme", "Basic dXNlcjpwYXNz", ErrNoCredentials},
		{"expired", "Bearer " + expired, ErrExpiredCredentials},
		{"wrong secret", "Bearer " + other, ErrInvalidCredentials},
		{"no subject", "Bearer " + noSubject, ErrInvalidCredentials},
		{"alg none", "Bearer " + none, ErrInvalidCredentials},
		{"garbage", "Bearer not-a-token", ErrInvalidCredentials},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if _, err := a.Authenticate(req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestNewJWTAuthenticatorRequiresSecret(t *testing.T) {
	if _, err := NewJWTAuthenticator("  "); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Headers and chain
// ---------------------------------------------------------------------------

func TestHeaderAuthenticator(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := (HeaderAuthenticator{}).Authenticate(req); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	req.Header.Set(HeaderUserID, " gw-user ")
	req.Header.Set(HeaderUserEmail, "gw@example.com")
	user, err := (HeaderAuthenticator{}).Authenticate(req)
	if err != nil || user.ID != "gw-user" || user.Email != "gw@example.com" {
		t.Fatalf("unexpected result: %+v, %v", user, err)
	}
}

func TestChainOrder(t *testing.T) {
	a := newTestJWT(t)
	chain := Chain{a, HeaderAuthenticator{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "gw-user")
	user, err := chain.Authenticate(req)
	if err != nil || user.ID != "gw-user" {
		t.Fatalf("expected header fallback, got %+v, %v", user, err)
	}

	req.Header.Set("Authorization", "Bearer broken")
	if _, err := chain.Authenticate(req); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid token to stop the chain, got %v", err)
	}

	if _, err := (Chain{}).Authenticate(req); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := (Chain{a}).Authenticate(httptest.NewRequest(http.MethodGet, "/", nil)); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func TestRequireStoresUser(t *testing.T) {
	var seen domain.User
	handler := Require(HeaderAuthenticator{}, func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "u1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || seen.ID != "u1" {
		t.Fatalf("expected user in context, got %d %+v", w.Code, seen)
	}
}

func TestRequireWithoutAuthenticator(t *testing.T) {
	var got error
	handler := Require(nil, func(w http.ResponseWriter, r *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusServiceUnavailable)
	})(http.NotFoundHandler())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !errors.Is(got, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", got)
	}
}
