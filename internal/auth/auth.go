// Package auth resolves the signed-in caller for the favorites routes.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mediahub/discoveryservice/internal/domain"
)

var (
	ErrNoCredentials      = errors.New("no credentials provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExpiredCredentials = errors.New("credentials expired")
	ErrNotConfigured      = errors.New("authentication not configured")
)

// Authenticator extracts the caller from a request. It returns
// ErrNoCredentials when the request carries nothing it understands.
type Authenticator interface {
	Authenticate(r *http.Request) (domain.User, error)
}

// Chain tries each authenticator in order. An authenticator that finds no
// credentials passes the request on; any other failure stops the chain.
type Chain []Authenticator

func (c Chain) Authenticate(r *http.Request) (domain.User, error) {
	if len(c) == 0 {
		return domain.User{}, ErrNotConfigured
	}
	for _, authenticator := range c {
		if authenticator == nil {
			continue
		}
		user, err := authenticator.Authenticate(r)
		if errors.Is(err, ErrNoCredentials) {
			continue
		}
		return user, err
	}
	return domain.User{}, ErrNoCredentials
}

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// HeaderAuthenticator trusts identity headers set by a gateway in front of
// the service. Only enable it when the gateway strips client-supplied
// copies of these headers.
type HeaderAuthenticator struct{}

func (HeaderAuthenticator) Authenticate(r *http.Request) (domain.User, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return domain.User{}, ErrNoCredentials
	}
	return domain.User{
		ID:    id,
		Email: strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
	}, nil
}

type contextKey struct{}

func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(contextKey{}).(domain.User)
	if !ok || user.ID == "" {
		return domain.User{}, false
	}
	return user, true
}

// Require authenticates the request and stores the user in its context.
// Failures are handed to reject, which writes the response.
func Require(authenticator Authenticator, reject func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authenticator == nil {
				reject(w, r, ErrNotConfigured)
				return
			}
			user, err := authenticator.Authenticate(r)
			if err != nil {
				reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
