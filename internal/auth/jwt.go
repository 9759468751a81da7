package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mediahub/discoveryservice/internal/domain"
)

const defaultTokenCookie = "token"

// Claims carries the identity fields read from a token. Identity providers
// that put the uid in user_id instead of sub are accepted too.
type Claims struct {
	Email  string `json:"email,omitempty"`
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthenticator validates HS256 tokens from the Authorization header or
// the token cookie.
type JWTAuthenticator struct {
	secret      []byte
	tokenCookie string
	leeway      time.Duration
}

func NewJWTAuthenticator(secret string) (*JWTAuthenticator, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrNotConfigured
	}
	return &JWTAuthenticator{
		secret:      []byte(secret),
		tokenCookie: defaultTokenCookie,
		leeway:      30 * time.Second,
	}, nil
}

func (a *JWTAuthenticator) Authenticate(r *http.Request) (domain.User, error) {
	tokenStr := a.extractToken(r)
	if tokenStr == "" {
		return domain.User{}, ErrNoCredentials
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithLeeway(a.leeway))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.User{}, ErrExpiredCredentials
		}
		return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	id := strings.TrimSpace(claims.Subject)
	if id == "" {
		id = strings.TrimSpace(claims.UserID)
	}
	if id == "" {
		return domain.User{}, fmt.Errorf("%w: token has no subject", ErrInvalidCredentials)
	}
	return domain.User{ID: id, Email: claims.Email}, nil
}

// IssueToken signs a token for user. It backs local tooling and tests; the
// service itself never issues tokens.
func (a *JWTAuthenticator) IssueToken(user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *JWTAuthenticator) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}
	if cookie, err := r.Cookie(a.tokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
