// internal/httpserver/auth.go
//
// Bearer authentication for the game endpoints.
// A request is accepted when its bearer token is one of:
//   - the configured static token (constant-time compare),
//   - a token matching the configured bcrypt hash,
//   - an HS256 JWT signed with JWT_SECRET and carrying a subject.
//
// Tokens are read from the Authorization header only; there are no cookies.

package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingToken    = errors.New("missing bearer token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrSigningDisabled = errors.New("jwt signing disabled: JWT_SECRET is empty")
)

// AuthConfig holds the accepted credentials.
type AuthConfig struct {
	Token       string
	TokenBcrypt string
	JWTSecret   string
	JWTTTL      time.Duration
}

// Authenticator verifies bearer tokens and mints JWTs.
type Authenticator struct {
	token     []byte
	tokenHash []byte
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
}

// Principal is placed into request context by requireAuth.
type Principal struct {
	Subject string `json:"subject"`
	Method  string `json:"method"` // "token" | "jwt"
}

// NewAuthenticator builds an Authenticator from c. Empty fields disable that method.
func NewAuthenticator(c AuthConfig) *Authenticator {
	a := &Authenticator{ttl: c.JWTTTL, now: time.Now}
	if c.Token != "" {
		a.token = []byte(c.Token)
	}
	if c.TokenBcrypt != "" {
		a.tokenHash = []byte(c.TokenBcrypt)
	}
	if c.JWTSecret != "" {
		a.secret = []byte(c.JWTSecret)
	}
	if a.ttl <= 0 {
		a.ttl = 14 * 24 * time.Hour
	}
	return a
}

// Verify checks tok against every configured method.
func (a *Authenticator) Verify(tok string) (Principal, error) {
	if tok == "" {
		return Principal{}, ErrMissingToken
	}
	if a.token != nil && subtle.ConstantTimeCompare(a.token, []byte(tok)) == 1 {
		return Principal{Subject: "owner", Method: "token"}, nil
	}
	if a.tokenHash != nil && bcrypt.CompareHashAndPassword(a.tokenHash, []byte(tok)) == nil {
		return Principal{Subject: "owner", Method: "token"}, nil
	}
	if a.secret != nil {
		claims := &jwt.RegisteredClaims{}
		t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
		if err == nil && t.Valid && claims.Subject != "" {
			return Principal{Subject: claims.Subject, Method: "jwt"}, nil
		}
	}
	return Principal{}, ErrInvalidToken
}

// Sign creates an HS256 JWT for subject that expires after the configured TTL.
func (a *Authenticator) Sign(subject string) (string, time.Time, error) {
	if a.secret == nil {
		return "", time.Time{}, ErrSigningDisabled
	}
	now := a.now()
	exp := now.Add(a.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(a.secret)
	return ss, exp, err
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// ctxPrincipalKey is the context key type for storing Principal.
type ctxPrincipalKey struct{}

// PrincipalFrom returns the authenticated caller, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxPrincipalKey{}).(Principal)
	return p, ok
}

// requireAuth rejects requests without a valid bearer token and injects the
// Principal into the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := s.auth.Verify(bearerToken(r))
		if err != nil {
			hlog.FromRequest(r).Debug().Err(err).Msg("auth rejected")
			w.Header().Set("WWW-Authenticate", `Bearer realm="blackwood"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ctxPrincipalKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
