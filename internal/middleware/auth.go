package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type authCtxKey int

const authKey authCtxKey = 7

// TokenCookieName is the cookie carrying the session token. The cookie is
// httpOnly: the credential is opaque to the client holding it.
const TokenCookieName = "token"

type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

func secret() []byte {
	s := os.Getenv("SURVEY_JWT_SECRET")
	if s == "" {
		s = "survey-dev-secret"
	}
	return []byte(s)
}

// SignToken issues a signed, time-bounded token binding a subject id. The
// token is the only session state; nothing is stored server-side.
func SignToken(subjectID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{UID: subjectID, RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now), ExpiresAt: jwt.NewNumericDate(now.Add(ttl))}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// VerifyToken re-derives the signature and checks expiry. Malformed
// structure, signature mismatch and past expiry all yield an error.
func VerifyToken(tok string) (string, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) { return secret(), nil })
	if err != nil {
		return "", err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.UID != "" {
		return c.UID, nil
	}
	return "", errors.New("invalid token")
}

// TokenFromRequest extracts the session credential from the token cookie or,
// failing that, a bearer Authorization header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// WithAuth attaches the verified subject id to the request context when a
// valid credential is present. Requests without one pass through untouched.
func WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := TokenFromRequest(r); tok != "" {
			if uid, err := VerifyToken(tok); err == nil {
				ctx := context.WithValue(r.Context(), authKey, uid)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SubjectFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	if uid, ok := ctx.Value(authKey).(string); ok && uid != "" {
		return uid, true
	}
	return "", false
}
