package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/i18n"
	"github.com/ngbilling/ngbilling/internal/middleware"
)

type ctxKey string

const (
	sessionCookieName = "session"
	userIDCtxKey      = ctxKey("userID")

	// DefaultTTL is the token lifetime when callers do not choose one.
	DefaultTTL = 24 * time.Hour
)

// RoleResolver reports the role of a user id ("" when the user no longer
// exists). Set it during app bootstrap via SetRoleResolver; RequireRole
// denies everything while it is nil.
type RoleResolver func(ctx context.Context, userID string) string

var resolver RoleResolver

// SetRoleResolver configures the global resolver used by RequireAuth and
// RequireRole.
func SetRoleResolver(r RoleResolver) { resolver = r }

// Secret returns SESSION_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateToken returns an HMAC-signed bearer token carrying the user id and
// an expiry timestamp.
func CreateToken(userID string, ttl time.Duration) string {
	exp := strconv.FormatInt(time.Now().Add(ttl).Unix(), 10)
	payload := base64.RawURLEncoding.EncodeToString([]byte(userID)) + "." + exp
	return payload + "." + sign(payload)
}

// ParseToken validates a token and returns the user id.
func ParseToken(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(sign(payload))) {
		return "", false
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return "", false
	}
	uid, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil || len(uid) == 0 {
		return "", false
	}
	return string(uid), true
}

// SetSessionCookie mirrors the token into an HttpOnly cookie for browser
// callers.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearSessionCookie deletes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// tokenFromRequest prefers the Authorization header, then the cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// WithUserID stores the user id in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts the user id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDCtxKey).(string)
	return id, ok && id != ""
}

// Middleware attaches the user id to the request context if a valid token
// is present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := ParseToken(tokenFromRequest(r)); ok {
			r = r.WithContext(WithUserID(r.Context(), uid))
		}
		next.ServeHTTP(w, r)
	})
}

func deny(w http.ResponseWriter, r *http.Request, status int, code string) {
	httpx.Error(w, status, i18n.T(middleware.LangFrom(r), code), nil)
}

// RequireAuth rejects requests without an authenticated, still-existing user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			deny(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		if resolver != nil && resolver(r.Context(), uid) == "" {
			// Token refers to a deleted/disabled user: clear and reject.
			ClearSessionCookie(w)
			deny(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a subtree to users whose resolved role matches.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := UserIDFromContext(r.Context())
			if !ok {
				deny(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			if resolver == nil || resolver(r.Context(), uid) != role {
				deny(w, r, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
