package http

import (
	"context"
	"net/http"
	"time"

	"github.com/capitalsapp/capitals/internal/auth/token"
	"github.com/capitalsapp/capitals/internal/common/constants"
	"github.com/capitalsapp/capitals/internal/common/logger"
	"github.com/capitalsapp/capitals/internal/observability/metrics"
)

type contextKey string

const claimsKey contextKey = "session_claims"

// RequireSession guards page routes. A missing, forged or expired cookie
// redirects to /login; the handler never learns which of the three it was.
func RequireSession(codec token.Codec, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			claims, err := codec.Verify(cookie.Value)
			if err != nil {
				metrics.SessionsRejected.Inc()
				log.Warnf("session rejected path=%s: %v", r.URL.Path, err)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(token.Claims)
	return claims, ok
}

func SetSessionCookie(w http.ResponseWriter, value string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
