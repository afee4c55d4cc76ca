package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/shashiranjanraj/electrostore/pkg/auth"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/response"
	"github.com/shashiranjanraj/electrostore/pkg/session"
)

// SessionUserKey is the session key holding the logged-in user's id.
const SessionUserKey = "user_id"

// Authenticate resolves the caller from a Bearer token or the session and
// stores the user id in the request context. Guests pass through untouched;
// an invalid bearer token is rejected with 401.
//
// Wire session.Middleware BEFORE this middleware.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var userID uint

		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			claims, err := auth.ValidateToken(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			userID = claims.UserID
		} else if id, ok := session.FromCtx(r).GetUint(SessionUserKey); ok {
			userID = id
		}

		if userID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.WithUserID(r.Context(), userID)
		ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("user_id", userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects guests: script callers get 401 JSON, browsers are sent
// to loginPath with ?next= pointing back at the original URL.
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserID(r.Context()) != 0 {
				next.ServeHTTP(w, r)
				return
			}

			if response.WantsJSON(r) {
				response.Unauthorized(w)
				return
			}

			target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
		})
	}
}

// RequireGuest keeps logged-in users away from guest-only pages such as
// registration.
func RequireGuest(home string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserID(r.Context()) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if response.WantsJSON(r) {
				response.Error(w, http.StatusForbidden, "Already authenticated")
				return
			}
			http.Redirect(w, r, home, http.StatusFound)
		})
	}
}
