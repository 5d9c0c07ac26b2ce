package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/libreton/libreton-api/internal/api"
	"github.com/libreton/libreton-api/internal/types"
)

// Define typed context keys
type contextKey string

const UserInfoKey contextKey = "userInfo"

// exemptPrefixes are the paths that never require a session: the login and
// registration endpoints themselves, API docs, and operational endpoints.
var exemptPrefixes = []string{
	"/auth/login",
	"/auth/register",
	"/swagger",
	"/ping",
	"/metrics",
}

// RequireSession validates the X-Session-Token header against the session
// store and puts the user snapshot on the request context. A missing header
// and an unknown or expired token both yield 401, with messages that
// distinguish the two cases.
func RequireSession(authService AuthService, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "RequireSession"))

			for _, prefix := range exemptPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token := r.Header.Get(types.SessionHeaderName)
			if token == "" {
				l.WarnContext(ctx, "Missing session token header", slog.String("path", r.URL.Path))
				api.ErrorResponse(w, r, http.StatusUnauthorized, types.MsgUnauthorizedAccess)
				return
			}

			info, err := authService.ValidateSession(ctx, token)
			if err != nil {
				l.WarnContext(ctx, "Session validation failed", slog.String("path", r.URL.Path))
				api.ErrorResponse(w, r, http.StatusUnauthorized, types.MsgSessionExpired)
				return
			}

			ctx = context.WithValue(ctx, UserInfoKey, *info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserInfoFromContext returns the snapshot put there by RequireSession.
func GetUserInfoFromContext(ctx context.Context) (types.UserInfo, bool) {
	info, ok := ctx.Value(UserInfoKey).(types.UserInfo)
	return info, ok
}
