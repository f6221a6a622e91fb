package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/requestcontext"
)

// JWTValidator validates a bearer token issued by the identity provider.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims is the session carried by every facility request.
type JWTClaims struct {
	UserID       string
	FacilityCode string
	Role         string
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth validates the bearer token and places the user, facility and
// role in the request context. Requests without a facility are rejected,
// since every facility route is scoped to one.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			userID, err := id.ParseUserID(claims.UserID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - bad subject",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}
			facility, err := id.ParseFacilityCode(claims.FacilityCode)
			if err != nil {
				logger.WarnContext(ctx, "forbidden - session has no facility",
					"user_id", userID.String(),
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Session is not bound to a facility")
				return
			}

			ctx = requestcontext.WithSession(ctx, userID, facility, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects sessions whose role is not listed.
func RequireRole(logger *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := allowed[requestcontext.Role(ctx)]; !ok {
				logger.WarnContext(ctx, "forbidden - role not permitted",
					"role", requestcontext.Role(ctx),
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Role not permitted")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
