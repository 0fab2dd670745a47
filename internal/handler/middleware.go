package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/showroomhq/backoffice-go/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	actorKey  contextKey = "actor"
	tenantKey contextKey = "tenant"
)

// TenantMiddleware validates the {tenant} URL param and injects the
// parsed tenant into context.
func TenantMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant, err := domain.ParseTenant(chi.URLParam(r, "tenant"))
		if err != nil {
			handleServiceError(w, err, zap.NewNop())
			return
		}
		ctx := context.WithValue(r.Context(), tenantKey, tenant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TenantFromContext extracts the tenant set by TenantMiddleware.
func TenantFromContext(ctx context.Context) domain.Tenant {
	v, _ := ctx.Value(tenantKey).(domain.Tenant)
	return v
}

// IdentityMiddleware validates Bearer tokens and injects the caller's
// identity into context. With authDisabled the identity comes from the
// X-User-Id / X-User-Name headers instead, for local development.
func IdentityMiddleware(secret string, authDisabled bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authDisabled {
				actor := domain.UserRef{
					UID:  r.Header.Get("X-User-Id"),
					Name: r.Header.Get("X-User-Name"),
				}
				if actor.UID == "" {
					actor.UID = "dev"
				}
				ctx := context.WithValue(r.Context(), actorKey, actor)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			actor := domain.UserRef{}
			if sub, ok := claims["sub"].(string); ok {
				actor.UID = sub
			}
			if name, ok := claims["name"].(string); ok {
				actor.Name = name
			}
			if actor.UID == "" {
				writeError(w, http.StatusUnauthorized, "token has no subject")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext extracts the authenticated caller.
func ActorFromContext(ctx context.Context) domain.UserRef {
	v, _ := ctx.Value(actorKey).(domain.UserRef)
	return v
}
