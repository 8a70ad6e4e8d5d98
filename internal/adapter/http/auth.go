package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const authClaimsKey contextKey = "auth_claims"

const RoleCoordinator = "coordinator"

// Claims carries the authenticated user identity and role
type Claims struct {
	UserID string `json:"sub"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates bearer tokens on protected routes. When no
// secret is configured the middleware passes requests through, which
// keeps local development unauthenticated.
type AuthMiddleware struct {
	secret string
}

// NewAuthMiddleware creates an auth middleware with the signing secret
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// RequireAuth validates the bearer token and stores claims in context
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeUnauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeUnauthorized(w, "Invalid authorization header format")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.secret), nil
		})
		if err != nil || !token.Valid {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireCoordinator restricts a route to users with the coordinator role
func (m *AuthMiddleware) RequireCoordinator(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims := GetClaims(r.Context())
		if claims == nil {
			writeUnauthorized(w, "User not authenticated")
			return
		}
		if claims.Role != RoleCoordinator {
			writeForbidden(w, "Coordinator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the authenticated claims from context
func GetClaims(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(authClaimsKey).(*Claims); ok {
		return claims
	}
	return nil
}

// UserID returns the authenticated user id, or a fallback header value
// when authentication is disabled
func UserID(r *http.Request) string {
	if claims := GetClaims(r.Context()); claims != nil {
		return claims.UserID
	}
	return r.Header.Get("X-User-ID")
}
