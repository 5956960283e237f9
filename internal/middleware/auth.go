// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/token"
)

// UserFinder resolves a user by id. Satisfied by store.UserStore.
type UserFinder interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// identityKey is the context key for the authenticated identity.
const identityKey contextKey = "identity"

// Identity is the acting user attached to the request context after
// successful token verification.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     models.Role
}

// IsAdmin reports whether the acting user has the admin role.
func (id *Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// Authenticate verifies the Authorization bearer token, resolves the
// acting user from the store, and attaches the identity to the request
// context. Missing, malformed, expired, or invalid tokens halt the
// request with 401.
func Authenticate(signer *token.Signer, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "Authentication token required")
				return
			}

			userID, err := signer.Verify(raw)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			// Resolve the subject so authorization checks see the
			// current role, not the one at issuance.
			user, err := users.FindByID(userID)
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			identity := &Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromCtx extracts the authenticated identity from the request
// context. Returns nil outside an Authenticate-protected route.
func IdentityFromCtx(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// WithIdentity returns a context carrying the given identity. Used by
// handler tests to simulate an authenticated request.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
