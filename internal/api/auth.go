package api

import (
	"context"
	"net/http"
	"strings"

	"stayhub/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// identityFrom returns the verified identity attached by the auth
// middleware, or false on routes that skipped it.
func identityFrom(r *http.Request) (models.Identity, bool) {
	id, ok := r.Context().Value(identityKey).(models.Identity)
	return id, ok
}

// requireAuth verifies the bearer token, rejects revoked tokens and
// inactive accounts, and attaches the identity to the request
// context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "Malformed Authorization header")
			return
		}

		identity, err := s.tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		revoked, err := s.users.IsTokenRevoked(r.Context(), identity.TokenID)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		if revoked {
			writeError(w, http.StatusUnauthorized, "Token has been revoked")
			return
		}

		user, err := s.users.GetUser(r.Context(), identity.UserID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		if user.Status != models.UserActive {
			writeError(w, http.StatusForbidden, "Account is not active")
			return
		}
		// The role column wins over whatever the token was issued
		// with, so demotions apply immediately.
		identity.Role = user.Role

		ctx := context.WithValue(r.Context(), identityKey, *identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin sits behind requireAuth on admin subrouters.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identityFrom(r)
		if !ok || !id.IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// optionalAuth attaches an identity when a valid token is present but
// lets anonymous requests through. Public listings use it to widen
// results for admins.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if identity, err := s.tokens.Verify(strings.TrimSpace(parts[1])); err == nil {
				if revoked, err := s.users.IsTokenRevoked(r.Context(), identity.TokenID); err == nil && !revoked {
					ctx := context.WithValue(r.Context(), identityKey, *identity)
					r = r.WithContext(ctx)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
