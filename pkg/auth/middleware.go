package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates authentication logic to AuthService.
//
// Every request moves through two gates: RequireAuth turns a bearer token
// into an identity (401 on failure), RequireRole checks that identity
// against the operation's allowed-role set (403 on failure). Failures are
// terminal for the request.
type Middleware struct {
	authService AuthService
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given AuthService.
func NewMiddleware(authService AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		logger:      logger,
	}
}

// RequireAuth validates the bearer token and attaches the identity to the
// request context for downstream handlers (notably the audit pipeline).
// Missing, malformed, invalid and expired credentials all produce the same
// 401 response.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authService.ValidateRequest(r)
		if err != nil {
			m.unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := SetIdentity(r.Context(), identity)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole validates the bearer token and checks the identity's role
// against the allowed set. Authenticated requests with an insufficient role
// get 403, distinct from the 401 authentication failure.
func (m *Middleware) RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, err := m.authService.ValidateRequest(r)
			if err != nil {
				m.unauthorized(w, "Invalid or expired token")
				return
			}

			allowed := false
			for _, role := range roles {
				if identity.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				m.logger.Debug("Role not in allowed set",
					zap.String("role", identity.Role),
					zap.String("path", r.URL.Path))
				m.forbidden(w, "Insufficient role")
				return
			}

			ctx := SetIdentity(r.Context(), identity)
			next(w, r.WithContext(ctx))
		}
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// forbidden returns a 403 response with JSON error body.
func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
