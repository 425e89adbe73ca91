package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
)

// AuthService defines the interface for authentication operations.
// This abstraction enables clean separation between HTTP handling
// and authentication logic, making both easier to test.
type AuthService interface {
	// ValidateRequest extracts and verifies a bearer token from the
	// Authorization header. Returns the authenticated identity or an error.
	ValidateRequest(r *http.Request) (*Identity, error)
}

// authService implements AuthService.
type authService struct {
	tokens TokenService
	logger *zap.Logger
}

// NewAuthService creates a new AuthService with the given TokenService and logger.
func NewAuthService(tokens TokenService, logger *zap.Logger) AuthService {
	return &authService{
		tokens: tokens,
		logger: logger,
	}
}

// ValidateRequest extracts and verifies a bearer token from the request.
func (s *authService) ValidateRequest(r *http.Request) (*Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No bearer token found in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return nil, ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return nil, ErrInvalidAuthFormat
	}

	identity, err := s.tokens.Verify(parts[1])
	if err != nil {
		s.logger.Debug("Token verification failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return nil, err
	}

	return identity, nil
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
