package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestAuthService_ValidateRequest(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	svc := NewAuthService(tokens, zap.NewNop())

	user := testUser()
	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	identity, err := svc.ValidateRequest(req)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if identity.ID != user.ID {
		t.Errorf("identity.ID = %s, want %s", identity.ID, user.ID)
	}
	if identity.Role != user.Role {
		t.Errorf("identity.Role = %s, want %s", identity.Role, user.Role)
	}
}

func TestAuthService_ValidateRequestErrors(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	svc := NewAuthService(tokens, zap.NewNop())

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "missing header", header: "", wantErr: ErrMissingAuthorization},
		{name: "no scheme", header: "sometoken", wantErr: ErrInvalidAuthFormat},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidAuthFormat},
		{name: "too many parts", header: "Bearer a b", wantErr: ErrInvalidAuthFormat},
		{name: "invalid token", header: "Bearer not-a-token", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			_, err := svc.ValidateRequest(req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
