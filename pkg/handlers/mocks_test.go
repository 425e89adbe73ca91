package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocktrail-io/stocktrail/pkg/auth"
	"github.com/stocktrail-io/stocktrail/pkg/models"
	"github.com/stocktrail-io/stocktrail/pkg/services"
)

var testJWTSecret = []byte("handler-test-secret")

// newTestAuth builds a real token service and middleware pair so handler
// tests exercise the same auth path as production.
func newTestAuth(t *testing.T) (auth.TokenService, *auth.Middleware) {
	t.Helper()
	tokens := auth.NewTokenService(testJWTSecret, time.Hour)
	svc := auth.NewAuthService(tokens, zap.NewNop())
	return tokens, auth.NewMiddleware(svc, zap.NewNop())
}

func tokenFor(t *testing.T, tokens auth.TokenService, role string) string {
	t.Helper()
	token, err := tokens.Issue(&models.User{
		ID:    uuid.New(),
		Email: role + "@example.com",
		Role:  role,
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func authedRequest(t *testing.T, tokens auth.TokenService, role string, req *http.Request) *http.Request {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tokens, role))
	return req
}

// mockUserService implements services.UserService.
type mockUserService struct {
	createFunc       func(ctx context.Context, email, password, role string) (*models.User, error)
	authenticateFunc func(ctx context.Context, email, password string) (*models.User, error)
	listFunc         func(ctx context.Context) ([]*models.User, error)
	changeRoleFunc   func(ctx context.Context, actorID, targetID uuid.UUID, role string) (*models.User, error)
	deleteFunc       func(ctx context.Context, actorID, targetID uuid.UUID) error
}

func (m *mockUserService) Create(ctx context.Context, email, password, role string) (*models.User, error) {
	return m.createFunc(ctx, email, password, role)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return m.authenticateFunc(ctx, email, password)
}

func (m *mockUserService) List(ctx context.Context) ([]*models.User, error) {
	return m.listFunc(ctx)
}

func (m *mockUserService) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*models.User, error) {
	return m.changeRoleFunc(ctx, actorID, targetID, role)
}

func (m *mockUserService) Delete(ctx context.Context, actorID, targetID uuid.UUID) error {
	return m.deleteFunc(ctx, actorID, targetID)
}

// mockProductService implements services.ProductService.
type mockProductService struct {
	listFunc   func(ctx context.Context) ([]*models.Product, error)
	createFunc func(ctx context.Context, input *services.ProductInput) (*models.Product, error)
	updateFunc func(ctx context.Context, id uuid.UUID, input *services.ProductInput) (*models.Product, error)
	deleteFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProductService) List(ctx context.Context) ([]*models.Product, error) {
	return m.listFunc(ctx)
}

func (m *mockProductService) Create(ctx context.Context, input *services.ProductInput) (*models.Product, error) {
	return m.createFunc(ctx, input)
}

func (m *mockProductService) Update(ctx context.Context, id uuid.UUID, input *services.ProductInput) (*models.Product, error) {
	return m.updateFunc(ctx, id, input)
}

func (m *mockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// mockImportService implements services.ImportService.
type mockImportService struct {
	importFunc func(ctx context.Context, csvData string) (int, error)
}

func (m *mockImportService) Import(ctx context.Context, csvData string) (int, error) {
	return m.importFunc(ctx, csvData)
}

// mockAuditService implements services.AuditService.
type mockAuditService struct {
	listRecentFunc func(ctx context.Context, limit int) ([]*models.AuditLogEntry, error)
}

func (m *mockAuditService) RecordCreate(ctx context.Context, entityType string, entityID uuid.UUID, after map[string]any) {
}

func (m *mockAuditService) RecordUpdate(ctx context.Context, entityType string, entityID uuid.UUID, before, after map[string]any) {
}

func (m *mockAuditService) RecordDelete(ctx context.Context, entityType string, entityID uuid.UUID, before map[string]any) {
}

func (m *mockAuditService) ListRecent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	return m.listRecentFunc(ctx, limit)
}
