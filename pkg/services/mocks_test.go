package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocktrail-io/stocktrail/pkg/models"
)

// mockUserRepository implements repositories.UserRepository with
// overridable function fields.
type mockUserRepository struct {
	createFunc            func(ctx context.Context, user *models.User) error
	getByIDFunc           func(ctx context.Context, id uuid.UUID) (*models.User, error)
	getByEmailFunc        func(ctx context.Context, email string) (*models.User, error)
	listFunc              func(ctx context.Context) ([]*models.User, error)
	countAdminsFunc       func(ctx context.Context) (int, error)
	updateRoleGuardedFunc func(ctx context.Context, id uuid.UUID, newRole string) (*models.User, error)
	deleteGuardedFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return m.listFunc(ctx)
}

func (m *mockUserRepository) CountAdmins(ctx context.Context) (int, error) {
	return m.countAdminsFunc(ctx)
}

func (m *mockUserRepository) UpdateRoleGuarded(ctx context.Context, id uuid.UUID, newRole string) (*models.User, error) {
	return m.updateRoleGuardedFunc(ctx, id, newRole)
}

func (m *mockUserRepository) DeleteGuarded(ctx context.Context, id uuid.UUID) error {
	return m.deleteGuardedFunc(ctx, id)
}

// mockProductRepository implements repositories.ProductRepository.
type mockProductRepository struct {
	createFunc  func(ctx context.Context, product *models.Product) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	listFunc    func(ctx context.Context) ([]*models.Product, error)
	updateFunc  func(ctx context.Context, product *models.Product) error
	deleteFunc  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProductRepository) Create(ctx context.Context, product *models.Product) error {
	return m.createFunc(ctx, product)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	return m.listFunc(ctx)
}

func (m *mockProductRepository) Update(ctx context.Context, product *models.Product) error {
	return m.updateFunc(ctx, product)
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// mockAuditRepository implements repositories.AuditRepository and records
// every entry it receives.
type mockAuditRepository struct {
	entries    []*models.AuditLogEntry
	createErr  error
	listResult []*models.AuditLogEntry
	listErr    error
}

func (m *mockAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listResult, nil
}

// recordedAudit captures one call into mockAuditService.
type recordedAudit struct {
	action     string
	entityType string
	entityID   uuid.UUID
	before     map[string]any
	after      map[string]any
}

// mockAuditService implements AuditService and records calls.
type mockAuditService struct {
	records []recordedAudit
}

func (m *mockAuditService) RecordCreate(ctx context.Context, entityType string, entityID uuid.UUID, after map[string]any) {
	m.records = append(m.records, recordedAudit{action: models.AuditActionCreate, entityType: entityType, entityID: entityID, after: after})
}

func (m *mockAuditService) RecordUpdate(ctx context.Context, entityType string, entityID uuid.UUID, before, after map[string]any) {
	m.records = append(m.records, recordedAudit{action: models.AuditActionUpdate, entityType: entityType, entityID: entityID, before: before, after: after})
}

func (m *mockAuditService) RecordDelete(ctx context.Context, entityType string, entityID uuid.UUID, before map[string]any) {
	m.records = append(m.records, recordedAudit{action: models.AuditActionDelete, entityType: entityType, entityID: entityID, before: before})
}

func (m *mockAuditService) ListRecent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	return nil, nil
}

// mockProductService implements ProductService for import tests.
type mockProductService struct {
	inputs    []*ProductInput
	failAfter int // fail the Nth create (1-based); 0 means never fail
	failErr   error
}

func (m *mockProductService) List(ctx context.Context) ([]*models.Product, error) {
	return nil, nil
}

func (m *mockProductService) Create(ctx context.Context, input *ProductInput) (*models.Product, error) {
	if m.failAfter > 0 && len(m.inputs)+1 == m.failAfter {
		return nil, m.failErr
	}
	m.inputs = append(m.inputs, input)
	return input.toProduct(), nil
}

func (m *mockProductService) Update(ctx context.Context, id uuid.UUID, input *ProductInput) (*models.Product, error) {
	return nil, nil
}

func (m *mockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}
