package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocktrail-io/stocktrail/pkg/auth"
	"github.com/stocktrail-io/stocktrail/pkg/models"
	"github.com/stocktrail-io/stocktrail/pkg/repositories"
)

// trackedFields enumerates, per entity type, the fields the no-op update
// check compares. An explicit list keeps the comparison deterministic
// instead of introspecting whatever keys a snapshot happens to carry.
var trackedFields = map[string][]string{
	models.AuditEntityTypeProduct: models.ProductAuditFields,
}

// AuditService is the audit pipeline: it decides whether a mutation is
// worth recording and persists the entry with an actor snapshot.
//
// Persistence is best-effort. A failed insert is logged and swallowed; the
// mutation that triggered it is already committed and stays authoritative.
type AuditService interface {
	// RecordCreate records the creation of an entity. Always persisted.
	RecordCreate(ctx context.Context, entityType string, entityID uuid.UUID, after map[string]any)

	// RecordUpdate records an update. Skipped entirely when every tracked
	// field is identical between before and after (string-coerced, so a
	// save that changed nothing adds no noise to the log).
	RecordUpdate(ctx context.Context, entityType string, entityID uuid.UUID, before, after map[string]any)

	// RecordDelete records the deletion of an entity. Always persisted.
	RecordDelete(ctx context.Context, entityType string, entityID uuid.UUID, before map[string]any)

	// ListRecent returns the most recent audit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error)
}

type auditService struct {
	repo   repositories.AuditRepository
	logger *zap.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo repositories.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.Named("audit-service"),
	}
}

var _ AuditService = (*auditService)(nil)

func (s *auditService) RecordCreate(ctx context.Context, entityType string, entityID uuid.UUID, after map[string]any) {
	s.persist(ctx, models.AuditActionCreate, entityType, entityID, nil, after)
}

func (s *auditService) RecordUpdate(ctx context.Context, entityType string, entityID uuid.UUID, before, after map[string]any) {
	if !hasChanges(entityType, before, after) {
		return
	}
	s.persist(ctx, models.AuditActionUpdate, entityType, entityID, before, after)
}

func (s *auditService) RecordDelete(ctx context.Context, entityType string, entityID uuid.UUID, before map[string]any) {
	s.persist(ctx, models.AuditActionDelete, entityType, entityID, before, nil)
}

func (s *auditService) ListRecent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list audit log entries", zap.Error(err))
		return nil, fmt.Errorf("list audit log entries: %w", err)
	}

	return entries, nil
}

// persist writes one entry with the actor snapshot taken from context.
// Errors are logged, never propagated: the primary mutation has already
// committed and must not fail because the trail could not be written.
func (s *auditService) persist(ctx context.Context, action, entityType string, entityID uuid.UUID, before, after map[string]any) {
	actor, ok := auth.GetIdentity(ctx)
	if !ok {
		s.logger.Warn("No identity in context for audit entry",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.String("action", action))
		return
	}

	entry := &models.AuditLogEntry{
		ActorID:     actor.ID,
		ActorEmail:  actor.Email,
		ActorRole:   actor.Role,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		BeforeState: before,
		AfterState:  after,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to persist audit entry",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.String("action", action),
			zap.Error(err))
	}
}

// hasChanges reports whether any tracked field differs between the two
// snapshots after string coercion (nil coerces to empty string). A missing
// before or after snapshot always counts as a change.
func hasChanges(entityType string, before, after map[string]any) bool {
	if before == nil || after == nil {
		return true
	}

	fields, ok := trackedFields[entityType]
	if !ok {
		fields = fieldUnion(before, after)
	}

	for _, field := range fields {
		if coerceString(before[field]) != coerceString(after[field]) {
			return true
		}
	}

	return false
}

// fieldUnion returns the sorted union of keys from both snapshots, for
// entity types without an explicit tracked-field list.
func fieldUnion(before, after map[string]any) []string {
	seen := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		seen[k] = struct{}{}
	}
	for k := range after {
		seen[k] = struct{}{}
	}

	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// coerceString renders a snapshot value for comparison. nil becomes "".
func coerceString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
