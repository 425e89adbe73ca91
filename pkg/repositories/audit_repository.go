package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stocktrail-io/stocktrail/pkg/database"
	"github.com/stocktrail-io/stocktrail/pkg/models"
)

// AuditRepository provides data access for the append-only audit log.
// Entries are only ever inserted; the application never updates or deletes them.
type AuditRepository interface {
	// Create inserts a new audit log entry.
	Create(ctx context.Context, entry *models.AuditLogEntry) error

	// ListRecent returns the most recent audit log entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error)
}

type auditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *database.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	beforeJSON, err := marshalState(entry.BeforeState)
	if err != nil {
		return fmt.Errorf("failed to marshal before_state: %w", err)
	}
	afterJSON, err := marshalState(entry.AfterState)
	if err != nil {
		return fmt.Errorf("failed to marshal after_state: %w", err)
	}

	query := `
		INSERT INTO audit_logs (
			id, actor_id, actor_email, actor_role, action, entity_type, entity_id, before_state, after_state, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.Exec(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.ActorEmail,
		entry.ActorRole,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		beforeJSON,
		afterJSON,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	return nil
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	query := `
		SELECT id, actor_id, actor_email, actor_role, action, entity_type, entity_id, before_state, after_state, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLogEntry
	for rows.Next() {
		entry, err := scanAuditLogEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log entries: %w", err)
	}

	return entries, nil
}

// marshalState converts a snapshot to JSONB, mapping a nil snapshot to SQL NULL.
func marshalState(state map[string]any) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}

func scanAuditLogEntry(row pgx.Row) (*models.AuditLogEntry, error) {
	var entry models.AuditLogEntry
	var beforeJSON, afterJSON []byte

	err := row.Scan(
		&entry.ID,
		&entry.ActorID,
		&entry.ActorEmail,
		&entry.ActorRole,
		&entry.Action,
		&entry.EntityType,
		&entry.EntityID,
		&beforeJSON,
		&afterJSON,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
	}

	if len(beforeJSON) > 0 && string(beforeJSON) != "null" {
		if err := json.Unmarshal(beforeJSON, &entry.BeforeState); err != nil {
			return nil, fmt.Errorf("failed to unmarshal before_state: %w", err)
		}
	}
	if len(afterJSON) > 0 && string(afterJSON) != "null" {
		if err := json.Unmarshal(afterJSON, &entry.AfterState); err != nil {
			return nil, fmt.Errorf("failed to unmarshal after_state: %w", err)
		}
	}

	return &entry, nil
}

// Ensure auditRepository implements AuditRepository at compile time.
var _ AuditRepository = (*auditRepository)(nil)
