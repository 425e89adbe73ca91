package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntityType values name the kinds of entities that appear in the log.
const (
	AuditEntityTypeProduct = "product"
)

// AuditAction represents the type of action being audited.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditLogEntry is a single append-only record of one mutation. The actor
// fields are a snapshot of the identity at the time of the action, never a
// live reference to the user row: the trail stays accurate after the actor
// is demoted or deleted.
type AuditLogEntry struct {
	ID         uuid.UUID `json:"id"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorEmail string    `json:"actor_email"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`      // 'CREATE', 'UPDATE', 'DELETE'
	EntityType string    `json:"entity_type"` // 'product'
	EntityID   uuid.UUID `json:"entity_id"`

	// Full snapshots of tracked fields. BeforeState is nil for CREATE,
	// AfterState is nil for DELETE.
	BeforeState map[string]any `json:"before_state"`
	AfterState  map[string]any `json:"after_state"`

	CreatedAt time.Time `json:"created_at"`
}
