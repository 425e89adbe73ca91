package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a single inventory record. Text columns and the x/y
// coordinates are nullable; absent values are stored as NULL, not as empty
// strings or zeroes.
type Product struct {
	ID         uuid.UUID `json:"id"`
	Referencia *string   `json:"referencia"`
	Cor        *string   `json:"cor"`
	X          *int      `json:"x"`
	Y          *int      `json:"y"`
	Rack       *string   `json:"rack"`
	Acab       *string   `json:"acab"`
	Obs        *string   `json:"obs"`
	Marked     bool      `json:"marked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductAuditFields enumerates the fields tracked by the audit pipeline.
// The no-op update check compares exactly this set, so adding a column here
// is what makes it auditable.
var ProductAuditFields = []string{"referencia", "cor", "x", "y", "rack", "acab", "obs", "marked"}

// AuditState returns the product's tracked fields as a snapshot suitable
// for storing in an audit entry's before/after state.
func (p *Product) AuditState() map[string]any {
	state := map[string]any{
		"referencia": nil,
		"cor":        nil,
		"x":          nil,
		"y":          nil,
		"rack":       nil,
		"acab":       nil,
		"obs":        nil,
		"marked":     p.Marked,
	}
	if p.Referencia != nil {
		state["referencia"] = *p.Referencia
	}
	if p.Cor != nil {
		state["cor"] = *p.Cor
	}
	if p.X != nil {
		state["x"] = *p.X
	}
	if p.Y != nil {
		state["y"] = *p.Y
	}
	if p.Rack != nil {
		state["rack"] = *p.Rack
	}
	if p.Acab != nil {
		state["acab"] = *p.Acab
	}
	if p.Obs != nil {
		state["obs"] = *p.Obs
	}
	return state
}
