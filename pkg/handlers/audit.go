package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/stocktrail-io/stocktrail/pkg/auth"
	"github.com/stocktrail-io/stocktrail/pkg/models"
	"github.com/stocktrail-io/stocktrail/pkg/services"
)

// auditLogLimit caps how many entries the list endpoint returns.
const auditLogLimit = 200

// AuditHandler serves the audit log read endpoint.
type AuditHandler struct {
	auditService services.AuditService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditService services.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// RegisterRoutes registers the audit handler's routes on the given mux.
func (h *AuditHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/audit-logs", authMiddleware.RequireRole(models.RoleAdmin)(h.List))
}

// List handles GET /api/audit-logs
// Returns the 200 most recent entries, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditService.ListRecent(r.Context(), auditLogLimit)
	if err != nil {
		h.logger.Error("Failed to list audit logs", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch audit logs"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if entries == nil {
		entries = []*models.AuditLogEntry{}
	}

	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to encode audit logs response", zap.Error(err))
	}
}
