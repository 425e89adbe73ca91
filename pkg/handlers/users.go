package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocktrail-io/stocktrail/pkg/apperrors"
	"github.com/stocktrail-io/stocktrail/pkg/auth"
	"github.com/stocktrail-io/stocktrail/pkg/models"
	"github.com/stocktrail-io/stocktrail/pkg/services"
)

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ChangeRoleRequest is the request body for changing a user's role.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// UsersHandler handles user-management HTTP requests. All routes are
// admin-only; the self and last-admin invariants are enforced below the
// handler in the user service and repository.
type UsersHandler struct {
	userService services.UserService
	logger      *zap.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(userService services.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the users handler's routes on the given mux.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	admins := authMiddleware.RequireRole(models.RoleAdmin)

	mux.HandleFunc("GET /api/users", admins(h.List))
	mux.HandleFunc("POST /api/users", admins(h.Create))
	mux.HandleFunc("PUT /api/users/{id}/role", admins(h.ChangeRole))
	mux.HandleFunc("DELETE /api/users/{id}", admins(h.Delete))
}

// List handles GET /api/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch users"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	if err := WriteJSON(w, http.StatusOK, responses); err != nil {
		h.logger.Error("Failed to encode users response", zap.Error(err))
	}
}

// Create handles POST /api/users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.Email == "" || req.Password == "" || req.Role == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "Missing fields"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.userService.Create(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if err := ErrorResponse(w, http.StatusConflict, "Email already exists"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		if errors.Is(err, apperrors.ErrInvalidRole) {
			if err := ErrorResponse(w, http.StatusBadRequest, "Invalid role. Must be one of: viewer, editor, admin"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to create user"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, toUserResponse(user)); err != nil {
		h.logger.Error("Failed to encode user response", zap.Error(err))
	}
}

// ChangeRole handles PUT /api/users/{id}/role
func (h *UsersHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid user ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	actor, err := auth.RequireIdentity(r.Context())
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.Role == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "Role is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.userService.ChangeRole(r.Context(), actor.ID, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSelfTarget):
			if err := ErrorResponse(w, http.StatusForbidden, "You cannot change your own role"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrLastAdmin):
			if err := ErrorResponse(w, http.StatusForbidden, "Cannot remove the last admin"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "User not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrInvalidRole):
			if err := ErrorResponse(w, http.StatusBadRequest, "Invalid role. Must be one of: viewer, editor, admin"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to change user role",
				zap.String("target_id", targetID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to update role"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, toUserResponse(user)); err != nil {
		h.logger.Error("Failed to encode user response", zap.Error(err))
	}
}

// Delete handles DELETE /api/users/{id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid user ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	actor, err := auth.RequireIdentity(r.Context())
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.userService.Delete(r.Context(), actor.ID, targetID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSelfTarget):
			if err := ErrorResponse(w, http.StatusForbidden, "You cannot delete your own account"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrLastAdmin):
			if err := ErrorResponse(w, http.StatusForbidden, "Cannot delete the last admin"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "User not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to delete user",
				zap.String("target_id", targetID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to delete user"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"}); err != nil {
		h.logger.Error("Failed to encode delete response", zap.Error(err))
	}
}
