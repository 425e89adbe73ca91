package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/stocktrail-io/stocktrail/pkg/apperrors"
	"github.com/stocktrail-io/stocktrail/pkg/models"
	"github.com/stocktrail-io/stocktrail/pkg/repositories"
)

// bcryptCost is the work factor for password hashing.
const bcryptCost = 10

// UserService provides account management. The role-change and delete
// operations enforce two invariants before touching the store: an actor
// may never target their own account, and the last admin can never be
// demoted or removed.
type UserService interface {
	// Create registers a new account with the given role.
	Create(ctx context.Context, email, password, role string) (*models.User, error)

	// Authenticate verifies email/password. Unknown email and wrong
	// password both return ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	List(ctx context.Context) ([]*models.User, error)

	// ChangeRole updates the target user's role on behalf of actorID.
	// Returns ErrSelfTarget when actorID == targetID, ErrLastAdmin when
	// the change would leave zero admins.
	ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*models.User, error)

	// Delete removes the target user on behalf of actorID, with the same
	// guards as ChangeRole.
	Delete(ctx context.Context, actorID, targetID uuid.UUID) error
}

type userService struct {
	repo   repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger.Named("user-service"),
	}
}

var _ UserService = (*userService)(nil)

func (s *userService) Create(ctx context.Context, email, password, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (s *userService) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}

	// Self-protection runs before any store access.
	if actorID == targetID {
		return nil, apperrors.ErrSelfTarget
	}

	user, err := s.repo.UpdateRoleGuarded(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrLastAdmin) {
			return nil, err
		}
		return nil, fmt.Errorf("change role: %w", err)
	}

	s.logger.Info("User role changed",
		zap.String("actor_id", actorID.String()),
		zap.String("target_id", targetID.String()),
		zap.String("role", role))

	return user, nil
}

func (s *userService) Delete(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return apperrors.ErrSelfTarget
	}

	if err := s.repo.DeleteGuarded(ctx, targetID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrLastAdmin) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("User deleted",
		zap.String("actor_id", actorID.String()),
		zap.String("target_id", targetID.String()))

	return nil
}
