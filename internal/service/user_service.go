package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parking-ticket-service/internal/auth"
	"github.com/spec-kit/parking-ticket-service/internal/domain"
	"github.com/spec-kit/parking-ticket-service/internal/events"
	"github.com/spec-kit/parking-ticket-service/internal/repository"
	apperrors "github.com/spec-kit/parking-ticket-service/pkg/util"
)

// UserService implements admin-driven account management. There is no
// self-service registration; every account is provisioned by an admin.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, bcryptCost int) *UserService {
	return &UserService{users: users, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// UserCreateInput describes account creation payload.
type UserCreateInput struct {
	Name      string
	Email     string
	Password  string
	Role      domain.Role
	CreatedBy *string
}

// UserUpdateInput describes a partial account update. Nil fields are
// left untouched.
type UserUpdateInput struct {
	Name     *string
	Email    *string
	IsActive *bool
}

// Create provisions a new account on behalf of an acting admin. When
// CreatedBy is omitted it defaults to the actor; when supplied it must
// reference an existing admin, since every ticket the new user issues
// joins back to that account.
func (s *UserService) Create(ctx context.Context, actor *domain.User, input UserCreateInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("Invalid role")
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("User already exists with this email")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	createdBy := input.CreatedBy
	if createdBy == nil {
		createdBy = &actor.ID
	} else {
		creator, err := s.users.GetByID(ctx, *createdBy)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("createdBy must reference an existing admin")
			}
			return nil, err
		}
		if !creator.IsAdmin() {
			return nil, apperrors.NewValidationError("createdBy must reference an existing admin")
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedBy:    createdBy,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserCreated, actor, user)
	return user, nil
}

// ListByCreator returns accounts provisioned by the given admin, newest
// first.
func (s *UserService) ListByCreator(ctx context.Context, createdBy string) ([]domain.User, error) {
	return s.users.ListByCreator(ctx, createdBy)
}

// Get fetches a single account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// Update applies a partial update to an account.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *input.Email); err == nil {
			return nil, apperrors.NewConflict("User already exists with this email")
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User not found")
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserUpdated, actor, user)
	return user, nil
}

// Delete removes an account. Admin accounts cannot be removed.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return apperrors.NewValidationError("Cannot delete admin user")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("User not found")
		}
		return err
	}

	s.publish(ctx, events.EventUserDeleted, actor, user)
	return nil
}

// BulkSetActive flips the active flag on all non-admin accounts.
func (s *UserService) BulkSetActive(ctx context.Context, actor *domain.User, isActive bool) (int64, error) {
	count, err := s.users.BulkSetActive(ctx, isActive)
	if err != nil {
		return 0, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventUsersBulkUpdated,
			Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
			Timestamp: time.Now(),
			Payload:   events.UsersBulkUpdatedPayload{IsActive: isActive, Count: count},
		})
	}
	return count, nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, actor, subject *domain.User) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.UserEventPayload{
			UserID: subject.ID,
			Email:  subject.Email,
			Role:   subject.Role,
		},
	})
}
