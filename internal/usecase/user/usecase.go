package user

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "user-api/internal/domain/user"
	apperrors "user-api/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Service implements the business rules for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository          // Repository for data access
	mapper   Mapper              // Mapper between transfer objects and entities
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for transfer objects
}

var _ Usecase = (*Service)(nil)

// New creates a new Service with the provided repository, mapper and logger.
func New(r Repository, m Mapper, log *zap.Logger) *Service {
	return &Service{repo: r, mapper: m, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return apperrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// FindByID returns the user stored under id.
func (s *Service) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("failed to find user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		s.log.Debug("user not found", zap.Int64("id", id))
		return nil, apperrors.NewNotFoundError(apperrors.MsgObjectNotFound)
	}
	return u, nil
}

// FindAll returns every stored user in the store's natural order.
func (s *Service) FindAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Create persists a new user. Any caller supplied id is ignored so the store
// assigns one.
func (s *Service) Create(ctx context.Context, in UserDTO) (*domain.User, error) {
	s.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	in.ID = 0
	entity := s.mapper.ToEntity(in)
	if err := s.ensureEmailAvailable(ctx, &entity); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, &entity)
	if err != nil {
		s.log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	return saved, nil
}

// Update replaces name, email and password of an existing user.
func (s *Service) Update(ctx context.Context, in UserDTO) (*domain.User, error) {
	s.log.Info("updating user", zap.Int64("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	if _, err := s.FindByID(ctx, in.ID); err != nil {
		return nil, err
	}

	entity := s.mapper.ToEntity(in)
	if err := s.ensureEmailAvailable(ctx, &entity); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, &entity)
	if err != nil {
		s.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	return saved, nil
}

// Delete removes the user stored under id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.log.Info("deleting user", zap.Int64("id", id))

	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ensureEmailAvailable fails when the email of u already belongs to a
// different user. Keeping one's own email is allowed.
func (s *Service) ensureEmailAvailable(ctx context.Context, u *domain.User) error {
	existing, err := s.repo.FindByEmail(ctx, u.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", u.Email), zap.Error(err))
		return err
	}
	if existing != nil && existing.ID != u.ID {
		s.log.Warn("email already exists", zap.String("email", u.Email), zap.Int64("existing_id", existing.ID))
		return apperrors.NewDuplicateEmailError(u.Email, apperrors.MsgEmailExists)
	}
	return nil
}
