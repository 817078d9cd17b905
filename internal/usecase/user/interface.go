package user

import (
	"context"

	domain "user-api/internal/domain/user"
)

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, in UserDTO) (*domain.User, error)
	Update(ctx context.Context, in UserDTO) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// Repository defines the interface for user data access operations.
// FindByID and FindByEmail return (nil, nil) when no row matches.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, u *domain.User) (*domain.User, error) // insert when ID is zero, update otherwise
	DeleteByID(ctx context.Context, id int64) error
}

// Mapper converts between the domain user and its transfer object.
type Mapper interface {
	ToDTO(u domain.User) UserDTO
	ToEntity(dto UserDTO) domain.User
}
