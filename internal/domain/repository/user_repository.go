package repository

import (
	"context"

	"github.com/jhoicas/rochas-api/internal/domain/entity"
)

// UserRepository credenciales de acceso. Create devuelve domain.ErrEmailAlreadyExists si el email existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// ProfileRepository perfiles de rol. No hay Update: el perfil se fija al aprovisionar.
// Create devuelve domain.ErrDuplicate si el usuario ya tiene perfil.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.UserProfile) error
	// GetByUserID devuelve (nil, nil) si el usuario no está aprovisionado.
	GetByUserID(ctx context.Context, userID string) (*entity.UserProfile, error)
}
