package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	// Create inserta un usuario. Retorna domain.ErrEmailAlreadyExists si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	// GetByID devuelve el usuario o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByEmail devuelve el usuario o (nil, nil) si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
