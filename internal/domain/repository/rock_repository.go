package repository

import (
	"context"

	"github.com/jhoicas/rochas-api/internal/domain/entity"
)

// RockFilter filtros de igualdad sobre valores ya normalizados. Campos vacíos no filtran.
type RockFilter struct {
	CompanyID string
	Name      string
	Type      string
	Finish    string
}

// RockRepository puerto de persistencia de rocas.
type RockRepository interface {
	// Create devuelve domain.ErrDuplicateItem si el ID (derivado de empresa+nombre) ya existe.
	Create(ctx context.Context, rock *entity.Rock) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Rock, error)
	// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Rock, error)
	Find(ctx context.Context, filter RockFilter) ([]*entity.Rock, error)
	Delete(ctx context.Context, id string) error
}
