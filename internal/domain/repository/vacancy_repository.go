package repository

import (
	"context"

	"github.com/jhoicas/rochas-api/internal/domain/entity"
)

// VacancyRepository vacantes de empleo.
type VacancyRepository interface {
	Create(ctx context.Context, v *entity.Vacancy) error
	GetByID(ctx context.Context, id string) (*entity.Vacancy, error)
	// ListActive vacantes activas, la más reciente primero.
	ListActive(ctx context.Context) ([]*entity.Vacancy, error)
	Delete(ctx context.Context, id string) error
}
