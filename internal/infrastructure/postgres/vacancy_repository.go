package postgres

import (
	"context"

	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
)

var _ repository.VacancyRepository = (*VacancyRepo)(nil)

const vacancyColumns = `id, company_id, title, description, contact_email, active, published_at`

// VacancyRepo vacantes sobre PostgreSQL.
type VacancyRepo struct {
	q Querier
}

// NewVacancyRepository construye el adaptador.
func NewVacancyRepository(q Querier) *VacancyRepo {
	return &VacancyRepo{q: q}
}

func (r *VacancyRepo) Create(ctx context.Context, v *entity.Vacancy) error {
	query := `INSERT INTO vacancies (` + vacancyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, v.ID, v.CompanyID, v.Title, v.Description, v.ContactEmail, v.Active, v.PublishedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert vacancy", err)
	}
	return nil
}

func (r *VacancyRepo) GetByID(ctx context.Context, id string) (*entity.Vacancy, error) {
	if !validID(id) {
		return nil, nil
	}
	var v entity.Vacancy
	err := r.q.QueryRow(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE id = $1`, id).Scan(
		&v.ID, &v.CompanyID, &v.Title, &v.Description, &v.ContactEmail, &v.Active, &v.PublishedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get vacancy", err)
	}
	return &v, nil
}

func (r *VacancyRepo) ListActive(ctx context.Context) ([]*entity.Vacancy, error) {
	rows, err := r.q.Query(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE active ORDER BY published_at DESC`)
	if err != nil {
		return nil, wrapErr("list vacancies", err)
	}
	defer rows.Close()
	var list []*entity.Vacancy
	for rows.Next() {
		var v entity.Vacancy
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Title, &v.Description, &v.ContactEmail, &v.Active, &v.PublishedAt); err != nil {
			return nil, wrapErr("scan vacancy", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

func (r *VacancyRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM vacancies WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete vacancy", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
