package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
)

var _ repository.RockRepository = (*RockRepo)(nil)

const rockColumns = `id, company_id, name, type, finish, photo_url, created_at`

// RockRepo rocas sobre PostgreSQL (usable con pool o tx).
type RockRepo struct {
	q Querier
}

// NewRockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRockRepository(q Querier) *RockRepo {
	return &RockRepo{q: q}
}

// Create inserta la roca. Choque en la PK o en (company_id, name) -> domain.ErrDuplicateItem.
func (r *RockRepo) Create(ctx context.Context, rock *entity.Rock) error {
	query := `
		INSERT INTO rocks (` + rockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		rock.ID, rock.CompanyID, rock.Name, rock.Type, rock.Finish, rock.PhotoURL, rock.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateItem
		}
		return wrapErr("insert rock", err)
	}
	return nil
}

// GetByID obtiene una roca por ID.
func (r *RockRepo) GetByID(ctx context.Context, id string) (*entity.Rock, error) {
	return r.getOne(ctx, `SELECT `+rockColumns+` FROM rocks WHERE id = $1`, id)
}

// GetForUpdate obtiene la roca y bloquea su fila hasta el fin de la tx (SELECT FOR UPDATE).
// Serializa todos los movimientos de la misma roca.
func (r *RockRepo) GetForUpdate(ctx context.Context, id string) (*entity.Rock, error) {
	return r.getOne(ctx, `SELECT `+rockColumns+` FROM rocks WHERE id = $1 FOR UPDATE`, id)
}

func (r *RockRepo) getOne(ctx context.Context, query, id string) (*entity.Rock, error) {
	if !validID(id) {
		return nil, nil
	}
	var k entity.Rock
	err := r.q.QueryRow(ctx, query, id).Scan(
		&k.ID, &k.CompanyID, &k.Name, &k.Type, &k.Finish, &k.PhotoURL, &k.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get rock", err)
	}
	return &k, nil
}

// Find filtra por igualdad sobre los campos no vacíos del filtro, ordenado por nombre.
func (r *RockRepo) Find(ctx context.Context, f repository.RockFilter) ([]*entity.Rock, error) {
	if f.CompanyID != "" && !validID(f.CompanyID) {
		return nil, nil
	}
	query := `SELECT ` + rockColumns + ` FROM rocks WHERE 1=1`
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		query += fmt.Sprintf(" AND %s = $%d", column, len(args))
	}
	add("company_id", f.CompanyID)
	add("name", f.Name)
	add("type", f.Type)
	add("finish", f.Finish)
	query += " ORDER BY name, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("find rocks", err)
	}
	defer rows.Close()
	var list []*entity.Rock
	for rows.Next() {
		var k entity.Rock
		if err := rows.Scan(&k.ID, &k.CompanyID, &k.Name, &k.Type, &k.Finish, &k.PhotoURL, &k.CreatedAt); err != nil {
			return nil, wrapErr("scan rock", err)
		}
		list = append(list, &k)
	}
	return list, rows.Err()
}

// Delete elimina la roca.
func (r *RockRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM rocks WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete rock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
