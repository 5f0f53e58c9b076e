package postgres

import (
	"context"

	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.ProfileRepository = (*ProfileRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Status, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return wrapErr("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.findOne(ctx, "id = $1", id)
}

// FindByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "lower(email) = lower($1)", email)
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, name, status, created_at
		FROM users WHERE ` + where
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Status, &u.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get user", err)
	}
	return &u, nil
}

// ProfileRepo perfiles (rol + empresa) sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador de perfiles.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// Create persiste el perfil; la clave primaria user_id impide un segundo perfil.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, role, company_id, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4)`
	_, err := r.q.Exec(ctx, query, p.UserID, p.Role, p.CompanyID, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert profile", err)
	}
	return nil
}

// GetByUserID devuelve (nil, nil) si el usuario no tiene perfil.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.UserProfile, error) {
	if !validID(userID) {
		return nil, nil
	}
	query := `
		SELECT user_id, role, COALESCE(company_id::text, ''), created_at
		FROM user_profiles WHERE user_id = $1`
	var p entity.UserProfile
	err := r.q.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.Role, &p.CompanyID, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get profile", err)
	}
	return &p, nil
}
