package postgres

import "github.com/jhoicas/rochas-api/internal/domain/repository"

var _ repository.Registry = (*Registry)(nil)

// Registry repositorios sobre un mismo Querier (pool o tx).
type Registry struct {
	q Querier
}

// NewRegistry construye el registro. Pasar pool o tx (Querier).
func NewRegistry(q Querier) *Registry {
	return &Registry{q: q}
}

func (r *Registry) Companies() repository.CompanyRepository       { return NewCompanyRepository(r.q) }
func (r *Registry) Users() repository.UserRepository              { return NewUserRepository(r.q) }
func (r *Registry) Profiles() repository.ProfileRepository        { return NewProfileRepository(r.q) }
func (r *Registry) Rocks() repository.RockRepository              { return NewRockRepository(r.q) }
func (r *Registry) Movements() repository.StockMovementRepository { return NewStockMovementRepository(r.q) }
func (r *Registry) Balances() repository.StockBalanceRepository   { return NewStockBalanceRepository(r.q) }
func (r *Registry) Vacancies() repository.VacancyRepository       { return NewVacancyRepository(r.q) }
