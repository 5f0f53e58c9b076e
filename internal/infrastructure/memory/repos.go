package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/internal/domain/stock"
)

// ── Companies ─────────────────────────────────────────────────────────────────

type companyRepo struct{ r *registry }

func (c companyRepo) Create(_ context.Context, company *entity.Company) error {
	return c.r.update("companies.create", func(st *state) error {
		if _, ok := st.companies[company.ID]; ok {
			return domain.ErrDuplicate
		}
		st.companies[company.ID] = *company
		return nil
	})
}

func (c companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := c.r.view("companies.get", func(st *state) error {
		if v, ok := st.companies[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (c companyRepo) List(_ context.Context) ([]*entity.Company, error) {
	var out []*entity.Company
	err := c.r.view("companies.list", func(st *state) error {
		for _, v := range st.companies {
			v := v
			out = append(out, &v)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

// ── Users / Profiles ──────────────────────────────────────────────────────────

type userRepo struct{ r *registry }

func (u userRepo) Create(_ context.Context, user *entity.User) error {
	return u.r.update("users.create", func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, user.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		if _, ok := st.users[user.ID]; ok {
			return domain.ErrDuplicate
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (u userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := u.r.view("users.get", func(st *state) error {
		if v, ok := st.users[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (u userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := u.r.view("users.find", func(st *state) error {
		for _, v := range st.users {
			if strings.EqualFold(v.Email, email) {
				v := v
				out = &v
				return nil
			}
		}
		return nil
	})
	return out, err
}

type profileRepo struct{ r *registry }

func (p profileRepo) Create(_ context.Context, profile *entity.UserProfile) error {
	return p.r.update("profiles.create", func(st *state) error {
		if _, ok := st.profiles[profile.UserID]; ok {
			return domain.ErrDuplicate
		}
		st.profiles[profile.UserID] = *profile
		return nil
	})
}

func (p profileRepo) GetByUserID(_ context.Context, userID string) (*entity.UserProfile, error) {
	var out *entity.UserProfile
	err := p.r.view(FaultProfileGet, func(st *state) error {
		if v, ok := st.profiles[userID]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

// ── Rocks ─────────────────────────────────────────────────────────────────────

type rockRepo struct{ r *registry }

func (k rockRepo) Create(_ context.Context, rock *entity.Rock) error {
	return k.r.update(FaultRockCreate, func(st *state) error {
		if _, ok := st.rocks[rock.ID]; ok {
			return domain.ErrDuplicateItem
		}
		// Equivalente al índice único (company_id, name).
		for _, existing := range st.rocks {
			if existing.CompanyID == rock.CompanyID && existing.Name == rock.Name {
				return domain.ErrDuplicateItem
			}
		}
		st.rocks[rock.ID] = *rock
		return nil
	})
}

func (k rockRepo) GetByID(_ context.Context, id string) (*entity.Rock, error) {
	var out *entity.Rock
	err := k.r.view("rocks.get", func(st *state) error {
		if v, ok := st.rocks[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

// GetForUpdate dentro de una tx el lock global ya serializa; fuera de ella equivale a GetByID.
func (k rockRepo) GetForUpdate(ctx context.Context, id string) (*entity.Rock, error) {
	return k.GetByID(ctx, id)
}

func (k rockRepo) Find(_ context.Context, f repository.RockFilter) ([]*entity.Rock, error) {
	var out []*entity.Rock
	err := k.r.view(FaultRockFind, func(st *state) error {
		for _, v := range st.rocks {
			if f.CompanyID != "" && v.CompanyID != f.CompanyID {
				continue
			}
			if f.Name != "" && v.Name != f.Name {
				continue
			}
			if f.Type != "" && v.Type != f.Type {
				continue
			}
			if f.Finish != "" && v.Finish != f.Finish {
				continue
			}
			v := v
			out = append(out, &v)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (k rockRepo) Delete(_ context.Context, id string) error {
	return k.r.update("rocks.delete", func(st *state) error {
		if _, ok := st.rocks[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.rocks, id)
		return nil
	})
}

// ── Kardex / saldo ────────────────────────────────────────────────────────────

type movementRepo struct{ r *registry }

func (m movementRepo) Create(_ context.Context, mov *entity.StockMovement) error {
	return m.r.update(FaultMovementCreate, func(st *state) error {
		mov.CreatedAt = now()
		st.movements[mov.RockID] = append(st.movements[mov.RockID], *mov)
		return nil
	})
}

func (m movementRepo) ListByRock(_ context.Context, rockID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := m.r.view("movements.list", func(st *state) error {
		list := st.movements[rockID]
		for i := len(list) - 1; i >= 0; i-- {
			v := list[i]
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

func (m movementRepo) SumByRock(ctx context.Context, rockID string) (decimal.Decimal, error) {
	list, err := m.ListByRock(ctx, rockID)
	if err != nil {
		return decimal.Zero, err
	}
	return stock.Sum(list), nil
}

func (m movementRepo) DeleteByRock(_ context.Context, rockID string) error {
	return m.r.update("movements.delete", func(st *state) error {
		delete(st.movements, rockID)
		return nil
	})
}

type balanceRepo struct{ r *registry }

func (b balanceRepo) Get(_ context.Context, rockID string) (*entity.StockBalance, error) {
	var out *entity.StockBalance
	err := b.r.view("balances.get", func(st *state) error {
		if v, ok := st.balances[rockID]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (b balanceRepo) ListByRocks(_ context.Context, rockIDs []string) (map[string]*entity.StockBalance, error) {
	out := make(map[string]*entity.StockBalance, len(rockIDs))
	err := b.r.view(FaultBalanceList, func(st *state) error {
		for _, id := range rockIDs {
			if v, ok := st.balances[id]; ok {
				out[id] = &v
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b balanceRepo) Upsert(_ context.Context, balance *entity.StockBalance) error {
	return b.r.update(FaultBalanceUpsert, func(st *state) error {
		st.balances[balance.RockID] = *balance
		return nil
	})
}

func (b balanceRepo) Delete(_ context.Context, rockID string) error {
	return b.r.update("balances.delete", func(st *state) error {
		delete(st.balances, rockID)
		return nil
	})
}

// ── Vacancies ─────────────────────────────────────────────────────────────────

type vacancyRepo struct{ r *registry }

func (v vacancyRepo) Create(_ context.Context, vac *entity.Vacancy) error {
	return v.r.update("vacancies.create", func(st *state) error {
		if _, ok := st.vacancies[vac.ID]; ok {
			return domain.ErrDuplicate
		}
		st.vacancies[vac.ID] = *vac
		return nil
	})
}

func (v vacancyRepo) GetByID(_ context.Context, id string) (*entity.Vacancy, error) {
	var out *entity.Vacancy
	err := v.r.view("vacancies.get", func(st *state) error {
		if x, ok := st.vacancies[id]; ok {
			out = &x
		}
		return nil
	})
	return out, err
}

func (v vacancyRepo) ListActive(_ context.Context) ([]*entity.Vacancy, error) {
	var out []*entity.Vacancy
	err := v.r.view("vacancies.list", func(st *state) error {
		for _, x := range st.vacancies {
			if !x.Active {
				continue
			}
			x := x
			out = append(out, &x)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, err
}

func (v vacancyRepo) Delete(_ context.Context, id string) error {
	return v.r.update("vacancies.delete", func(st *state) error {
		if _, ok := st.vacancies[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.vacancies, id)
		return nil
	})
}
