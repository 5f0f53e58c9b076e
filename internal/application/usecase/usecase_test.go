package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/usecase"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/infrastructure/memory"
)

var admin = access.Session{UserID: "admin-1", Capability: access.Admin()}

func TestCompanyCreate_ConPropietario(t *testing.T) {
	st := memory.New()
	uc := usecase.NewCompanyUseCase(st, st, nil)
	ctx := context.Background()

	c, err := uc.Create(ctx, admin, dto.CreateCompanyRequest{
		Name: "Marmoraria Alfa", Address: "Rua 1", OwnerEmail: "dono@alfa.com", OwnerPassword: "secreta",
	})
	require.NoError(t, err)
	require.NotNil(t, c.Owner)
	assert.Equal(t, c.ID, c.Owner.CompanyID)
	assert.Equal(t, entity.RoleEmpresa, c.Owner.Role)

	profile, err := st.Profiles().GetByUserID(ctx, c.Owner.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, c.ID, profile.CompanyID)
}

func TestCompanyCreate_PropietarioInvalidoNoCreaEmpresa(t *testing.T) {
	st := memory.New()
	uc := usecase.NewCompanyUseCase(st, st, nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, admin, dto.CreateCompanyRequest{Name: "Alfa", OwnerEmail: "dono@alfa.com", OwnerPassword: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, list, "la empresa se revierte con la cuenta")
}

func TestCompany_Acceso(t *testing.T) {
	st := memory.New()
	uc := usecase.NewCompanyUseCase(st, st, nil)
	ctx := context.Background()

	a, err := uc.Create(ctx, admin, dto.CreateCompanyRequest{Name: "Alfa"})
	require.NoError(t, err)
	b, err := uc.Create(ctx, admin, dto.CreateCompanyRequest{Name: "Beta"})
	require.NoError(t, err)
	sessA := access.Session{UserID: "u", Capability: access.CompanyScoped(a.ID)}

	_, err = uc.Create(ctx, sessA, dto.CreateCompanyRequest{Name: "Gama"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Create(ctx, admin, dto.CreateCompanyRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	all, err := uc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := uc.List(ctx, sessA)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, a.ID, own[0].ID)

	_, err = uc.GetByID(ctx, sessA, b.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.GetByID(ctx, admin, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVacancies(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	require.NoError(t, st.Companies().Create(ctx, &entity.Company{ID: "c1", Name: "Alfa", CreatedAt: time.Now()}))
	require.NoError(t, st.Companies().Create(ctx, &entity.Company{ID: "c2", Name: "Beta", CreatedAt: time.Now()}))
	uc := usecase.NewVacancyUseCase(st, nil)
	sess1 := access.Session{UserID: "u1", Capability: access.CompanyScoped("c1")}
	sess2 := access.Session{UserID: "u2", Capability: access.CompanyScoped("c2")}

	first, err := uc.Create(ctx, sess1, dto.CreateVacancyRequest{Title: "Polidor", Description: "Experiência", ContactEmail: "rh@alfa.com"})
	require.NoError(t, err)
	assert.Equal(t, "c1", first.CompanyID)
	assert.Equal(t, "Alfa", first.CompanyName)
	time.Sleep(2 * time.Millisecond)
	second, err := uc.Create(ctx, admin, dto.CreateVacancyRequest{CompanyID: "c2", Title: "Motorista", Description: "CNH", ContactEmail: "rh@beta.com"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, sess1, dto.CreateVacancyRequest{Title: "x", Description: "y", ContactEmail: "sem-arroba"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, admin, dto.CreateVacancyRequest{Title: "x", Description: "y", ContactEmail: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "admin debe indicar la empresa")

	list, err := uc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "la más reciente primero")
	assert.Equal(t, "Beta", list[0].CompanyName)

	assert.ErrorIs(t, uc.Delete(ctx, sess2, first.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, sess1, first.ID))
	require.NoError(t, uc.Delete(ctx, admin, second.ID))
	assert.ErrorIs(t, uc.Delete(ctx, admin, second.ID), domain.ErrNotFound)
}
