package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
)

func TestFromProfile(t *testing.T) {
	c, err := access.FromProfile(&entity.UserProfile{UserID: "u1", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, c.IsAdmin())

	c, err = access.FromProfile(&entity.UserProfile{UserID: "u2", Role: entity.RoleEmpresa, CompanyID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, access.KindCompany, c.Kind())
	assert.Equal(t, "c1", c.CompanyID())

	_, err = access.FromProfile(nil)
	assert.ErrorIs(t, err, domain.ErrNotProvisioned)

	_, err = access.FromProfile(&entity.UserProfile{UserID: "u3", Role: entity.RoleEmpresa})
	assert.ErrorIs(t, err, domain.ErrNotProvisioned, "empresa sin companyID no es un perfil válido")

	_, err = access.FromProfile(&entity.UserProfile{UserID: "u4", Role: "vendedor"})
	assert.ErrorIs(t, err, domain.ErrNotProvisioned)
}

func TestCanAccess(t *testing.T) {
	assert.True(t, access.Admin().CanAccess("cualquiera"))
	assert.True(t, access.CompanyScoped("c1").CanAccess("c1"))
	assert.False(t, access.CompanyScoped("c1").CanAccess("c2"))
	assert.False(t, access.CompanyScoped("c1").CanAccess(""))
	assert.False(t, access.Capability{}.CanAccess("c1"), "el valor cero no concede nada")
}

func TestEffectiveCompany(t *testing.T) {
	id, err := access.Admin().EffectiveCompany("c9")
	require.NoError(t, err)
	assert.Equal(t, "c9", id)

	_, err = access.Admin().EffectiveCompany("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	id, err = access.CompanyScoped("c1").EffectiveCompany("")
	require.NoError(t, err)
	assert.Equal(t, "c1", id)

	_, err = access.CompanyScoped("c1").EffectiveCompany("c2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = access.Capability{}.EffectiveCompany("c1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListScope(t *testing.T) {
	scope, err := access.Admin().ListScope("")
	require.NoError(t, err)
	assert.Empty(t, scope, "admin sin filtro ve todas las empresas")

	scope, err = access.CompanyScoped("c1").ListScope("")
	require.NoError(t, err)
	assert.Equal(t, "c1", scope)

	_, err = access.CompanyScoped("c1").ListScope("c2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
