// Package access resuelve qué puede hacer un principal a partir de su perfil.
//
// Todo control de rol pasa por Capability: no se compara Role contra literales en
// los casos de uso ni en los handlers.
package access

import (
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
)

// Kind conjunto cerrado de capacidades.
type Kind int

const (
	KindNone Kind = iota
	KindAdmin
	KindCompany
)

func (k Kind) String() string {
	switch k {
	case KindAdmin:
		return entity.RoleAdmin
	case KindCompany:
		return entity.RoleEmpresa
	default:
		return "none"
	}
}

// Capability es Admin o CompanyScoped(companyID). El valor cero no concede nada.
type Capability struct {
	kind      Kind
	companyID string
}

// Admin capacidad de acceso total.
func Admin() Capability { return Capability{kind: KindAdmin} }

// CompanyScoped capacidad limitada a una empresa.
func CompanyScoped(companyID string) Capability {
	return Capability{kind: KindCompany, companyID: companyID}
}

// FromProfile es la única función que interpreta UserProfile.Role.
// Perfil nil, rol desconocido o empresa sin companyID -> ErrNotProvisioned.
func FromProfile(p *entity.UserProfile) (Capability, error) {
	if p == nil {
		return Capability{}, domain.ErrNotProvisioned
	}
	switch p.Role {
	case entity.RoleAdmin:
		return Admin(), nil
	case entity.RoleEmpresa:
		if p.CompanyID == "" {
			return Capability{}, domain.ErrNotProvisioned
		}
		return CompanyScoped(p.CompanyID), nil
	}
	return Capability{}, domain.ErrNotProvisioned
}

func (c Capability) Kind() Kind        { return c.kind }
func (c Capability) IsAdmin() bool     { return c.kind == KindAdmin }
func (c Capability) IsZero() bool      { return c.kind == KindNone }
func (c Capability) CompanyID() string { return c.companyID }

// CanAccess informa si la capacidad puede operar sobre recursos de companyID.
func (c Capability) CanAccess(companyID string) bool {
	switch c.kind {
	case KindAdmin:
		return true
	case KindCompany:
		return companyID != "" && companyID == c.companyID
	}
	return false
}

// EffectiveCompany resuelve la empresa sobre la que se opera.
// Admin debe indicarla; empresa usa siempre la propia y no puede pedir otra.
func (c Capability) EffectiveCompany(requested string) (string, error) {
	switch c.kind {
	case KindAdmin:
		if requested == "" {
			return "", domain.ErrInvalidInput
		}
		return requested, nil
	case KindCompany:
		if requested != "" && requested != c.companyID {
			return "", domain.ErrForbidden
		}
		return c.companyID, nil
	}
	return "", domain.ErrForbidden
}

// ListScope empresa a filtrar en listados: admin usa el filtro pedido ("" = todas),
// empresa siempre la propia.
func (c Capability) ListScope(filter string) (string, error) {
	switch c.kind {
	case KindAdmin:
		return filter, nil
	case KindCompany:
		if filter != "" && filter != c.companyID {
			return "", domain.ErrForbidden
		}
		return c.companyID, nil
	}
	return "", domain.ErrForbidden
}

// Session principal autenticado y su capacidad, pasado explícitamente a cada caso de uso.
type Session struct {
	UserID     string
	Capability Capability
}
