// Package identity resuelve el perfil (rol + empresa) de un principal autenticado.
package identity

import (
	"context"

	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

// Status estado de la resolución del perfil.
type Status int

const (
	// StatusUnknown la consulta falló: no se sabe si hay perfil. Nunca equivale a "denegado".
	StatusUnknown Status = iota
	// StatusAbsent autenticado pero no aprovisionado.
	StatusAbsent
	// StatusPresent perfil válido con capacidad.
	StatusPresent
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusPresent:
		return "present"
	default:
		return "unknown"
	}
}

// ProfileState resultado de Resolve.
type ProfileState struct {
	Status     Status
	Profile    *entity.UserProfile
	Capability access.Capability
	Err        error // sólo con StatusUnknown
}

// Session convierte el estado en una sesión utilizable por los casos de uso.
func (s ProfileState) Session(userID string) (access.Session, error) {
	switch s.Status {
	case StatusPresent:
		return access.Session{UserID: userID, Capability: s.Capability}, nil
	case StatusAbsent:
		return access.Session{}, domain.ErrNotProvisioned
	}
	return access.Session{}, domain.ErrBackendUnavailable
}

// Resolver consulta el perfil en cada llamada; no guarda caché.
type Resolver struct {
	profiles repository.ProfileRepository
	log      *logger.Logger
}

// NewResolver construye el resolver.
func NewResolver(profiles repository.ProfileRepository, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{profiles: profiles, log: log}
}

// Resolve obtiene exactamente un perfil para userID.
func (r *Resolver) Resolve(ctx context.Context, userID string) ProfileState {
	if userID == "" {
		return ProfileState{Status: StatusAbsent}
	}
	profile, err := r.profiles.GetByUserID(ctx, userID)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("resolver perfil")
		return ProfileState{Status: StatusUnknown, Err: err}
	}
	if profile == nil {
		return ProfileState{Status: StatusAbsent}
	}
	capability, err := access.FromProfile(profile)
	if err != nil {
		r.log.Warn().Str("user_id", userID).Str("role", profile.Role).Msg("perfil inválido, se trata como no aprovisionado")
		return ProfileState{Status: StatusAbsent, Profile: profile}
	}
	return ProfileState{Status: StatusPresent, Profile: profile, Capability: capability}
}
