package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/identity"
	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/pkg/jwt"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login y aprovisionamiento de usuarios.
type AuthUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Registry
	resolver *identity.Resolver
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(txRunner ports.TxRunner, repos repository.Registry, resolver *identity.Resolver, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{txRunner: txRunner, repos: repos, resolver: resolver, jwtCfg: jwtCfg, log: log}
}

// Login verifica email/password y exige perfil: un principal sin perfil no recibe token.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.repos.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	state := uc.resolver.Resolve(ctx, user.ID)
	if _, err := state.Session(user.ID); err != nil {
		uc.log.Warn().Str("user_id", user.ID).Str("status", state.Status.String()).Msg("login sin perfil utilizable")
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		Profile: toProfileResponse(user, state.Profile),
	}, nil
}

// Me perfil del usuario de la sesión.
func (uc *AuthUseCase) Me(ctx context.Context, sess access.Session) (*dto.ProfileResponse, error) {
	user, err := uc.repos.Users().GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	profile, err := uc.repos.Profiles().GetByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	if profile == nil {
		return nil, domain.ErrNotProvisioned
	}
	resp := toProfileResponse(user, profile)
	return &resp, nil
}

// ProvisionUser (sólo admin) crea credenciales + perfil en una transacción.
func (uc *AuthUseCase) ProvisionUser(ctx context.Context, sess access.Session, in dto.ProvisionUserRequest) (*dto.UserResponse, error) {
	if !sess.Capability.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	var user *entity.User
	var profile *entity.UserProfile
	err := uc.txRunner.Run(ctx, func(tx repository.Registry) error {
		var err error
		user, profile, err = CreateAccount(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, ports.StoreError(err)
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", profile.Role).Str("company_id", profile.CompanyID).
		Str("actor_id", sess.UserID).Msg("usuario aprovisionado")
	return ToUserResponse(user, profile), nil
}

// CreateAccount valida y persiste usuario + perfil con los repos de tx. Lo reutiliza el
// alta de empresa con cuenta propietaria y la CLI.
func CreateAccount(ctx context.Context, tx repository.Registry, in dto.ProvisionUserRequest) (*entity.User, *entity.UserProfile, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") || len(in.Password) < MinPasswordLength {
		return nil, nil, domain.ErrInvalidInput
	}
	profile := &entity.UserProfile{Role: in.Role}
	switch in.Role {
	case entity.RoleAdmin:
	case entity.RoleEmpresa:
		if in.CompanyID == "" {
			return nil, nil, domain.ErrInvalidInput
		}
		company, err := tx.Companies().GetByID(ctx, in.CompanyID)
		if err != nil {
			return nil, nil, err
		}
		if company == nil {
			return nil, nil, domain.ErrNotFound
		}
		profile.CompanyID = in.CompanyID
	default:
		return nil, nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now().UTC()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       "active",
		CreatedAt:    now,
	}
	if err := tx.Users().Create(ctx, user); err != nil {
		return nil, nil, err
	}
	profile.UserID = user.ID
	profile.CreatedAt = now
	if err := tx.Profiles().Create(ctx, profile); err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toProfileResponse(u *entity.User, p *entity.UserProfile) dto.ProfileResponse {
	resp := dto.ProfileResponse{UserID: u.ID, Email: u.Email, Name: u.Name}
	if p != nil {
		resp.Role = p.Role
		resp.CompanyID = p.CompanyID
	}
	return resp
}

// ToUserResponse mapea usuario + perfil.
func ToUserResponse(u *entity.User, p *entity.UserProfile) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      p.Role,
		CompanyID: p.CompanyID,
		CreatedAt: u.CreatedAt,
	}
}
