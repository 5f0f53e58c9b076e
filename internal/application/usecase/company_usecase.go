package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rochas-api/internal/application/auth"
	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	txRunner ports.TxRunner
	repos    repository.Registry
	log      *logger.Logger
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(txRunner ports.TxRunner, repos repository.Registry, log *logger.Logger) *CompanyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CompanyUseCase{txRunner: txRunner, repos: repos, log: log}
}

// Create (sólo admin) crea una empresa y, si viene OwnerEmail, su cuenta "empresa"
// en la misma transacción.
func (uc *CompanyUseCase) Create(ctx context.Context, sess access.Session, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if !sess.Capability.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: time.Now().UTC(),
	}
	var owner *dto.UserResponse
	err := uc.txRunner.Run(ctx, func(tx repository.Registry) error {
		if err := tx.Companies().Create(ctx, company); err != nil {
			return err
		}
		if strings.TrimSpace(in.OwnerEmail) == "" {
			return nil
		}
		user, profile, err := auth.CreateAccount(ctx, tx, dto.ProvisionUserRequest{
			Email:     in.OwnerEmail,
			Password:  in.OwnerPassword,
			Name:      name,
			Role:      entity.RoleEmpresa,
			CompanyID: company.ID,
		})
		if err != nil {
			return err
		}
		owner = auth.ToUserResponse(user, profile)
		return nil
	})
	if err != nil {
		return nil, ports.StoreError(err)
	}
	uc.log.Info().Str("company_id", company.ID).Bool("with_owner", owner != nil).Str("actor_id", sess.UserID).Msg("empresa creada")
	resp := entityToCompanyResponse(company)
	resp.Owner = owner
	return resp, nil
}

// GetByID obtiene una empresa visible para la sesión.
func (uc *CompanyUseCase) GetByID(ctx context.Context, sess access.Session, id string) (*dto.CompanyResponse, error) {
	if !sess.Capability.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repos.Companies().GetByID(ctx, id)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// List admin ve todas las empresas; una sesión empresa sólo la propia.
func (uc *CompanyUseCase) List(ctx context.Context, sess access.Session) ([]dto.CompanyResponse, error) {
	if sess.Capability.IsZero() {
		return nil, domain.ErrForbidden
	}
	if !sess.Capability.IsAdmin() {
		c, err := uc.GetByID(ctx, sess, sess.Capability.CompanyID())
		if err != nil {
			return nil, err
		}
		return []dto.CompanyResponse{*c}, nil
	}
	list, err := uc.repos.Companies().List(ctx)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return items, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}
