package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

// VacancyUseCase vacantes de empleo: listado público, alta y baja.
type VacancyUseCase struct {
	repos repository.Registry
	log   *logger.Logger
	clock func() time.Time
}

// NewVacancyUseCase construye el caso de uso.
func NewVacancyUseCase(repos repository.Registry, log *logger.Logger) *VacancyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &VacancyUseCase{repos: repos, log: log, clock: func() time.Time { return time.Now().UTC() }}
}

// ListActive vacantes activas con el nombre de la empresa, la más reciente primero.
func (uc *VacancyUseCase) ListActive(ctx context.Context) ([]dto.VacancyResponse, error) {
	list, err := uc.repos.Vacancies().ListActive(ctx)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	names := map[string]string{}
	out := make([]dto.VacancyResponse, 0, len(list))
	for _, v := range list {
		name, ok := names[v.CompanyID]
		if !ok {
			company, err := uc.repos.Companies().GetByID(ctx, v.CompanyID)
			if err != nil {
				return nil, ports.StoreError(err)
			}
			if company != nil {
				name = company.Name
			}
			names[v.CompanyID] = name
		}
		resp := toVacancyResponse(v)
		resp.CompanyName = name
		out = append(out, resp)
	}
	return out, nil
}

// Create publica una vacante para la empresa efectiva de la sesión.
func (uc *VacancyUseCase) Create(ctx context.Context, sess access.Session, in dto.CreateVacancyRequest) (*dto.VacancyResponse, error) {
	companyID, err := sess.Capability.EffectiveCompany(in.CompanyID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	email := strings.TrimSpace(in.ContactEmail)
	if title == "" || desc == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.repos.Companies().GetByID(ctx, companyID)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	v := &entity.Vacancy{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Title:        title,
		Description:  desc,
		ContactEmail: email,
		Active:       true,
		PublishedAt:  uc.clock(),
	}
	if err := uc.repos.Vacancies().Create(ctx, v); err != nil {
		return nil, ports.StoreError(err)
	}
	uc.log.Info().Str("vacancy_id", v.ID).Str("company_id", companyID).Msg("vacante publicada")
	resp := toVacancyResponse(v)
	resp.CompanyName = company.Name
	return &resp, nil
}

// Delete elimina una vacante: admin cualquiera, empresa sólo las propias.
func (uc *VacancyUseCase) Delete(ctx context.Context, sess access.Session, id string) error {
	v, err := uc.repos.Vacancies().GetByID(ctx, id)
	if err != nil {
		return ports.StoreError(err)
	}
	if v == nil {
		return domain.ErrNotFound
	}
	if !sess.Capability.CanAccess(v.CompanyID) {
		return domain.ErrForbidden
	}
	if err := uc.repos.Vacancies().Delete(ctx, id); err != nil {
		return ports.StoreError(err)
	}
	return nil
}

func toVacancyResponse(v *entity.Vacancy) dto.VacancyResponse {
	return dto.VacancyResponse{
		ID:           v.ID,
		CompanyID:    v.CompanyID,
		Title:        v.Title,
		Description:  v.Description,
		ContactEmail: v.ContactEmail,
		Active:       v.Active,
		PublishedAt:  v.PublishedAt,
	}
}
