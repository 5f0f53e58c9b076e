package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/pkg/textnorm"
)

// StockQueryUseCase listados de lectura: stock por empresa, catálogo público e informe PDF.
type StockQueryUseCase struct {
	repos    repository.Registry
	renderer ports.StockReportRenderer
}

// NewStockQueryUseCase construye el caso de uso. renderer puede ser nil (sin informe PDF).
func NewStockQueryUseCase(repos repository.Registry, renderer ports.StockReportRenderer) *StockQueryUseCase {
	return &StockQueryUseCase{repos: repos, renderer: renderer}
}

// ListStock rocas con empresa y saldo actual. Admin puede filtrar por empresa ("" = todas);
// una sesión empresa sólo ve la propia.
func (uc *StockQueryUseCase) ListStock(ctx context.Context, sess access.Session, companyFilter string) ([]dto.StockItemResponse, error) {
	scope, err := sess.Capability.ListScope(companyFilter)
	if err != nil {
		return nil, err
	}
	rocks, err := uc.repos.Rocks().Find(ctx, repository.RockFilter{CompanyID: scope})
	if err != nil {
		return nil, ports.StoreError(err)
	}
	ids := make([]string, len(rocks))
	for i, r := range rocks {
		ids[i] = r.ID
	}
	balances, err := uc.repos.Balances().ListByRocks(ctx, ids)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	names := companyNames{repo: uc.repos.Companies(), cache: map[string]string{}}
	out := make([]dto.StockItemResponse, 0, len(rocks))
	for _, r := range rocks {
		balance := decimal.Zero
		if bal, ok := balances[r.ID]; ok {
			balance = bal.Quantity
		}
		name, err := names.get(ctx, r.CompanyID)
		if err != nil {
			return nil, ports.StoreError(err)
		}
		out = append(out, dto.StockItemResponse{
			RockResponse: toRockResponse(r),
			CompanyName:  name,
			Balance:      balance,
		})
	}
	return out, nil
}

// Catalog catálogo público: todas las rocas con el nombre de su empresa. query filtra por
// subcadena (sin distinguir mayúsculas) sobre nombre, tipo o empresa.
func (uc *StockQueryUseCase) Catalog(ctx context.Context, query string) ([]dto.CatalogItemResponse, error) {
	rocks, err := uc.repos.Rocks().Find(ctx, repository.RockFilter{})
	if err != nil {
		return nil, ports.StoreError(err)
	}
	q := textnorm.Key(query)
	names := companyNames{repo: uc.repos.Companies(), cache: map[string]string{}}
	out := make([]dto.CatalogItemResponse, 0, len(rocks))
	for _, r := range rocks {
		name, err := names.get(ctx, r.CompanyID)
		if err != nil {
			return nil, ports.StoreError(err)
		}
		if q != "" && !matchesCatalog(r, name, q) {
			continue
		}
		out = append(out, dto.CatalogItemResponse{RockResponse: toRockResponse(r), CompanyName: name})
	}
	return out, nil
}

func matchesCatalog(r *entity.Rock, companyName, q string) bool {
	return strings.Contains(r.Name, q) ||
		strings.Contains(r.Type, q) ||
		strings.Contains(strings.ToLower(companyName), q)
}

// StockReportPDF informe PDF del listado de stock visible para la sesión.
func (uc *StockQueryUseCase) StockReportPDF(ctx context.Context, sess access.Session, companyFilter string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, ports.StoreError(errRendererMissing)
	}
	items, err := uc.ListStock(ctx, sess, companyFilter)
	if err != nil {
		return nil, err
	}
	title := "Controle de Estoque"
	if len(items) > 0 && !sess.Capability.IsAdmin() {
		title += " - " + items[0].CompanyName
	}
	return uc.renderer.RenderStockReport(ctx, ports.StockReport{
		Title:       title,
		GeneratedAt: time.Now(),
		Items:       items,
	})
}

// companyNames resuelve nombres de empresa una sola vez por listado.
type companyNames struct {
	repo  repository.CompanyRepository
	cache map[string]string
}

func (c companyNames) get(ctx context.Context, id string) (string, error) {
	if name, ok := c.cache[id]; ok {
		return name, nil
	}
	company, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	name := ""
	if company != nil {
		name = company.Name
	}
	c.cache[id] = name
	return name, nil
}
