package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rochas-api/internal/application/inventory"
)

// StockHandler listados de stock, catálogo público, informe PDF y conciliación.
type StockHandler struct {
	queries    *inventory.StockQueryUseCase
	reconciler *inventory.Reconciler
}

// NewStockHandler construye el handler.
func NewStockHandler(queries *inventory.StockQueryUseCase, reconciler *inventory.Reconciler) *StockHandler {
	return &StockHandler{queries: queries, reconciler: reconciler}
}

// List godoc
// @Summary      Stock por roca con saldo actual
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Filtrar por empresa (admin)"
// @Success      200  {array}   dto.StockItemResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.queries.ListStock(c.UserContext(), GetSession(c), c.Query("company_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Informe PDF del stock
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        company_id  query  string  false  "Filtrar por empresa (admin)"
// @Success      200  {file}  binary
// @Router       /api/stock/report.pdf [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.queries.StockReportPDF(c.UserContext(), GetSession(c), c.Query("company_id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="estoque.pdf"`)
	return c.Send(pdf)
}

// Catalog godoc
// @Summary      Catálogo público de rocas
// @Tags         catalog
// @Produce      json
// @Param        q  query  string  false  "Buscar por nombre, tipo o empresa"
// @Success      200  {array}   dto.CatalogItemResponse
// @Router       /api/catalog [get]
func (h *StockHandler) Catalog(c *fiber.Ctx) error {
	out, err := h.queries.Catalog(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar saldos con el kardex (admin)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        repair  query  bool  false  "Corregir saldos divergentes"
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/admin/reconcile [post]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.reconciler.ReconcileAll(c.UserContext(), c.QueryBool("repair", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
