package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/inventory"
)

// InventoryHandler rocas, duplicados y movimientos de stock (protegido).
type InventoryHandler struct {
	rocks     *inventory.RockUseCase
	movements *inventory.MovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(rocks *inventory.RockUseCase, movements *inventory.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{rocks: rocks, movements: movements}
}

// RegisterRock godoc
// @Summary      Registrar roca con entrada inicial opcional
// @Description  JSON o multipart/form-data (campo "photo"). Nombre repetido en la empresa: 409 DUPLICATE_ITEM salvo use_existing_id.
// @Tags         rocks
// @Security     Bearer
// @Accept       json,mpfd
// @Produce      json
// @Param        body  body  dto.RegisterRockRequest  true  "company_id (admin), name, type, finish, initial_quantity"
// @Success      201   {object}  dto.RegisterRockResponse
// @Success      200   {object}  dto.RegisterRockResponse  "entrada sobre roca existente"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/rocks [post]
func (h *InventoryHandler) RegisterRock(c *fiber.Ctx) error {
	var in dto.RegisterRockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := inventory.RegisterRockInput{
		CompanyID:       in.CompanyID,
		Name:            in.Name,
		Type:            in.Type,
		Finish:          in.Finish,
		InitialQuantity: string(in.InitialQuantity),
		UseExistingID:   in.UseExistingID,
	}
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		if fh, err := c.FormFile("photo"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return badBody(c)
			}
			defer f.Close()
			input.Photo = &inventory.PhotoUpload{
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Body:        f,
			}
		}
	}
	out, err := h.rocks.RegisterRock(c.UserContext(), GetSession(c), input)
	if err != nil {
		return writeError(c, err)
	}
	if !out.Created {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Duplicates godoc
// @Summary      Buscar rocas duplicadas por nombre normalizado
// @Tags         rocks
// @Security     Bearer
// @Produce      json
// @Param        name        query  string  true   "Nombre"
// @Param        type        query  string  false  "Tipo"
// @Param        finish      query  string  false  "Acabado"
// @Param        company_id  query  string  false  "Empresa (admin)"
// @Success      200  {object}  dto.DuplicateCheckResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/rocks/duplicates [get]
func (h *InventoryHandler) Duplicates(c *fiber.Ctx) error {
	out, err := h.rocks.CheckDuplicates(c.UserContext(), GetSession(c), inventory.DuplicateQuery{
		CompanyID: c.Query("company_id"),
		Name:      c.Query("name"),
		Type:      c.Query("type"),
		Finish:    c.Query("finish"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetRock godoc
// @Summary      Obtener roca
// @Tags         rocks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Rock ID"
// @Success      200  {object}  dto.RockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rocks/{id} [get]
func (h *InventoryHandler) GetRock(c *fiber.Ctx) error {
	out, err := h.rocks.GetRock(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteRock godoc
// @Summary      Eliminar roca con su saldo y kardex (admin)
// @Tags         rocks
// @Security     Bearer
// @Param        id   path  string  true  "Rock ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rocks/{id} [delete]
func (h *InventoryHandler) DeleteRock(c *fiber.Ctx) error {
	if err := h.rocks.DeleteRock(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordMovement godoc
// @Summary      Registrar entrada o salida de stock
// @Tags         rocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Rock ID"
// @Param        body  body  dto.RecordMovementRequest  true  "kind (entrada|saida), quantity, note"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/rocks/{id}/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.movements.RecordMovementFromRequest(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Kardex de una roca (más reciente primero)
// @Tags         rocks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Rock ID"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/rocks/{id}/movements [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	out, err := h.movements.History(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
