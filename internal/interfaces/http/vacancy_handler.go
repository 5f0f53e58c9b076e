package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/usecase"
)

// VacancyHandler vacantes de empleo.
type VacancyHandler struct {
	uc *usecase.VacancyUseCase
}

// NewVacancyHandler construye el handler.
func NewVacancyHandler(uc *usecase.VacancyUseCase) *VacancyHandler {
	return &VacancyHandler{uc: uc}
}

// List godoc
// @Summary      Vacantes activas (público)
// @Tags         vacancies
// @Produce      json
// @Success      200  {array}   dto.VacancyResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/vacancies [get]
func (h *VacancyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Publicar vacante
// @Tags         vacancies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVacancyRequest  true  "title, description, contact_email"
// @Success      201   {object}  dto.VacancyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/vacancies [post]
func (h *VacancyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVacancyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Eliminar vacante
// @Tags         vacancies
// @Security     Bearer
// @Param        id   path  string  true  "Vacancy ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vacancies/{id} [delete]
func (h *VacancyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
