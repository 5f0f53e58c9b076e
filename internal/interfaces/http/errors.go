package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/domain"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// Orden relevante: el primer errors.Is que coincide gana.
var errorMappings = []errorMapping{
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY", "la cantidad debe ser un número positivo con hasta 4 decimales"},
	{domain.ErrInsufficientBalance, fiber.StatusConflict, "INSUFFICIENT_BALANCE", "saldo insuficiente para la salida"},
	{domain.ErrDuplicateItem, fiber.StatusConflict, "DUPLICATE_ITEM", "ya existe una roca con ese nombre en la empresa"},
	{domain.ErrTransactionRetryExceeded, fiber.StatusServiceUnavailable, "TX_RETRY_EXCEEDED", "demasiada contención, intente de nuevo"},
	{domain.ErrBackendUnavailable, fiber.StatusServiceUnavailable, "BACKEND_UNAVAILABLE", "almacén no disponible, intente de nuevo"},
	{domain.ErrPartialWrite, fiber.StatusInternalServerError, "PARTIAL_WRITE", "saldo y kardex inconsistentes"},
	{domain.ErrNotProvisioned, fiber.StatusForbidden, "NOT_PROVISIONED", "usuario sin perfil asignado"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND", "usuario no encontrado"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado al recurso"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "recurso duplicado"},
}

// writeError traduce un error de dominio a status + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
