package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrMovementNotFound, fiber.StatusNotFound, "MOVEMENT_NOT_FOUND"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidMovementKind, fiber.StatusBadRequest, "INVALID_MOVEMENT_KIND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicateProductCode, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrProductHasMovements, fiber.StatusConflict, "PRODUCT_HAS_MOVEMENTS"},
}

// localInternalErr guarda el error de un 500 para que RequestLogger lo registre.
const localInternalErr = "internal_error"

// writeError traduce errores de dominio a status HTTP; el resto es 500 con mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.target.Error()})
		}
	}
	c.Locals(localInternalErr, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
