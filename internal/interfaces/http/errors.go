package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trade-ledger/internal/application/dto"
	"github.com/jhoicas/trade-ledger/internal/domain"
)

// writeError traduce errores de dominio a respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
	case errors.Is(err, domain.ErrDivisionByZero):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "DIVISION_BY_ZERO", Message: err.Error()})
	case errors.Is(err, domain.ErrConsistencyViolation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONSISTENCY_VIOLATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
