package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
)

const internalMessage = "error interno del servidor"

// statusFor traduce el código de dominio a un status HTTP.
func statusFor(kind string) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindDuplicate, domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError escribe el ErrorResponse del error de dominio. Los errores internos se registran
// con su causa y el cliente solo recibe un mensaje genérico.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.Kind(err)
	status := statusFor(kind)
	body := dto.ErrorResponse{Code: kind, Message: err.Error()}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
		body.Message = ve.Message
	}
	if status == fiber.StatusInternalServerError {
		ev := log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path())
		var ie *domain.InternalError
		if errors.As(err, &ie) && ie.Err != nil {
			ev = ev.AnErr("cause", ie.Err)
		}
		ev.Msg("error interno")
		body.Message = internalMessage
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler manejador global de Fiber para errores que no pasan por respondError
// (rutas inexistentes, método no permitido, pánicos recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = domain.KindNotFound
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}
