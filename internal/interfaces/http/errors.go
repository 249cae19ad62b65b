package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/pkg/metrics"
)

// errorMapping estado HTTP y código para los sentinels de dominio. El orden importa: se usa el primero que hace match.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrRefreshTokenInvalid, fiber.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInactiveUser, fiber.StatusForbidden, "INACTIVE_USER"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// ErrorHandler traduce los errores devueltos por los handlers a dto.ErrorResponse.
// m puede ser nil (tests).
func ErrorHandler(log zerolog.Logger, m *metrics.Collector) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		switch {
		case body.Code == "HIERARCHY_INTEGRITY":
			log.Error().Err(err).Str("path", c.Path()).Msg("jerarquía de categorías corrupta")
			if m != nil {
				m.IntegrityFault()
			}
		case status >= fiber.StatusInternalServerError:
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}
		if rule, ok := domain.RuleOf(err); ok && m != nil {
			m.RuleRejected(rule)
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		verr     *validationError
		rv       *domain.RuleViolation
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error(), Errors: verr.Fields}
	case errors.As(err, &rv):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: rv.Rule, Message: rv.Message}
	case errors.Is(err, domain.ErrHierarchyIntegrity):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "HIERARCHY_INTEGRITY", Message: domain.ErrHierarchyIntegrity.Error()}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorResponse{Code: fiberCode(fiberErr.Code), Message: fiberErr.Message}
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()}
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "INVALID_BODY"
	case fiber.StatusNotFound:
		return "ROUTE_NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}
