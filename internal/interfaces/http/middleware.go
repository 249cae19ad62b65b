package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/pkg/jwt"
	"github.com/jhoicas/erp-api/pkg/metrics"
)

// Locals keys con los claims del token en Fiber.
const (
	LocalUserID    = "user_id"
	LocalUsername  = "username"
	LocalRole      = "role"
	LocalTokenID   = "jti"
	LocalExpiresAt = "token_exp"
)

// RevocationChecker consulta la blacklist de access tokens (lo implementa auth.AuthUseCase).
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware valida el Bearer Token JWT, rechaza tokens revocados y carga los claims en c.Locals.
// revoked puede ser nil.
func AuthMiddleware(jwtSecret string, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vacío")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "TOKEN_CHECK_FAILED", Message: "no se pudo verificar el token, intente más tarde"})
			}
			if isRevoked {
				return unauthorized(c, "TOKEN_REVOKED", "la sesión fue cerrada")
			}
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals(LocalExpiresAt, claims.ExpiresAt.Time)
		}
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados (sin distinguir mayúsculas). Va DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return unauthorized(c, "MISSING_ROLE", "el token no incluye rol")
		}
		for _, r := range roles {
			if strings.EqualFold(r, role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene acceso a este recurso"})
	}
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetUsername devuelve el username del token.
func GetUsername(c *fiber.Ctx) string { return localString(c, LocalUsername) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetTokenID devuelve el jti del token.
func GetTokenID(c *fiber.Ctx) string { return localString(c, LocalTokenID) }

// GetTokenExpiry vencimiento del access token; cero si no hay.
func GetTokenExpiry(c *fiber.Ctx) time.Time {
	t, _ := c.Locals(LocalExpiresAt).(time.Time)
	return t
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// RequestLogger registra cada petición con zerolog (método, ruta, estado, latencia, ip).
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// el ErrorHandler todavía no escribió la respuesta
			status, _ = mapError(err)
		}
		event := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error()
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}

// Metrics cuenta peticiones y latencia por patrón de ruta.
func Metrics(m *metrics.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = mapError(err)
		}
		m.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
