package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/identity"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID  = "user_id"
	LocalSession = "session"
)

// ProfileResolver lo implementa *identity.Resolver.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID string) identity.ProfileState
}

// AuthMiddleware valida el Bearer Token JWT y resuelve el perfil en cada petición.
// Perfil ausente -> 403 NOT_PROVISIONED; fallo al leerlo -> 503 PROFILE_UNAVAILABLE.
func AuthMiddleware(jwtSecret string, resolver ProfileResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)

		state := resolver.Resolve(c.UserContext(), userID)
		switch state.Status {
		case identity.StatusUnknown:
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PROFILE_UNAVAILABLE", Message: "no se pudo cargar el perfil, intente de nuevo"})
		case identity.StatusAbsent:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NOT_PROVISIONED", Message: "usuario sin perfil asignado"})
		}
		sess, err := state.Session(userID)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// RequireAdmin permite el paso sólo a sesiones admin. Debe usarse DESPUÉS de AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := sessionFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no encontrada"})
		}
		if !sess.Capability.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sólo administradores"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetSession devuelve la sesión resuelta (zero value si no hay).
func GetSession(c *fiber.Ctx) access.Session {
	sess, _ := sessionFrom(c)
	return sess
}

func sessionFrom(c *fiber.Ctx) (access.Session, bool) {
	sess, ok := c.Locals(LocalSession).(access.Session)
	return sess, ok
}
