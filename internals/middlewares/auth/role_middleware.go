package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"akademikku_backend/internals/constants"
	helper "akademikku_backend/internals/helpers"
	helperAuth "akademikku_backend/internals/helpers/auth"
)

// OnlyRoles validasi role dari klaim token + custom error message
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	msg := customMessage
	if msg == "" {
		msg = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		cl := helperAuth.ClaimsFromCtx(c)
		for _, r := range roles {
			if cl.HasRole(r) {
				return c.Next()
			}
		}
		log.Printf("[AUTH] role ditolak: role=%q roles=%v", cl.Role, cl.Roles)
		return helper.JsonError(c, fiber.StatusForbidden, msg)
	}
}

func OnlySuperAdmin() fiber.Handler {
	return OnlyRoles(constants.RoleErrorSuperAdmin("data ini"), constants.SuperAdminOnly...)
}
