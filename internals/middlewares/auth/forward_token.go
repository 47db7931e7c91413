// internals/middlewares/auth/forward_token.go
package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "akademikku_backend/internals/helpers"
	helperAuth "akademikku_backend/internals/helpers/auth"
)

// ForwardToken menyimpan token bearer (untuk diteruskan ke upstream) dan klaimnya di Locals.
// BFF tidak memverifikasi signature; upstream yang memutuskan 401/403.
// required=true → 401 bila token tidak ada.
func ForwardToken(required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.BearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			raw = c.Cookies("access_token")
		}
		if raw == "" {
			if required {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - No token provided")
			}
			return c.Next()
		}
		helper.SetRawAccessToken(c, raw)

		if cl, err := helperAuth.ParseUnverified(raw); err == nil {
			c.Locals(helperAuth.LocClaims, cl)
		} else {
			log.Printf("[AUTH] token bukan JWT / klaim tidak terbaca: %v", err)
		}
		return c.Next()
	}
}
