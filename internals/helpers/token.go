package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Simpan raw JWT di Locals dari middleware supaya bisa diteruskan ke upstream
const LocRawToken = "raw_token"

// GetRawAccessToken mengembalikan access token dari:
// 1) Locals("raw_token") yang diset middleware
// 2) Authorization header "Bearer <token>"
// 3) cookie "access_token"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v := BearerFromHeader(c.Get(fiber.HeaderAuthorization)); v != "" {
		return v
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

// BearerFromHeader memotong prefix "Bearer " (case-insensitive).
func BearerFromHeader(auth string) string {
	auth = strings.TrimSpace(auth)
	const p = "bearer "
	if len(auth) > len(p) && strings.EqualFold(auth[:len(p)], p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
