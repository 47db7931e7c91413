// internals/helpers/auth/claims.go
package helper

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"akademikku_backend/internals/constants"
	helpers "akademikku_backend/internals/helpers"
)

const LocClaims = "token_claims"

// Claims: subset klaim token yang dipakai BFF untuk gating tampilan.
// Token TIDAK diverifikasi di sini; upstream tetap yang memutuskan akses.
type Claims struct {
	UserID string
	Name   string
	Email  string
	Role   string
	Roles  []string
}

// ParseUnverified membaca klaim JWT tanpa verifikasi signature.
func ParseUnverified(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, fmt.Errorf("token kosong")
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mc); err != nil {
		return Claims{}, err
	}

	cl := Claims{
		UserID: firstString(mc, "id", "user_id", "sub"),
		Name:   firstString(mc, "name", "user_name"),
		Email:  firstString(mc, "email"),
		Role:   strings.ToLower(firstString(mc, "role")),
	}
	switch v := mc["roles"].(type) {
	case []any:
		for _, r := range v {
			if s, ok := r.(string); ok && strings.TrimSpace(s) != "" {
				cl.Roles = append(cl.Roles, strings.ToLower(strings.TrimSpace(s)))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cl.Roles = append(cl.Roles, strings.ToLower(s))
			}
		}
	}
	return cl, nil
}

func firstString(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := mc[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

func (c Claims) HasRole(role string) bool {
	role = normalizeRole(role)
	if normalizeRole(c.Role) == role {
		return true
	}
	for _, r := range c.Roles {
		if normalizeRole(r) == role {
			return true
		}
	}
	return false
}

func (c Claims) IsSuperAdmin() bool { return c.HasRole(constants.RoleSuperAdmin) }

func normalizeRole(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	if s == "superadmin" {
		return constants.RoleSuperAdmin
	}
	return s
}

// ClaimsFromCtx mengambil klaim yang sudah diset middleware (zero value jika tidak ada).
func ClaimsFromCtx(c *fiber.Ctx) Claims {
	if cl, ok := c.Locals(LocClaims).(Claims); ok {
		return cl
	}
	return Claims{}
}

// OwnerKeyFromCtx: kunci pemilik draft, diturunkan dari hash token mentah.
// Klaim id tidak dipakai karena belum diverifikasi; "" bila tanpa token.
func OwnerKeyFromCtx(c *fiber.Ctx) string {
	return OwnerKey(helpers.GetRawAccessToken(c))
}

func OwnerKey(rawToken string) string {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(rawToken))
	return "tok:" + hex.EncodeToString(sum[:])
}

// RequireSuperAdmin → 403 bila token bukan super admin.
func RequireSuperAdmin(c *fiber.Ctx) error {
	if !ClaimsFromCtx(c).IsSuperAdmin() {
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorSuperAdmin("semua tiket"))
	}
	return nil
}
