// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	authMw "akademikku_backend/internals/middlewares/auth"

	kkRoute "akademikku_backend/internals/features/akademik/kelompok_kecil/route"
	kkService "akademikku_backend/internals/features/akademik/kelompok_kecil/service"
	pbRoute "akademikku_backend/internals/features/akademik/peta_blok/route"
	pbService "akademikku_backend/internals/features/akademik/peta_blok/service"
	scRoute "akademikku_backend/internals/features/support_center/route"
	scService "akademikku_backend/internals/features/support_center/service"
)

var startTime time.Time

// Services: semua service fitur yang di-mount di bawah /api/bff.
type Services struct {
	PetaBlok      *pbService.Service
	KelompokKecil *kkService.Service
	SupportCenter *scService.Service
}

func SetupRoutes(app *fiber.App, s Services) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app)

	// Semua endpoint BFF butuh token; token diteruskan apa adanya ke upstream
	log.Println("[INFO] Setting up BFF group (/api/bff)...")
	bff := app.Group("/api/bff", authMw.ForwardToken(true))

	log.Println("[INFO] Mounting Peta Blok routes...")
	pbRoute.PetaBlokRoutes(bff, s.PetaBlok)

	log.Println("[INFO] Mounting Kelompok Kecil routes...")
	kkRoute.KelompokKecilRoutes(bff, s.KelompokKecil)

	log.Println("[INFO] Mounting Support Center routes...")
	scRoute.SupportCenterRoutes(bff, s.SupportCenter)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route tidak ditemukan",
		})
	})
}
