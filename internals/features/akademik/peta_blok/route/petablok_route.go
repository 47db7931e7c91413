// file: internals/features/akademik/peta_blok/route/petablok_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	ctrl "akademikku_backend/internals/features/akademik/peta_blok/controller"
	svc "akademikku_backend/internals/features/akademik/peta_blok/service"
)

// PetaBlokRoutes mendaftarkan route peta blok di bawah group BFF (token wajib)
func PetaBlokRoutes(r fiber.Router, s *svc.Service) {
	h := ctrl.New(s)

	g := r.Group("/peta-blok")
	g.Get("/", h.Get)
	g.Get("/slots", h.Slots)
	g.Get("/export.xlsx", h.ExportExcel)
	g.Get("/export.html", h.ExportHTML)
}
