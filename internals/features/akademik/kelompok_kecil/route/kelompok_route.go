// file: internals/features/akademik/kelompok_kecil/route/kelompok_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"akademikku_backend/internals/middlewares"

	ctrl "akademikku_backend/internals/features/akademik/kelompok_kecil/controller"
	svc "akademikku_backend/internals/features/akademik/kelompok_kecil/service"
)

func KelompokKecilRoutes(r fiber.Router, s *svc.Service) {
	h := ctrl.New(s)

	g := r.Group("/kelompok-kecil/:semester")
	g.Get("/", h.Get)
	g.Post("/reload", h.Reload)
	g.Post("/select", h.Select)
	g.Post("/deselect", h.Deselect)
	g.Post("/generate", h.Generate)
	g.Post("/move", h.Move)
	g.Get("/diff", h.Diff)
	g.Post("/save", h.Save)
	g.Delete("/draft", h.Discard)

	g.Post("/import", middlewares.UploadRateLimiter(), h.Import)
	g.Post("/import/:id/auto-fix", h.AutoFix)
	g.Post("/import/:id/submit", h.SubmitImport)
	g.Get("/export.xlsx", h.Export)
	g.Put("/veterans", h.UpdateVeterans)
}
