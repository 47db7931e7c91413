// file: internals/features/support_center/route/support_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"akademikku_backend/internals/middlewares"
	authMw "akademikku_backend/internals/middlewares/auth"

	ctrl "akademikku_backend/internals/features/support_center/controller"
	svc "akademikku_backend/internals/features/support_center/service"
)

func SupportCenterRoutes(r fiber.Router, s *svc.Service) {
	h := ctrl.New(s)
	upload := middlewares.UploadRateLimiter()

	g := r.Group("/support-center")
	g.Get("/view/:tab", h.View)

	g.Get("/developers", h.ListDevelopers)
	g.Post("/developers", h.CreateDeveloper)
	g.Put("/developers/:id", h.UpdateDeveloper)
	g.Delete("/developers/:id", h.DeleteDeveloper)

	g.Post("/bug-reports", upload, h.SubmitBugReport)
	g.Post("/feature-requests", upload, h.SubmitFeatureRequest)
	g.Post("/contacts", upload, h.SubmitContact)

	g.Get("/tickets/my", h.MyTickets)
	g.Get("/tickets/all", authMw.OnlySuperAdmin(), h.AllTickets)
	g.Patch("/tickets/:id/status", h.UpdateTicketStatus)

	g.Get("/metrics", h.Metrics)

	g.Get("/knowledge", h.ListKnowledge)
	g.Post("/knowledge", upload, h.CreateKnowledge)
	g.Get("/knowledge/:id", h.GetKnowledge)
	g.Put("/knowledge/:id", upload, h.UpdateKnowledge)
	g.Delete("/knowledge/:id", h.DeleteKnowledge)
}
