// file: internals/features/support_center/controller/support_controller.go
package controller

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "akademikku_backend/internals/helpers"
	helperAuth "akademikku_backend/internals/helpers/auth"
	"akademikku_backend/internals/helpers/imagex"

	d "akademikku_backend/internals/features/support_center/dto"
	m "akademikku_backend/internals/features/support_center/model"
	svc "akademikku_backend/internals/features/support_center/service"
)

type SupportCenterController struct {
	Svc *svc.Service
}

func New(s *svc.Service) *SupportCenterController {
	return &SupportCenterController{Svc: s}
}

/* =========================
   Helpers
   ========================= */

func token(c *fiber.Ctx) string { return helper.GetRawAccessToken(c) }

func paramID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	return helper.Validate.Struct(out)
}

func invalid(c *fiber.Ctx, err error) error {
	if fields := helper.ValidationFields(err); fields != nil {
		return helper.JsonValidationError(c, fields)
	}
	return helper.FromFiberError(c, err)
}

func fail(c *fiber.Ctx, op string, err error) error {
	log.Printf("[SUPPORT] %s gagal: %v", op, err)
	return helper.FromFiberError(c, err)
}

// images membaca lampiran multipart (bila ada) dan mengubahnya ke WebP.
func (ctl *SupportCenterController) images(c *fiber.Ctx, max int) ([]imagex.Converted, error) {
	if !strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Form multipart tidak valid")
	}
	fhs := imagex.CollectImages(form)
	if len(fhs) == 0 {
		return nil, nil
	}
	out, err := imagex.ConvertAll(fhs, max, ctl.Svc.WebP)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Gambar tidak valid: "+err.Error())
	}
	return out, nil
}

// actions: urutan filter dulu, baru per_page lalu page (filter mereset halaman).
func actions(c *fiber.Ctx) []m.Action {
	var acts []m.Action
	for _, p := range []struct {
		key string
		typ m.ActionType
	}{
		{"search", m.ActSearch},
		{"q", m.ActSearch},
		{"status", m.ActStatus},
		{"type", m.ActType},
		{"category", m.ActCategory},
		{"tag", m.ActTag},
	} {
		if v := strings.TrimSpace(c.Query(p.key)); v != "" {
			acts = append(acts, m.Action{Type: p.typ, Value: v})
		}
	}
	pg := helper.ResolvePaging(c, 10, 100)
	acts = append(acts,
		m.Action{Type: m.ActPerPage, Int: pg.PerPage},
		m.Action{Type: m.ActPage, Int: pg.Page},
	)
	return acts
}

/* =========================
   View per tab
   ========================= */

// GET /support-center/view/:tab?search=&status=&type=&category=&tag=&page=&per_page=
func (ctl *SupportCenterController) View(c *fiber.Ctx) error {
	tab, ok := m.ParseTab(c.Params("tab"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Tab tidak dikenal")
	}
	superAdmin := helperAuth.ClaimsFromCtx(c).IsSuperAdmin()
	st, err := ctl.Svc.View(c.UserContext(), token(c), tab, superAdmin, actions(c)...)
	if err != nil {
		return fail(c, "view "+string(tab), err)
	}
	return helper.JsonOK(c, "ok", st)
}

/* =========================
   Developers
   ========================= */

func (ctl *SupportCenterController) ListDevelopers(c *fiber.Ctx) error {
	devs, err := ctl.Svc.ListDevelopers(c.UserContext(), token(c))
	if err != nil {
		return fail(c, "list developers", err)
	}
	st := m.ReduceAll(m.DeveloperState{All: devs}, actions(c)...).(m.DeveloperState)
	return helper.JsonList(c, "ok", st.Items, &st.Pagination)
}

func (ctl *SupportCenterController) CreateDeveloper(c *fiber.Ctx) error {
	var req d.DeveloperRequest
	if err := parseBody(c, &req); err != nil {
		return invalid(c, err)
	}
	dev, err := ctl.Svc.CreateDeveloper(c.UserContext(), token(c), req)
	if err != nil {
		return fail(c, "create developer", err)
	}
	return helper.JsonCreated(c, "Developer ditambahkan", dev)
}

func (ctl *SupportCenterController) UpdateDeveloper(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req d.DeveloperRequest
	if err := parseBody(c, &req); err != nil {
		return invalid(c, err)
	}
	dev, err := ctl.Svc.UpdateDeveloper(c.UserContext(), token(c), id, req)
	if err != nil {
		return fail(c, "update developer", err)
	}
	return helper.JsonUpdated(c, "Developer diperbarui", dev)
}

func (ctl *SupportCenterController) DeleteDeveloper(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.DeleteDeveloper(c.UserContext(), token(c), id); err != nil {
		return fail(c, "delete developer", err)
	}
	return helper.JsonDeleted(c, "Developer dihapus", fiber.Map{"id": id})
}

/* =========================
   Submit tiket
   ========================= */

type fieldsForm interface{ Fields() map[string]string }

func (ctl *SupportCenterController) submit(c *fiber.Ctx, typ m.TicketType, req fieldsForm, msg string) error {
	if err := parseBody(c, req); err != nil {
		return invalid(c, err)
	}
	imgs, err := ctl.images(c, svc.MaxTicketImages)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	t, err := ctl.Svc.Submit(c.UserContext(), token(c), typ, req.Fields(), imgs)
	if err != nil {
		return fail(c, "submit "+string(typ), err)
	}
	return helper.JsonCreated(c, msg, t)
}

// POST /support-center/bug-reports
func (ctl *SupportCenterController) SubmitBugReport(c *fiber.Ctx) error {
	return ctl.submit(c, m.TicketBug, &d.BugReportRequest{}, "Laporan bug terkirim")
}

// POST /support-center/feature-requests
func (ctl *SupportCenterController) SubmitFeatureRequest(c *fiber.Ctx) error {
	return ctl.submit(c, m.TicketFeature, &d.FeatureRequestRequest{}, "Permintaan fitur terkirim")
}

// POST /support-center/contacts
func (ctl *SupportCenterController) SubmitContact(c *fiber.Ctx) error {
	return ctl.submit(c, m.TicketContact, &d.ContactRequest{}, "Pesan terkirim")
}

/* =========================
   Tiket: list + status
   ========================= */

func ticketList(c *fiber.Ctx, tab m.Tab, ts []m.Ticket) error {
	st := m.ReduceAll(m.TicketListState{Kind: tab, All: ts}, actions(c)...).(m.TicketListState)
	return helper.JsonList(c, "ok", st.Items, &st.Pagination)
}

func (ctl *SupportCenterController) MyTickets(c *fiber.Ctx) error {
	ts, err := ctl.Svc.ListMyTickets(c.UserContext(), token(c))
	if err != nil {
		return fail(c, "my tickets", err)
	}
	return ticketList(c, m.TabMyTickets, ts)
}

func (ctl *SupportCenterController) AllTickets(c *fiber.Ctx) error {
	if err := helperAuth.RequireSuperAdmin(c); err != nil {
		return helper.FromFiberError(c, err)
	}
	ts, err := ctl.Svc.ListAllTickets(c.UserContext(), token(c))
	if err != nil {
		return fail(c, "all tickets", err)
	}
	return ticketList(c, m.TabAllTickets, ts)
}

// PATCH /support-center/tickets/:id/status
func (ctl *SupportCenterController) UpdateTicketStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req d.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return invalid(c, err)
	}
	t, err := ctl.Svc.UpdateStatus(c.UserContext(), token(c), id, req)
	if err != nil {
		return fail(c, "update status", err)
	}
	return helper.JsonUpdated(c, "Status tiket diperbarui", t)
}

/* =========================
   Metrics
   ========================= */

func (ctl *SupportCenterController) Metrics(c *fiber.Ctx) error {
	raw, err := ctl.Svc.Metrics(c.UserContext(), token(c))
	if err != nil {
		return fail(c, "metrics", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	body := make([]byte, 0, len(raw)+48)
	body = append(body, `{"success":true,"message":"ok","data":`...)
	body = append(body, raw...)
	body = append(body, '}')
	return c.Status(fiber.StatusOK).Send(body)
}

/* =========================
   Knowledge base
   ========================= */

func (ctl *SupportCenterController) ListKnowledge(c *fiber.Ctx) error {
	as, err := ctl.Svc.ListKnowledge(c.UserContext(), token(c))
	if err != nil {
		return fail(c, "list knowledge", err)
	}
	st := m.ReduceAll(m.KnowledgeState{All: as}, actions(c)...).(m.KnowledgeState)
	return helper.JsonList(c, "ok", st.Items, &st.Pagination)
}

func (ctl *SupportCenterController) GetKnowledge(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	a, err := ctl.Svc.GetKnowledge(c.UserContext(), token(c), id)
	if err != nil {
		return fail(c, "get knowledge", err)
	}
	return helper.JsonOK(c, "ok", a)
}

func (ctl *SupportCenterController) knowledgeInput(c *fiber.Ctx) (d.KnowledgeRequest, *imagex.Converted, error) {
	var req d.KnowledgeRequest
	if err := parseBody(c, &req); err != nil {
		return req, nil, err
	}
	imgs, err := ctl.images(c, 1)
	if err != nil {
		return req, nil, err
	}
	if len(imgs) == 0 {
		return req, nil, nil
	}
	return req, &imgs[0], nil
}

func (ctl *SupportCenterController) CreateKnowledge(c *fiber.Ctx) error {
	req, img, err := ctl.knowledgeInput(c)
	if err != nil {
		return invalid(c, err)
	}
	a, err := ctl.Svc.CreateKnowledge(c.UserContext(), token(c), req, img)
	if err != nil {
		return fail(c, "create knowledge", err)
	}
	return helper.JsonCreated(c, "Artikel ditambahkan", a)
}

func (ctl *SupportCenterController) UpdateKnowledge(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, img, err := ctl.knowledgeInput(c)
	if err != nil {
		return invalid(c, err)
	}
	a, err := ctl.Svc.UpdateKnowledge(c.UserContext(), token(c), id, req, img)
	if err != nil {
		return fail(c, "update knowledge", err)
	}
	return helper.JsonUpdated(c, "Artikel diperbarui", a)
}

func (ctl *SupportCenterController) DeleteKnowledge(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.DeleteKnowledge(c.UserContext(), token(c), id); err != nil {
		return fail(c, "delete knowledge", err)
	}
	return helper.JsonDeleted(c, "Artikel dihapus", fiber.Map{"id": id})
}
