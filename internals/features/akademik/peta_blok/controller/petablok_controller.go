// file: internals/features/akademik/peta_blok/controller/petablok_controller.go
package controller

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "akademikku_backend/internals/helpers"
	"akademikku_backend/internals/helpers/xlsx"

	d "akademikku_backend/internals/features/akademik/peta_blok/dto"
	m "akademikku_backend/internals/features/akademik/peta_blok/model"
	svc "akademikku_backend/internals/features/akademik/peta_blok/service"
)

type PetaBlokController struct {
	Svc *svc.Service
}

func New(s *svc.Service) *PetaBlokController {
	return &PetaBlokController{Svc: s}
}

/* =========================
   Helpers
   ========================= */

func parseQuery(c *fiber.Ctx) (m.Parity, m.Mode, bool, error) {
	var q d.PetaBlokQuery
	if err := c.QueryParser(&q); err != nil {
		return "", "", false, fiber.NewError(fiber.StatusBadRequest, "query tidak valid")
	}
	p, ok := m.ParseParity(q.Parity)
	if !ok {
		return "", "", false, fiber.NewError(fiber.StatusBadRequest, "parity harus ganjil, genap, atau antara")
	}
	mode, ok := m.ParseMode(q.Mode)
	if !ok {
		return "", "", false, fiber.NewError(fiber.StatusBadRequest, "mode harus blok, non_blok, atau semua")
	}
	refresh := q.Refresh
	if !refresh {
		refresh, _ = strconv.ParseBool(strings.TrimSpace(c.Query("refresh")))
	}
	return p, mode, refresh, nil
}

func (ctl *PetaBlokController) build(c *fiber.Ctx) (*m.PetaBlokView, error) {
	p, mode, refresh, err := parseQuery(c)
	if err != nil {
		return nil, err
	}
	v, err := ctl.Svc.Build(c.UserContext(), helper.GetRawAccessToken(c), p, mode, refresh)
	if err != nil {
		log.Printf("[PETA-BLOK] build %s/%s gagal: %v", p, mode, err)
		return nil, err
	}
	return v, nil
}

/* =========================
   Handlers
   ========================= */

// GET /peta-blok?parity=ganjil&mode=semua[&refresh=1]
func (ctl *PetaBlokController) Get(c *fiber.Ctx) error {
	v, err := ctl.build(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Peta blok berhasil dibuat", v)
}

// GET /peta-blok/slots
func (ctl *PetaBlokController) Slots(c *fiber.Ctx) error {
	return helper.JsonOK(c, "ok", svc.Slots())
}

// GET /peta-blok/export.xlsx
func (ctl *PetaBlokController) ExportExcel(c *fiber.Ctx) error {
	v, err := ctl.build(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	data, err := svc.ExportExcel(v)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat file Excel: "+err.Error())
	}
	c.Set(fiber.HeaderContentType, xlsx.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, svc.ExportFileName(v, "xlsx")))
	return c.Send(data)
}

// GET /peta-blok/export.html
func (ctl *PetaBlokController) ExportHTML(c *fiber.Ctx) error {
	v, err := ctl.build(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	data, err := svc.ExportHTML(v)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat file HTML: "+err.Error())
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	if c.Query("download") != "" {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, svc.ExportFileName(v, "html")))
	}
	return c.Send(data)
}
