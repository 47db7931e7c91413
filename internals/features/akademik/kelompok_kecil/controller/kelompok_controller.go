// file: internals/features/akademik/kelompok_kecil/controller/kelompok_controller.go
package controller

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"akademikku_backend/internals/constants"
	helper "akademikku_backend/internals/helpers"
	helperAuth "akademikku_backend/internals/helpers/auth"
	"akademikku_backend/internals/helpers/xlsx"

	d "akademikku_backend/internals/features/akademik/kelompok_kecil/dto"
	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
	svc "akademikku_backend/internals/features/akademik/kelompok_kecil/service"
)

const maxImportSize = 5 * 1024 * 1024

type KelompokKecilController struct {
	Svc *svc.Service
}

func New(s *svc.Service) *KelompokKecilController {
	return &KelompokKecilController{Svc: s}
}

/* =========================
   Helpers
   ========================= */

func scope(c *fiber.Ctx) (svc.Scope, error) {
	sem, err := strconv.Atoi(strings.TrimSpace(c.Params("semester")))
	if err != nil || sem < 1 || sem > 14 {
		return svc.Scope{}, fiber.NewError(fiber.StatusBadRequest, "semester harus angka 1-14")
	}
	owner := helperAuth.OwnerKeyFromCtx(c)
	if owner == "" {
		return svc.Scope{}, fiber.NewError(fiber.StatusUnauthorized, "Token tidak ditemukan")
	}
	return svc.Scope{
		Owner:    owner,
		Semester: sem,
		Token:    helper.GetRawAccessToken(c),
	}, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	return helper.Validate.Struct(out)
}

// invalid: error validator → 422 per field, selain itu 400.
func invalid(c *fiber.Ctx, err error) error {
	if fields := helper.ValidationFields(err); fields != nil {
		return helper.JsonValidationError(c, fields)
	}
	return helper.FromFiberError(c, err)
}

func fail(c *fiber.Ctx, op string, err error) error {
	var ie *svc.IssuesError
	if errors.As(err, &ie) {
		return helper.JsonErrorWithDetails(c, fiber.StatusUnprocessableEntity,
			"Import masih memiliki masalah, perbaiki atau gunakan auto-fix", ie.Issues)
	}
	log.Printf("[KELOMPOK-KECIL] %s gagal: %v", op, err)
	return helper.FromFiberError(c, err)
}

func view(dr *m.Draft, rejected []m.Rejection) m.DraftView {
	v := dr.View()
	v.Rejected = rejected
	return v
}

/* =========================
   Draft
   ========================= */

// GET /kelompok-kecil/:semester
func (ctl *KelompokKecilController) Get(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	dr, err := ctl.Svc.Draft(c.UserContext(), sc)
	if err != nil {
		return fail(c, "get", err)
	}
	return helper.JsonOK(c, "ok", view(dr, nil))
}

// POST /kelompok-kecil/:semester/reload
func (ctl *KelompokKecilController) Reload(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	dr, err := ctl.Svc.LoadDraft(c.UserContext(), sc)
	if err != nil {
		return fail(c, "reload", err)
	}
	return helper.JsonOK(c, "Data kelompok dimuat ulang", view(dr, nil))
}

// POST /kelompok-kecil/:semester/select
func (ctl *KelompokKecilController) Select(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req d.SelectRequest
	if err := parseBody(c, &req); err != nil {
		return invalid(c, err)
	}
	dr, rejected, err := ctl.Svc.Select(c.UserContext(), sc, req.NIMs)
	if err != nil {
		return fail(c, "select", err)
	}
	msg := "Mahasiswa dipilih"
	if len(rejected) > 0 {
		msg = fmt.Sprintf("%d mahasiswa tidak dapat dipilih", len(rejected))
	}
	return helper.JsonUpdated(c, msg, view(dr, rejected))
}

// POST /kelompok-kecil/:semester/deselect
func (ctl *KelompokKecilController) Deselect(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req d.SelectRequest
	if err := parseBody(c, &req); err != nil {
		return invalid(c, err)
	}
	dr, err := ctl.Svc.Deselect(c.UserContext(), sc, req.NIMs)
	if err != nil {
		return fail(c, "deselect", err)
	}
	return helper.JsonUpdated(c, "Pilihan mahasiswa dihapus", view(dr, nil))
}

// POST /kelompok-kecil/:semester/generate
func (ctl *KelompokKecilController) Generate(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req d.GenerateGroupsRequest
	if err := parseBody(c, &req); err != nil {
		return invalid(c, err)
	}
	dr, err := ctl.Svc.Generate(c.UserContext(), sc, req.JumlahKelompok)
	if err != nil {
		return fail(c, "generate", err)
	}
	return helper.JsonOK(c, "Kelompok berhasil dibuat (belum disimpan)", view(dr, nil))
}

// POST /kelompok-kecil/:semester/move
func (ctl *KelompokKecilController) Move(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req d.MoveRequest
	if err := parseBody(c, &req); err != nil {
		return invalid(c, err)
	}
	dr, err := ctl.Svc.Move(c.UserContext(), sc, req.NIM, req.Group)
	if err != nil {
		return fail(c, "move", err)
	}
	return helper.JsonUpdated(c, "Mahasiswa dipindahkan", view(dr, nil))
}

// GET /kelompok-kecil/:semester/diff
func (ctl *KelompokKecilController) Diff(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	diff, err := ctl.Svc.Diff(c.UserContext(), sc)
	if err != nil {
		return fail(c, "diff", err)
	}
	return helper.JsonOK(c, "ok", diff)
}

// POST /kelompok-kecil/:semester/save
func (ctl *KelompokKecilController) Save(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rep, dr, err := ctl.Svc.Save(c.UserContext(), sc)
	if err != nil {
		return fail(c, "save", err)
	}
	return saveResponse(c, rep, dr)
}

func saveResponse(c *fiber.Ctx, rep m.SaveReport, dr *m.Draft) error {
	data := fiber.Map{"report": rep, "draft": view(dr, nil)}
	if !rep.OK() {
		return helper.JsonPartial(c, fmt.Sprintf("%d perubahan gagal disimpan", rep.Failed), data)
	}
	return helper.JsonOK(c, "Perubahan kelompok tersimpan", data)
}

// DELETE /kelompok-kecil/:semester/draft
func (ctl *KelompokKecilController) Discard(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.Discard(c.UserContext(), sc); err != nil {
		return fail(c, "discard", err)
	}
	return helper.JsonDeleted(c, "Draft dibuang", fiber.Map{"semester": sc.Semester})
}

/* =========================
   Import / Export
   ========================= */

// POST /kelompok-kecil/:semester/import (multipart: file)
func (ctl *KelompokKecilController) Import(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File xlsx wajib diunggah (field: file)")
	}
	if fh.Size > maxImportSize {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "Ukuran file maksimal 5MB")
	}
	if constants.DetectFileTypeFromExt(fh.Filename) != constants.FileSpreadsheet {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format file harus .xlsx")
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File tidak bisa dibaca")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File tidak bisa dibaca")
	}

	sess, err := ctl.Svc.CreateImport(c.UserContext(), sc, fh.Filename, data)
	if err != nil {
		return fail(c, "import", err)
	}
	msg := "File valid, siap disubmit"
	if !sess.Valid() {
		msg = fmt.Sprintf("Ditemukan %d masalah (%d bisa diperbaiki otomatis)", len(sess.Issues), sess.FixableCount())
	}
	return helper.JsonCreated(c, msg, sess)
}

// POST /kelompok-kecil/:semester/import/:id/auto-fix
func (ctl *KelompokKecilController) AutoFix(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sess, fixed, err := ctl.Svc.AutoFixImport(c.UserContext(), sc, c.Params("id"))
	if err != nil {
		return fail(c, "auto-fix", err)
	}
	return helper.JsonUpdated(c, fmt.Sprintf("%d nama diperbaiki", fixed), sess)
}

// POST /kelompok-kecil/:semester/import/:id/submit
func (ctl *KelompokKecilController) SubmitImport(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rep, dr, err := ctl.Svc.SubmitImport(c.UserContext(), sc, c.Params("id"))
	if err != nil {
		return fail(c, "submit import", err)
	}
	return saveResponse(c, rep, dr)
}

// GET /kelompok-kecil/:semester/export.xlsx
func (ctl *KelompokKecilController) Export(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	data, name, err := ctl.Svc.Export(c.UserContext(), sc)
	if err != nil {
		return fail(c, "export", err)
	}
	c.Set(fiber.HeaderContentType, xlsx.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}

// PUT /kelompok-kecil/:semester/veterans
func (ctl *KelompokKecilController) UpdateVeterans(c *fiber.Ctx) error {
	sc, err := scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req d.VeteranUpdateBatch
	if err := parseBody(c, &req); err != nil {
		return invalid(c, err)
	}
	rep, err := ctl.Svc.UpdateVeterans(c.UserContext(), sc, req.Items)
	if err != nil {
		return fail(c, "veterans", err)
	}
	if rep.Failed > 0 {
		return helper.JsonPartial(c, fmt.Sprintf("%d berhasil, %d gagal", rep.Updated, rep.Failed), rep)
	}
	return helper.JsonUpdated(c, fmt.Sprintf("%d mahasiswa diperbarui", rep.Updated), rep)
}
