// file: internals/features/akademik/kelompok_kecil/service/import.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "akademikku_backend/internals/helpers"
	"akademikku_backend/internals/helpers/xlsx"

	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
	"akademikku_backend/internals/features/akademik/kelompok_kecil/repository"
)

// IssuesError: submit ditolak karena masih ada masalah validasi.
type IssuesError struct {
	Issues []m.ImportIssue
}

func (e *IssuesError) Error() string {
	return fmt.Sprintf("import masih memiliki %d masalah", len(e.Issues))
}

// ParseImport membaca sheet "Data Kelompok" (atau sheet pertama).
// Header harus tepat NIM, NAMA, KELOMPOK (uppercase + trim, urutan bebas, tanpa kolom ganda).
func ParseImport(data []byte) ([]m.ImportRow, error) {
	rows, err := xlsx.ReadBytes(data, exportSheet)
	if err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if len(rows) == 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "File kosong")
	}

	if dups := xlsx.DuplicateHeaders(rows[0]); len(dups) > 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "Kolom ganda: "+strings.Join(dups, ", ")+" (hanya NIM, NAMA, KELOMPOK)")
	}
	idx := xlsx.HeaderIndex(rows[0])
	var missing, extra []string
	for _, col := range m.ImportColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	for name := range idx {
		if name != m.ColNIM && name != m.ColNama && name != m.ColKelompok {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "Kolom wajib tidak ditemukan: "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "Kolom tidak dikenal: "+strings.Join(extra, ", ")+" (hanya NIM, NAMA, KELOMPOK)")
	}

	out := make([]m.ImportRow, 0, len(rows)-1)
	for i, r := range rows[1:] {
		row := m.ImportRow{
			Row:      i + 2,
			NIM:      xlsx.Cell(r, idx[m.ColNIM]),
			Name:     xlsx.Cell(r, idx[m.ColNama]),
			GroupRaw: xlsx.Cell(r, idx[m.ColKelompok]),
		}
		if row.NIM == "" && row.Name == "" && row.GroupRaw == "" {
			continue
		}
		row.Group = parseGroup(row.GroupRaw)
		out = append(out, row)
	}
	return out, nil
}

// parseGroup: bilangan bulat positif; "3.0" dari sel numerik diterima.
func parseGroup(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 && f == float64(int(f)) {
		return int(f)
	}
	return 0
}

// ValidateImport: wajib isi, kelompok numerik, NIM ada di roster,
// nama cocok dengan roster, NIM ganda dalam file.
func ValidateImport(rows []m.ImportRow, roster []m.Student) []m.ImportIssue {
	byNIM := make(map[string]m.Student, len(roster))
	for _, st := range roster {
		byNIM[st.NIM] = st
	}
	firstRow := map[string]int{}
	issues := make([]m.ImportIssue, 0)
	add := func(is m.ImportIssue) { issues = append(issues, is) }

	for _, r := range rows {
		st, known := byNIM[r.NIM]

		if r.NIM == "" {
			add(m.ImportIssue{Row: r.Row, Column: m.ColNIM, Code: m.IssueRequired, Message: "NIM wajib diisi"})
		}
		if r.Name == "" {
			add(m.ImportIssue{
				Row: r.Row, Column: m.ColNama, Code: m.IssueRequired, Message: "NAMA wajib diisi",
				Fixable: known, Expected: st.Name,
			})
		}
		switch {
		case r.GroupRaw == "":
			add(m.ImportIssue{Row: r.Row, Column: m.ColKelompok, Code: m.IssueRequired, Message: "KELOMPOK wajib diisi"})
		case r.Group <= 0:
			add(m.ImportIssue{
				Row: r.Row, Column: m.ColKelompok, Code: m.IssueGroupInvalid,
				Message: fmt.Sprintf("KELOMPOK harus angka positif, bukan %q", r.GroupRaw),
			})
		}
		if r.NIM == "" {
			continue
		}

		if !known {
			add(m.ImportIssue{
				Row: r.Row, Column: m.ColNIM, Code: m.IssueUnknownNIM,
				Message: fmt.Sprintf("NIM %s tidak terdaftar di semester ini", r.NIM),
			})
		} else if r.Name != "" && !helper.SameName(r.Name, st.Name) {
			add(m.ImportIssue{
				Row: r.Row, Column: m.ColNama, Code: m.IssueNameMismatch,
				Message:  fmt.Sprintf("Nama %q tidak sesuai roster", r.Name),
				Fixable:  true,
				Expected: st.Name,
			})
		}

		if first, dup := firstRow[r.NIM]; dup {
			add(m.ImportIssue{
				Row: r.Row, Column: m.ColNIM, Code: m.IssueDuplicateNIM,
				Message: fmt.Sprintf("NIM %s sudah muncul di baris %d", r.NIM, first),
			})
		} else {
			firstRow[r.NIM] = r.Row
		}
	}
	return issues
}

// AutoFix hanya mengganti NAMA dengan nama roster untuk NIM yang dikenal.
func AutoFix(rows []m.ImportRow, roster []m.Student) (fixed int) {
	byNIM := make(map[string]string, len(roster))
	for _, st := range roster {
		byNIM[st.NIM] = st.Name
	}
	for i := range rows {
		name, ok := byNIM[rows[i].NIM]
		if !ok || name == "" || rows[i].Name == name {
			continue
		}
		rows[i].Name = name
		fixed++
	}
	return fixed
}

/* =========================
   Sesi import
   ========================= */

func (s *Service) CreateImport(ctx context.Context, sc Scope, fileName string, data []byte) (*m.ImportSession, error) {
	rows, err := ParseImport(data)
	if err != nil {
		return nil, err
	}
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return nil, err
	}
	sess := &m.ImportSession{
		ID:        uuid.NewString(),
		OwnerKey:  sc.Owner,
		Semester:  sc.Semester,
		FileName:  fileName,
		Rows:      rows,
		Issues:    ValidateImport(rows, dr.Roster),
		CreatedAt: time.Now().Unix(),
	}
	if err := s.Repo.SaveImport(ctx, sess); err != nil {
		return nil, err
	}
	log.Printf("[KELOMPOK-IMPORT] %s rows=%d issues=%d", fileName, len(rows), len(sess.Issues))
	return sess, nil
}

func (s *Service) session(ctx context.Context, sc Scope, id string) (*m.ImportSession, error) {
	sess, err := s.Repo.GetImport(ctx, sc.Owner, id)
	if errors.Is(err, repository.ErrImportNotFound) {
		return nil, fiber.NewError(http.StatusNotFound, "Sesi import tidak ditemukan")
	}
	if err != nil {
		return nil, err
	}
	if sess.Semester != sc.Semester {
		return nil, fiber.NewError(http.StatusNotFound, "Sesi import bukan untuk semester ini")
	}
	return sess, nil
}

func (s *Service) AutoFixImport(ctx context.Context, sc Scope, id string) (*m.ImportSession, int, error) {
	sess, err := s.session(ctx, sc, id)
	if err != nil {
		return nil, 0, err
	}
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return nil, 0, err
	}
	fixed := AutoFix(sess.Rows, dr.Roster)
	sess.Issues = ValidateImport(sess.Rows, dr.Roster)
	if err := s.Repo.SaveImport(ctx, sess); err != nil {
		return nil, 0, err
	}
	return sess, fixed, nil
}

// SubmitImport menggabungkan baris import ke draft lalu menyimpan ke upstream.
func (s *Service) SubmitImport(ctx context.Context, sc Scope, id string) (m.SaveReport, *m.Draft, error) {
	sess, err := s.session(ctx, sc, id)
	if err != nil {
		return m.SaveReport{}, nil, err
	}
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return m.SaveReport{}, nil, err
	}
	// roster bisa berubah sejak file diunggah
	if issues := ValidateImport(sess.Rows, dr.Roster); len(issues) > 0 {
		sess.Issues = issues
		_ = s.Repo.SaveImport(ctx, sess)
		return m.SaveReport{}, nil, &IssuesError{Issues: issues}
	}

	MergeImport(dr, sess.Rows)
	if err := s.Repo.SaveDraft(ctx, dr); err != nil {
		return m.SaveReport{}, nil, err
	}
	rep, saved, err := s.Save(ctx, sc)
	if err != nil {
		return rep, nil, err
	}
	if err := s.Repo.DeleteImport(ctx, sc.Owner, sess.ID); err != nil {
		log.Printf("[KELOMPOK-IMPORT] hapus sesi %s gagal: %v", sess.ID, err)
	}
	return rep, saved, nil
}

// MergeImport: setiap baris menimpa kelompok NIM tsb di current dan ikut terpilih.
func MergeImport(dr *m.Draft, rows []m.ImportRow) {
	for _, r := range rows {
		a := dr.Current[r.NIM]
		if a.NIM == "" {
			a = m.Assignment{NIM: r.NIM}
			if base, ok := dr.Baseline[r.NIM]; ok {
				a.RecordID = base.RecordID
			}
		}
		if st, ok := dr.Student(r.NIM); ok {
			a.Name = st.Name
		}
		a.Group = r.Group
		dr.Current[r.NIM] = a
		if !dr.IsSelected(r.NIM) {
			dr.Selected = append(dr.Selected, r.NIM)
		}
	}
}
