// file: internals/features/akademik/kelompok_kecil/service/export.go
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"akademikku_backend/internals/helpers/dbtime"
	"akademikku_backend/internals/helpers/xlsx"

	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
)

const (
	exportSheet = "Data Kelompok"
	infoSheet   = "Info"
)

// Export menulis assignment current draft: sheet "Data Kelompok" (NIM, NAMA, KELOMPOK) + "Info".
func (s *Service) Export(ctx context.Context, sc Scope) ([]byte, string, error) {
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return nil, "", err
	}
	b, err := ExportDraft(dr, time.Now())
	if err != nil {
		return nil, "", err
	}
	return b, ExportFileName(sc.Semester, time.Now()), nil
}

func ExportDraft(dr *m.Draft, now time.Time) ([]byte, error) {
	wb, err := xlsx.New()
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	list := dr.Current.Sorted()
	rows := make([][]any, 0, len(list))
	for _, a := range list {
		rows = append(rows, []any{a.NIM, a.Name, a.Group})
	}
	if err := wb.Table(exportSheet, m.ImportColumns, rows, []float64{18, 40, 12}); err != nil {
		return nil, err
	}

	diff := m.ComputeDiff(dr.Baseline, dr.Current)
	groups := dr.Current.Groups()
	pairs := [][2]string{
		{"Semester", strconv.Itoa(dr.Semester)},
		{"Jumlah Mahasiswa", strconv.Itoa(len(list))},
		{"Jumlah Kelompok", strconv.Itoa(len(groups))},
		{"Mahasiswa Roster", strconv.Itoa(len(dr.Roster))},
		{"Perubahan Belum Disimpan", strconv.Itoa(diff.Total())},
		{"Diekspor", dbtime.InJakarta(now).Format("02/01/2006 15:04")},
	}
	for _, g := range groups {
		pairs = append(pairs, [2]string{g.Label, fmt.Sprintf("%d mahasiswa", len(g.Members))})
	}
	if err := wb.Info(infoSheet, pairs); err != nil {
		return nil, err
	}
	return wb.Bytes()
}

func ExportFileName(semester int, now time.Time) string {
	return fmt.Sprintf("kelompok-kecil-semester-%d-%s.xlsx", semester, dbtime.InJakarta(now).Format("20060102-1504"))
}
