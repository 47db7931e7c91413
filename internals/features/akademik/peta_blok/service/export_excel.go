// file: internals/features/akademik/peta_blok/service/export_excel.go
package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"akademikku_backend/internals/helpers/dbtime"
	"akademikku_backend/internals/helpers/xlsx"

	m "akademikku_backend/internals/features/akademik/peta_blok/model"
)

var excelHeaders = []string{
	"No", "Tanggal", "Hari", "Jam", "Sesi", "Kolom", "Blok", "Jenis",
	"Kode MK", "Mata Kuliah", "Topik / Materi", "Dosen", "Ruang", "Kelas / Kelompok",
}

var excelWidths = []float64{6, 12, 10, 14, 6, 16, 6, 18, 12, 28, 40, 32, 16, 20}

// ExportExcel: sheet "Peta Blok" (satu baris per kegiatan) + sheet "Info".
func ExportExcel(v *m.PetaBlokView) ([]byte, error) {
	wb, err := xlsx.New()
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	lessons := PlacedLessons(v)
	rows := make([][]any, 0, len(lessons))
	perKind := map[m.LessonKind]int{}
	for i, pl := range lessons {
		it := pl.Item
		perKind[it.Kind]++
		rows = append(rows, LessonRow(i+1, pl.Column, it))
	}
	if err := wb.Table("Peta Blok", excelHeaders, rows, excelWidths); err != nil {
		return nil, err
	}

	if err := wb.Info("Info", infoPairs(v, perKind)); err != nil {
		return nil, err
	}
	return wb.Bytes()
}

// LessonRow: satu baris export; dipakai juga oleh export HTML.
func LessonRow(no int, column string, it m.LessonItem) []any {
	date, day := it.DateKey, ""
	if t, ok := ParseDateKey(it.DateKey); ok {
		date, day = m.ShortDate(t), m.WeekdayName(t)
	}
	jam := it.StartTime
	if it.EndTime != "" {
		jam += " - " + it.EndTime
	}
	block := ""
	if it.Block > 0 {
		block = strconv.Itoa(it.Block)
	}
	group := it.Class
	if group == "" {
		group = it.Group
	}
	return []any{
		no, date, day, jam, m.Duration(it), column, block, m.KindLabel(it.Kind),
		it.CourseCode, it.CourseName, m.PrimaryText(it), it.LecturerText(), it.Room, group,
	}
}

func infoPairs(v *m.PetaBlokView, perKind map[m.LessonKind]int) [][2]string {
	pairs := [][2]string{
		{"Paritas", string(v.Parity)},
		{"Mode", string(v.Mode)},
		{"Periode", periodText(v)},
		{"Kolom", strings.Join(v.Columns, ", ")},
		{"Total kegiatan", strconv.Itoa(v.TotalItems)},
		{"Tertempatkan", strconv.Itoa(v.PlacedItems)},
		{"Tidak tertempatkan", strconv.Itoa(v.DroppedItems)},
		{"Dibuat", dbtime.InJakarta(v.GeneratedAt).Format("02/01/2006 15:04")},
	}
	if v.DaysTruncated {
		pairs = append(pairs, [2]string{"Catatan", "Rentang dipotong ke " + strconv.Itoa(len(v.Days)) + " hari"})
	}
	for _, k := range m.AllKinds {
		if n := perKind[k]; n > 0 {
			pairs = append(pairs, [2]string{"Jumlah " + m.KindLabel(k), strconv.Itoa(n)})
		}
	}
	failed := make([]string, 0)
	for _, s := range v.Sources {
		if !s.OK {
			failed = append(failed, s.Source+" ("+s.Course+")")
		}
	}
	sort.Strings(failed)
	if len(failed) > 0 {
		pairs = append(pairs, [2]string{"Sumber gagal", strings.Join(failed, "; ")})
	}
	return pairs
}

func periodText(v *m.PetaBlokView) string {
	if v.StartDate == "" {
		return "-"
	}
	s, _ := ParseDateKey(v.StartDate)
	e, _ := ParseDateKey(v.EndDate)
	return m.ShortDate(s) + " s/d " + m.ShortDate(e)
}

// ExportFileName: "peta-blok-ganjil-semua-20250707.xlsx"
func ExportFileName(v *m.PetaBlokView, ext string) string {
	return fmt.Sprintf("peta-blok-%s-%s-%s.%s", v.Parity, v.Mode, dbtime.InJakarta(v.GeneratedAt).Format("20060102"), ext)
}
