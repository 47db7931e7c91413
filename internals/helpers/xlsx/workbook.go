// file: internals/helpers/xlsx/workbook.go
package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook membungkus excelize.File dengan style header bersama.
type Workbook struct {
	f           *excelize.File
	headerStyle int
	wrapStyle   int
	sheets      int
}

func New() (*Workbook, error) {
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2F5597"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "bottom", Color: "1F3864", Style: 1},
		},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Workbook{f: f, headerStyle: header, wrapStyle: wrap}, nil
}

func (w *Workbook) Close() error { return w.f.Close() }

// sheet pertama memakai ulang "Sheet1" bawaan supaya tidak ada sheet kosong.
func (w *Workbook) addSheet(name string) error {
	if w.sheets == 0 {
		if err := w.f.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return err
	}
	w.sheets++
	return nil
}

// Table menulis sheet bergaya tabel: header beku + autofilter + lebar kolom.
func (w *Workbook) Table(sheet string, headers []string, rows [][]any, widths []float64) error {
	if err := w.addSheet(sheet); err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := w.f.SetCellStyle(sheet, "A1", last, w.headerStyle); err != nil {
		return err
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := r
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
		if err := w.f.SetCellStyle(sheet, "A2", end, w.wrapStyle); err != nil {
			return err
		}
		if err := w.f.AutoFilter(sheet, "A1:"+end, nil); err != nil {
			return err
		}
	}
	for i, wd := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := w.f.SetColWidth(sheet, col, col, wd); err != nil {
			return err
		}
	}
	return w.f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

// Info menulis sheet dua kolom (label, nilai).
func (w *Workbook) Info(sheet string, pairs [][2]string) error {
	rows := make([][]any, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []any{p[0], p[1]})
	}
	return w.Table(sheet, []string{"Keterangan", "Nilai"}, rows, []float64{28, 60})
}

func (w *Workbook) Bytes() ([]byte, error) {
	w.f.SetActiveSheet(0)
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/* =========================
   Baca
   ========================= */

// ReadRows membaca semua baris sheet pertama (atau sheet bernama bila ada).
func ReadRows(r io.Reader, preferSheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("file bukan xlsx yang valid: %w", err)
	}
	defer f.Close()

	sheet := ""
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), preferSheet) {
			sheet = name
			break
		}
	}
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook tanpa sheet")
		}
		sheet = list[0]
	}
	return f.GetRows(sheet)
}

func ReadBytes(b []byte, preferSheet string) ([][]string, error) {
	return ReadRows(bytes.NewReader(b), preferSheet)
}

// HeaderIndex: nama kolom (UPPERCASE + trim) → indeks.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		k := strings.ToUpper(strings.TrimSpace(h))
		if k == "" {
			continue
		}
		if _, dup := idx[k]; !dup {
			idx[k] = i
		}
	}
	return idx
}

// DuplicateHeaders: nama kolom yang muncul lebih dari sekali (urut kemunculan kedua).
func DuplicateHeaders(header []string) []string {
	seen := make(map[string]int, len(header))
	var dups []string
	for _, h := range header {
		k := strings.ToUpper(strings.TrimSpace(h))
		if k == "" {
			continue
		}
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}

// Cell aman untuk baris pendek (GetRows memotong sel kosong di ujung).
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
