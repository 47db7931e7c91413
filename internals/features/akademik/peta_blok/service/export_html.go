// file: internals/features/akademik/peta_blok/service/export_html.go
package service

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/gofiber/template/html/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	m "akademikku_backend/internals/features/akademik/peta_blok/model"
)

//go:embed views/*.html
var viewsFS embed.FS

var (
	engineOnce sync.Once
	engine     *html.Engine
	engineErr  error
)

func loadEngine() (*html.Engine, error) {
	engineOnce.Do(func() {
		sub, err := fs.Sub(viewsFS, "views")
		if err != nil {
			engineErr = err
			return
		}
		e := html.NewFileSystem(http.FS(sub), ".html")
		e.AddFunc("lines", func(s string) template.HTML {
			parts := strings.Split(s, "\n")
			for i, p := range parts {
				parts[i] = template.HTMLEscapeString(p)
			}
			return template.HTML(strings.Join(parts, "<br>"))
		})
		e.AddFunc("kindLabel", func(k m.LessonKind) string { return m.KindLabel(k) })
		if err := e.Load(); err != nil {
			engineErr = err
			return
		}
		engine = e
	})
	return engine, engineErr
}

type htmlColumn struct {
	Label string
	Rows  []htmlRow
}

type htmlRow struct {
	Slot  m.SessionSlot
	Cells [][]m.CellItem // per hari
}

type htmlPage struct {
	Title   string
	Period  string
	View    *m.PetaBlokView
	Columns []htmlColumn
	Lessons [][]any
	Headers []string
}

// ExportHTML: dokumen HTML mandiri (grid per kolom semester + tabel kegiatan).
func ExportHTML(v *m.PetaBlokView) ([]byte, error) {
	e, err := loadEngine()
	if err != nil {
		return nil, err
	}

	page := htmlPage{
		Title:   "Peta Blok " + cases.Title(language.Indonesian).String(string(v.Parity)) + " (" + string(v.Mode) + ")",
		Period:  periodText(v),
		View:    v,
		Headers: excelHeaders,
	}
	for ci, label := range v.Columns {
		col := htmlColumn{Label: label}
		for si, slot := range v.Slots {
			row := htmlRow{Slot: slot, Cells: make([][]m.CellItem, len(v.Days))}
			if ci < len(v.Cells) {
				for di := range v.Days {
					if di < len(v.Cells[ci]) && si < len(v.Cells[ci][di]) {
						row.Cells[di] = v.Cells[ci][di][si]
					}
				}
			}
			col.Rows = append(col.Rows, row)
		}
		page.Columns = append(page.Columns, col)
	}
	for i, pl := range PlacedLessons(v) {
		page.Lessons = append(page.Lessons, LessonRow(i+1, pl.Column, pl.Item))
	}

	var buf bytes.Buffer
	if err := e.Render(&buf, "peta_blok", page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
