// file: internals/features/akademik/peta_blok/service/grid.go
package service

import (
	m "akademikku_backend/internals/features/akademik/peta_blok/model"
)

// Builder memproyeksikan LessonItem ke matriks [kolom][hari][slot].
type Builder struct {
	parity   m.Parity
	days     []m.DayColumn
	dayIndex map[string]int
	cells    m.Cells

	placed  int
	dropped int
}

func NewBuilder(parity m.Parity, days []m.DayColumn) *Builder {
	cols := len(parity.ColumnLabels())
	b := &Builder{
		parity:   parity,
		days:     days,
		dayIndex: make(map[string]int, len(days)),
		cells:    make(m.Cells, cols),
	}
	for i, d := range days {
		b.dayIndex[d.Key] = i
	}
	for c := range b.cells {
		b.cells[c] = make([][][]m.CellItem, len(days))
		for d := range b.cells[c] {
			b.cells[c][d] = make([][]m.CellItem, len(slots))
		}
	}
	return b
}

// Locate menghitung (kolom, hari, slot) item; false = item tidak ditempatkan.
func (b *Builder) Locate(it m.LessonItem) (col, day, slot int, ok bool) {
	if col, ok = ColumnIndex(it.Semester, b.parity); !ok {
		return
	}
	if day, ok = b.dayIndex[it.DateKey]; !ok {
		return
	}
	slot, ok = SlotIndexFor(it.StartTime)
	return
}

// Place menaruh item ke sel. Kuliah besar tidak pernah digabung; jenis lain digabung per jenis.
func (b *Builder) Place(it m.LessonItem) bool {
	col, day, slot, ok := b.Locate(it)
	if !ok {
		b.dropped++
		return false
	}
	cell := b.cells[col][day][slot]
	policy := m.PolicyFor(it.Kind)

	if !policy.Merge {
		b.cells[col][day][slot] = append(cell, m.CellItem{
			Kind:     it.Kind,
			Label:    m.LectureLabel(it),
			Duration: m.Duration(it),
			Count:    1,
			Details:  []m.LessonItem{it},
		})
		b.placed++
		return true
	}

	for i := range cell {
		if cell[i].Kind != it.Kind {
			continue
		}
		ci := &cell[i]
		ci.Details = append(ci.Details, it)
		ci.Count++
		if d := m.Duration(it); d > ci.Duration {
			ci.Duration = d
		}
		if ci.Count >= 2 {
			ci.Label = m.MergedLabel(it.Kind, ci.Count)
		}
		b.placed++
		return true
	}

	b.cells[col][day][slot] = append(cell, m.CellItem{
		Kind:     it.Kind,
		Label:    m.SingleLabel(it),
		Duration: m.Duration(it),
		Count:    1,
		Details:  []m.LessonItem{it},
	})
	b.placed++
	return true
}

func (b *Builder) Cells() m.Cells { return b.cells }
func (b *Builder) Placed() int    { return b.placed }
func (b *Builder) Dropped() int   { return b.dropped }
