package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akademikku_backend/internals/helpers/xlsx"

	m "akademikku_backend/internals/features/akademik/peta_blok/model"
)

func TestExportExcelSheets(t *testing.T) {
	kb := lesson(m.KindKuliahBesar, "2025-07-07", "08:10", 3)
	kb.Topic = "Anatomy Intro"
	kb.Lecturers = []string{"Dr. A", "Dr. B"}
	kb.CourseCode = "MKB3101"
	pbl := lesson(m.KindPBL, "2025-07-08", "07:20", 1)

	feeds := &FeedResult{Items: []m.LessonItem{pbl, kb}}
	v := AssembleView(m.ParityGanjil, m.ModeSemua, feeds)
	require.Equal(t, 2, v.PlacedItems)

	data, err := ExportExcel(v)
	require.NoError(t, err)

	rows, err := xlsx.ReadBytes(data, "Peta Blok")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, excelHeaders, rows[0])

	// urut tanggal: kuliah besar (7 Juli) lebih dulu
	idx := xlsx.HeaderIndex(rows[0])
	assert.Equal(t, "07/07/2025", xlsx.Cell(rows[1], idx["TANGGAL"]))
	assert.Equal(t, "Senin", xlsx.Cell(rows[1], idx["HARI"]))
	assert.Equal(t, "Kuliah Besar", xlsx.Cell(rows[1], idx["JENIS"]))
	assert.Equal(t, "Dr. A, Dr. B", xlsx.Cell(rows[1], idx["DOSEN"]))
	assert.Equal(t, "3", xlsx.Cell(rows[1], idx["SESI"]))
	assert.Equal(t, "Semester 3", xlsx.Cell(rows[1], idx["KOLOM"]))
	assert.Equal(t, "PBL", xlsx.Cell(rows[2], idx["JENIS"]))
	assert.Equal(t, "Modul belum diisi", xlsx.Cell(rows[2], idx["TOPIK / MATERI"]))

	info, err := xlsx.ReadBytes(data, "Info")
	require.NoError(t, err)
	found := map[string]string{}
	for _, r := range info[1:] {
		found[xlsx.Cell(r, 0)] = xlsx.Cell(r, 1)
	}
	assert.Equal(t, "ganjil", found["Paritas"])
	assert.Equal(t, "2", found["Tertempatkan"])
	assert.Equal(t, "1", found["Jumlah PBL"])
}
