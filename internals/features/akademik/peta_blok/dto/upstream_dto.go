// file: internals/features/akademik/peta_blok/dto/upstream_dto.go
package dto

import (
	"strconv"
	"strings"
)

/* =========================
   Mata kuliah (GET /mata-kuliah)
   ========================= */

type Course struct {
	Kode         string     `json:"kode"`
	Nama         string     `json:"nama"`
	Semester     FlexString `json:"semester"`
	Periode      string     `json:"periode"`
	Blok         FlexInt    `json:"blok"`
	Jenis        string     `json:"jenis"`
	TipeNonBlock string     `json:"tipe_non_block"`
	TanggalMulai string     `json:"tanggal_mulai"`
	TanggalAkhir string     `json:"tanggal_akhir"`
}

func (c Course) IsBlock() bool {
	j := strings.ToLower(strings.TrimSpace(c.Jenis))
	return strings.Contains(j, "blok") && !strings.Contains(j, "non")
}

func (c Course) IsCSR() bool {
	return strings.EqualFold(strings.TrimSpace(c.TipeNonBlock), "csr")
}

// SemesterNumber: angka semester eksplisit (0 bila "Antara"/kosong).
func (c Course) SemesterNumber() int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Semester.String()))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

/* =========================
   Baris jadwal per sumber
   ========================= */

// BaseRow: field yang dipakai hampir semua sumber jadwal.
type BaseRow struct {
	ID          FlexInt    `json:"id"`
	Tanggal     string     `json:"tanggal"`
	JamMulai    FlexString `json:"jam_mulai"`
	JamSelesai  FlexString `json:"jam_selesai"`
	JumlahSesi  FlexInt    `json:"jumlah_sesi"`
	Ruangan     *Ref       `json:"ruangan"`
	RuanganNama string     `json:"ruangan_nama"`
	Dosen       Names      `json:"dosen"`
	DosenNames  Names      `json:"dosen_names"`
	DosenNama   Names      `json:"dosen_nama"`
}

func (b BaseRow) Room() string {
	if l := b.Ruangan.Label(); l != "" {
		return l
	}
	return strings.TrimSpace(b.RuanganNama)
}

func (b BaseRow) Lecturers() []string {
	return FirstNames(b.Dosen, b.DosenNames, b.DosenNama)
}

type PBLRow struct {
	BaseRow
	ModulPBL      *Ref   `json:"modul_pbl"`
	PBLTipe       string `json:"pbl_tipe"`
	Topik         string `json:"topik"`
	KelompokKecil *Ref   `json:"kelompok_kecil"`
}

type JournalRow struct {
	BaseRow
	Topik         string `json:"topik"`
	KelompokKecil *Ref   `json:"kelompok_kecil"`
}

type KuliahBesarRow struct {
	BaseRow
	Topik         string `json:"topik"`
	Materi        string `json:"materi"`
	Kelas         string `json:"kelas"`
	KelompokBesar *Ref   `json:"kelompok_besar"`
}

type AgendaKhususRow struct {
	BaseRow
	Agenda        string `json:"agenda"`
	KelompokBesar *Ref   `json:"kelompok_besar"`
}

type PraktikumRow struct {
	BaseRow
	Materi         string `json:"materi"`
	Topik          string `json:"topik"`
	KelasPraktikum string `json:"kelas_praktikum"`
}

type CSRRow struct {
	BaseRow
	Topik         string `json:"topik"`
	JenisCSR      string `json:"jenis_csr"`
	Kategori      *Ref   `json:"kategori"`
	KelompokKecil *Ref   `json:"kelompok_kecil"`
}

type NonBlokRow struct {
	BaseRow
	Materi        string `json:"materi"`
	Agenda        string `json:"agenda"`
	JenisBaris    string `json:"jenis_baris"`
	KelompokBesar *Ref   `json:"kelompok_besar"`
}
