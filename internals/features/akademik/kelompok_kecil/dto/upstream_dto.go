// file: internals/features/akademik/kelompok_kecil/dto/upstream_dto.go
package dto

import (
	"strings"

	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
	pb "akademikku_backend/internals/features/akademik/peta_blok/dto"
)

// MahasiswaRow: GET /mahasiswa?semester=
type MahasiswaRow struct {
	ID              pb.FlexInt    `json:"id"`
	NIM             pb.FlexString `json:"nim"`
	Name            string        `json:"name"`
	Nama            string        `json:"nama"`
	Semester        pb.FlexInt    `json:"semester"`
	IsVeteran       bool          `json:"is_veteran"`
	VeteranSemester pb.FlexInt    `json:"veteran_semester"`
	IsMultiVeteran  bool          `json:"is_multi_veteran"`
}

func (r MahasiswaRow) ToStudent() m.Student {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = strings.TrimSpace(r.Nama)
	}
	return m.Student{
		ID:              r.ID.Int(),
		NIM:             strings.TrimSpace(r.NIM.String()),
		Name:            name,
		Semester:        r.Semester.Int(),
		IsVeteran:       r.IsVeteran,
		VeteranSemester: r.VeteranSemester.Int(),
		MultiSemester:   r.IsMultiVeteran,
	}
}

// KelompokRow: GET /kelompok-kecil?semester= dan hasil /generate/kelompok-kecil.
// Nomor kelompok datang sebagai nama_kelompok ("3") atau kelompok (3).
type KelompokRow struct {
	ID           pb.FlexInt    `json:"id"`
	NIM          pb.FlexString `json:"nim"`
	Nama         string        `json:"nama"`
	NamaKelompok pb.FlexString `json:"nama_kelompok"`
	Kelompok     pb.FlexInt    `json:"kelompok"`
	Mahasiswa    *struct {
		NIM  pb.FlexString `json:"nim"`
		Nama string        `json:"nama"`
		Name string        `json:"name"`
	} `json:"mahasiswa"`
}

func (r KelompokRow) ToAssignment() m.Assignment {
	a := m.Assignment{
		RecordID: r.ID.Int(),
		NIM:      strings.TrimSpace(r.NIM.String()),
		Name:     strings.TrimSpace(r.Nama),
		Group:    r.Kelompok.Int(),
	}
	if a.Group == 0 {
		a.Group = groupNumber(r.NamaKelompok.String())
	}
	if r.Mahasiswa != nil {
		if a.NIM == "" {
			a.NIM = strings.TrimSpace(r.Mahasiswa.NIM.String())
		}
		if a.Name == "" {
			a.Name = strings.TrimSpace(r.Mahasiswa.Nama)
		}
		if a.Name == "" {
			a.Name = strings.TrimSpace(r.Mahasiswa.Name)
		}
	}
	return a
}

// groupNumber: "3", "Kelompok 3", "K-3" → 3; selain itu 0.
func groupNumber(s string) int {
	s = strings.TrimSpace(s)
	end := len(s)
	start := end
	for start > 0 && s[start-1] >= '0' && s[start-1] <= '9' {
		start--
	}
	n := 0
	for _, c := range s[start:end] {
		n = n*10 + int(c-'0')
	}
	return n
}

/* ===== payload ke upstream ===== */

type GenerateRequest struct {
	Semester       int      `json:"semester"`
	JumlahKelompok int      `json:"jumlah_kelompok"`
	NIMs           []string `json:"nims"`
}

type BatchItem struct {
	NIM          string `json:"nim"`
	NamaKelompok string `json:"nama_kelompok"`
}

type BatchCreateRequest struct {
	Semester int         `json:"semester"`
	Data     []BatchItem `json:"data"`
}

type UpdateKelompokRequest struct {
	NamaKelompok string `json:"nama_kelompok"`
	Semester     int    `json:"semester"`
}

type VeteranUpdateRequest struct {
	IsVeteran       bool `json:"is_veteran"`
	IsMultiVeteran  bool `json:"is_multi_veteran"`
	VeteranSemester *int `json:"veteran_semester"`
}
