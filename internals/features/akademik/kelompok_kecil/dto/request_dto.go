// file: internals/features/akademik/kelompok_kecil/dto/request_dto.go
package dto

type SelectRequest struct {
	NIMs []string `json:"nims" validate:"required,min=1,dive,required"`
}

type GenerateGroupsRequest struct {
	JumlahKelompok int `json:"jumlah_kelompok" validate:"required,gte=1,lte=200"`
}

type MoveRequest struct {
	NIM   string `json:"nim" validate:"required"`
	Group int    `json:"group" validate:"gte=0"` // 0 = keluarkan dari kelompok
}

type VeteranItem struct {
	StudentID       int    `json:"student_id" validate:"required,gt=0"`
	NIM             string `json:"nim"`
	IsVeteran       bool   `json:"is_veteran"`
	IsMultiVeteran  bool   `json:"is_multi_veteran"`
	VeteranSemester *int   `json:"veteran_semester" validate:"omitempty,gte=1,lte=14"`
}

type VeteranUpdateBatch struct {
	Items []VeteranItem `json:"items" validate:"required,min=1,dive"`
}
