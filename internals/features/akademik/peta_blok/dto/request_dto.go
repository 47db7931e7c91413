// file: internals/features/akademik/peta_blok/dto/request_dto.go
package dto

// PetaBlokQuery: query string endpoint peta blok.
type PetaBlokQuery struct {
	Parity  string `query:"parity"`
	Mode    string `query:"mode"`
	Refresh bool   `query:"refresh"`
}
