// file: internals/features/akademik/kelompok_kecil/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
)

var (
	ErrDraftNotFound  = errors.New("draft kelompok tidak ditemukan")
	ErrImportNotFound = errors.New("sesi import tidak ditemukan")
)

// Repository menyimpan state kerja BFF (draft + sesi import).
// Data akademik tetap milik upstream.
type Repository interface {
	GetDraft(ctx context.Context, owner string, semester int) (*m.Draft, error)
	SaveDraft(ctx context.Context, d *m.Draft) error
	DeleteDraft(ctx context.Context, owner string, semester int) error

	GetImport(ctx context.Context, owner, id string) (*m.ImportSession, error)
	SaveImport(ctx context.Context, s *m.ImportSession) error
	DeleteImport(ctx context.Context, owner, id string) error

	// PurgeStale menghapus draft/import yang tidak disentuh sejak before.
	PurgeStale(ctx context.Context, before time.Time) (drafts, imports int64, err error)
}
