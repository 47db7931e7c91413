// file: internals/features/akademik/kelompok_kecil/repository/gorm_repository.go
package repository

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
)

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Models: daftar tabel untuk AutoMigrate.
func Models() []interface{} {
	return []interface{}{&m.KelompokDraftModel{}, &m.KelompokImportModel{}}
}

// mapPGError: SQLSTATE → *fiber.Error supaya controller cukup FromFiberError.
func mapPGError(err error) error {
	if err == nil {
		return nil
	}
	// 23505 = unique_violation
	// 23503 = foreign_key_violation
	// 57014 = query_canceled (statement_timeout)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fiber.NewError(http.StatusConflict, "Draft bentrok dengan draft lain (unique violation).")
		case "23503":
			return fiber.NewError(http.StatusBadRequest, "Referensi tidak ditemukan (FK violation).")
		case "57014":
			return fiber.NewError(http.StatusGatewayTimeout, "Query database timeout.")
		}
	}
	return err
}

func (r *gormRepository) GetDraft(ctx context.Context, owner string, semester int) (*m.Draft, error) {
	var row m.KelompokDraftModel
	err := r.db.WithContext(ctx).
		Where("kelompok_draft_owner_key = ? AND kelompok_draft_semester = ?", owner, semester).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, mapPGError(err)
	}
	return row.ToDraft()
}

// SaveDraft: upsert per (owner, semester).
func (r *gormRepository) SaveDraft(ctx context.Context, d *m.Draft) error {
	row, err := m.DraftToModel(d)
	if err != nil {
		return err
	}
	row.KelompokDraftUpdatedAt = time.Now()
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "kelompok_draft_owner_key"}, {Name: "kelompok_draft_semester"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"kelompok_draft_roster",
			"kelompok_draft_baseline",
			"kelompok_draft_current",
			"kelompok_draft_selected",
			"kelompok_draft_updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return mapPGError(err)
	}
	d.UpdatedAt = row.KelompokDraftUpdatedAt.Unix()
	return nil
}

func (r *gormRepository) DeleteDraft(ctx context.Context, owner string, semester int) error {
	res := r.db.WithContext(ctx).
		Where("kelompok_draft_owner_key = ? AND kelompok_draft_semester = ?", owner, semester).
		Delete(&m.KelompokDraftModel{})
	if res.Error != nil {
		return mapPGError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (r *gormRepository) GetImport(ctx context.Context, owner, id string) (*m.ImportSession, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrImportNotFound
	}
	var row m.KelompokImportModel
	err = r.db.WithContext(ctx).
		Where("kelompok_import_id = ? AND kelompok_import_owner_key = ?", uid, owner).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImportNotFound
	}
	if err != nil {
		return nil, mapPGError(err)
	}
	return row.ToSession()
}

func (r *gormRepository) SaveImport(ctx context.Context, s *m.ImportSession) error {
	row, err := m.ImportToModel(s)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kelompok_import_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"kelompok_import_rows", "kelompok_import_issues"}),
	}).Create(row).Error
	if err != nil {
		return mapPGError(err)
	}
	if s.CreatedAt == 0 {
		s.CreatedAt = row.KelompokImportCreatedAt.Unix()
	}
	return nil
}

func (r *gormRepository) DeleteImport(ctx context.Context, owner, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrImportNotFound
	}
	res := r.db.WithContext(ctx).
		Where("kelompok_import_id = ? AND kelompok_import_owner_key = ?", uid, owner).
		Delete(&m.KelompokImportModel{})
	if res.Error != nil {
		return mapPGError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrImportNotFound
	}
	return nil
}

func (r *gormRepository) PurgeStale(ctx context.Context, before time.Time) (int64, int64, error) {
	var drafts, imports int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("kelompok_draft_updated_at < ?", before).Delete(&m.KelompokDraftModel{})
		if res.Error != nil {
			return res.Error
		}
		drafts = res.RowsAffected

		res = tx.Where("kelompok_import_created_at < ?", before).Delete(&m.KelompokImportModel{})
		if res.Error != nil {
			return res.Error
		}
		imports = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, mapPGError(err)
	}
	return drafts, imports, nil
}
