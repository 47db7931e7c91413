// file: internals/features/akademik/kelompok_kecil/model/record_model.go
package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

/* ======================================================
   Tabel milik BFF: bff_kelompok_drafts
   (satu draft per owner per semester)
====================================================== */

type KelompokDraftModel struct {
	KelompokDraftID       uuid.UUID      `gorm:"column:kelompok_draft_id;type:uuid;primaryKey" json:"kelompok_draft_id"`
	KelompokDraftOwnerKey string         `gorm:"column:kelompok_draft_owner_key;type:varchar(120);not null;uniqueIndex:uq_kelompok_draft_owner_semester" json:"-"`
	KelompokDraftSemester int            `gorm:"column:kelompok_draft_semester;not null;uniqueIndex:uq_kelompok_draft_owner_semester" json:"kelompok_draft_semester"`
	KelompokDraftRoster   datatypes.JSON `gorm:"column:kelompok_draft_roster;type:jsonb;not null;default:'[]'" json:"kelompok_draft_roster"`
	KelompokDraftBaseline datatypes.JSON `gorm:"column:kelompok_draft_baseline;type:jsonb;not null;default:'{}'" json:"kelompok_draft_baseline"`
	KelompokDraftCurrent  datatypes.JSON `gorm:"column:kelompok_draft_current;type:jsonb;not null;default:'{}'" json:"kelompok_draft_current"`
	KelompokDraftSelected pq.StringArray `gorm:"column:kelompok_draft_selected;type:text[]" json:"kelompok_draft_selected"`

	KelompokDraftCreatedAt time.Time `gorm:"column:kelompok_draft_created_at;autoCreateTime" json:"kelompok_draft_created_at"`
	KelompokDraftUpdatedAt time.Time `gorm:"column:kelompok_draft_updated_at;autoUpdateTime;index" json:"kelompok_draft_updated_at"`
}

func (KelompokDraftModel) TableName() string { return "bff_kelompok_drafts" }

func DraftToModel(d *Draft) (*KelompokDraftModel, error) {
	roster, err := sonic.Marshal(d.Roster)
	if err != nil {
		return nil, err
	}
	base, err := sonic.Marshal(d.Baseline)
	if err != nil {
		return nil, err
	}
	cur, err := sonic.Marshal(d.Current)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(d.ID)
	if err != nil {
		id = uuid.New()
		d.ID = id.String()
	}
	return &KelompokDraftModel{
		KelompokDraftID:       id,
		KelompokDraftOwnerKey: d.OwnerKey,
		KelompokDraftSemester: d.Semester,
		KelompokDraftRoster:   datatypes.JSON(roster),
		KelompokDraftBaseline: datatypes.JSON(base),
		KelompokDraftCurrent:  datatypes.JSON(cur),
		KelompokDraftSelected: pq.StringArray(append([]string{}, d.Selected...)),
	}, nil
}

func (m *KelompokDraftModel) ToDraft() (*Draft, error) {
	d := &Draft{
		ID:        m.KelompokDraftID.String(),
		OwnerKey:  m.KelompokDraftOwnerKey,
		Semester:  m.KelompokDraftSemester,
		Baseline:  AssignmentMap{},
		Current:   AssignmentMap{},
		Selected:  []string(m.KelompokDraftSelected),
		UpdatedAt: m.KelompokDraftUpdatedAt.Unix(),
	}
	if len(m.KelompokDraftRoster) > 0 {
		if err := sonic.Unmarshal(m.KelompokDraftRoster, &d.Roster); err != nil {
			return nil, err
		}
	}
	if len(m.KelompokDraftBaseline) > 0 {
		if err := sonic.Unmarshal(m.KelompokDraftBaseline, &d.Baseline); err != nil {
			return nil, err
		}
	}
	if len(m.KelompokDraftCurrent) > 0 {
		if err := sonic.Unmarshal(m.KelompokDraftCurrent, &d.Current); err != nil {
			return nil, err
		}
	}
	if d.Selected == nil {
		d.Selected = []string{}
	}
	return d, nil
}

/* ======================================================
   Tabel: bff_kelompok_imports
====================================================== */

type KelompokImportModel struct {
	KelompokImportID       uuid.UUID      `gorm:"column:kelompok_import_id;type:uuid;primaryKey" json:"kelompok_import_id"`
	KelompokImportOwnerKey string         `gorm:"column:kelompok_import_owner_key;type:varchar(120);not null;index" json:"-"`
	KelompokImportSemester int            `gorm:"column:kelompok_import_semester;not null" json:"kelompok_import_semester"`
	KelompokImportFileName string         `gorm:"column:kelompok_import_file_name;type:text" json:"kelompok_import_file_name"`
	KelompokImportRows     datatypes.JSON `gorm:"column:kelompok_import_rows;type:jsonb;not null;default:'[]'" json:"kelompok_import_rows"`
	KelompokImportIssues   datatypes.JSON `gorm:"column:kelompok_import_issues;type:jsonb;not null;default:'[]'" json:"kelompok_import_issues"`

	KelompokImportCreatedAt time.Time `gorm:"column:kelompok_import_created_at;autoCreateTime;index" json:"kelompok_import_created_at"`
}

func (KelompokImportModel) TableName() string { return "bff_kelompok_imports" }

func ImportToModel(s *ImportSession) (*KelompokImportModel, error) {
	rows, err := sonic.Marshal(s.Rows)
	if err != nil {
		return nil, err
	}
	issues, err := sonic.Marshal(s.Issues)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(s.ID)
	if err != nil {
		id = uuid.New()
		s.ID = id.String()
	}
	return &KelompokImportModel{
		KelompokImportID:       id,
		KelompokImportOwnerKey: s.OwnerKey,
		KelompokImportSemester: s.Semester,
		KelompokImportFileName: s.FileName,
		KelompokImportRows:     datatypes.JSON(rows),
		KelompokImportIssues:   datatypes.JSON(issues),
	}, nil
}

func (m *KelompokImportModel) ToSession() (*ImportSession, error) {
	s := &ImportSession{
		ID:        m.KelompokImportID.String(),
		OwnerKey:  m.KelompokImportOwnerKey,
		Semester:  m.KelompokImportSemester,
		FileName:  m.KelompokImportFileName,
		CreatedAt: m.KelompokImportCreatedAt.Unix(),
	}
	if len(m.KelompokImportRows) > 0 {
		if err := sonic.Unmarshal(m.KelompokImportRows, &s.Rows); err != nil {
			return nil, err
		}
	}
	if len(m.KelompokImportIssues) > 0 {
		if err := sonic.Unmarshal(m.KelompokImportIssues, &s.Issues); err != nil {
			return nil, err
		}
	}
	return s, nil
}
