// file: internals/features/akademik/kelompok_kecil/repository/inmem_repository.go
package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
)

type draftEntry struct {
	raw     *m.KelompokDraftModel
	touched time.Time
}

type importEntry struct {
	raw     *m.KelompokImportModel
	touched time.Time
}

// inmemRepository dipakai bila DB_HOST kosong dan di test.
// Disimpan dalam bentuk model (JSON) supaya tidak ada aliasing map antar request.
type inmemRepository struct {
	mutex   sync.RWMutex
	drafts  map[string]draftEntry
	imports map[string]importEntry
	now     func() time.Time
}

func NewInmemRepository() Repository {
	return &inmemRepository{
		drafts:  map[string]draftEntry{},
		imports: map[string]importEntry{},
		now:     time.Now,
	}
}

func draftKey(owner string, semester int) string {
	return owner + "|" + strconv.Itoa(semester)
}

func (r *inmemRepository) GetDraft(_ context.Context, owner string, semester int) (*m.Draft, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	e, ok := r.drafts[draftKey(owner, semester)]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return e.raw.ToDraft()
}

func (r *inmemRepository) SaveDraft(_ context.Context, d *m.Draft) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := draftKey(d.OwnerKey, d.Semester)
	if prev, ok := r.drafts[key]; ok {
		d.ID = prev.raw.KelompokDraftID.String()
	} else if _, err := uuid.Parse(d.ID); err != nil {
		d.ID = uuid.NewString()
	}
	row, err := m.DraftToModel(d)
	if err != nil {
		return err
	}
	now := r.now()
	row.KelompokDraftUpdatedAt = now
	r.drafts[key] = draftEntry{raw: row, touched: now}
	d.UpdatedAt = now.Unix()
	return nil
}

func (r *inmemRepository) DeleteDraft(_ context.Context, owner string, semester int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := draftKey(owner, semester)
	if _, ok := r.drafts[key]; !ok {
		return ErrDraftNotFound
	}
	delete(r.drafts, key)
	return nil
}

func (r *inmemRepository) GetImport(_ context.Context, owner, id string) (*m.ImportSession, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	e, ok := r.imports[id]
	if !ok || e.raw.KelompokImportOwnerKey != owner {
		return nil, ErrImportNotFound
	}
	return e.raw.ToSession()
}

func (r *inmemRepository) SaveImport(_ context.Context, s *m.ImportSession) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	row, err := m.ImportToModel(s)
	if err != nil {
		return err
	}
	now := r.now()
	if prev, ok := r.imports[s.ID]; ok {
		row.KelompokImportCreatedAt = prev.raw.KelompokImportCreatedAt
	} else {
		row.KelompokImportCreatedAt = now
	}
	if s.CreatedAt == 0 {
		s.CreatedAt = row.KelompokImportCreatedAt.Unix()
	}
	r.imports[s.ID] = importEntry{raw: row, touched: row.KelompokImportCreatedAt}
	return nil
}

func (r *inmemRepository) DeleteImport(_ context.Context, owner, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	e, ok := r.imports[id]
	if !ok || e.raw.KelompokImportOwnerKey != owner {
		return ErrImportNotFound
	}
	delete(r.imports, id)
	return nil
}

func (r *inmemRepository) PurgeStale(_ context.Context, before time.Time) (int64, int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var drafts, imports int64
	for k, e := range r.drafts {
		if e.touched.Before(before) {
			delete(r.drafts, k)
			drafts++
		}
	}
	for k, e := range r.imports {
		if e.touched.Before(before) {
			delete(r.imports, k)
			imports++
		}
	}
	return drafts, imports, nil
}
