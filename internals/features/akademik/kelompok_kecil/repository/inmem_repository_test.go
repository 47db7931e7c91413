package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
)

func TestInmemDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInmemRepository()

	_, err := repo.GetDraft(ctx, "u1", 3)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	dr := &m.Draft{OwnerKey: "u1", Semester: 3, Current: m.AssignmentMap{"001": {NIM: "001", Group: 1}}}
	require.NoError(t, repo.SaveDraft(ctx, dr))
	id := dr.ID
	require.NotEmpty(t, id)

	// mutasi setelah simpan tidak bocor ke store
	dr.Current["002"] = m.Assignment{NIM: "002", Group: 2}
	got, err := repo.GetDraft(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Len(t, got.Current, 1)

	// upsert mempertahankan id
	got.Current["003"] = m.Assignment{NIM: "003", Group: 1}
	got.ID = ""
	require.NoError(t, repo.SaveDraft(ctx, got))
	assert.Equal(t, id, got.ID)

	_, err = repo.GetDraft(ctx, "u2", 3)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	require.NoError(t, repo.DeleteDraft(ctx, "u1", 3))
	assert.ErrorIs(t, repo.DeleteDraft(ctx, "u1", 3), ErrDraftNotFound)
}

func TestInmemImportOwnership(t *testing.T) {
	ctx := context.Background()
	repo := NewInmemRepository()

	s := &m.ImportSession{OwnerKey: "u1", Semester: 1, Rows: []m.ImportRow{{Row: 2, NIM: "001"}}}
	require.NoError(t, repo.SaveImport(ctx, s))
	require.NotEmpty(t, s.ID)

	_, err := repo.GetImport(ctx, "u2", s.ID)
	assert.ErrorIs(t, err, ErrImportNotFound)

	got, err := repo.GetImport(ctx, "u1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Rows, got.Rows)

	assert.ErrorIs(t, repo.DeleteImport(ctx, "u2", s.ID), ErrImportNotFound)
	assert.NoError(t, repo.DeleteImport(ctx, "u1", s.ID))
}

func TestInmemPurgeStale(t *testing.T) {
	ctx := context.Background()
	repo := NewInmemRepository().(*inmemRepository)

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return old }
	require.NoError(t, repo.SaveDraft(ctx, &m.Draft{OwnerKey: "u1", Semester: 1}))
	require.NoError(t, repo.SaveImport(ctx, &m.ImportSession{OwnerKey: "u1", Semester: 1}))

	repo.now = func() time.Time { return old.Add(30 * 24 * time.Hour) }
	require.NoError(t, repo.SaveDraft(ctx, &m.Draft{OwnerKey: "u1", Semester: 2}))

	drafts, imports, err := repo.PurgeStale(ctx, old.Add(14*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), drafts)
	assert.Equal(t, int64(1), imports)

	_, err = repo.GetDraft(ctx, "u1", 2)
	assert.NoError(t, err)
}
