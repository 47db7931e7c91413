package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
	"akademikku_backend/internals/features/akademik/kelompok_kecil/repository"
)

func TestReapOnce(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInmemRepository()
	require.NoError(t, repo.SaveDraft(ctx, &m.Draft{OwnerKey: "u1", Semester: 1}))

	// baru disimpan: belum melewati retensi
	drafts, _, err := ReapOnce(ctx, repo, ReaperConfig{RetentionDays: 14}, time.Now())
	require.NoError(t, err)
	assert.Zero(t, drafts)

	// dry run tidak menghapus apa pun
	drafts, _, err = ReapOnce(ctx, repo, ReaperConfig{RetentionDays: 14, DryRun: true}, time.Now().Add(30*24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, drafts)

	drafts, _, err = ReapOnce(ctx, repo, ReaperConfig{RetentionDays: 14}, time.Now().Add(30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), drafts)

	_, err = repo.GetDraft(ctx, "u1", 1)
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)
}

func TestStartDraftReaperDisabled(t *testing.T) {
	assert.Nil(t, StartDraftReaper(repository.NewInmemRepository(), ReaperConfig{RetentionDays: 0}))
}
