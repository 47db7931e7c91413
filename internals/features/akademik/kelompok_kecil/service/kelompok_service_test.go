package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	d "akademikku_backend/internals/features/akademik/kelompok_kecil/dto"
	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
)

func TestLoadDraftBuildsBaseline(t *testing.T) {
	up := newFakeUpstream()
	up.seed("2101001", 1)
	up.seed("2101002", 2)
	s, sc := newTestService(t, up)

	dr, err := s.Draft(context.Background(), sc)
	require.NoError(t, err)
	assert.Len(t, dr.Roster, 5)
	assert.Equal(t, "Citra Dewi", dr.Roster[2].Name)
	assert.Equal(t, map[string]int{"2101001": 1, "2101002": 2}, groupsOf(dr))
	assert.Equal(t, "Ani Lestari", dr.Current["2101001"].Name)
	assert.ElementsMatch(t, []string{"2101001", "2101002"}, dr.Selected)
	assert.True(t, m.ComputeDiff(dr.Baseline, dr.Current).Empty())

	// kedua kali dari store, tanpa memanggil upstream
	calls := len(up.calls)
	_, err = s.Draft(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, calls, len(up.calls))
}

func TestSelectVeteranRules(t *testing.T) {
	s, sc := newTestService(t, newFakeUpstream())

	dr, rejected, err := s.Select(context.Background(), sc, []string{"2101003", "2101004", "2101005", "9999"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2101003", "2101005"}, dr.Selected)
	require.Len(t, rejected, 2)
	assert.Equal(t, "2101004", rejected[0].NIM)
	assert.Contains(t, rejected[0].Reason, "semester 5")
	assert.Equal(t, "9999", rejected[1].NIM)

	dr, err = s.Deselect(context.Background(), sc, []string{"2101003"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2101005"}, dr.Selected)
}

func TestGenerateReplacesCurrent(t *testing.T) {
	up := newFakeUpstream()
	id := up.seed("2101001", 4)
	s, sc := newTestService(t, up)
	ctx := context.Background()

	// hanya 2101001 yang terpilih dari baseline
	_, err := s.Generate(ctx, sc, 2)
	require.Error(t, err)

	_, _, err = s.Select(ctx, sc, []string{"2101002", "2101003"})
	require.NoError(t, err)
	dr, err := s.Generate(ctx, sc, 2)
	require.NoError(t, err)
	assert.Len(t, dr.Current, 3)
	assert.Equal(t, id, dr.Current["2101001"].RecordID)
	assert.Equal(t, "Budi Santoso", dr.Current["2101002"].Name)

	// belum disimpan: upstream tetap kelompok lama
	assert.Equal(t, 4, up.groupOf("2101001"))
}

func TestGenerateValidation(t *testing.T) {
	s, sc := newTestService(t, newFakeUpstream())
	_, err := s.Generate(context.Background(), sc, 2)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)

	_, _, err = s.Select(context.Background(), sc, []string{"2101001"})
	require.NoError(t, err)
	_, err = s.Generate(context.Background(), sc, 3)
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "melebihi")
}

func TestMoveAndSave(t *testing.T) {
	up := newFakeUpstream()
	up.seed("2101001", 1)
	up.seed("2101002", 1)
	up.seed("2101003", 2)
	s, sc := newTestService(t, up)
	ctx := context.Background()

	_, err := s.Move(ctx, sc, "2101002", 2) // update
	require.NoError(t, err)
	_, err = s.Move(ctx, sc, "2101003", 0) // delete
	require.NoError(t, err)
	_, err = s.Move(ctx, sc, "2101005", 1) // create
	require.NoError(t, err)
	_, err = s.Move(ctx, sc, "404", 1)
	assert.Error(t, err)

	diff, err := s.Diff(ctx, sc)
	require.NoError(t, err)
	assert.Len(t, diff.Creates, 1)
	assert.Len(t, diff.Updates, 1)
	assert.Len(t, diff.Deletes, 1)

	rep, dr, err := s.Save(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, m.SaveReport{Created: 1, Updated: 1, Deleted: 1}, rep)
	assert.Equal(t, 2, up.groupOf("2101002"))
	assert.Equal(t, 0, up.groupOf("2101003"))
	assert.Equal(t, 1, up.groupOf("2101005"))

	// baseline = current setelah sukses, record id baru ikut
	assert.True(t, m.ComputeDiff(dr.Baseline, dr.Current).Empty())
	assert.Greater(t, dr.Current["2101005"].RecordID, 0)
}

func TestSaveContinuesPastFailures(t *testing.T) {
	up := newFakeUpstream()
	up.seed("2101001", 1)
	up.seed("2101002", 1)
	up.failNIM["2101001"] = true
	s, sc := newTestService(t, up)
	ctx := context.Background()

	_, err := s.Move(ctx, sc, "2101001", 3)
	require.NoError(t, err)
	_, err = s.Move(ctx, sc, "2101002", 3)
	require.NoError(t, err)

	rep, dr, err := s.Save(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Updated)
	assert.Equal(t, 1, rep.Failed)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "2101001", rep.Failures[0].NIM)
	assert.Equal(t, 500, rep.Failures[0].Status)

	// sisa perubahan yang gagal tetap pending
	diff := m.ComputeDiff(dr.Baseline, dr.Current)
	require.Len(t, diff.Updates, 1)
	assert.Equal(t, "2101001", diff.Updates[0].NIM)
}

func TestSaveBatchFailureMarksAllCreates(t *testing.T) {
	up := newFakeUpstream()
	up.batchErr = true
	s, sc := newTestService(t, up)
	ctx := context.Background()

	for _, nim := range []string{"2101001", "2101002"} {
		_, err := s.Move(ctx, sc, nim, 1)
		require.NoError(t, err)
	}
	rep, _, err := s.Save(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Created)
	assert.Equal(t, 2, rep.Failed)
}

func TestDiscard(t *testing.T) {
	s, sc := newTestService(t, newFakeUpstream())
	ctx := context.Background()

	_, err := s.Move(ctx, sc, "2101001", 1)
	require.NoError(t, err)
	require.NoError(t, s.Discard(ctx, sc))

	var fe *fiber.Error
	require.ErrorAs(t, s.Discard(ctx, sc), &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)

	dr, err := s.Draft(ctx, sc)
	require.NoError(t, err)
	assert.Empty(t, dr.Current)
}

func TestUpdateVeterans(t *testing.T) {
	up := newFakeUpstream()
	up.failVetID[2] = true
	s, sc := newTestService(t, up)
	ctx := context.Background()

	_, err := s.Draft(ctx, sc)
	require.NoError(t, err)

	five := 5
	rep, err := s.UpdateVeterans(ctx, sc, []d.VeteranItem{
		{StudentID: 1, NIM: "2101001", IsVeteran: true, VeteranSemester: &five},
		{StudentID: 2, NIM: "2101002", IsVeteran: true},
		{StudentID: 4, NIM: "2101004", IsVeteran: false},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Updated)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, "semester veteran tidak valid", rep.Failures[0].Error)

	dr, err := s.Draft(ctx, sc)
	require.NoError(t, err)
	ani, _ := dr.Student("2101001")
	assert.True(t, ani.LockedFor(3))
	dodi, _ := dr.Student("2101004")
	assert.False(t, dodi.LockedFor(3))
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 7, 7, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "kelompok-kecil-semester-3-20250707-1630.xlsx", ExportFileName(3, now))
}
