// file: internals/features/akademik/kelompok_kecil/service/veteran.go
package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"akademikku_backend/internals/helpers/apiclient"

	d "akademikku_backend/internals/features/akademik/kelompok_kecil/dto"
	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
	"akademikku_backend/internals/features/akademik/kelompok_kecil/repository"
)

type VeteranReport struct {
	Updated  int         `json:"updated"`
	Failed   int         `json:"failed"`
	Failures []m.Failure `json:"failures,omitempty"`
}

// UpdateVeterans memperbarui status veteran per mahasiswa; lanjut walau ada yang gagal.
// Roster draft semester ini ikut disesuaikan untuk item yang berhasil.
func (s *Service) UpdateVeterans(ctx context.Context, sc Scope, items []d.VeteranItem) (VeteranReport, error) {
	cl := s.cl(sc)
	var (
		rep  VeteranReport
		mu   sync.Mutex
		done = make([]d.VeteranItem, 0, len(items))
	)
	var g errgroup.Group
	g.SetLimit(s.MaxParallel)
	for _, it := range items {
		it := it
		g.Go(func() error {
			body := d.VeteranUpdateRequest{
				IsVeteran:       it.IsVeteran,
				IsMultiVeteran:  it.IsMultiVeteran,
				VeteranSemester: it.VeteranSemester,
			}
			err := cl.Put(ctx, rosterPath+"/"+strconv.Itoa(it.StudentID)+"/veteran", body, nil)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				f := m.Failure{NIM: it.NIM, Op: "veteran", Error: err.Error()}
				var ae *apiclient.APIError
				if errors.As(err, &ae) {
					f.Status = ae.Status
					if ae.Message != "" {
						f.Error = ae.Message
					}
				}
				rep.Failed++
				rep.Failures = append(rep.Failures, f)
				return nil
			}
			rep.Updated++
			done = append(done, it)
			return nil
		})
	}
	_ = g.Wait()
	sortFailures(rep.Failures)
	log.Printf("[KELOMPOK-VETERAN] semester=%d updated=%d failed=%d", sc.Semester, rep.Updated, rep.Failed)

	if len(done) == 0 {
		return rep, nil
	}
	dr, err := s.Repo.GetDraft(ctx, sc.Owner, sc.Semester)
	if errors.Is(err, repository.ErrDraftNotFound) {
		return rep, nil
	}
	if err != nil {
		return rep, err
	}
	ApplyVeterans(dr, done)
	return rep, s.Repo.SaveDraft(ctx, dr)
}

func ApplyVeterans(dr *m.Draft, items []d.VeteranItem) {
	byID := make(map[int]d.VeteranItem, len(items))
	for _, it := range items {
		byID[it.StudentID] = it
	}
	for i, st := range dr.Roster {
		it, ok := byID[st.ID]
		if !ok {
			continue
		}
		st.IsVeteran = it.IsVeteran
		st.MultiSemester = it.IsMultiVeteran
		st.VeteranSemester = 0
		if it.VeteranSemester != nil {
			st.VeteranSemester = *it.VeteranSemester
		}
		dr.Roster[i] = st
	}
}
