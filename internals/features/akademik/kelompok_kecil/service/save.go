// file: internals/features/akademik/kelompok_kecil/service/save.go
package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"akademikku_backend/internals/helpers/apiclient"

	d "akademikku_backend/internals/features/akademik/kelompok_kecil/dto"
	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
)

// Save mengirim selisih draft ke upstream:
// create sebagai satu batch, update/delete per item paralel terbatas.
// Kegagalan per item tidak menghentikan item lain.
func (s *Service) Save(ctx context.Context, sc Scope) (m.SaveReport, *m.Draft, error) {
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return m.SaveReport{}, nil, err
	}
	diff := m.ComputeDiff(dr.Baseline, dr.Current)
	if diff.Empty() {
		return m.SaveReport{}, dr, nil
	}

	cl := s.cl(sc)
	rep := PushDiff(ctx, cl, sc.Semester, diff, s.MaxParallel)
	log.Printf("[KELOMPOK-KECIL] save semester=%d created=%d updated=%d deleted=%d failed=%d",
		sc.Semester, rep.Created, rep.Updated, rep.Deleted, rep.Failed)

	// baseline disegarkan dari upstream supaya record id baru ikut terbawa;
	// item yang gagal tetap tersisa di diff berikutnya.
	fresh, ferr := s.fetchAssignments(ctx, cl, sc.Semester)
	switch {
	case ferr == nil:
		fillNames(fresh, dr.Roster)
		dr.Baseline = fresh
		if rep.OK() {
			dr.Current = fresh.Clone()
		}
	case rep.OK():
		log.Printf("[KELOMPOK-KECIL] reload setelah save gagal: %v", ferr)
		dr.Baseline = dr.Current.Clone()
	default:
		log.Printf("[KELOMPOK-KECIL] reload setelah save gagal: %v", ferr)
	}
	if err := s.Repo.SaveDraft(ctx, dr); err != nil {
		return rep, nil, err
	}
	return rep, dr, nil
}

// PushDiff menjalankan satu diff terhadap upstream dan mengembalikan laporan agregat.
func PushDiff(ctx context.Context, cl *apiclient.Client, semester int, diff m.Diff, maxParallel int) m.SaveReport {
	var (
		rep m.SaveReport
		mu  sync.Mutex
	)
	fail := func(nim, op string, err error) {
		f := m.Failure{NIM: nim, Op: op, Error: err.Error()}
		var ae *apiclient.APIError
		if errors.As(err, &ae) {
			f.Status = ae.Status
			if ae.Message != "" {
				f.Error = ae.Message
			}
		}
		mu.Lock()
		rep.Failed++
		rep.Failures = append(rep.Failures, f)
		mu.Unlock()
	}

	if len(diff.Creates) > 0 {
		req := d.BatchCreateRequest{Semester: semester, Data: make([]d.BatchItem, 0, len(diff.Creates))}
		for _, a := range diff.Creates {
			req.Data = append(req.Data, d.BatchItem{NIM: a.NIM, NamaKelompok: strconv.Itoa(a.Group)})
		}
		if err := cl.Post(ctx, batchPath, req, nil); err != nil {
			for _, a := range diff.Creates {
				fail(a.NIM, "create", err)
			}
		} else {
			rep.Created = len(diff.Creates)
		}
	}

	var g errgroup.Group
	g.SetLimit(maxParallel)
	for _, a := range diff.Updates {
		a := a
		g.Go(func() error {
			if a.RecordID <= 0 {
				fail(a.NIM, "update", errors.New("record id kelompok tidak diketahui"))
				return nil
			}
			body := d.UpdateKelompokRequest{NamaKelompok: strconv.Itoa(a.Group), Semester: semester}
			if err := cl.Put(ctx, groupsPath+"/"+strconv.Itoa(a.RecordID), body, nil); err != nil {
				fail(a.NIM, "update", err)
				return nil
			}
			mu.Lock()
			rep.Updated++
			mu.Unlock()
			return nil
		})
	}
	for _, a := range diff.Deletes {
		a := a
		g.Go(func() error {
			if a.RecordID <= 0 {
				fail(a.NIM, "delete", errors.New("record id kelompok tidak diketahui"))
				return nil
			}
			if err := cl.Delete(ctx, groupsPath+"/"+strconv.Itoa(a.RecordID)); err != nil {
				fail(a.NIM, "delete", err)
				return nil
			}
			mu.Lock()
			rep.Deleted++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	sortFailures(rep.Failures)
	return rep
}

func sortFailures(fs []m.Failure) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Op != fs[j].Op {
			return fs[i].Op < fs[j].Op
		}
		return fs[i].NIM < fs[j].NIM
	})
}
