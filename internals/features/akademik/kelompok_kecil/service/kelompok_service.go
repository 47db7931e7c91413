// file: internals/features/akademik/kelompok_kecil/service/kelompok_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"akademikku_backend/internals/helpers/apiclient"

	d "akademikku_backend/internals/features/akademik/kelompok_kecil/dto"
	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
	"akademikku_backend/internals/features/akademik/kelompok_kecil/repository"
)

const (
	rosterPath   = "/mahasiswa"
	groupsPath   = "/kelompok-kecil"
	batchPath    = "/kelompok-kecil/batch"
	generatePath = "/generate/kelompok-kecil"
)

type Service struct {
	Client      *apiclient.Client
	Repo        repository.Repository
	MaxParallel int
}

func New(client *apiclient.Client, repo repository.Repository, maxParallel int) *Service {
	if maxParallel <= 0 {
		maxParallel = 4
	}
	return &Service{Client: client, Repo: repo, MaxParallel: maxParallel}
}

// Scope: siapa + semester berapa + token yang diteruskan.
type Scope struct {
	Owner    string
	Semester int
	Token    string
}

func (s *Service) cl(sc Scope) *apiclient.Client { return s.Client.WithToken(sc.Token) }

func semesterQuery(sem int) url.Values {
	return url.Values{"semester": {strconv.Itoa(sem)}}
}

/* =========================
   Load
   ========================= */

func (s *Service) fetchRoster(ctx context.Context, cl *apiclient.Client, sem int) ([]m.Student, error) {
	var rows []d.MahasiswaRow
	if err := cl.Get(ctx, rosterPath, semesterQuery(sem), &rows); err != nil {
		return nil, err
	}
	out := make([]m.Student, 0, len(rows))
	for _, r := range rows {
		st := r.ToStudent()
		if st.NIM == "" {
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NIM < out[j].NIM })
	return out, nil
}

func (s *Service) fetchAssignments(ctx context.Context, cl *apiclient.Client, sem int) (m.AssignmentMap, error) {
	var rows []d.KelompokRow
	if err := cl.Get(ctx, groupsPath, semesterQuery(sem), &rows); err != nil {
		return nil, err
	}
	out := make(m.AssignmentMap, len(rows))
	for _, r := range rows {
		a := r.ToAssignment()
		if a.NIM == "" || a.Group <= 0 {
			continue
		}
		out[a.NIM] = a
	}
	return out, nil
}

// LoadDraft memuat ulang roster + kelompok dari upstream; baseline dan current di-reset.
func (s *Service) LoadDraft(ctx context.Context, sc Scope) (*m.Draft, error) {
	cl := s.cl(sc)
	var (
		roster []m.Student
		groups m.AssignmentMap
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		roster, err = s.fetchRoster(gctx, cl, sc.Semester)
		return err
	})
	g.Go(func() (err error) {
		groups, err = s.fetchAssignments(gctx, cl, sc.Semester)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fillNames(groups, roster)
	draft := &m.Draft{
		OwnerKey: sc.Owner,
		Semester: sc.Semester,
		Roster:   roster,
		Baseline: groups,
		Current:  groups.Clone(),
		Selected: make([]string, 0, len(groups)),
	}
	for _, a := range groups.Sorted() {
		draft.Selected = append(draft.Selected, a.NIM)
	}
	if prev, err := s.Repo.GetDraft(ctx, sc.Owner, sc.Semester); err == nil {
		draft.ID = prev.ID
	}
	if err := s.Repo.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	log.Printf("[KELOMPOK-KECIL] load semester=%d roster=%d assigned=%d", sc.Semester, len(roster), len(groups))
	return draft, nil
}

// Draft mengambil draft tersimpan; bila belum ada, dimuat dari upstream.
func (s *Service) Draft(ctx context.Context, sc Scope) (*m.Draft, error) {
	dr, err := s.Repo.GetDraft(ctx, sc.Owner, sc.Semester)
	if errors.Is(err, repository.ErrDraftNotFound) {
		return s.LoadDraft(ctx, sc)
	}
	return dr, err
}

func fillNames(as m.AssignmentMap, roster []m.Student) {
	byNIM := make(map[string]string, len(roster))
	for _, st := range roster {
		byNIM[st.NIM] = st.Name
	}
	for k, a := range as {
		if n, ok := byNIM[a.NIM]; ok && n != "" {
			a.Name = n
			as[k] = a
		}
	}
}

/* =========================
   Seleksi
   ========================= */

// Select menambah NIM ke seleksi; veteran yang terkunci ditolak per NIM.
func (s *Service) Select(ctx context.Context, sc Scope, nims []string) (*m.Draft, []m.Rejection, error) {
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return nil, nil, err
	}
	rejected := ApplySelect(dr, nims)
	if err := s.Repo.SaveDraft(ctx, dr); err != nil {
		return nil, nil, err
	}
	return dr, rejected, nil
}

func ApplySelect(dr *m.Draft, nims []string) []m.Rejection {
	var rejected []m.Rejection
	for _, nim := range nims {
		st, ok := dr.Student(nim)
		switch {
		case !ok:
			rejected = append(rejected, m.Rejection{NIM: nim, Reason: "NIM tidak ada di roster semester ini"})
		case st.LockedFor(dr.Semester):
			rejected = append(rejected, m.Rejection{
				NIM:    nim,
				Reason: fmt.Sprintf("Mahasiswa veteran sudah dipakai di semester %d", st.VeteranSemester),
			})
		case !dr.IsSelected(nim):
			dr.Selected = append(dr.Selected, nim)
		}
	}
	return rejected
}

func (s *Service) Deselect(ctx context.Context, sc Scope, nims []string) (*m.Draft, error) {
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return nil, err
	}
	ApplyDeselect(dr, nims)
	if err := s.Repo.SaveDraft(ctx, dr); err != nil {
		return nil, err
	}
	return dr, nil
}

func ApplyDeselect(dr *m.Draft, nims []string) {
	drop := make(map[string]bool, len(nims))
	for _, n := range nims {
		drop[n] = true
	}
	kept := dr.Selected[:0]
	for _, n := range dr.Selected {
		if !drop[n] {
			kept = append(kept, n)
		}
	}
	dr.Selected = kept
}

/* =========================
   Generate + Move
   ========================= */

// Generate meminta upstream membagi mahasiswa terpilih ke n kelompok.
// Hasilnya menggantikan current (belum disimpan).
func (s *Service) Generate(ctx context.Context, sc Scope, n int) (*m.Draft, error) {
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return nil, err
	}
	if len(dr.Selected) == 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "Pilih mahasiswa terlebih dahulu")
	}
	if n > len(dr.Selected) {
		return nil, fiber.NewError(http.StatusBadRequest,
			fmt.Sprintf("Jumlah kelompok (%d) melebihi jumlah mahasiswa terpilih (%d)", n, len(dr.Selected)))
	}

	var rows []d.KelompokRow
	req := d.GenerateRequest{Semester: sc.Semester, JumlahKelompok: n, NIMs: dr.Selected}
	if err := s.cl(sc).Post(ctx, generatePath, req, &rows); err != nil {
		return nil, err
	}

	next := make(m.AssignmentMap, len(rows))
	for _, r := range rows {
		a := r.ToAssignment()
		if a.NIM == "" || a.Group <= 0 {
			continue
		}
		a.RecordID = 0
		if base, ok := dr.Baseline[a.NIM]; ok {
			a.RecordID = base.RecordID
		}
		next[a.NIM] = a
	}
	fillNames(next, dr.Roster)
	dr.Current = next
	if err := s.Repo.SaveDraft(ctx, dr); err != nil {
		return nil, err
	}
	log.Printf("[KELOMPOK-KECIL] generate semester=%d n=%d assigned=%d", sc.Semester, n, len(next))
	return dr, nil
}

// Move memindah satu mahasiswa; group 0 = keluarkan dari kelompok.
func (s *Service) Move(ctx context.Context, sc Scope, nim string, group int) (*m.Draft, error) {
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return nil, err
	}
	if err := ApplyMove(dr, nim, group); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveDraft(ctx, dr); err != nil {
		return nil, err
	}
	return dr, nil
}

func ApplyMove(dr *m.Draft, nim string, group int) error {
	st, ok := dr.Student(nim)
	if !ok {
		return fiber.NewError(http.StatusNotFound, "NIM tidak ada di roster semester ini")
	}
	if group <= 0 {
		delete(dr.Current, nim)
		return nil
	}
	a := dr.Current[nim]
	if a.NIM == "" {
		a = m.Assignment{NIM: nim, Name: st.Name}
		if base, ok := dr.Baseline[nim]; ok {
			a.RecordID = base.RecordID
		}
	}
	a.Group = group
	dr.Current[nim] = a
	return nil
}

func (s *Service) Diff(ctx context.Context, sc Scope) (m.Diff, error) {
	dr, err := s.Draft(ctx, sc)
	if err != nil {
		return m.Diff{}, err
	}
	return m.ComputeDiff(dr.Baseline, dr.Current), nil
}

// Discard membuang draft; GET berikutnya memuat ulang dari upstream.
func (s *Service) Discard(ctx context.Context, sc Scope) error {
	err := s.Repo.DeleteDraft(ctx, sc.Owner, sc.Semester)
	if errors.Is(err, repository.ErrDraftNotFound) {
		return fiber.NewError(http.StatusNotFound, "Draft tidak ditemukan")
	}
	return err
}
