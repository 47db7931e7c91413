package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"akademikku_backend/internals/helpers/apiclient"

	m "akademikku_backend/internals/features/akademik/kelompok_kecil/model"
	"akademikku_backend/internals/features/akademik/kelompok_kecil/repository"
)

type fakeRecord struct {
	ID    int
	NIM   string
	Group int
}

// fakeUpstream meniru resource /mahasiswa dan /kelompok-kecil.
type fakeUpstream struct {
	mu        sync.Mutex
	students  []map[string]any
	records   map[int]*fakeRecord
	nextID    int
	failNIM   map[string]bool // PUT/DELETE untuk NIM ini → 500
	failVetID map[int]bool
	batchErr  bool
	calls     []string
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		students: []map[string]any{
			{"id": 1, "nim": "2101001", "nama": "Ani Lestari", "semester": 3},
			{"id": 2, "nim": "2101002", "nama": "Budi Santoso", "semester": "3"},
			{"id": 3, "nim": "2101003", "name": "Citra Dewi", "semester": 3},
			{"id": 4, "nim": "2101004", "nama": "Dodi Veteran", "semester": 3, "is_veteran": true, "veteran_semester": 5},
			{"id": 5, "nim": "2101005", "nama": "Eka Multi", "semester": 3, "is_veteran": true, "veteran_semester": 5, "is_multi_veteran": true},
		},
		records:   map[int]*fakeRecord{},
		nextID:    100,
		failNIM:   map[string]bool{},
		failVetID: map[int]bool{},
	}
}

func (f *fakeUpstream) seed(nim string, group int) int {
	f.nextID++
	f.records[f.nextID] = &fakeRecord{ID: f.nextID, NIM: nim, Group: group}
	return f.nextID
}

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/mahasiswa":
		writeData(w, 200, f.students)

	case r.Method == http.MethodGet && r.URL.Path == "/kelompok-kecil":
		ids := make([]int, 0, len(f.records))
		for id := range f.records {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			rec := f.records[id]
			out = append(out, map[string]any{
				"id": rec.ID, "nim": rec.NIM, "nama_kelompok": strconv.Itoa(rec.Group),
			})
		}
		writeData(w, 200, out)

	case r.Method == http.MethodPost && r.URL.Path == "/generate/kelompok-kecil":
		var body struct {
			JumlahKelompok int      `json:"jumlah_kelompok"`
			NIMs           []string `json:"nims"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		out := make([]map[string]any, 0, len(body.NIMs))
		for i, nim := range body.NIMs {
			out = append(out, map[string]any{"nim": nim, "kelompok": i%body.JumlahKelompok + 1})
		}
		writeData(w, 200, out)

	case r.Method == http.MethodPost && r.URL.Path == "/kelompok-kecil/batch":
		if f.batchErr {
			w.WriteHeader(500)
			_, _ = w.Write([]byte(`{"message":"batch gagal"}`))
			return
		}
		var body struct {
			Data []struct {
				NIM          string `json:"nim"`
				NamaKelompok string `json:"nama_kelompok"`
			} `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, it := range body.Data {
			g, _ := strconv.Atoi(it.NamaKelompok)
			f.seed(it.NIM, g)
		}
		writeData(w, 201, nil)

	case len(parts) == 2 && parts[0] == "kelompok-kecil":
		id, _ := strconv.Atoi(parts[1])
		rec, ok := f.records[id]
		if !ok {
			w.WriteHeader(404)
			_, _ = w.Write([]byte(`{"message":"tidak ada"}`))
			return
		}
		if f.failNIM[rec.NIM] {
			w.WriteHeader(500)
			_, _ = w.Write([]byte(`{"message":"gagal simpan"}`))
			return
		}
		switch r.Method {
		case http.MethodPut:
			var body struct {
				NamaKelompok string `json:"nama_kelompok"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			rec.Group, _ = strconv.Atoi(body.NamaKelompok)
			writeData(w, 200, nil)
		case http.MethodDelete:
			delete(f.records, id)
			writeData(w, 200, nil)
		}

	case r.Method == http.MethodPut && len(parts) == 3 && parts[0] == "mahasiswa" && parts[2] == "veteran":
		id, _ := strconv.Atoi(parts[1])
		if f.failVetID[id] {
			w.WriteHeader(422)
			_, _ = w.Write([]byte(`{"message":"semester veteran tidak valid"}`))
			return
		}
		writeData(w, 200, nil)

	default:
		w.WriteHeader(404)
		_, _ = w.Write([]byte(`{"message":"route tidak ada"}`))
	}
}

func (f *fakeUpstream) groupOf(nim string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.NIM == nim {
			return rec.Group
		}
	}
	return 0
}

func newTestService(t *testing.T, up *fakeUpstream) (*Service, Scope) {
	t.Helper()
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)
	s := New(apiclient.New(srv.URL, 5*time.Second), repository.NewInmemRepository(), 3)
	return s, Scope{Owner: "dosen-1", Semester: 3, Token: "tkn"}
}

func groupsOf(dr *m.Draft) map[string]int {
	out := map[string]int{}
	for nim, a := range dr.Current {
		out[nim] = a.Group
	}
	return out
}
