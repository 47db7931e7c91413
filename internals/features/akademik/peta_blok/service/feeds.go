// file: internals/features/akademik/peta_blok/service/feeds.go
package service

import (
	"context"
	"log"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"akademikku_backend/internals/helpers/apiclient"

	d "akademikku_backend/internals/features/akademik/peta_blok/dto"
	m "akademikku_backend/internals/features/akademik/peta_blok/model"
)

const coursesPath = "/mata-kuliah"

// FeedResult: hasil fetch semua sumber untuk satu paritas/mode.
type FeedResult struct {
	Courses []d.Course
	Items   []m.LessonItem
	Sources []m.SourceStatus
}

type feedSource struct {
	name  string
	kind  m.LessonKind
	path  func(kode string) string
	fetch func(ctx context.Context, cl *apiclient.Client, path string, c d.Course, p m.Parity) ([]m.LessonItem, int, error)
}

func courseFeed(suffix string) func(string) string {
	return func(kode string) string {
		return "/mata-kuliah/" + url.PathEscape(kode) + "/" + suffix
	}
}

var blockSources = []feedSource{
	{name: "jadwal-pbl", kind: m.KindPBL, path: courseFeed("jadwal-pbl"), fetch: rowsOf(fromPBL)},
	{name: "jadwal-journal-reading", kind: m.KindJournalReading, path: courseFeed("jadwal-journal-reading"), fetch: rowsOf(fromJournal)},
	{name: "jadwal-kuliah-besar", kind: m.KindKuliahBesar, path: courseFeed("jadwal-kuliah-besar"), fetch: rowsOf(fromKuliahBesar)},
	{name: "jadwal-agenda-khusus", kind: m.KindAgendaKhusus, path: courseFeed("jadwal-agenda-khusus"), fetch: rowsOf(fromAgendaKhusus)},
	{name: "jadwal-praktikum", kind: m.KindPraktikum, path: courseFeed("jadwal-praktikum"), fetch: rowsOf(fromPraktikum)},
}

var csrSource = feedSource{
	name: "jadwal-csr", kind: m.KindCSR,
	path:  func(kode string) string { return "/csr/" + url.PathEscape(kode) + "/jadwal" },
	fetch: rowsOf(fromCSR),
}

var nonBlockSource = feedSource{
	name: "jadwal-non-blok-non-csr", kind: m.KindNonBlokNonCSR,
	path:  func(kode string) string { return "/non-blok-non-csr/" + url.PathEscape(kode) + "/jadwal" },
	fetch: rowsOf(fromNonBlok),
}

// sourcesFor memilih sumber jadwal sebuah mata kuliah sesuai mode.
func sourcesFor(c d.Course, mode m.Mode) []feedSource {
	if c.IsBlock() {
		if mode == m.ModeNonBlok {
			return nil
		}
		return blockSources
	}
	if mode == m.ModeBlok {
		return nil
	}
	if c.IsCSR() {
		return []feedSource{csrSource}
	}
	return []feedSource{nonBlockSource}
}

/* =========================
   Fetch
   ========================= */

// FetchCourses: daftar mata kuliah paritas; kegagalan di sini fatal untuk seluruh peta.
func FetchCourses(ctx context.Context, cl *apiclient.Client, parity m.Parity) ([]d.Course, error) {
	var courses []d.Course
	q := url.Values{"semester_type": {string(parity)}}
	if err := cl.Get(ctx, coursesPath, q, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// FetchFeeds: daftar mata kuliah (fatal), lalu setiap sumber per mata kuliah secara paralel terbatas.
// Sumber yang gagal dicatat di Sources dan dilewati.
func FetchFeeds(ctx context.Context, cl *apiclient.Client, parity m.Parity, mode m.Mode, maxParallel int) (*FeedResult, error) {
	courses, err := FetchCourses(ctx, cl, parity)
	if err != nil {
		return nil, err
	}

	type task struct {
		course d.Course
		src    feedSource
	}
	var tasks []task
	var used []d.Course
	for _, c := range courses {
		if strings.TrimSpace(c.Kode) == "" {
			continue
		}
		srcs := sourcesFor(c, mode)
		if len(srcs) == 0 {
			continue
		}
		used = append(used, c)
		for _, s := range srcs {
			tasks = append(tasks, task{course: c, src: s})
		}
	}

	type outcome struct {
		items  []m.LessonItem
		status m.SourceStatus
	}
	results := make([]outcome, len(tasks))

	if maxParallel <= 0 {
		maxParallel = 6
	}
	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			path := t.src.path(t.course.Kode)
			items, skipped, err := t.src.fetch(ctx, cl, path, t.course, parity)
			st := m.SourceStatus{
				Source:  t.src.name,
				Course:  t.course.Kode,
				Kind:    kindFor(t.src.kind, parity),
				OK:      err == nil,
				Items:   len(items),
				Skipped: skipped,
			}
			if err != nil {
				st.Error = err.Error()
				log.Printf("[PETA-BLOK] sumber %s (%s) gagal, dilewati: %v", t.src.name, t.course.Kode, err)
			}
			results[i] = outcome{items: items, status: st}
			return nil // toleran: kegagalan per sumber tidak membatalkan yang lain
		})
	}
	_ = g.Wait()

	res := &FeedResult{Courses: used, Sources: make([]m.SourceStatus, 0, len(results))}
	for _, r := range results {
		res.Items = append(res.Items, r.items...)
		res.Sources = append(res.Sources, r.status)
	}
	return res, nil
}

func kindFor(k m.LessonKind, p m.Parity) m.LessonKind {
	if p == m.ParityAntara && k == m.KindNonBlokNonCSR {
		return m.KindAntara
	}
	return k
}

/* =========================
   Normalisasi per bentuk resource
   ========================= */

func rowsOf[T any](conv func(T) (m.LessonItem, d.BaseRow)) func(context.Context, *apiclient.Client, string, d.Course, m.Parity) ([]m.LessonItem, int, error) {
	return func(ctx context.Context, cl *apiclient.Client, path string, c d.Course, p m.Parity) ([]m.LessonItem, int, error) {
		var rows []T
		if err := cl.Get(ctx, path, nil, &rows); err != nil {
			return nil, 0, err
		}
		out := make([]m.LessonItem, 0, len(rows))
		skipped := 0
		for _, r := range rows {
			it, base := conv(r)
			if finishItem(&it, base, c, p) {
				out = append(out, it)
			} else {
				skipped++
			}
		}
		return out, skipped, nil
	}
}

// finishItem mengisi field bersama (tanggal, jam, dosen, ruang, semester, blok). false = tanggal tidak terbaca.
func finishItem(it *m.LessonItem, b d.BaseRow, c d.Course, p m.Parity) bool {
	date, ok := ParseDateKey(b.Tanggal)
	if !ok {
		return false
	}
	it.Kind = kindFor(it.Kind, p)
	it.Date = date
	it.DateKey = m.DateKey(date)
	it.StartRaw = b.JamMulai.String()
	it.StartTime = NormalizeTime(b.JamMulai.String())
	it.EndTime = NormalizeTime(b.JamSelesai.String())
	it.SessionCount = b.JumlahSesi.Int()
	if it.SessionCount < 1 {
		it.SessionCount = 1
	}
	if len(it.Lecturers) == 0 {
		it.Lecturers = b.Lecturers()
	}
	if it.Room == "" {
		it.Room = b.Room()
	}
	it.CourseCode = c.Kode
	it.CourseName = c.Nama
	it.Block = c.Blok.Int()
	if !c.IsBlock() {
		it.Block = 0
	}
	it.Semester = ResolveSemester(c.SemesterNumber(), c.Kode, c.IsBlock(), p)
	return true
}

func fromPBL(r d.PBLRow) (m.LessonItem, d.BaseRow) {
	topic := r.ModulPBL.Label()
	if topic == "" {
		topic = strings.TrimSpace(r.Topik)
	}
	return m.LessonItem{
		Kind:     m.KindPBL,
		Topic:    topic,
		Material: strings.TrimSpace(r.PBLTipe),
		Group:    r.KelompokKecil.Label(),
	}, r.BaseRow
}

func fromJournal(r d.JournalRow) (m.LessonItem, d.BaseRow) {
	return m.LessonItem{
		Kind:  m.KindJournalReading,
		Topic: strings.TrimSpace(r.Topik),
		Group: r.KelompokKecil.Label(),
	}, r.BaseRow
}

func fromKuliahBesar(r d.KuliahBesarRow) (m.LessonItem, d.BaseRow) {
	class := strings.TrimSpace(r.Kelas)
	if class == "" {
		class = r.KelompokBesar.Label()
	}
	return m.LessonItem{
		Kind:     m.KindKuliahBesar,
		Topic:    strings.TrimSpace(r.Topik),
		Material: strings.TrimSpace(r.Materi),
		Class:    class,
	}, r.BaseRow
}

func fromAgendaKhusus(r d.AgendaKhususRow) (m.LessonItem, d.BaseRow) {
	return m.LessonItem{
		Kind:   m.KindAgendaKhusus,
		Agenda: strings.TrimSpace(r.Agenda),
		Group:  r.KelompokBesar.Label(),
	}, r.BaseRow
}

func fromPraktikum(r d.PraktikumRow) (m.LessonItem, d.BaseRow) {
	return m.LessonItem{
		Kind:     m.KindPraktikum,
		Material: strings.TrimSpace(r.Materi),
		Topic:    strings.TrimSpace(r.Topik),
		Class:    strings.TrimSpace(r.KelasPraktikum),
	}, r.BaseRow
}

func fromCSR(r d.CSRRow) (m.LessonItem, d.BaseRow) {
	topic := strings.TrimSpace(r.Topik)
	if topic == "" {
		topic = r.Kategori.Label()
	}
	return m.LessonItem{
		Kind:     m.KindCSR,
		Topic:    topic,
		Material: strings.TrimSpace(r.JenisCSR),
		Group:    r.KelompokKecil.Label(),
	}, r.BaseRow
}

func fromNonBlok(r d.NonBlokRow) (m.LessonItem, d.BaseRow) {
	return m.LessonItem{
		Kind:     m.KindNonBlokNonCSR,
		Material: strings.TrimSpace(r.Materi),
		Agenda:   strings.TrimSpace(r.Agenda),
		Group:    r.KelompokBesar.Label(),
	}, r.BaseRow
}
