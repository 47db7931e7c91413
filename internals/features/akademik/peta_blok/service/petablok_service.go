// file: internals/features/akademik/peta_blok/service/petablok_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/bytedance/sonic"

	"akademikku_backend/internals/helpers/apiclient"

	d "akademikku_backend/internals/features/akademik/peta_blok/dto"
	m "akademikku_backend/internals/features/akademik/peta_blok/model"
)

const cacheKeyPrefix = "peta_blok:v1"

type Service struct {
	Client      *apiclient.Client // tanpa token; token dipasang per panggilan
	Cache       Cache
	TTL         time.Duration
	MaxParallel int
}

func New(client *apiclient.Client, cache Cache, ttl time.Duration, maxParallel int) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{Client: client, Cache: cache, TTL: ttl, MaxParallel: maxParallel}
}

func CacheKey(p m.Parity, mode m.Mode) string {
	return fmt.Sprintf("%s:%s:%s", cacheKeyPrefix, p, mode)
}

// Build mengembalikan view (dari cache kecuali refresh=true).
// Cache hanya dilayani setelah token lolos daftar mata kuliah di upstream.
func (s *Service) Build(ctx context.Context, token string, p m.Parity, mode m.Mode, refresh bool) (*m.PetaBlokView, error) {
	key := CacheKey(p, mode)
	cl := s.Client.WithToken(token)
	if s.Cache != nil && !refresh {
		if raw, ok := s.Cache.Get(ctx, key); ok {
			if _, err := FetchCourses(ctx, cl, p); err != nil {
				return nil, err
			}
			var v m.PetaBlokView
			if err := sonic.Unmarshal(raw, &v); err == nil {
				v.Cached = true
				return &v, nil
			}
			log.Printf("[PETA-BLOK] cache %s rusak, dibangun ulang", key)
		}
	}

	v, err := BuildPetaBlok(ctx, cl, p, mode, s.MaxParallel)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if raw, err := sonic.Marshal(v); err == nil {
			s.Cache.Set(ctx, key, raw, s.TTL)
		}
	}
	return v, nil
}

// Invalidate menghapus cache semua mode untuk paritas tsb.
func (s *Service) Invalidate(ctx context.Context, p m.Parity) {
	if s.Cache == nil {
		return
	}
	s.Cache.Delete(ctx, CacheKey(p, m.ModeBlok), CacheKey(p, m.ModeNonBlok), CacheKey(p, m.ModeSemua))
}

// BuildPetaBlok: fetch → normalisasi → rentang tanggal → kolom hari → grid.
func BuildPetaBlok(ctx context.Context, cl *apiclient.Client, p m.Parity, mode m.Mode, maxParallel int) (*m.PetaBlokView, error) {
	feeds, err := FetchFeeds(ctx, cl, p, mode, maxParallel)
	if err != nil {
		return nil, err
	}
	return AssembleView(p, mode, feeds), nil
}

// AssembleView membangun view dari hasil fetch (tanpa I/O).
func AssembleView(p m.Parity, mode m.Mode, feeds *FeedResult) *m.PetaBlokView {
	start, end, rangeSrc := DateRange(feeds.Courses, feeds.Items)
	days := BuildDayColumns(start, end)

	b := NewBuilder(p, days)
	for _, it := range feeds.Items {
		b.Place(it)
	}

	v := &m.PetaBlokView{
		Parity:       p,
		Mode:         mode,
		Columns:      p.ColumnLabels(),
		Days:         days,
		Slots:        Slots(),
		Cells:        b.Cells(),
		Sources:      feeds.Sources,
		RangeSource:  rangeSrc,
		TotalItems:   len(feeds.Items),
		PlacedItems:  b.Placed(),
		DroppedItems: b.Dropped(),
		GeneratedAt:  time.Now(),
	}
	if v.Sources == nil {
		v.Sources = []m.SourceStatus{}
	}
	if len(days) > 0 {
		v.StartDate = days[0].Key
		v.EndDate = days[len(days)-1].Key
	}
	if span := DaySpan(start, end); span > len(days) {
		v.DaysTruncated = true
		log.Printf("[PETA-BLOK] rentang %s..%s (%d hari) dipotong ke %d kolom", m.DateKey(start), m.DateKey(end), span, len(days))
	}
	return v
}

// DateRange: dari metadata mata kuliah (min mulai, max akhir); bila tidak ada,
// fallback ke min/max tanggal item.
func DateRange(courses []d.Course, items []m.LessonItem) (time.Time, time.Time, string) {
	var start, end time.Time
	for _, c := range courses {
		s, ok1 := ParseDateKey(c.TanggalMulai)
		e, ok2 := ParseDateKey(c.TanggalAkhir)
		if !ok1 || !ok2 || e.Before(s) {
			continue
		}
		if start.IsZero() || s.Before(start) {
			start = s
		}
		if end.IsZero() || e.After(end) {
			end = e
		}
	}
	if !start.IsZero() {
		return start, end, "course"
	}

	for _, it := range items {
		t, ok := ParseDateKey(it.DateKey)
		if !ok {
			continue
		}
		if start.IsZero() || t.Before(start) {
			start = t
		}
		if end.IsZero() || t.After(end) {
			end = t
		}
	}
	if start.IsZero() {
		return start, end, ""
	}
	return start, end, "items"
}

// PlacedLessons: semua item yang tertempatkan, urut tanggal → jam → kolom.
type PlacedLesson struct {
	Column string
	Item   m.LessonItem
}

func PlacedLessons(v *m.PetaBlokView) []PlacedLesson {
	var out []PlacedLesson
	for ci, col := range v.Cells {
		label := ""
		if ci < len(v.Columns) {
			label = v.Columns[ci]
		}
		for _, day := range col {
			for _, cell := range day {
				for _, item := range cell {
					for _, det := range item.Details {
						out = append(out, PlacedLesson{Column: label, Item: det})
					}
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Item, out[j].Item
		if a.DateKey != b.DateKey {
			return a.DateKey < b.DateKey
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.Semester < b.Semester
	})
	return out
}
