// file: internals/features/akademik/peta_blok/service/normalize.go
package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	m "akademikku_backend/internals/features/akademik/peta_blok/model"
)

/* =========================
   Slot sesi (12 slot tetap)
   ========================= */

var slotTable = []struct {
	start, end string
	isBreak    bool
}{
	{"07:20", "08:10", false},
	{"08:10", "09:00", false},
	{"09:00", "09:50", false},
	{"09:50", "10:40", false},
	{"10:40", "11:30", false},
	{"11:30", "12:20", false},
	{"12:20", "13:00", true},
	{"13:00", "13:50", false},
	{"13:50", "14:40", false},
	{"14:40", "15:30", false},
	{"15:30", "16:00", true},
	{"16:00", "16:50", false},
}

var (
	slots         []m.SessionSlot
	slotByMinutes map[int]int
)

func init() {
	slots = make([]m.SessionSlot, len(slotTable))
	slotByMinutes = make(map[int]int, len(slotTable))
	for i, s := range slotTable {
		mins, _ := minutesOf(s.start)
		slots[i] = m.SessionSlot{Index: i, Start: s.start, End: s.end, IsBreak: s.isBreak, StartMinutes: mins}
		slotByMinutes[mins] = i
	}
}

// Slots mengembalikan salinan tabel slot.
func Slots() []m.SessionSlot {
	out := make([]m.SessionSlot, len(slots))
	copy(out, slots)
	return out
}

var reFourDigits = regexp.MustCompile(`^\d{4}$`)

// NormalizeTime: "08.10" / "0810" / "08:10:00" / "8:10" → "08:10".
// Input yang tidak bisa dibaca dikembalikan apa adanya (setelah trim).
func NormalizeTime(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", ":")
	if reFourDigits.MatchString(s) {
		s = s[:2] + ":" + s[2:]
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return s
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	mm, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || h < 0 || h > 23 || mm < 0 || mm > 59 {
		return s
	}
	return pad2(h) + ":" + pad2(mm)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func minutesOf(hhmm string) (int, bool) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return h*60 + mm, true
}

// SlotIndexFor: cocok persis dengan jam mulai slot; slot istirahat tidak menerima kegiatan.
func SlotIndexFor(hhmm string) (int, bool) {
	mins, ok := minutesOf(NormalizeTime(hhmm))
	if !ok {
		return 0, false
	}
	idx, ok := slotByMinutes[mins]
	if !ok || slots[idx].IsBreak {
		return 0, false
	}
	return idx, true
}

/* =========================
   Tanggal
   ========================= */

var reISODate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

// ParseDateKey: tanggal saja (UTC midnight). Bagian tanggal ISO dibaca apa adanya tanpa konversi zona.
func ParseDateKey(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if mt := reISODate.FindStringSubmatch(s); mt != nil {
		return mkDate(mt[1], mt[2], mt[3])
	}
	for _, layout := range []string{"02/01/2006", "02-01-2006", "2/1/2006", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func mkDate(y, mo, d string) (time.Time, bool) {
	yy, _ := strconv.Atoi(y)
	mm, _ := strconv.Atoi(mo)
	dd, _ := strconv.Atoi(d)
	if mm < 1 || mm > 12 || dd < 1 || dd > 31 {
		return time.Time{}, false
	}
	t := time.Date(yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if t.Day() != dd { // 31 Februari dsb
		return time.Time{}, false
	}
	return t, true
}

// MaxDays membatasi jumlah kolom hari agar rentang rusak tidak membuat grid raksasa.
const MaxDays = 400

// DaySpan: jumlah hari kalender start..end (inklusif), tanpa batas MaxDays.
func DaySpan(start, end time.Time) int {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// BuildDayColumns: setiap tanggal start..end (inklusif), urut naik.
func BuildDayColumns(start, end time.Time) []m.DayColumn {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]m.DayColumn, 0, min(DaySpan(start, end), MaxDays))
	for d := start; !d.After(end) && len(out) < MaxDays; d = d.AddDate(0, 0, 1) {
		out = append(out, m.DayColumn{
			Date:    d,
			Key:     m.DateKey(d),
			Weekday: m.WeekdayName(d),
			Label:   m.DateLabel(d),
		})
	}
	return out
}

/* =========================
   Semester & kolom
   ========================= */

// Non-blok: kode MKU → semester, per paritas.
var nonBlockSemester = map[m.Parity]map[string]int{
	m.ParityGanjil: {"MKU001": 1, "MKU002": 3, "MKU003": 5, "MKU004": 7},
	m.ParityGenap:  {"MKU001": 2, "MKU002": 4, "MKU003": 6},
}

var reBlockCode = regexp.MustCompile(`^[A-Za-z]+(\d)`)

// ResolveSemester: semester eksplisit > 0; jika tidak, konvensi kode blok "MKB<semester><blok>…";
// jika tidak, tabel kode non-blok per paritas. 0 = tidak diketahui.
func ResolveSemester(explicit int, code string, isBlock bool, parity m.Parity) int {
	if explicit > 0 {
		return explicit
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if isBlock || strings.HasPrefix(code, "MKB") {
		if mt := reBlockCode.FindStringSubmatch(code); mt != nil {
			if n, _ := strconv.Atoi(mt[1]); n > 0 {
				return n
			}
		}
	}
	if tbl, ok := nonBlockSemester[parity]; ok {
		for prefix, sem := range tbl {
			if strings.HasPrefix(code, prefix) {
				return sem
			}
		}
	}
	return 0
}

// ColumnIndex: posisi semester di daftar target paritas; antara → selalu kolom 0.
func ColumnIndex(semester int, parity m.Parity) (int, bool) {
	if parity == m.ParityAntara {
		return 0, true
	}
	for i, s := range parity.Semesters() {
		if s == semester {
			return i, true
		}
	}
	return 0, false
}
