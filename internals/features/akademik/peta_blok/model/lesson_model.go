// file: internals/features/akademik/peta_blok/model/lesson_model.go
package model

import (
	"strconv"
	"strings"
	"time"
)

/* =========================
   Parity (semester ganjil/genap/antara)
   ========================= */

type Parity string

const (
	ParityGanjil Parity = "ganjil"
	ParityGenap  Parity = "genap"
	ParityAntara Parity = "antara"
)

func ParseParity(s string) (Parity, bool) {
	switch Parity(strings.ToLower(strings.TrimSpace(s))) {
	case ParityGanjil, "odd":
		return ParityGanjil, true
	case ParityGenap, "even":
		return ParityGenap, true
	case ParityAntara, "interim":
		return ParityAntara, true
	}
	return "", false
}

// Semesters: urutan kolom target. Antara → nil (satu kolom sintetis).
func (p Parity) Semesters() []int {
	switch p {
	case ParityGanjil:
		return []int{1, 3, 5, 7}
	case ParityGenap:
		return []int{2, 4, 6}
	default:
		return nil
	}
}

func (p Parity) ColumnLabels() []string {
	if p == ParityAntara {
		return []string{"Semester Antara"}
	}
	sems := p.Semesters()
	out := make([]string, len(sems))
	for i, s := range sems {
		out[i] = "Semester " + strconv.Itoa(s)
	}
	return out
}

/* =========================
   Mode fetch
   ========================= */

type Mode string

const (
	ModeBlok    Mode = "blok"
	ModeNonBlok Mode = "non_blok"
	ModeSemua   Mode = "semua"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSemua:
		return ModeSemua, true
	case ModeBlok:
		return ModeBlok, true
	case ModeNonBlok, "non-blok", "nonblok":
		return ModeNonBlok, true
	}
	return "", false
}

/* =========================
   LessonItem (satu bentuk kanonik untuk semua jenis)
   ========================= */

type LessonKind string

const (
	KindPBL            LessonKind = "pbl"
	KindJournalReading LessonKind = "journal_reading"
	KindKuliahBesar    LessonKind = "kuliah_besar"
	KindAgendaKhusus   LessonKind = "agenda_khusus"
	KindPraktikum      LessonKind = "praktikum"
	KindCSR            LessonKind = "csr"
	KindNonBlokNonCSR  LessonKind = "non_blok_non_csr"
	KindAntara         LessonKind = "antara"
)

var AllKinds = []LessonKind{
	KindPBL, KindJournalReading, KindKuliahBesar, KindAgendaKhusus,
	KindPraktikum, KindCSR, KindNonBlokNonCSR, KindAntara,
}

type LessonItem struct {
	Kind         LessonKind `json:"kind"`
	Date         time.Time  `json:"-"`
	DateKey      string     `json:"date"`
	StartRaw     string     `json:"start_raw,omitempty"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time,omitempty"`
	SessionCount int        `json:"session_count"`
	Topic        string     `json:"topic,omitempty"`
	Material     string     `json:"material,omitempty"`
	Agenda       string     `json:"agenda,omitempty"`
	Lecturers    []string   `json:"lecturers,omitempty"`
	Room         string     `json:"room,omitempty"`
	Class        string     `json:"class,omitempty"`
	Group        string     `json:"group,omitempty"`
	CourseCode   string     `json:"course_code,omitempty"`
	CourseName   string     `json:"course_name,omitempty"`
	Semester     int        `json:"semester"`
	Block        int        `json:"block"`
}

// LecturerText: daftar dosen digabung koma.
func (it LessonItem) LecturerText() string {
	return strings.Join(it.Lecturers, ", ")
}

/* =========================
   Grid
   ========================= */

type SessionSlot struct {
	Index        int    `json:"index"`
	Start        string `json:"start"`
	End          string `json:"end"`
	IsBreak      bool   `json:"is_break"`
	StartMinutes int    `json:"-"`
}

type DayColumn struct {
	Date    time.Time `json:"-"`
	Key     string    `json:"date"`
	Weekday string    `json:"weekday"`
	Label   string    `json:"label"`
}

type CellItem struct {
	Kind     LessonKind   `json:"kind"`
	Label    string       `json:"label"`
	Duration int          `json:"duration"`
	Count    int          `json:"count"`
	Details  []LessonItem `json:"details"`
}

// Cells diindeks [kolom][hari][slot].
type Cells [][][][]CellItem

type SourceStatus struct {
	Source  string     `json:"source"`
	Course  string     `json:"course,omitempty"`
	Kind    LessonKind `json:"kind,omitempty"`
	OK      bool       `json:"ok"`
	Error   string     `json:"error,omitempty"`
	Items   int        `json:"items"`
	Skipped int        `json:"skipped,omitempty"` // baris dengan tanggal tidak terbaca
}

type PetaBlokView struct {
	Parity        Parity         `json:"parity"`
	Mode          Mode           `json:"mode"`
	Columns       []string       `json:"columns"`
	Days          []DayColumn    `json:"days"`
	Slots         []SessionSlot  `json:"slots"`
	Cells         Cells          `json:"cells"`
	Sources       []SourceStatus `json:"sources"`
	StartDate     string         `json:"start_date,omitempty"`
	EndDate       string         `json:"end_date,omitempty"`
	DaysTruncated bool           `json:"days_truncated,omitempty"` // rentang melebihi batas kolom hari
	RangeSource   string         `json:"range_source,omitempty"`   // "course" | "items"
	TotalItems    int            `json:"total_items"`
	PlacedItems   int            `json:"placed_items"`
	DroppedItems  int            `json:"dropped_items"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Cached        bool           `json:"cached"`
}
