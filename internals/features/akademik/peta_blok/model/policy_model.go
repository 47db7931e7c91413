// file: internals/features/akademik/peta_blok/model/policy_model.go
package model

import (
	"strconv"
	"strings"
)

// KindPolicy menentukan perilaku agregasi sel per jenis kegiatan.
type KindPolicy struct {
	Human         string // nama tampilan
	Code          string // label ringkas saat item digabung ("PBL (2)")
	Merge         bool   // false → setiap item jadi CellItem sendiri
	FixedDuration int    // >0 → durasi tampilan tetap, abaikan jumlah sesi
	Fallback      string // teks bila field utama kosong
	Primary       func(LessonItem) string
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

var policies = map[LessonKind]KindPolicy{
	KindPBL: {
		Human: "PBL", Code: "PBL", Merge: true, Fallback: "Modul belum diisi",
		Primary: func(it LessonItem) string { return firstNonEmpty(it.Topic, it.Material) },
	},
	KindJournalReading: {
		Human: "Journal Reading", Code: "JR", Merge: true, Fallback: "Topik belum diisi",
		Primary: func(it LessonItem) string { return firstNonEmpty(it.Topic, it.Material) },
	},
	KindKuliahBesar: {
		Human: "Kuliah Besar", Code: "KB", Merge: false, FixedDuration: 3, Fallback: "Topik belum diisi",
		Primary: func(it LessonItem) string { return firstNonEmpty(it.Topic, it.Material) },
	},
	KindAgendaKhusus: {
		Human: "Agenda Khusus", Code: "AGENDA", Merge: true, Fallback: "Agenda belum diisi",
		Primary: func(it LessonItem) string { return firstNonEmpty(it.Agenda, it.Topic) },
	},
	KindPraktikum: {
		Human: "Praktikum", Code: "PRAKTIKUM", Merge: true, Fallback: "Materi belum diisi",
		Primary: func(it LessonItem) string { return firstNonEmpty(it.Material, it.Topic) },
	},
	KindCSR: {
		Human: "CSR", Code: "CSR", Merge: true, Fallback: "Topik belum diisi",
		Primary: func(it LessonItem) string { return firstNonEmpty(it.Topic, it.Material) },
	},
	KindNonBlokNonCSR: {
		Human: "Non Blok Non CSR", Code: "NON BLOK", Merge: true, Fallback: "Materi belum diisi",
		Primary: func(it LessonItem) string { return firstNonEmpty(it.Material, it.Agenda, it.Topic) },
	},
	KindAntara: {
		Human: "Semester Antara", Code: "ANTARA", Merge: true, Fallback: "Materi belum diisi",
		Primary: func(it LessonItem) string { return firstNonEmpty(it.Material, it.Agenda, it.Topic) },
	},
}

// PolicyFor mengembalikan policy jenis; jenis tak dikenal diperlakukan sebagai jenis gabung generik.
func PolicyFor(k LessonKind) KindPolicy {
	if p, ok := policies[k]; ok {
		return p
	}
	name := strings.ToUpper(string(k))
	return KindPolicy{
		Human: name, Code: name, Merge: true, Fallback: "-",
		Primary: func(it LessonItem) string { return firstNonEmpty(it.Topic, it.Material, it.Agenda) },
	}
}

// KindLabel: nama jenis untuk tampilan/export.
func KindLabel(k LessonKind) string { return PolicyFor(k).Human }

// PrimaryText: field deskriptif utama item (dengan fallback).
func PrimaryText(it LessonItem) string {
	p := PolicyFor(it.Kind)
	if s := p.Primary(it); s != "" {
		return s
	}
	return p.Fallback
}

// SingleLabel: label sel untuk satu item non-kuliah.
func SingleLabel(it LessonItem) string {
	return PolicyFor(it.Kind).Human + " - " + PrimaryText(it)
}

// MergedLabel: label sel untuk n item sejenis (n ≥ 2).
func MergedLabel(k LessonKind, n int) string {
	return PolicyFor(k).Code + " (" + strconv.Itoa(n) + ")"
}

// LectureLabel: blok multi-baris untuk kuliah besar; hanya field terisi.
func LectureLabel(it LessonItem) string {
	lines := []string{PolicyFor(KindKuliahBesar).Human}
	add := func(prefix, v string) {
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, prefix+": "+v)
		}
	}
	add("Topik", it.Topic)
	add("Ruang", it.Room)
	add("Kelas", it.Class)
	add("Dosen", it.LecturerText())
	if it.Block > 0 {
		add("Blok", strconv.Itoa(it.Block))
	}
	return strings.Join(lines, "\n")
}

// Duration: durasi tampilan (unit sesi) untuk satu item.
func Duration(it LessonItem) int {
	p := PolicyFor(it.Kind)
	if p.FixedDuration > 0 {
		return p.FixedDuration
	}
	if it.SessionCount < 1 {
		return 1
	}
	return it.SessionCount
}
