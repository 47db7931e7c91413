// file: internals/features/akademik/peta_blok/model/calendar_model.go
package model

import (
	"fmt"
	"time"
)

var weekdayID = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var monthID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// WeekdayName: nama hari bahasa Indonesia.
func WeekdayName(t time.Time) string { return weekdayID[t.Weekday()] }

// DateKey: kunci tanggal YYYY-MM-DD.
func DateKey(t time.Time) string { return t.Format("2006-01-02") }

// DateLabel: "Senin, 7 Juli 2025".
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", WeekdayName(t), t.Day(), monthID[t.Month()-1], t.Year())
}

// ShortDate: "07/07/2025" (dipakai export).
func ShortDate(t time.Time) string { return t.Format("02/01/2006") }
