// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"sync"
	"time"
)

var (
	locOnce sync.Once
	loc     *time.Location
)

// Jakarta: zona waktu kampus untuk label export & nama file.
// Fallback ke WIB (UTC+7) bila tzdata tidak tersedia di image.
func Jakarta() *time.Location {
	locOnce.Do(func() {
		l, err := time.LoadLocation("Asia/Jakarta")
		if err != nil {
			l = time.FixedZone("WIB", 7*3600)
		}
		loc = l
	})
	return loc
}

// InJakarta mengubah waktu ke WIB (zero time tetap zero).
func InJakarta(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(Jakarta())
}
