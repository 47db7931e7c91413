// file: internals/features/akademik/peta_blok/scheduler/cache_warmer.go
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"akademikku_backend/internals/configs"

	m "akademikku_backend/internals/features/akademik/peta_blok/model"
	svc "akademikku_backend/internals/features/akademik/peta_blok/service"
)

type WarmerConfig struct {
	CronSchedule string
	Parities     []m.Parity
	Modes        []m.Mode
	Token        string
}

func WarmerConfigFromEnv() WarmerConfig {
	cfg := WarmerConfig{
		CronSchedule: configs.GetEnv("PETA_BLOK_WARM_CRON", "*/15 6-18 * * 1-6"),
		Modes:        []m.Mode{m.ModeSemua, m.ModeBlok, m.ModeNonBlok},
		Token:        configs.UpstreamServiceToken,
	}
	for _, raw := range configs.GetEnvList("PETA_BLOK_WARM_PARITIES", "ganjil", "genap") {
		if p, ok := m.ParseParity(raw); ok {
			cfg.Parities = append(cfg.Parities, p)
		} else {
			log.Printf("[PETA-BLOK-WARMER] paritas %q tidak dikenal, dilewati", raw)
		}
	}
	return cfg
}

// StartCacheWarmer: ENTRYPOINT dari main.go. Tidak jalan bila cache dimatikan.
// Mengembalikan *cron.Cron supaya bisa di-Stop saat shutdown (nil jika tidak jalan).
func StartCacheWarmer(s *svc.Service, cfg WarmerConfig) *cron.Cron {
	if s == nil || s.Cache == nil {
		log.Println("[PETA-BLOK-WARMER] cache tidak aktif, warmer tidak dijalankan")
		return nil
	}
	if len(cfg.Parities) == 0 {
		log.Println("[PETA-BLOK-WARMER] tidak ada paritas, warmer tidak dijalankan")
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.CronSchedule, func() { WarmOnce(s, cfg) })
	if err != nil {
		log.Printf("[PETA-BLOK-WARMER] add cron gagal: %v", err)
		return nil
	}
	log.Printf("[PETA-BLOK-WARMER] started schedule=%q parities=%v", cfg.CronSchedule, cfg.Parities)
	c.Start()
	return c
}

// WarmOnce membangun ulang cache untuk semua kombinasi paritas × mode.
func WarmOnce(s *svc.Service, cfg WarmerConfig) (ok, failed int) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	for _, p := range cfg.Parities {
		for _, mode := range cfg.Modes {
			start := time.Now()
			v, err := s.Build(ctx, cfg.Token, p, mode, true)
			if err != nil {
				failed++
				log.Printf("[PETA-BLOK-WARMER] %s/%s gagal: %v", p, mode, err)
				continue
			}
			ok++
			log.Printf("[PETA-BLOK-WARMER] %s/%s ok items=%d placed=%d dur=%s",
				p, mode, v.TotalItems, v.PlacedItems, time.Since(start))
		}
	}
	return ok, failed
}
