// file: internals/features/akademik/kelompok_kecil/scheduler/draft_reaper.go
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"akademikku_backend/internals/configs"

	"akademikku_backend/internals/features/akademik/kelompok_kecil/repository"
)

type ReaperConfig struct {
	RetentionDays int
	CronSchedule  string
	DryRun        bool
}

func ReaperConfigFromEnv() ReaperConfig {
	return ReaperConfig{
		RetentionDays: configs.GetEnvInt("DRAFT_RETENTION_DAYS", 14),
		CronSchedule:  configs.GetEnv("DRAFT_REAPER_CRON", "15 2 * * *"),
		DryRun:        configs.GetEnvBool("DRY_RUN", false),
	}
}

// StartDraftReaper: ENTRYPOINT dari main.go, mengembalikan *cron.Cron untuk di-Stop saat shutdown.
func StartDraftReaper(repo repository.Repository, cfg ReaperConfig) *cron.Cron {
	if cfg.RetentionDays <= 0 {
		log.Println("[DRAFT-REAPER] DRAFT_RETENTION_DAYS <= 0, reaper tidak dijalankan")
		return nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		if _, _, err := ReapOnce(ctx, repo, cfg, time.Now()); err != nil {
			log.Printf("[DRAFT-REAPER] error: %v", err)
		}
	})
	if err != nil {
		log.Printf("[DRAFT-REAPER] add cron gagal: %v", err)
		return nil
	}
	log.Printf("[DRAFT-REAPER] started schedule=%q retention=%dd dryRun=%v",
		cfg.CronSchedule, cfg.RetentionDays, cfg.DryRun)
	c.Start()
	return c
}

// ReapOnce menghapus draft & sesi import yang tidak disentuh lebih dari RetentionDays.
func ReapOnce(ctx context.Context, repo repository.Repository, cfg ReaperConfig, now time.Time) (int64, int64, error) {
	threshold := now.Add(-time.Duration(cfg.RetentionDays) * 24 * time.Hour)
	if cfg.DryRun {
		log.Printf("[DRAFT-REAPER] dry run, threshold=%s (tidak ada yang dihapus)", threshold.Format(time.RFC3339))
		return 0, 0, nil
	}
	drafts, imports, err := repo.PurgeStale(ctx, threshold)
	if err != nil {
		return 0, 0, err
	}
	log.Printf("[DRAFT-REAPER] threshold=%s drafts=%d imports=%d", threshold.Format(time.RFC3339), drafts, imports)
	return drafts, imports, nil
}
