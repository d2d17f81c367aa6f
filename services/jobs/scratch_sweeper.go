package jobs

import (
	"os"
	"path/filepath"
	"time"

	"srv_contratos/config"

	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

// ScratchMaxAge is how long a conversion leftover may stay in the scratch directory
const ScratchMaxAge = time.Hour

// StartScratchSweeper schedules the hourly scratch directory cleanup. The returned cron is already running;
// callers stop it on shutdown.
func StartScratchSweeper(cfg *config.Config) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		removed, err := SweepScratchDir(cfg.ScratchDir, ScratchMaxAge, time.Now())
		if err != nil {
			log.Errorf("[CRON] Scratch sweep failed: %v", err)
			return
		}
		if removed > 0 {
			log.Infof("[CRON] Removed %d stale conversion files from %s", removed, cfg.ScratchDir)
		}
	})
	if err != nil {
		log.Fatalf("[CRON] Error scheduling scratch sweep: %v", err)
	}

	c.Start()
	log.Info("[CRON] Scheduler started")
	return c
}

// SweepScratchDir removes entries of dir last modified before now-maxAge.
// A missing directory is not an error.
func SweepScratchDir(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warnf("[CRON] Failed to remove %s: %v", path, err)
			continue
		}
		removed++
	}
	return removed, nil
}
