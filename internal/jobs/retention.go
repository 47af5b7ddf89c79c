package jobs

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

// DefaultRetention is how long staged upload and scrape files are kept
// before the sweeper removes them. Files are deleted right after ingestion
// in the normal path; the sweeper catches leftovers from crashed requests.
const DefaultRetention = 24 * time.Hour

// RetentionSweeper prunes aged staging files from the configured directories.
// It implements JobProcessor so it can run on the Worker's polling loop.
type RetentionSweeper struct {
	dirs      []string
	retention time.Duration
}

// NewRetentionSweeper creates a sweeper over the given staging directories.
func NewRetentionSweeper(dirs []string, retention time.Duration) *RetentionSweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RetentionSweeper{
		dirs:      dirs,
		retention: retention,
	}
}

// ProcessJobs removes files older than the retention window. Missing
// directories are skipped; per-file failures are logged and do not stop the
// sweep.
func (s *RetentionSweeper) ProcessJobs(ctx context.Context) error {
	cutoff := time.Now().Add(-s.retention)

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Printf("retention: failed to read %s: %v", dir, err)
			continue
		}

		for _, entry := range entries {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if entry.IsDir() {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				continue
			}

			if info.ModTime().After(cutoff) {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("retention: failed to remove %s: %v", path, err)
				continue
			}
			log.Printf("retention: removed stale file %s", path)
		}
	}

	return nil
}
