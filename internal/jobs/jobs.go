package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	CuratedRefreshJob    = "curated-refresh"
	BrowseRefreshJob     = "browse-refresh"
	CollectionRefreshJob = "collection-refresh"
	HistoryReloadJob     = "history-reload"
)

// RegisterAll registers every job the application knows about.
func RegisterAll(jm *JobManager) {
	jm.Register(CuratedRefreshJob, "Refresh curated list", func(app JobContext) error {
		return app.Catalog().RefreshCurated(context.Background())
	})
	jm.Register(BrowseRefreshJob, "Reload catalog feed", func(app JobContext) error {
		return app.Catalog().Restart(context.Background())
	})
	jm.Register(CollectionRefreshJob, "Reload saved collection", func(app JobContext) error {
		return app.Catalog().RefreshSaved(context.Background())
	})
	jm.Register(HistoryReloadJob, "Reload search history", func(app JobContext) error {
		return app.Search().LoadHistory(context.Background())
	})
}

// StartJobs starts the background job scheduler. The caller stops it.
func StartJobs(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startCuratedRefreshJob(s, app)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
	return s
}

func startCuratedRefreshJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().Jobs.CuratedRefreshInterval
	if interval <= 0 {
		log.Println("Curated refresh interval is 0, scheduled refresh is disabled.")
		return
	}

	log.Printf("Scheduling job: '%s' to run every %d minutes.", CuratedRefreshJob, interval)

	_, err := s.Every(interval).Minutes().WaitForSchedule().Do(func() {
		log.Println("Scheduler is triggering job:", CuratedRefreshJob)
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		if err := app.JobManager().RunJob(CuratedRefreshJob, app); err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", CuratedRefreshJob, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", CuratedRefreshJob, err)
	}
}
