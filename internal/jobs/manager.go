package jobs

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/vrsandeep/koma-go/internal/catalog"
	"github.com/vrsandeep/koma-go/internal/config"
	"github.com/vrsandeep/koma-go/internal/models"
	"github.com/vrsandeep/koma-go/internal/search"
	"github.com/vrsandeep/koma-go/internal/websocket"
)

// JobContext is an interface that provides the necessary dependencies for a job to run.
// The core.App struct will implement this interface.
type JobContext interface {
	Config() *config.Config
	Catalog() *catalog.Engine
	Search() *search.Engine
	WsHub() *websocket.Hub
	JobManager() *JobManager
}

type jobTask func(ctx JobContext) error

type JobStatus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"` // "idle", "running", "success", "failed"
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

type JobManager struct {
	mu      sync.Mutex
	jobs    map[string]jobTask
	status  map[string]*JobStatus
	running bool
	appCtx  JobContext // Store the app context for scheduled jobs
}

func NewManager(appCtx JobContext) *JobManager {
	return &JobManager{
		jobs:   make(map[string]jobTask),
		status: make(map[string]*JobStatus),
		appCtx: appCtx,
	}
}

func (jm *JobManager) Register(id, name string, task jobTask) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.jobs[id] = task
	jm.status[id] = &JobStatus{ID: id, Name: name, Status: "idle"}
}

// RunJob starts the job in the background. Only one job runs at a time.
func (jm *JobManager) RunJob(id string, ctx JobContext) error {
	if ctx == nil {
		ctx = jm.appCtx
	}
	jm.mu.Lock()
	if jm.running {
		jm.mu.Unlock()
		return fmt.Errorf("a job is already running")
	}

	task, ok := jm.jobs[id]
	if !ok {
		jm.mu.Unlock()
		return fmt.Errorf("job '%s' not found", id)
	}

	jm.running = true
	status := jm.status[id]
	status.Status = "running"
	status.StartTime = time.Now()
	status.EndTime = time.Time{}
	status.Message = "Job started..."
	startMsg := status.Message
	jm.mu.Unlock()

	log.Printf("Starting job: %s", id)
	jm.publish(ctx, id, "running", startMsg)

	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Job '%s' panicked: %v", id, r)
				err = fmt.Errorf("job panicked: %v", r)
			}

			jm.mu.Lock()
			status.EndTime = time.Now()
			if err != nil {
				status.Status = "failed"
				status.Message = models.Describe(err)
			} else {
				status.Status = "success"
				status.Message = "Job completed successfully."
			}
			final, msg := status.Status, status.Message
			jm.running = false
			jm.mu.Unlock()

			log.Printf("Finished job: %s (%s)", id, final)
			jm.publish(ctx, id, final, msg)
		}()

		err = task(ctx)
	}()
	return nil
}

func (jm *JobManager) publish(ctx JobContext, id, kind, msg string) {
	if ctx == nil || ctx.WsHub() == nil {
		return
	}
	ctx.WsHub().BroadcastJSON(models.StateEvent{
		Source:  "job",
		Kind:    kind,
		Message: fmt.Sprintf("%s: %s", id, msg),
		At:      time.Now(),
	})
}

// IsRunning reports whether a job is in progress.
func (jm *JobManager) IsRunning() bool {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	return jm.running
}

// GetStatus returns a copy of every job's status, sorted by id.
func (jm *JobManager) GetStatus() []JobStatus {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	statuses := make([]JobStatus, 0, len(jm.status))
	for _, s := range jm.status {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}
