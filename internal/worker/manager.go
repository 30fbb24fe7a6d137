// Package worker owns the lifecycle of enrichment jobs: it creates job
// rows, runs each job on its own goroutine and mediates pause/resume
// through the store.
package worker

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/store"
)

// Runner executes one job to completion, pause or failure. Satisfied by
// *pipeline.Pipeline.
type Runner interface {
	RunJob(ctx context.Context, jobID string) error
}

// Manager tracks live job goroutines. All durable state lives in the
// job rows; the Manager only knows which jobs it is currently running.
type Manager struct {
	store  store.Store
	runner Runner

	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// NewManager creates a Manager.
func NewManager(st store.Store, runner Runner) *Manager {
	return &Manager{
		store:   st,
		runner:  runner,
		running: make(map[string]struct{}),
	}
}

// Submit creates a pending job for the survey's unenriched clients and
// starts running it in the background. Returns the job id immediately.
func (m *Manager) Submit(ctx context.Context, surveyID int64) (string, error) {
	survey, err := m.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return "", eris.Wrap(err, "worker: load survey")
	}
	if survey == nil {
		return "", eris.Errorf("worker: survey not found: %d", surveyID)
	}

	clients, err := m.store.ListUnenrichedClients(ctx, surveyID)
	if err != nil {
		return "", eris.Wrap(err, "worker: list clients")
	}

	job := &model.Job{SurveyID: surveyID, TotalClients: len(clients)}
	if err := m.store.CreateJob(ctx, job); err != nil {
		return "", eris.Wrap(err, "worker: create job")
	}

	m.launch(job.ID)
	return job.ID, nil
}

// Pause requests a running job to stop at the next client boundary. The
// worker goroutine observes the status flip and exits on its own.
func (m *Manager) Pause(ctx context.Context, jobID string) error {
	job, err := m.store.GetJob(ctx, jobID)
	if err != nil {
		return eris.Wrap(err, "worker: load job")
	}
	if job == nil {
		return eris.Errorf("worker: job not found: %s", jobID)
	}
	if job.Status != model.JobStatusProcessing && job.Status != model.JobStatusPending {
		return eris.Errorf("worker: cannot pause job in status %s", job.Status)
	}
	return m.store.UpdateJobStatus(ctx, jobID, model.JobStatusPaused)
}

// Resume flips a paused job back to processing and relaunches it. The
// run naturally skips clients already enriched.
func (m *Manager) Resume(ctx context.Context, jobID string) error {
	job, err := m.store.GetJob(ctx, jobID)
	if err != nil {
		return eris.Wrap(err, "worker: load job")
	}
	if job == nil {
		return eris.Errorf("worker: job not found: %s", jobID)
	}
	if job.Status != model.JobStatusPaused {
		return eris.Errorf("worker: cannot resume job in status %s", job.Status)
	}
	if err := m.store.UpdateJobStatus(ctx, jobID, model.JobStatusProcessing); err != nil {
		return eris.Wrap(err, "worker: resume job")
	}

	m.launch(jobID)
	return nil
}

// launch starts the job goroutine unless one is already live for this
// job id.
func (m *Manager) launch(jobID string) {
	m.mu.Lock()
	if _, live := m.running[jobID]; live {
		m.mu.Unlock()
		return
	}
	m.running[jobID] = struct{}{}
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() {
			m.mu.Lock()
			delete(m.running, jobID)
			m.mu.Unlock()
		}()

		if err := m.runner.RunJob(context.Background(), jobID); err != nil {
			zap.L().Error("worker: job run failed",
				zap.String("job_id", jobID),
				zap.Error(err),
			)
		}
	}()
}

// Running reports whether the manager currently owns a goroutine for
// the job.
func (m *Manager) Running(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, live := m.running[jobID]
	return live
}

// Wait blocks until every live job goroutine has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}
