package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/store"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/worker"
)

// completingRunner immediately marks every job it is handed completed.
type completingRunner struct {
	store store.Store
}

func (r *completingRunner) RunJob(ctx context.Context, jobID string) error {
	return r.store.MarkJobCompleted(ctx, jobID)
}

func newTestEnv(t *testing.T) *env {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	return &env{
		Store:   s,
		Manager: worker.NewManager(s, &completingRunner{store: s}),
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(newRouter(env))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestSubmitJob(t *testing.T) {
	env := newTestEnv(t)
	sv, err := env.Store.CreateSurvey(context.Background(), 1, "Pesquisa Q3")
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(env))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/jobs", "application/json",
		strings.NewReader(`{"survey_id": 1}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["job_id"])

	env.Manager.Wait()

	job, err := env.Store.GetJob(context.Background(), body["job_id"])
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, sv.ID, job.SurveyID)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
}

func TestSubmitJob_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(newRouter(env))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/jobs", "application/json",
		strings.NewReader(`not json`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/jobs", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown survey is rejected, not accepted.
	resp, err = http.Post(srv.URL+"/api/jobs", "application/json",
		strings.NewReader(`{"survey_id": 42}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetJob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sv, err := env.Store.CreateSurvey(ctx, 1, "Pesquisa Q3")
	require.NoError(t, err)
	job := &model.Job{SurveyID: sv.ID, TotalClients: 2}
	require.NoError(t, env.Store.CreateJob(ctx, job))

	srv := httptest.NewServer(newRouter(env))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/jobs/" + job.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, 2, got.TotalClients)

	resp, err = http.Get(srv.URL + "/api/jobs/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPauseResumeEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sv, err := env.Store.CreateSurvey(ctx, 1, "Pesquisa Q3")
	require.NoError(t, err)
	job := &model.Job{SurveyID: sv.ID, TotalClients: 1}
	require.NoError(t, env.Store.CreateJob(ctx, job))
	require.NoError(t, env.Store.UpdateJobStatus(ctx, job.ID, model.JobStatusProcessing))

	srv := httptest.NewServer(newRouter(env))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/jobs/"+job.ID+"/pause", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := env.Store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPaused, got.Status)

	resp, err = http.Post(srv.URL+"/api/jobs/"+job.ID+"/resume", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	env.Manager.Wait()

	got, err = env.Store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, got.Status)

	// Pausing a completed job conflicts.
	resp, err = http.Post(srv.URL+"/api/jobs/"+job.ID+"/pause", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
