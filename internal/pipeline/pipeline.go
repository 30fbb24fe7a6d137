// Package pipeline runs enrichment jobs: for every unenriched client of
// a survey it derives the client profile, its market and the market's
// products, competitors and leads.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/config"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/reasoning"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/store"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/pkg/geocode"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/pkg/receitaws"
)

// Pipeline orchestrates enrichment jobs over a survey's clients.
type Pipeline struct {
	cfg      config.PipelineConfig
	store    store.Store
	gateway  reasoning.Gateway
	geocoder geocode.Client
	registry receitaws.Client
}

// New creates a Pipeline. The registry client is optional and may be nil.
func New(
	cfg config.PipelineConfig,
	st store.Store,
	gw reasoning.Gateway,
	geo geocode.Client,
	reg receitaws.Client,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		gateway:  gw,
		geocoder: geo,
		registry: reg,
	}
}

// RunJob executes the enrichment job until completion, pause or a fatal
// infrastructure failure. A paused job returns nil; resuming runs the
// job again, which naturally picks up only the still-unenriched clients.
func (p *Pipeline) RunJob(ctx context.Context, jobID string) error {
	log := zap.L().With(zap.String("job_id", jobID))

	job, err := p.store.GetJob(ctx, jobID)
	if err != nil {
		return eris.Wrap(err, "pipeline: load job")
	}
	if job == nil {
		return eris.Errorf("pipeline: job not found: %s", jobID)
	}

	failJob := func(reason string, cause error) error {
		log.Error("pipeline: job failed", zap.String("reason", reason), zap.Error(cause))
		if failErr := p.store.MarkJobFailed(ctx, jobID, reason); failErr != nil {
			log.Warn("pipeline: failed to record job failure", zap.Error(failErr))
		}
		if cause != nil {
			return eris.Wrap(cause, "pipeline: "+reason)
		}
		return eris.New("pipeline: " + reason)
	}

	// Infrastructure gate: these failures are job-fatal before any
	// client is touched.
	if !p.gateway.Configured() {
		return failJob("anthropic credential missing", nil)
	}

	survey, err := p.store.GetSurvey(ctx, job.SurveyID)
	if err != nil {
		return failJob("store unreachable", err)
	}
	if survey == nil {
		return failJob("survey not found", nil)
	}

	clients, err := p.store.ListUnenrichedClients(ctx, job.SurveyID)
	if err != nil {
		return failJob("store unreachable", err)
	}

	if err := p.store.UpdateJobStatus(ctx, jobID, model.JobStatusProcessing); err != nil {
		return failJob("store unreachable", err)
	}

	log.Info("pipeline: job started",
		zap.Int64("survey_id", job.SurveyID),
		zap.Int("pending_clients", len(clients)),
	)

	processed := job.ProcessedClients
	success := job.SuccessClients
	failed := job.FailedClients

	for _, client := range clients {
		// Pause is observed only at client boundaries.
		current, err := p.store.GetJob(ctx, jobID)
		if err != nil {
			return failJob("store unreachable", err)
		}
		if current != nil && current.Status == model.JobStatusPaused {
			log.Info("pipeline: job paused",
				zap.Int("processed", processed),
				zap.Int("total", job.TotalClients),
			)
			return nil
		}
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "pipeline: job canceled")
		}

		if err := p.enrichOne(ctx, survey, &client); err != nil {
			if !isClientFault(err) {
				return failJob("store unreachable", err)
			}
			failed++
			log.Warn("pipeline: client enrichment failed",
				zap.Int64("client_id", client.ID),
				zap.String("client", client.Name),
				zap.Error(err),
			)
			// Rejected clients leave the unenriched set, so a resumed
			// job never counts them twice.
			client.ValidationStatus = model.ValidationRejected
			if err := p.store.UpdateClientEnrichment(ctx, client); err != nil {
				return failJob("store unreachable", err)
			}
		} else {
			success++
		}
		processed++

		if err := p.store.UpdateJobCounters(ctx, jobID, processed, success, failed); err != nil {
			return failJob("store unreachable", err)
		}

		if p.cfg.ClientDelayMs > 0 {
			select {
			case <-ctx.Done():
				return eris.Wrap(ctx.Err(), "pipeline: job canceled")
			case <-time.After(time.Duration(p.cfg.ClientDelayMs) * time.Millisecond):
			}
		}
	}

	if err := p.store.MarkJobCompleted(ctx, jobID); err != nil {
		return failJob("store unreachable", err)
	}
	if err := p.store.MarkSurveyEnriched(ctx, survey.ID, success); err != nil {
		log.Warn("pipeline: failed to mark survey enriched", zap.Error(err))
	}

	log.Info("pipeline: job completed",
		zap.Int("processed", processed),
		zap.Int("success", success),
		zap.Int("failed", failed),
	)
	return nil
}

// isClientFault reports whether an enrichment error is confined to one
// client. Anything else aborts the whole job.
func isClientFault(err error) bool {
	var ue *reasoning.UpstreamError
	var se *reasoning.SchemaError
	var ie *reasoning.IncompleteEnrichmentError
	return errors.As(err, &ue) || errors.As(err, &se) || errors.As(err, &ie)
}
