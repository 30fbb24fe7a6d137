// Package store persists surveys, clients, jobs and the entities the
// enrichment pipeline produces.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
)

// Store defines the persistence operations used by the pipeline, the
// importer and the job API. Lookup methods return (nil, nil) when the
// row does not exist.
type Store interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	// Surveys
	CreateSurvey(ctx context.Context, projectID int64, name string) (*model.Survey, error)
	GetSurvey(ctx context.Context, id int64) (*model.Survey, error)
	MarkSurveyEnriched(ctx context.Context, id int64, enrichedClients int) error

	// Clients
	CreateClient(ctx context.Context, c *model.ClientRecord) error
	ListClients(ctx context.Context, surveyID int64) ([]model.ClientRecord, error)
	ListUnenrichedClients(ctx context.Context, surveyID int64) ([]model.ClientRecord, error)
	UpdateClientEnrichment(ctx context.Context, c model.ClientRecord) error

	// Jobs
	CreateJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, surveyID int64, limit int) ([]model.Job, error)
	UpdateJobStatus(ctx context.Context, id string, status model.JobStatus) error
	UpdateJobCounters(ctx context.Context, id string, processed, success, failed int) error
	MarkJobCompleted(ctx context.Context, id string) error
	MarkJobFailed(ctx context.Context, id string, message string) error

	// Markets
	FindMarketByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Market, error)
	InsertMarket(ctx context.Context, m *model.Market) error
	UpdateMarketEnrichment(ctx context.Context, m model.Market) error

	// Products
	FindProductByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Product, error)
	InsertProduct(ctx context.Context, p *model.Product) error

	// Competitors
	FindCompetitorByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Competitor, error)
	InsertCompetitor(ctx context.Context, c *model.Competitor) error

	// Leads
	FindLeadByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Lead, error)
	InsertLead(ctx context.Context, l *model.Lead) error
}

// Pool is the subset of pgxpool.Pool the Postgres store uses. pgxmock
// satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}
