package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// the hot path of the enrichment loop.
var preparedStatements = map[string]string{
	"get_job":             `SELECT id, survey_id, total_clients, processed_clients, success_clients, failed_clients, status, error_message, started_at, completed_at, created_at, updated_at FROM jobs WHERE id = $1`,
	"update_job_counters": `UPDATE jobs SET processed_clients = $1, success_clients = $2, failed_clients = $3, updated_at = $4 WHERE id = $5`,
	"find_market":         `SELECT id, survey_id, project_id, fingerprint, name, category, segmentation, size_estimate, annual_growth, trends, top_players, created_at, updated_at FROM markets WHERE survey_id = $1 AND fingerprint = $2`,
	"find_competitor":     `SELECT id, survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, primary_product, quality_score FROM competitors WHERE survey_id = $1 AND fingerprint = $2`,
	"find_lead":           `SELECT id, survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, product_of_interest, source, quality_score FROM leads WHERE survey_id = $1 AND fingerprint = $2`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS surveys (
	id               BIGSERIAL PRIMARY KEY,
	project_id       BIGINT NOT NULL,
	name             TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'draft',
	enriched_clients INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS clients (
	id                BIGSERIAL PRIMARY KEY,
	survey_id         BIGINT NOT NULL REFERENCES surveys(id),
	project_id        BIGINT NOT NULL DEFAULT 0,
	name              TEXT NOT NULL,
	tax_id            TEXT NOT NULL DEFAULT '',
	primary_product   TEXT NOT NULL DEFAULT '',
	site              TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	city              TEXT NOT NULL DEFAULT '',
	state             TEXT NOT NULL DEFAULT '',
	segmentation      TEXT NOT NULL DEFAULT '',
	sector            TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	latitude          DOUBLE PRECISION,
	longitude         DOUBLE PRECISION,
	validation_status TEXT NOT NULL DEFAULT 'pending',
	quality_score     INTEGER NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_clients_survey ON clients(survey_id);
CREATE INDEX IF NOT EXISTS idx_clients_survey_status ON clients(survey_id, validation_status);

CREATE TABLE IF NOT EXISTS jobs (
	id                TEXT PRIMARY KEY,
	survey_id         BIGINT NOT NULL REFERENCES surveys(id),
	total_clients     INTEGER NOT NULL DEFAULT 0,
	processed_clients INTEGER NOT NULL DEFAULT 0,
	success_clients   INTEGER NOT NULL DEFAULT 0,
	failed_clients    INTEGER NOT NULL DEFAULT 0,
	status            TEXT NOT NULL DEFAULT 'pending',
	error_message     TEXT NOT NULL DEFAULT '',
	started_at        TIMESTAMPTZ,
	completed_at      TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_jobs_survey ON jobs(survey_id);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);

CREATE TABLE IF NOT EXISTS markets (
	id            BIGSERIAL PRIMARY KEY,
	survey_id     BIGINT NOT NULL REFERENCES surveys(id),
	project_id    BIGINT NOT NULL DEFAULT 0,
	fingerprint   TEXT NOT NULL,
	name          TEXT NOT NULL,
	category      TEXT NOT NULL DEFAULT '',
	segmentation  TEXT NOT NULL DEFAULT '',
	size_estimate TEXT NOT NULL DEFAULT '',
	annual_growth TEXT NOT NULL DEFAULT '',
	trends        JSONB NOT NULL DEFAULT '[]',
	top_players   JSONB NOT NULL DEFAULT '[]',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (survey_id, fingerprint)
);

CREATE TABLE IF NOT EXISTS products (
	id              BIGSERIAL PRIMARY KEY,
	survey_id       BIGINT NOT NULL REFERENCES surveys(id),
	project_id      BIGINT NOT NULL DEFAULT 0,
	client_id       BIGINT NOT NULL REFERENCES clients(id),
	market_id       BIGINT NOT NULL REFERENCES markets(id),
	fingerprint     TEXT NOT NULL,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	target_audience TEXT NOT NULL DEFAULT '',
	differentiators JSONB NOT NULL DEFAULT '[]',
	UNIQUE (survey_id, fingerprint)
);

CREATE TABLE IF NOT EXISTS competitors (
	id              BIGSERIAL PRIMARY KEY,
	survey_id       BIGINT NOT NULL REFERENCES surveys(id),
	project_id      BIGINT NOT NULL DEFAULT 0,
	market_id       BIGINT NOT NULL REFERENCES markets(id),
	fingerprint     TEXT NOT NULL,
	name            TEXT NOT NULL,
	tax_id          TEXT NOT NULL DEFAULT '',
	site            TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	state           TEXT NOT NULL DEFAULT '',
	primary_product TEXT NOT NULL DEFAULT '',
	quality_score   INTEGER NOT NULL DEFAULT 0,
	UNIQUE (survey_id, fingerprint)
);

CREATE TABLE IF NOT EXISTS leads (
	id                  BIGSERIAL PRIMARY KEY,
	survey_id           BIGINT NOT NULL REFERENCES surveys(id),
	project_id          BIGINT NOT NULL DEFAULT 0,
	market_id           BIGINT NOT NULL REFERENCES markets(id),
	fingerprint         TEXT NOT NULL,
	name                TEXT NOT NULL,
	tax_id              TEXT NOT NULL DEFAULT '',
	site                TEXT NOT NULL DEFAULT '',
	city                TEXT NOT NULL DEFAULT '',
	state               TEXT NOT NULL DEFAULT '',
	product_of_interest TEXT NOT NULL DEFAULT '',
	source              TEXT NOT NULL DEFAULT 'ADDITIONAL_RESEARCH',
	quality_score       INTEGER NOT NULL DEFAULT 0,
	UNIQUE (survey_id, fingerprint)
);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// Surveys

func (s *PostgresStore) CreateSurvey(ctx context.Context, projectID int64, name string) (*model.Survey, error) {
	now := time.Now().UTC()
	var id int64

	err := s.pool.QueryRow(ctx,
		`INSERT INTO surveys (project_id, name, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		projectID, name, model.SurveyStatusActive, now, now,
	).Scan(&id)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert survey")
	}

	return &model.Survey{
		ID:        id,
		ProjectID: projectID,
		Name:      name,
		Status:    model.SurveyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) GetSurvey(ctx context.Context, id int64) (*model.Survey, error) {
	var sv model.Survey
	err := s.pool.QueryRow(ctx,
		`SELECT id, project_id, name, status, enriched_clients, created_at, updated_at FROM surveys WHERE id = $1`,
		id,
	).Scan(&sv.ID, &sv.ProjectID, &sv.Name, &sv.Status, &sv.EnrichedClients, &sv.CreatedAt, &sv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get survey %d", id)
	}
	return &sv, nil
}

func (s *PostgresStore) MarkSurveyEnriched(ctx context.Context, id int64, enrichedClients int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE surveys SET status = $1, enriched_clients = $2, updated_at = $3 WHERE id = $4`,
		model.SurveyStatusEnriched, enrichedClients, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark survey enriched %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("survey not found: %d", id)
	}
	return nil
}

// Clients

const clientColumns = `id, survey_id, project_id, name, tax_id, primary_product, site, email, phone, city, state, segmentation, sector, description, latitude, longitude, validation_status, quality_score, created_at, updated_at`

func (s *PostgresStore) CreateClient(ctx context.Context, c *model.ClientRecord) error {
	now := time.Now().UTC()
	if c.ValidationStatus == "" {
		c.ValidationStatus = model.ValidationPending
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO clients (survey_id, project_id, name, tax_id, primary_product, site, email, phone, city, state, segmentation, validation_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`,
		c.SurveyID, c.ProjectID, c.Name, c.TaxID, c.PrimaryProduct, c.Site, c.Email, c.Phone,
		c.City, c.State, c.Segmentation, c.ValidationStatus, now, now,
	).Scan(&c.ID)
	if err != nil {
		return eris.Wrap(err, "postgres: insert client")
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *PostgresStore) ListClients(ctx context.Context, surveyID int64) ([]model.ClientRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE survey_id = $1 ORDER BY id`,
		surveyID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list clients")
	}
	defer rows.Close()
	return scanClients(rows)
}

func (s *PostgresStore) ListUnenrichedClients(ctx context.Context, surveyID int64) ([]model.ClientRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE survey_id = $1 AND validation_status = $2 ORDER BY id`,
		surveyID, model.ValidationPending,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list unenriched clients")
	}
	defer rows.Close()
	return scanClients(rows)
}

func scanClients(rows pgx.Rows) ([]model.ClientRecord, error) {
	var clients []model.ClientRecord
	for rows.Next() {
		var c model.ClientRecord
		if err := rows.Scan(
			&c.ID, &c.SurveyID, &c.ProjectID, &c.Name, &c.TaxID, &c.PrimaryProduct,
			&c.Site, &c.Email, &c.Phone, &c.City, &c.State, &c.Segmentation,
			&c.Sector, &c.Description, &c.Lat, &c.Lon,
			&c.ValidationStatus, &c.QualityScore, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan client")
		}
		clients = append(clients, c)
	}
	return clients, eris.Wrap(rows.Err(), "postgres: iterate clients")
}

func (s *PostgresStore) UpdateClientEnrichment(ctx context.Context, c model.ClientRecord) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE clients SET sector = $1, description = $2, site = $3, city = $4, state = $5,
		 latitude = $6, longitude = $7, validation_status = $8, quality_score = $9, updated_at = $10
		 WHERE id = $11`,
		c.Sector, c.Description, c.Site, c.City, c.State,
		c.Lat, c.Lon, c.ValidationStatus, c.QualityScore, time.Now().UTC(), c.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update client enrichment %d", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("client not found: %d", c.ID)
	}
	return nil
}

// Jobs

func (s *PostgresStore) CreateJob(ctx context.Context, job *model.Job) error {
	now := time.Now().UTC()
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = model.JobStatusPending
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, survey_id, total_clients, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		job.ID, job.SurveyID, job.TotalClients, string(job.Status), now, now,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert job")
	}
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

const jobColumns = `id, survey_id, total_clients, processed_clients, success_clients, failed_clients, status, error_message, started_at, completed_at, created_at, updated_at`

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	var j model.Job
	err := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.SurveyID, &j.TotalClients, &j.ProcessedClients, &j.SuccessClients,
		&j.FailedClients, &j.Status, &j.ErrorMessage, &j.StartedAt, &j.CompletedAt,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get job %s", id)
	}
	return &j, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, surveyID int64, limit int) ([]model.Job, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := []any{}
	if surveyID > 0 {
		query += ` WHERE survey_id = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, surveyID, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(&j.ID, &j.SurveyID, &j.TotalClients, &j.ProcessedClients,
			&j.SuccessClients, &j.FailedClients, &j.Status, &j.ErrorMessage,
			&j.StartedAt, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan job")
		}
		jobs = append(jobs, j)
	}
	return jobs, eris.Wrap(rows.Err(), "postgres: iterate jobs")
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id string, status model.JobStatus) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = $2,
		 started_at = CASE WHEN $1 = 'processing' AND started_at IS NULL THEN $2 ELSE started_at END
		 WHERE id = $3`,
		string(status), now, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update job status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateJobCounters(ctx context.Context, id string, processed, success, failed int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET processed_clients = $1, success_clients = $2, failed_clients = $3, updated_at = $4 WHERE id = $5`,
		processed, success, failed, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update job counters %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) MarkJobCompleted(ctx context.Context, id string) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, completed_at = $2, updated_at = $2 WHERE id = $3`,
		string(model.JobStatusCompleted), now, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark job completed %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) MarkJobFailed(ctx context.Context, id string, message string) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, error_message = $2, completed_at = $3, updated_at = $3 WHERE id = $4`,
		string(model.JobStatusFailed), message, now, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark job failed %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", id)
	}
	return nil
}

// Markets

func (s *PostgresStore) FindMarketByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Market, error) {
	var m model.Market
	var trendsJSON, playersJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, survey_id, project_id, fingerprint, name, category, segmentation, size_estimate, annual_growth, trends, top_players, created_at, updated_at
		 FROM markets WHERE survey_id = $1 AND fingerprint = $2`,
		surveyID, fingerprint,
	).Scan(&m.ID, &m.SurveyID, &m.ProjectID, &m.Fingerprint, &m.Name, &m.Category,
		&m.Segmentation, &m.SizeEstimate, &m.AnnualGrowth, &trendsJSON, &playersJSON,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: find market")
	}

	if err := json.Unmarshal(trendsJSON, &m.Trends); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal market trends")
	}
	if err := json.Unmarshal(playersJSON, &m.TopPlayers); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal market top players")
	}
	return &m, nil
}

func (s *PostgresStore) InsertMarket(ctx context.Context, m *model.Market) error {
	now := time.Now().UTC()
	trendsJSON, playersJSON, err := marshalMarketLists(m)
	if err != nil {
		return err
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO markets (survey_id, project_id, fingerprint, name, category, segmentation, size_estimate, annual_growth, trends, top_players, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
		m.SurveyID, m.ProjectID, m.Fingerprint, m.Name, m.Category, m.Segmentation,
		m.SizeEstimate, m.AnnualGrowth, trendsJSON, playersJSON, now, now,
	).Scan(&m.ID)
	if err != nil {
		return eris.Wrap(err, "postgres: insert market")
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

func (s *PostgresStore) UpdateMarketEnrichment(ctx context.Context, m model.Market) error {
	trendsJSON, playersJSON, err := marshalMarketLists(&m)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE markets SET size_estimate = $1, annual_growth = $2, trends = $3, top_players = $4, updated_at = $5 WHERE id = $6`,
		m.SizeEstimate, m.AnnualGrowth, trendsJSON, playersJSON, time.Now().UTC(), m.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update market enrichment %d", m.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("market not found: %d", m.ID)
	}
	return nil
}

func marshalMarketLists(m *model.Market) ([]byte, []byte, error) {
	trendsJSON, err := json.Marshal(emptyIfNil(m.Trends))
	if err != nil {
		return nil, nil, eris.Wrap(err, "postgres: marshal market trends")
	}
	playersJSON, err := json.Marshal(emptyIfNil(m.TopPlayers))
	if err != nil {
		return nil, nil, eris.Wrap(err, "postgres: marshal market top players")
	}
	return trendsJSON, playersJSON, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Products

func (s *PostgresStore) FindProductByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Product, error) {
	var p model.Product
	var diffJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, survey_id, project_id, client_id, market_id, fingerprint, name, description, target_audience, differentiators
		 FROM products WHERE survey_id = $1 AND fingerprint = $2`,
		surveyID, fingerprint,
	).Scan(&p.ID, &p.SurveyID, &p.ProjectID, &p.ClientID, &p.MarketID, &p.Fingerprint,
		&p.Name, &p.Description, &p.TargetAudience, &diffJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: find product")
	}

	if err := json.Unmarshal(diffJSON, &p.Differentiators); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal product differentiators")
	}
	return &p, nil
}

func (s *PostgresStore) InsertProduct(ctx context.Context, p *model.Product) error {
	diffJSON, err := json.Marshal(emptyIfNil(p.Differentiators))
	if err != nil {
		return eris.Wrap(err, "postgres: marshal product differentiators")
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO products (survey_id, project_id, client_id, market_id, fingerprint, name, description, target_audience, differentiators)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		p.SurveyID, p.ProjectID, p.ClientID, p.MarketID, p.Fingerprint,
		p.Name, p.Description, p.TargetAudience, diffJSON,
	).Scan(&p.ID)
	return eris.Wrap(err, "postgres: insert product")
}

// Competitors

func (s *PostgresStore) FindCompetitorByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Competitor, error) {
	var c model.Competitor
	err := s.pool.QueryRow(ctx,
		`SELECT id, survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, primary_product, quality_score
		 FROM competitors WHERE survey_id = $1 AND fingerprint = $2`,
		surveyID, fingerprint,
	).Scan(&c.ID, &c.SurveyID, &c.ProjectID, &c.MarketID, &c.Fingerprint, &c.Name,
		&c.TaxID, &c.Site, &c.City, &c.State, &c.PrimaryProduct, &c.QualityScore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: find competitor")
	}
	return &c, nil
}

func (s *PostgresStore) InsertCompetitor(ctx context.Context, c *model.Competitor) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO competitors (survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, primary_product, quality_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		c.SurveyID, c.ProjectID, c.MarketID, c.Fingerprint, c.Name, c.TaxID,
		c.Site, c.City, c.State, c.PrimaryProduct, c.QualityScore,
	).Scan(&c.ID)
	return eris.Wrap(err, "postgres: insert competitor")
}

// Leads

func (s *PostgresStore) FindLeadByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Lead, error) {
	var l model.Lead
	err := s.pool.QueryRow(ctx,
		`SELECT id, survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, product_of_interest, source, quality_score
		 FROM leads WHERE survey_id = $1 AND fingerprint = $2`,
		surveyID, fingerprint,
	).Scan(&l.ID, &l.SurveyID, &l.ProjectID, &l.MarketID, &l.Fingerprint, &l.Name,
		&l.TaxID, &l.Site, &l.City, &l.State, &l.ProductOfInterest, &l.Source, &l.QualityScore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: find lead")
	}
	return &l, nil
}

func (s *PostgresStore) InsertLead(ctx context.Context, l *model.Lead) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO leads (survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, product_of_interest, source, quality_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
		l.SurveyID, l.ProjectID, l.MarketID, l.Fingerprint, l.Name, l.TaxID,
		l.Site, l.City, l.State, l.ProductOfInterest, string(l.Source), l.QualityScore,
	).Scan(&l.ID)
	return eris.Wrap(err, "postgres: insert lead")
}
