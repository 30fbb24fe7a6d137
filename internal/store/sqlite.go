package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS surveys (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id       INTEGER NOT NULL,
	name             TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'draft',
	enriched_clients INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS clients (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	survey_id         INTEGER NOT NULL REFERENCES surveys(id),
	project_id        INTEGER NOT NULL DEFAULT 0,
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
	latitude          REAL,
	longitude         REAL,
	validation_status TEXT NOT NULL DEFAULT 'pending',
	quality_score     INTEGER NOT NULL DEFAULT 0,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_clients_survey ON clients(survey_id);
CREATE INDEX IF NOT EXISTS idx_clients_survey_status ON clients(survey_id, validation_status);

CREATE TABLE IF NOT EXISTS jobs (
	id                TEXT PRIMARY KEY,
	survey_id         INTEGER NOT NULL REFERENCES surveys(id),
	total_clients     INTEGER NOT NULL DEFAULT 0,
	processed_clients INTEGER NOT NULL DEFAULT 0,
	success_clients   INTEGER NOT NULL DEFAULT 0,
	failed_clients    INTEGER NOT NULL DEFAULT 0,
	status            TEXT NOT NULL DEFAULT 'pending',
	error_message     TEXT NOT NULL DEFAULT '',
	started_at        DATETIME,
	completed_at      DATETIME,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_jobs_survey ON jobs(survey_id);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);

CREATE TABLE IF NOT EXISTS markets (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	survey_id     INTEGER NOT NULL REFERENCES surveys(id),
	project_id    INTEGER NOT NULL DEFAULT 0,
	fingerprint   TEXT NOT NULL,
	name          TEXT NOT NULL,
	category      TEXT NOT NULL DEFAULT '',
	segmentation  TEXT NOT NULL DEFAULT '',
	size_estimate TEXT NOT NULL DEFAULT '',
	annual_growth TEXT NOT NULL DEFAULT '',
	trends        TEXT NOT NULL DEFAULT '[]',
	top_players   TEXT NOT NULL DEFAULT '[]',
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (survey_id, fingerprint)
);

CREATE TABLE IF NOT EXISTS products (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	survey_id       INTEGER NOT NULL REFERENCES surveys(id),
	project_id      INTEGER NOT NULL DEFAULT 0,
	client_id       INTEGER NOT NULL REFERENCES clients(id),
	market_id       INTEGER NOT NULL REFERENCES markets(id),
	fingerprint     TEXT NOT NULL,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	target_audience TEXT NOT NULL DEFAULT '',
	differentiators TEXT NOT NULL DEFAULT '[]',
	UNIQUE (survey_id, fingerprint)
);

CREATE TABLE IF NOT EXISTS competitors (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	survey_id       INTEGER NOT NULL REFERENCES surveys(id),
	project_id      INTEGER NOT NULL DEFAULT 0,
	market_id       INTEGER NOT NULL REFERENCES markets(id),
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
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	survey_id           INTEGER NOT NULL REFERENCES surveys(id),
	project_id          INTEGER NOT NULL DEFAULT 0,
	market_id           INTEGER NOT NULL REFERENCES markets(id),
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Surveys

func (s *SQLiteStore) CreateSurvey(ctx context.Context, projectID int64, name string) (*model.Survey, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO surveys (project_id, name, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		projectID, name, model.SurveyStatusActive, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert survey")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: survey id")
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

func (s *SQLiteStore) GetSurvey(ctx context.Context, id int64) (*model.Survey, error) {
	var sv model.Survey
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, status, enriched_clients, created_at, updated_at FROM surveys WHERE id = ?`,
		id,
	).Scan(&sv.ID, &sv.ProjectID, &sv.Name, &sv.Status, &sv.EnrichedClients, &sv.CreatedAt, &sv.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get survey %d", id)
	}
	return &sv, nil
}

func (s *SQLiteStore) MarkSurveyEnriched(ctx context.Context, id int64, enrichedClients int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE surveys SET status = ?, enriched_clients = ?, updated_at = ? WHERE id = ?`,
		model.SurveyStatusEnriched, enrichedClients, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark survey enriched %d", id)
	}
	return checkRowsAffected(res, "survey", id)
}

// Clients

func (s *SQLiteStore) CreateClient(ctx context.Context, c *model.ClientRecord) error {
	now := time.Now().UTC()
	if c.ValidationStatus == "" {
		c.ValidationStatus = model.ValidationPending
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (survey_id, project_id, name, tax_id, primary_product, site, email, phone, city, state, segmentation, validation_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.SurveyID, c.ProjectID, c.Name, c.TaxID, c.PrimaryProduct, c.Site, c.Email, c.Phone,
		c.City, c.State, c.Segmentation, c.ValidationStatus, now, now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert client")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: client id")
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) ListClients(ctx context.Context, surveyID int64) ([]model.ClientRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE survey_id = ? ORDER BY id`,
		surveyID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list clients")
	}
	defer rows.Close()
	return scanClientRows(rows)
}

func (s *SQLiteStore) ListUnenrichedClients(ctx context.Context, surveyID int64) ([]model.ClientRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE survey_id = ? AND validation_status = ? ORDER BY id`,
		surveyID, model.ValidationPending,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list unenriched clients")
	}
	defer rows.Close()
	return scanClientRows(rows)
}

func scanClientRows(rows *sql.Rows) ([]model.ClientRecord, error) {
	var clients []model.ClientRecord
	for rows.Next() {
		var c model.ClientRecord
		if err := rows.Scan(
			&c.ID, &c.SurveyID, &c.ProjectID, &c.Name, &c.TaxID, &c.PrimaryProduct,
			&c.Site, &c.Email, &c.Phone, &c.City, &c.State, &c.Segmentation,
			&c.Sector, &c.Description, &c.Lat, &c.Lon,
			&c.ValidationStatus, &c.QualityScore, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan client")
		}
		clients = append(clients, c)
	}
	return clients, eris.Wrap(rows.Err(), "sqlite: iterate clients")
}

func (s *SQLiteStore) UpdateClientEnrichment(ctx context.Context, c model.ClientRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE clients SET sector = ?, description = ?, site = ?, city = ?, state = ?,
		 latitude = ?, longitude = ?, validation_status = ?, quality_score = ?, updated_at = ?
		 WHERE id = ?`,
		c.Sector, c.Description, c.Site, c.City, c.State,
		c.Lat, c.Lon, c.ValidationStatus, c.QualityScore, time.Now().UTC(), c.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update client enrichment %d", c.ID)
	}
	return checkRowsAffected(res, "client", c.ID)
}

// Jobs

func (s *SQLiteStore) CreateJob(ctx context.Context, job *model.Job) error {
	now := time.Now().UTC()
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = model.JobStatusPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, survey_id, total_clients, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, job.SurveyID, job.TotalClients, string(job.Status), now, now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert job")
	}
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	var j model.Job
	err := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`,
		id,
	).Scan(&j.ID, &j.SurveyID, &j.TotalClients, &j.ProcessedClients, &j.SuccessClients,
		&j.FailedClients, &j.Status, &j.ErrorMessage, &j.StartedAt, &j.CompletedAt,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get job %s", id)
	}
	return &j, nil
}

func (s *SQLiteStore) ListJobs(ctx context.Context, surveyID int64, limit int) ([]model.Job, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := []any{}
	if surveyID > 0 {
		query += ` WHERE survey_id = ? ORDER BY created_at DESC LIMIT ?`
		args = append(args, surveyID, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(&j.ID, &j.SurveyID, &j.TotalClients, &j.ProcessedClients,
			&j.SuccessClients, &j.FailedClients, &j.Status, &j.ErrorMessage,
			&j.StartedAt, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan job")
		}
		jobs = append(jobs, j)
	}
	return jobs, eris.Wrap(rows.Err(), "sqlite: iterate jobs")
}

func (s *SQLiteStore) UpdateJobStatus(ctx context.Context, id string, status model.JobStatus) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ?,
		 started_at = CASE WHEN ? = 'processing' AND started_at IS NULL THEN ? ELSE started_at END
		 WHERE id = ?`,
		string(status), now, string(status), now, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update job status %s", id)
	}
	return checkRowsAffected(res, "job", id)
}

func (s *SQLiteStore) UpdateJobCounters(ctx context.Context, id string, processed, success, failed int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET processed_clients = ?, success_clients = ?, failed_clients = ?, updated_at = ? WHERE id = ?`,
		processed, success, failed, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update job counters %s", id)
	}
	return checkRowsAffected(res, "job", id)
}

func (s *SQLiteStore) MarkJobCompleted(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		string(model.JobStatusCompleted), now, now, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark job completed %s", id)
	}
	return checkRowsAffected(res, "job", id)
}

func (s *SQLiteStore) MarkJobFailed(ctx context.Context, id string, message string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error_message = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		string(model.JobStatusFailed), message, now, now, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark job failed %s", id)
	}
	return checkRowsAffected(res, "job", id)
}

// Markets

func (s *SQLiteStore) FindMarketByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Market, error) {
	var m model.Market
	var trendsJSON, playersJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, survey_id, project_id, fingerprint, name, category, segmentation, size_estimate, annual_growth, trends, top_players, created_at, updated_at
		 FROM markets WHERE survey_id = ? AND fingerprint = ?`,
		surveyID, fingerprint,
	).Scan(&m.ID, &m.SurveyID, &m.ProjectID, &m.Fingerprint, &m.Name, &m.Category,
		&m.Segmentation, &m.SizeEstimate, &m.AnnualGrowth, &trendsJSON, &playersJSON,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: find market")
	}

	if err := json.Unmarshal([]byte(trendsJSON), &m.Trends); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal market trends")
	}
	if err := json.Unmarshal([]byte(playersJSON), &m.TopPlayers); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal market top players")
	}
	return &m, nil
}

func (s *SQLiteStore) InsertMarket(ctx context.Context, m *model.Market) error {
	now := time.Now().UTC()
	trendsJSON, playersJSON, err := marshalMarketLists(m)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO markets (survey_id, project_id, fingerprint, name, category, segmentation, size_estimate, annual_growth, trends, top_players, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.SurveyID, m.ProjectID, m.Fingerprint, m.Name, m.Category, m.Segmentation,
		m.SizeEstimate, m.AnnualGrowth, string(trendsJSON), string(playersJSON), now, now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert market")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: market id")
	}
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) UpdateMarketEnrichment(ctx context.Context, m model.Market) error {
	trendsJSON, playersJSON, err := marshalMarketLists(&m)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE markets SET size_estimate = ?, annual_growth = ?, trends = ?, top_players = ?, updated_at = ? WHERE id = ?`,
		m.SizeEstimate, m.AnnualGrowth, string(trendsJSON), string(playersJSON), time.Now().UTC(), m.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update market enrichment %d", m.ID)
	}
	return checkRowsAffected(res, "market", m.ID)
}

// Products

func (s *SQLiteStore) FindProductByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Product, error) {
	var p model.Product
	var diffJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, survey_id, project_id, client_id, market_id, fingerprint, name, description, target_audience, differentiators
		 FROM products WHERE survey_id = ? AND fingerprint = ?`,
		surveyID, fingerprint,
	).Scan(&p.ID, &p.SurveyID, &p.ProjectID, &p.ClientID, &p.MarketID, &p.Fingerprint,
		&p.Name, &p.Description, &p.TargetAudience, &diffJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: find product")
	}

	if err := json.Unmarshal([]byte(diffJSON), &p.Differentiators); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal product differentiators")
	}
	return &p, nil
}

func (s *SQLiteStore) InsertProduct(ctx context.Context, p *model.Product) error {
	diffJSON, err := json.Marshal(emptyIfNil(p.Differentiators))
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal product differentiators")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (survey_id, project_id, client_id, market_id, fingerprint, name, description, target_audience, differentiators)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SurveyID, p.ProjectID, p.ClientID, p.MarketID, p.Fingerprint,
		p.Name, p.Description, p.TargetAudience, string(diffJSON),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert product")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: product id")
	}
	p.ID = id
	return nil
}

// Competitors

func (s *SQLiteStore) FindCompetitorByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Competitor, error) {
	var c model.Competitor
	err := s.db.QueryRowContext(ctx,
		`SELECT id, survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, primary_product, quality_score
		 FROM competitors WHERE survey_id = ? AND fingerprint = ?`,
		surveyID, fingerprint,
	).Scan(&c.ID, &c.SurveyID, &c.ProjectID, &c.MarketID, &c.Fingerprint, &c.Name,
		&c.TaxID, &c.Site, &c.City, &c.State, &c.PrimaryProduct, &c.QualityScore)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: find competitor")
	}
	return &c, nil
}

func (s *SQLiteStore) InsertCompetitor(ctx context.Context, c *model.Competitor) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO competitors (survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, primary_product, quality_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.SurveyID, c.ProjectID, c.MarketID, c.Fingerprint, c.Name, c.TaxID,
		c.Site, c.City, c.State, c.PrimaryProduct, c.QualityScore,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert competitor")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: competitor id")
	}
	c.ID = id
	return nil
}

// Leads

func (s *SQLiteStore) FindLeadByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Lead, error) {
	var l model.Lead
	err := s.db.QueryRowContext(ctx,
		`SELECT id, survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, product_of_interest, source, quality_score
		 FROM leads WHERE survey_id = ? AND fingerprint = ?`,
		surveyID, fingerprint,
	).Scan(&l.ID, &l.SurveyID, &l.ProjectID, &l.MarketID, &l.Fingerprint, &l.Name,
		&l.TaxID, &l.Site, &l.City, &l.State, &l.ProductOfInterest, &l.Source, &l.QualityScore)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: find lead")
	}
	return &l, nil
}

func (s *SQLiteStore) InsertLead(ctx context.Context, l *model.Lead) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (survey_id, project_id, market_id, fingerprint, name, tax_id, site, city, state, product_of_interest, source, quality_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.SurveyID, l.ProjectID, l.MarketID, l.Fingerprint, l.Name, l.TaxID,
		l.Site, l.City, l.State, l.ProductOfInterest, string(l.Source), l.QualityScore,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert lead")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: lead id")
	}
	l.ID = id
	return nil
}

func checkRowsAffected(res sql.Result, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: rows affected for %s", entity)
	}
	if n == 0 {
		return eris.Errorf("%s not found: %v", entity, id)
	}
	return nil
}
