package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/reasoning"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/pkg/geocode"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/pkg/receitaws"
)

// fakeStore is an in-memory store.Store with per-method error injection.
type fakeStore struct {
	mu sync.Mutex

	surveys     map[int64]*model.Survey
	clients     map[int64]*model.ClientRecord
	jobs        map[string]*model.Job
	markets     map[string]*model.Market
	products    map[string]*model.Product
	competitors map[string]*model.Competitor
	leads       map[string]*model.Lead

	nextID int64
	errOn  map[string]error

	// onCountersUpdate fires after each UpdateJobCounters, letting tests
	// flip job status mid-run.
	onCountersUpdate func(job *model.Job)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		surveys:     make(map[int64]*model.Survey),
		clients:     make(map[int64]*model.ClientRecord),
		jobs:        make(map[string]*model.Job),
		markets:     make(map[string]*model.Market),
		products:    make(map[string]*model.Product),
		competitors: make(map[string]*model.Competitor),
		leads:       make(map[string]*model.Lead),
		errOn:       make(map[string]error),
	}
}

func (f *fakeStore) fail(method string, err error) { f.errOn[method] = err }

func (f *fakeStore) check(method string) error { return f.errOn[method] }

func (f *fakeStore) nextSeq() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) Migrate(ctx context.Context) error { return nil }
func (f *fakeStore) Ping(ctx context.Context) error    { return nil }
func (f *fakeStore) Close() error                      { return nil }

func (f *fakeStore) CreateSurvey(ctx context.Context, projectID int64, name string) (*model.Survey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sv := &model.Survey{ID: f.nextSeq(), ProjectID: projectID, Name: name, Status: model.SurveyStatusActive}
	f.surveys[sv.ID] = sv
	return sv, nil
}

func (f *fakeStore) GetSurvey(ctx context.Context, id int64) (*model.Survey, error) {
	if err := f.check("GetSurvey"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sv, ok := f.surveys[id]
	if !ok {
		return nil, nil
	}
	cp := *sv
	return &cp, nil
}

func (f *fakeStore) MarkSurveyEnriched(ctx context.Context, id int64, enrichedClients int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sv, ok := f.surveys[id]
	if !ok {
		return fmt.Errorf("survey not found: %d", id)
	}
	sv.Status = model.SurveyStatusEnriched
	sv.EnrichedClients = enrichedClients
	return nil
}

func (f *fakeStore) CreateClient(ctx context.Context, c *model.ClientRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextSeq()
	if c.ValidationStatus == "" {
		c.ValidationStatus = model.ValidationPending
	}
	cp := *c
	f.clients[c.ID] = &cp
	return nil
}

func (f *fakeStore) ListClients(ctx context.Context, surveyID int64) ([]model.ClientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ClientRecord
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.clients[id]; ok && c.SurveyID == surveyID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListUnenrichedClients(ctx context.Context, surveyID int64) ([]model.ClientRecord, error) {
	if err := f.check("ListUnenrichedClients"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ClientRecord
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.clients[id]; ok && c.SurveyID == surveyID && c.ValidationStatus == model.ValidationPending {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateClientEnrichment(ctx context.Context, c model.ClientRecord) error {
	if err := f.check("UpdateClientEnrichment"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.clients[c.ID]
	if !ok {
		return fmt.Errorf("client not found: %d", c.ID)
	}
	*stored = c
	return nil
}

func (f *fakeStore) CreateJob(ctx context.Context, job *model.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", f.nextSeq())
	}
	if job.Status == "" {
		job.Status = model.JobStatusPending
	}
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	if err := f.check("GetJob"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (f *fakeStore) ListJobs(ctx context.Context, surveyID int64, limit int) ([]model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Job
	for _, j := range f.jobs {
		if surveyID == 0 || j.SurveyID == surveyID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateJobStatus(ctx context.Context, id string, status model.JobStatus) error {
	if err := f.check("UpdateJobStatus"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	j.Status = status
	return nil
}

func (f *fakeStore) UpdateJobCounters(ctx context.Context, id string, processed, success, failed int) error {
	if err := f.check("UpdateJobCounters"); err != nil {
		return err
	}
	f.mu.Lock()
	j, ok := f.jobs[id]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("job not found: %s", id)
	}
	j.ProcessedClients = processed
	j.SuccessClients = success
	j.FailedClients = failed
	hook := f.onCountersUpdate
	cp := *j
	f.mu.Unlock()

	if hook != nil {
		hook(&cp)
	}
	return nil
}

func (f *fakeStore) MarkJobCompleted(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	j.Status = model.JobStatusCompleted
	return nil
}

func (f *fakeStore) MarkJobFailed(ctx context.Context, id string, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	j.Status = model.JobStatusFailed
	j.ErrorMessage = message
	return nil
}

func (f *fakeStore) FindMarketByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Market, error) {
	if err := f.check("FindMarketByFingerprint"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.markets[marketKey(surveyID, fingerprint)]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) InsertMarket(ctx context.Context, m *model.Market) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := marketKey(m.SurveyID, m.Fingerprint)
	if _, exists := f.markets[key]; exists {
		return fmt.Errorf("duplicate market fingerprint: %s", m.Fingerprint)
	}
	m.ID = f.nextSeq()
	cp := *m
	f.markets[key] = &cp
	return nil
}

func (f *fakeStore) UpdateMarketEnrichment(ctx context.Context, m model.Market) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.markets[marketKey(m.SurveyID, m.Fingerprint)]
	if !ok {
		return fmt.Errorf("market not found: %d", m.ID)
	}
	*stored = m
	return nil
}

func (f *fakeStore) FindProductByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[marketKey(surveyID, fingerprint)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) InsertProduct(ctx context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextSeq()
	cp := *p
	f.products[marketKey(p.SurveyID, p.Fingerprint)] = &cp
	return nil
}

func (f *fakeStore) FindCompetitorByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Competitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.competitors[marketKey(surveyID, fingerprint)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) InsertCompetitor(ctx context.Context, c *model.Competitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextSeq()
	cp := *c
	f.competitors[marketKey(c.SurveyID, c.Fingerprint)] = &cp
	return nil
}

func (f *fakeStore) FindLeadByFingerprint(ctx context.Context, surveyID int64, fingerprint string) (*model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[marketKey(surveyID, fingerprint)]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeStore) InsertLead(ctx context.Context, l *model.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = f.nextSeq()
	cp := *l
	f.leads[marketKey(l.SurveyID, l.Fingerprint)] = &cp
	return nil
}

func marketKey(surveyID int64, fingerprint string) string {
	return fmt.Sprintf("%d:%s", surveyID, fingerprint)
}

// mockGateway is a hand-written testify mock of reasoning.Gateway.
type mockGateway struct {
	mock.Mock
	configured bool
}

func (m *mockGateway) Configured() bool { return m.configured }

func (m *mockGateway) EnrichClient(ctx context.Context, client model.ClientRecord) (*reasoning.ClientProfile, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reasoning.ClientProfile), args.Error(1)
}

func (m *mockGateway) IdentifyMarket(ctx context.Context, client model.EnrichedClient) (*reasoning.MarketIdentity, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reasoning.MarketIdentity), args.Error(1)
}

func (m *mockGateway) EnrichMarket(ctx context.Context, market model.Market) (*reasoning.MarketProfile, error) {
	args := m.Called(ctx, market)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reasoning.MarketProfile), args.Error(1)
}

func (m *mockGateway) IdentifyProducts(ctx context.Context, client model.EnrichedClient, market model.Market) ([]reasoning.ProductIdea, error) {
	args := m.Called(ctx, client, market)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reasoning.ProductIdea), args.Error(1)
}

func (m *mockGateway) IdentifyCompetitors(ctx context.Context, client model.EnrichedClient, market model.Market) ([]reasoning.CompetitorProspect, error) {
	args := m.Called(ctx, client, market)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reasoning.CompetitorProspect), args.Error(1)
}

func (m *mockGateway) IdentifyLeads(ctx context.Context, client model.EnrichedClient, market model.Market, products []model.Product, competitors []model.Competitor) ([]reasoning.LeadProspect, error) {
	args := m.Called(ctx, client, market, products, competitors)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reasoning.LeadProspect), args.Error(1)
}

// mockGeocoder is a hand-written testify mock of geocode.Client.
type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Resolve(ctx context.Context, city, state string) (*geocode.Result, error) {
	args := m.Called(ctx, city, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Result), args.Error(1)
}

// mockRegistry is a hand-written testify mock of receitaws.Client.
type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) Lookup(ctx context.Context, cnpj string) (*receitaws.Company, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receitaws.Company), args.Error(1)
}
