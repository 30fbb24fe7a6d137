package importer

import (
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/match"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/model"
)

// Processor classifies import rows against the clients a survey already
// has and against the rows accepted earlier in the same batch.
type Processor struct {
	threshold int

	// accepted entities and fingerprints, seeded from existing clients
	// and grown as rows pass.
	entities     []match.EntityRecord
	fingerprints map[string]bool

	// onProgress, when set, receives a report snapshot after every row.
	onProgress func(model.ImportReport)
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithDuplicateThreshold overrides the similarity score at or above
// which a row counts as a duplicate.
func WithDuplicateThreshold(threshold int) ProcessorOption {
	return func(p *Processor) {
		if threshold > 0 {
			p.threshold = threshold
		}
	}
}

// WithProgress registers a callback invoked with a report snapshot after
// each row is classified.
func WithProgress(fn func(model.ImportReport)) ProcessorOption {
	return func(p *Processor) { p.onProgress = fn }
}

// NewProcessor creates a Processor primed with the survey's existing
// clients so re-imports do not duplicate them.
func NewProcessor(existing []model.ClientRecord, opts ...ProcessorOption) *Processor {
	p := &Processor{
		threshold:    match.DefaultDuplicateThreshold,
		fingerprints: make(map[string]bool),
	}
	for _, c := range existing {
		p.entities = append(p.entities, match.EntityRecord{
			Name: c.Name, TaxID: c.TaxID, Email: c.Email, Phone: c.Phone,
		})
		p.fingerprints[match.FingerprintEntity(c.TaxID, c.Name)] = true
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process classifies every row and returns the accepted ones with the
// final report. A bad row is recorded and skipped, never fatal.
func (p *Processor) Process(rows []model.ImportRow) ([]model.ImportRow, *model.ImportReport) {
	report := &model.ImportReport{Total: len(rows)}
	var accepted []model.ImportRow

	for _, row := range rows {
		if field, msg, ok := p.validate(row); !ok {
			report.Errors++
			report.Failures = append(report.Failures, model.ImportError{
				Row: row.Number, Field: field, Message: msg,
			})
			p.progress(report)
			continue
		}

		if p.isDuplicate(row) {
			report.Duplicates++
			p.progress(report)
			continue
		}

		p.accept(row)
		accepted = append(accepted, row)
		report.Success++
		p.progress(report)
	}

	return accepted, report
}

func (p *Processor) validate(row model.ImportRow) (field, msg string, ok bool) {
	if row.Name == "" {
		return "name", "name is required", false
	}
	if row.TaxID != "" && !match.ValidTaxID(row.TaxID) {
		return "tax_id", "invalid CNPJ check digits", false
	}
	return "", "", true
}

func (p *Processor) isDuplicate(row model.ImportRow) bool {
	if p.fingerprints[match.FingerprintEntity(row.TaxID, row.Name)] {
		return true
	}
	candidate := match.EntityRecord{
		Name: row.Name, TaxID: row.TaxID, Email: row.Email, Phone: row.Phone,
	}
	for _, e := range p.entities {
		if match.IsDuplicate(candidate, e, p.threshold) {
			return true
		}
	}
	return false
}

func (p *Processor) accept(row model.ImportRow) {
	p.entities = append(p.entities, match.EntityRecord{
		Name: row.Name, TaxID: row.TaxID, Email: row.Email, Phone: row.Phone,
	})
	p.fingerprints[match.FingerprintEntity(row.TaxID, row.Name)] = true
}

func (p *Processor) progress(report *model.ImportReport) {
	if p.onProgress != nil {
		p.onProgress(*report)
	}
}
