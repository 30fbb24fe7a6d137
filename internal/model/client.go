package model

import "time"

// Validation statuses for a client record.
const (
	ValidationPending  = "pending"
	ValidationApproved = "approved"
	ValidationRejected = "rejected"
)

// ClientRecord is a raw client row owned by a survey. The enrichment
// pipeline fills the resolved fields in place and flips ValidationStatus
// to approved on success or rejected on a client fault, so a resumed job
// never revisits the row.
type ClientRecord struct {
	ID             int64  `json:"id" yaml:"-"`
	SurveyID       int64  `json:"survey_id" yaml:"-"`
	ProjectID      int64  `json:"project_id" yaml:"-"`
	Name           string `json:"name" yaml:"name"`
	TaxID          string `json:"tax_id,omitempty" yaml:"tax_id"`
	PrimaryProduct string `json:"primary_product,omitempty" yaml:"primary_product"`
	Site           string `json:"site,omitempty" yaml:"site"`
	Email          string `json:"email,omitempty" yaml:"email"`
	Phone          string `json:"phone,omitempty" yaml:"phone"`
	City           string `json:"city,omitempty" yaml:"city"`
	State          string `json:"state,omitempty" yaml:"state"`
	Segmentation   string `json:"segmentation,omitempty" yaml:"segmentation"`

	// Filled by enrichment.
	Sector           string    `json:"sector,omitempty" yaml:"-"`
	Description      string    `json:"description,omitempty" yaml:"-"`
	Lat              *float64  `json:"lat,omitempty" yaml:"-"`
	Lon              *float64  `json:"lon,omitempty" yaml:"-"`
	ValidationStatus string    `json:"validation_status" yaml:"-"`
	QualityScore     int       `json:"quality_score,omitempty" yaml:"-"`
	CreatedAt        time.Time `json:"created_at" yaml:"-"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"-"`
}

// EnrichedClient is the normalized output of the client enrichment
// stage, with city and state guaranteed non-empty. Every subsequent
// reasoning stage consumes this, never the raw ClientRecord.
type EnrichedClient struct {
	Name        string   `json:"name"`
	TaxID       string   `json:"tax_id,omitempty"`
	Site        string   `json:"site,omitempty"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Sector      string   `json:"sector"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
}
