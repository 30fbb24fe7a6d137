package model

import "time"

// SurveyStatus values for a research run.
const (
	SurveyStatusDraft    = "draft"
	SurveyStatusActive   = "active"
	SurveyStatusEnriched = "enriched"
)

// Survey is a bounded research run within a project, containing the set
// of client companies to enrich.
type Survey struct {
	ID              int64     `json:"id"`
	ProjectID       int64     `json:"project_id"`
	Name            string    `json:"name"`
	Status          string    `json:"status"`
	EnrichedClients int       `json:"enriched_clients"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
