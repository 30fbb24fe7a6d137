package model

// ImportRow is one row of a bulk client import, already mapped from the
// source file's columns.
type ImportRow struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	TaxID  string `json:"tax_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Site   string `json:"site,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
}

// ImportError records why a single row was rejected.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportReport accumulates row-by-row import outcomes. Counters are
// updated as each row is classified so callers can show live progress.
type ImportReport struct {
	Total      int           `json:"total"`
	Success    int           `json:"success"`
	Duplicates int           `json:"duplicates"`
	Errors     int           `json:"errors"`
	Failures   []ImportError `json:"failures,omitempty"`
}
