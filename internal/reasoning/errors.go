package reasoning

import "fmt"

// UpstreamError indicates the model API call itself failed after retries.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("reasoning: %s: upstream call failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// SchemaError indicates the model answered but the payload did not parse
// into the expected shape.
type SchemaError struct {
	Stage string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("reasoning: %s: malformed payload: %v", e.Stage, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IncompleteEnrichmentError indicates client enrichment that finished
// without resolving the client's city or state.
type IncompleteEnrichmentError struct {
	Stage  string
	Reason string
}

func (e *IncompleteEnrichmentError) Error() string {
	return fmt.Sprintf("reasoning: %s: incomplete result: %s", e.Stage, e.Reason)
}
