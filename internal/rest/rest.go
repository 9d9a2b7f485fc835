package rest

// ErrorResponse is the JSON error body returned by all API handlers.
// Fields carries per-field validation messages keyed by field name
// (title, date, start_time, end_time) so the UI can highlight the
// offending control.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
