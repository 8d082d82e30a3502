package server

import "github.com/premstats/premstats/internal/pipeline"

// AskRequest is the body of POST /api/query/ask_stats.
type AskRequest struct {
	Message string `json:"message"` // Natural language question about match data
}

// AskResponse carries the synthesized answer plus the backing rows.
type AskResponse struct {
	Message string         `json:"message"`
	Data    []pipeline.Row `json:"data"`
}

// ErrorResponse is the error envelope: a single human-readable detail string,
// never internal error text.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is returned by GET /check.
type HealthResponse struct {
	Message string `json:"message"`
}

// NameRequest creates or renames a name-keyed entity (season, team, referee).
type NameRequest struct {
	Name string `json:"name"`
}
