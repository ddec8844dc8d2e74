package domain

import "time"

// AuditRecord describes one handled HTTP request.
type AuditRecord struct {
	RequestID  string    `json:"request_id"`
	Action     string    `json:"action"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Query      string    `json:"query,omitempty"`
	Status     int       `json:"status"`
	Fallback   bool      `json:"fallback"`
	DurationMS int64     `json:"duration_ms"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

// Audit action constants.
const (
	AuditActionHTTPRequest = "http_request"
	AuditActionSimilarity  = "similarity_query"
	AuditActionMCPCall     = "mcp_call"
)
