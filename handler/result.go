package handler

import (
	"github.com/turbot/tailpipe-cleanse/summary"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	// StatusSkipped is returned for objects written by the cleanse itself
	StatusSkipped Status = "skipped"
)

// InvocationResult is returned to the caller of an invocation and written as the report
type InvocationResult struct {
	Status            Status           `json:"status"`
	InvocationId      string           `json:"invocation_id"`
	Message           string           `json:"message"`
	Source            string           `json:"source"`
	Stage             string           `json:"stage,omitempty"`
	Retryable         bool             `json:"retryable,omitempty"`
	OriginalRows      int              `json:"original_rows"`
	CleanedRows       int              `json:"cleaned_rows"`
	DuplicatesRemoved int              `json:"duplicates_removed"`
	FilteredOut       int              `json:"filtered_out"`
	OutputLocation    string           `json:"output_location,omitempty"`
	ReportLocation    string           `json:"report_location,omitempty"`
	AlertRequired     bool             `json:"alert_required"`
	AlertSent         bool             `json:"alert_sent"`
	Summary           *summary.Summary `json:"summary,omitempty"`
}
