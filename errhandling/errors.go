// Package errhandling defines the error taxonomy shared by the cleanse pipeline and its
// storage and alert collaborators.
package errhandling

import (
	"errors"
	"fmt"
)

// Stage names used to tag pipeline failures
const (
	StageParse     = "parse"
	StageDedupe    = "dedupe"
	StageFilter    = "filter"
	StageEnrich    = "enrich"
	StageSummarize = "summarize"
	StageRead      = "read"
	StageWrite     = "write"
)

// ParseError is returned when the input bytes cannot be turned into a dataset
type ParseError struct {
	Message string
	Err     error
}

func NewParseError(message string, err error) *ParseError {
	return &ParseError{Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %s", e.Message, e.Err.Error())
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// EnrichmentError is returned when a column required by enrichment is absent from the dataset
type EnrichmentError struct {
	Column  string
	Purpose string
}

func NewEnrichmentError(column, purpose string) *EnrichmentError {
	return &EnrichmentError{Column: column, Purpose: purpose}
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment error: %s column '%s' not found in dataset", e.Purpose, e.Column)
}

// StageError tags an error with the pipeline stage which produced it
type StageError struct {
	Stage string
	Err   error
}

func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %s", e.Stage, e.Err.Error())
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage tag of err, or the empty string if err carries none
func StageOf(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}

// AlertError wraps a failure to publish an alert. It is never fatal to an invocation.
type AlertError struct {
	Topic string
	Err   error
}

func NewAlertError(topic string, err error) *AlertError {
	return &AlertError{Topic: topic, Err: err}
}

func (e *AlertError) Error() string {
	return fmt.Sprintf("failed to publish alert to '%s': %s", e.Topic, e.Err.Error())
}

func (e *AlertError) Unwrap() error {
	return e.Err
}
