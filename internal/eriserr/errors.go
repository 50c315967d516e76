// Package eriserr defines the stable error taxonomy for the analysis pipeline.
package eriserr

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// UnsupportedLanguage indicates a file extension with no registered extractor.
	// Callers decide whether to skip the file or abort the run.
	UnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
	// ExtractionFailure indicates a file whose tree could not be parsed or summarized.
	// Surfaced per file so one bad file does not abort the batch.
	ExtractionFailure ErrorCode = "EXTRACTION_FAILURE"
	// MetricComputationFailure indicates a graph metric that is inapplicable to
	// the current graph shape. Recorded in that metric's slot, never escalated.
	MetricComputationFailure ErrorCode = "METRIC_COMPUTATION_FAILURE"
	// ArtifactInvalid indicates a persisted corpus artifact that cannot be decoded
	ArtifactInvalid ErrorCode = "ARTIFACT_INVALID"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// AnalysisError carries a stable code, a human message, and the file it
// concerns when the failure is file-scoped.
type AnalysisError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	File    string    `json:"file,omitempty"`
	cause   error
}

// New creates an AnalysisError without an underlying cause
func New(code ErrorCode, message string) *AnalysisError {
	return &AnalysisError{Code: code, Message: message}
}

// Wrap creates an AnalysisError wrapping an underlying cause
func Wrap(code ErrorCode, message string, cause error) *AnalysisError {
	return &AnalysisError{Code: code, Message: message, cause: cause}
}

// WithFile attaches the file the error concerns
func (e *AnalysisError) WithFile(file string) *AnalysisError {
	e.File = file
	return e
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.cause
}

// HasCode reports whether err is an AnalysisError with the given code
func HasCode(err error, code ErrorCode) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
