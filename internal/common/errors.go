package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ExtractionError is a model-request failure (transport error or non-2xx)
// from the vision/text model. Stage is "vision" or "text". Malformed replies
// are NOT extraction errors; they are absorbed by repair + normalization.
type ExtractionError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed at %s stage: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed at %s stage: %s", e.Stage, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// TranscriptionError is a speech-endpoint failure. Backend is "whisper" or
// "andakia". Callers branch on the type with errors.As instead of matching
// message prefixes.
type TranscriptionError struct {
	Backend string
	Message string
	Cause   error
}

func (e *TranscriptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transcription failed on %s backend: %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("transcription failed on %s backend: %s", e.Backend, e.Message)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Cause
}
