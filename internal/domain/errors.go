package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAnalysisFailed is matched by every error the analysis client returns.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrPersistence is matched by history storage failures.
	ErrPersistence = errors.New("history persistence failed")
)

// Error kinds used for logging and metrics labels.
const (
	KindValidation  = "validation"
	KindNetwork     = "network"
	KindTransport   = "transport"
	KindParse       = "parse"
	KindPersistence = "persistence"
	KindUnknown     = "unknown"
)

// ValidationError blocks a submission before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError means no response was received from the backend.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("could not reach the analysis service: %v", e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrAnalysisFailed, e.Err}
}

// TransportError carries a non-success HTTP status and the body text.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("Error %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return ErrAnalysisFailed
}

// ParseError means the backend answered with a body that is not valid JSON
// in the expected shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid response from the analysis service: %v", e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrAnalysisFailed, e.Err}
}

// PersistenceError reports a history read or write failure. It never reaches
// the user interface.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// ErrorKind classifies err for telemetry.
func ErrorKind(err error) string {
	var (
		validationErr  *ValidationError
		networkErr     *NetworkError
		transportErr   *TransportError
		parseErr       *ParseError
		persistenceErr *PersistenceError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &networkErr):
		return KindNetwork
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &persistenceErr):
		return KindPersistence
	default:
		return KindUnknown
	}
}
