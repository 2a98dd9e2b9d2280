// Package matcherr defines the error taxonomy shared by the matching engine.
//
// Every error type carries an ErrorKind classification and matches one of the
// exported sentinels through errors.Is, so callers can branch on the category
// without depending on concrete types.
package matcherr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrCorpusIntegrity = errors.New("corpus integrity error")
	ErrMetricDomain    = errors.New("metric domain error")
)

// ErrorClassifier allows errors to declare their classification.
type ErrorClassifier interface {
	ErrorKind() string
}

// Kind returns the classification of err, or "" when err carries none.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return ""
}

// ConfigurationError reports an invalid option. It is raised while
// constructing a component, never while answering a query.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Configuration builds a ConfigurationError for field.
func Configuration(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func (e *ConfigurationError) ErrorKind() string { return "configuration" }

// Conflict names two corpus entries that violate a uniqueness requirement.
type Conflict struct {
	Payload       string
	FirstIndex    int
	FirstText     string
	ConflictIndex int
	ConflictText  string
}

// CorpusIntegrityError lists every conflicting entry found during an index build.
type CorpusIntegrityError struct {
	Conflicts []Conflict
}

func (e *CorpusIntegrityError) Error() string {
	if len(e.Conflicts) == 0 {
		return ErrCorpusIntegrity.Error()
	}
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("payload %q: entry %d %q conflicts with entry %d %q",
			c.Payload, c.ConflictIndex, c.ConflictText, c.FirstIndex, c.FirstText))
	}
	return fmt.Sprintf("%s: %s", ErrCorpusIntegrity, strings.Join(parts, "; "))
}

func (e *CorpusIntegrityError) Is(target error) bool { return target == ErrCorpusIntegrity }

func (e *CorpusIntegrityError) ErrorKind() string { return "validation" }

// MetricDomainError reports input a metric cannot score. It must reach the
// caller; a silently wrong score would corrupt the ranking.
type MetricDomainError struct {
	Metric string
	Reason string
}

func (e *MetricDomainError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMetricDomain, e.Metric, e.Reason)
}

func (e *MetricDomainError) Is(target error) bool { return target == ErrMetricDomain }

func (e *MetricDomainError) ErrorKind() string { return "validation" }
