package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure to load a configuration file.
type ErrorKind string

const (
	// KindRead indicates the configuration file could not be read.
	KindRead ErrorKind = "read"

	// KindParse indicates the file contents do not decode into the
	// configuration schema (syntax error, unknown or missing field).
	KindParse ErrorKind = "parse"

	// KindValidation indicates one or more validation passes failed.
	// ValidationErrors holds every violation found.
	KindValidation ErrorKind = "validation"
)

// Error is returned by LoadFile and LoadBytes. Read and parse failures
// carry a single cause in Err; validation failures carry the complete list
// in ValidationErrors.
type Error struct {
	Kind       ErrorKind
	ConfigPath string
	Err        error

	ValidationErrors ValidationErrors
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindRead:
		return fmt.Sprintf("failed to read config file %s: %v", e.ConfigPath, e.Err)
	case KindParse:
		return fmt.Sprintf("failed to parse config file %s: %v", e.ConfigPath, e.Err)
	case KindValidation:
		return fmt.Sprintf("invalid config file %s: %v", e.ConfigPath, e.ValidationErrors)
	default:
		return fmt.Sprintf("config file %s: %v", e.ConfigPath, e.Err)
	}
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	if e.Kind == KindValidation {
		return e.ValidationErrors
	}
	return e.Err
}

// Is implements error equality checking for errors.Is. Two errors match
// when they have the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newReadError(path string, err error) *Error {
	return &Error{Kind: KindRead, ConfigPath: path, Err: err}
}

func newParseError(path string, err error) *Error {
	return &Error{Kind: KindParse, ConfigPath: path, Err: err}
}

func newValidationError(path string, errs ValidationErrors) *Error {
	return &Error{Kind: KindValidation, ConfigPath: path, ValidationErrors: errs}
}

// IsReadError returns true if err is a configuration read failure.
func IsReadError(err error) bool {
	return hasKind(err, KindRead)
}

// IsParseError returns true if err is a configuration decode failure.
func IsParseError(err error) bool {
	return hasKind(err, KindParse)
}

// IsValidationError returns true if err is a configuration validation
// failure.
func IsValidationError(err error) bool {
	return hasKind(err, KindValidation)
}

func hasKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// ValidationKind identifies which validation rule a ValidationError
// violates.
type ValidationKind string

const (
	// RootNotDirectory is reported when the root directory does not exist or
	// is not a directory. No other filesystem check runs after it.
	RootNotDirectory ValidationKind = "root_not_directory"

	// SourceNotExistent is reported for a source directory that does not
	// exist.
	SourceNotExistent ValidationKind = "source_not_existent"

	// SourceNotDirectory is reported for a source path that exists but is
	// not a directory.
	SourceNotDirectory ValidationKind = "source_not_directory"

	// ProjectWithoutSource is reported for a project that has no source
	// directory mapped to its source set.
	ProjectWithoutSource ValidationKind = "project_without_source"
)

// ValidationError is a single violated rule. Path is set for the
// filesystem rules, Project for ProjectWithoutSource.
type ValidationError struct {
	Kind    ValidationKind `json:"kind"`
	Path    string         `json:"path,omitempty"`
	Project ProjectName    `json:"project,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case RootNotDirectory:
		return fmt.Sprintf("root directory %s is not a directory", e.Path)
	case SourceNotExistent:
		return fmt.Sprintf("source directory %s does not exist", e.Path)
	case SourceNotDirectory:
		return fmt.Sprintf("source %s is not a directory", e.Path)
	case ProjectWithoutSource:
		return fmt.Sprintf("project %q has no source directory for source set %q",
			e.Project, e.Project.AsSourceSetName())
	default:
		return string(e.Kind)
	}
}

// ValidationErrors is the batch of violations found by Load.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// OfKind returns the violations of the given kind.
func (errs ValidationErrors) OfKind(kind ValidationKind) ValidationErrors {
	var out ValidationErrors
	for _, e := range errs {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
