package utils

import (
	"errors"
	"fmt"
)

// Error kinds shared by every stage. Typed errors below match them through errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrDependencyMissing = errors.New("dependency missing")
	ErrProcessFailed     = errors.New("external process failed")
	ErrUpstream          = errors.New("upstream service failed")
)

// NotFoundError reports a referenced file or directory that does not exist
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DependencyError reports an engine or tool that could not be initialized
type DependencyError struct {
	Name string
	Err  error
}

func (e *DependencyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dependency %s is not available: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("dependency %s is not available", e.Name)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDependencyMissing
func (e *DependencyError) Is(target error) bool { return target == ErrDependencyMissing }

// ProcessError wraps a non-zero exit from an external tool with its diagnostic output
type ProcessError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command '%s' failed: %v\nstderr: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("command '%s' failed: %v", e.Command, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Is reports whether target is ErrProcessFailed
func (e *ProcessError) Is(target error) bool { return target == ErrProcessFailed }

// UpstreamError marks err as a generation or acquisition service failure
func UpstreamError(service string, err error) error {
	return fmt.Errorf("%s: %w: %w", service, ErrUpstream, err)
}
