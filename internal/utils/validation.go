package utils

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ExecLookPath allows us to mock exec.LookPath in tests
var ExecLookPath = exec.LookPath

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ValidateFileExists returns a NotFoundError when path does not exist
func ValidateFileExists(path string) error {
	if path == "" {
		return &ValidationError{
			Field:   "path",
			Message: "file path is required",
		}
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: path, Err: err}
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return nil
}

// ValidateRequiredDependency checks if a required command is available
func ValidateRequiredDependency(cmd string) error {
	if _, err := ExecLookPath(cmd); err != nil {
		return &DependencyError{
			Name: cmd,
			Err:  fmt.Errorf("%s not found in PATH: %w", cmd, err),
		}
	}
	return nil
}

// ValidateOneOf checks that value is one of the allowed options
func ValidateOneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("unsupported value %q (allowed: %s)", value, strings.Join(allowed, ", ")),
	}
}
