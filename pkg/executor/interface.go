package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Run executes name with args and returns its stdout. A non-zero exit
	// is reported as *utils.ProcessError carrying the captured stderr.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath resolves an executable name to a path
	LookPath(file string) (string, error)
}
