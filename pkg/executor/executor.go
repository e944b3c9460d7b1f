package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/gnzdotmx/videonote/internal/utils"
)

// execCommandContext allows us to mock exec.CommandContext in tests
var execCommandContext = exec.CommandContext

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Run runs an external command with the given arguments
func (e *implExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := execCommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	utils.LogDebug("Running: %s %s", name, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &utils.DependencyError{Name: name, Err: err}
		}
		return nil, &utils.ProcessError{
			Command: name,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return stdout.Bytes(), nil
}

// LookPath resolves file through utils.ExecLookPath
func (e *implExecutor) LookPath(file string) (string, error) {
	return utils.ExecLookPath(file)
}
