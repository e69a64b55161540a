package transform

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"DataDigest/internal/ports"
)

// DefaultSteps builds the models, tests them, then regenerates the docs.
var DefaultSteps = []string{"run", "test", "docs generate"}

// CommandFunc creates the process for one step.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Runner drives the external SQL-modeling tool over the loaded warehouse.
type Runner struct {
	command    string
	projectDir string
	steps      []string
	exec       CommandFunc
	logger     *slog.Logger
}

var _ ports.Transformer = (*Runner)(nil)

// NewRunner configures the tool binary, its project directory and the ordered steps.
func NewRunner(command, projectDir string, steps []string, log *slog.Logger) *Runner {
	if len(steps) == 0 {
		steps = DefaultSteps
	}
	return &Runner{
		command:    command,
		projectDir: projectDir,
		steps:      steps,
		exec:       exec.CommandContext,
		logger:     log,
	}
}

// Transform runs each step in order and stops at the first failure.
func (r *Runner) Transform(ctx context.Context) error {
	if strings.TrimSpace(r.command) == "" {
		return fmt.Errorf("transform command is not configured")
	}

	for _, step := range r.steps {
		args := strings.Fields(step)
		if len(args) == 0 {
			continue
		}
		if r.projectDir != "" {
			args = append(args, "--project-dir", r.projectDir)
		}

		cmd := r.exec(ctx, r.command, args...)
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out

		if r.logger != nil {
			r.logger.Info("transform step", "step", step)
		}
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s %s: %w: %s", r.command, step, err, lastLine(out.String()))
		}
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
