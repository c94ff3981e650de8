package adapter

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/m-mizutani/butler/pkg/model"
)

// Shell executes a single resolved sub-command and reports the outcome as a
// structured record. Failures are data, not errors: the dispatcher decides
// what a failed sub-command means for the rest of the sequence.
type Shell interface {
	Run(ctx context.Context, command string) *model.CommandResult
}

// ExecShell runs sub-commands through the system shell with a bounded
// timeout per command.
type ExecShell struct {
	timeout time.Duration
}

type ExecShellOption func(*ExecShell)

func WithCommandTimeout(d time.Duration) ExecShellOption {
	return func(s *ExecShell) {
		s.timeout = d
	}
}

func NewExecShell(opts ...ExecShellOption) *ExecShell {
	s := &ExecShell{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ExecShell) Run(ctx context.Context, command string) *model.CommandResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return &model.CommandResult{
			Success: false,
			Output:  strings.TrimSpace(stdout.String()),
			Error:   msg,
		}
	}

	return &model.CommandResult{
		Success: true,
		Output:  strings.TrimSpace(stdout.String()),
	}
}
