// Package hook runs external commands on rendered map files.
package hook

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes a command with arguments.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) error

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) error {
	return f(ctx, name, args...)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run starts the command and waits for it to finish.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("command %s failed: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Hook runs a configured command line with the target file appended.
type Hook struct {
	name    string
	command []string
	runner  Runner
	log     *slog.Logger
}

// New builds a hook from a command line such as "open" or "tile-map --zoom 4".
// An empty command line yields a hook that does nothing.
func New(name, command string, runner Runner, log *slog.Logger) *Hook {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Hook{
		name:    name,
		command: strings.Fields(command),
		runner:  runner,
		log:     log,
	}
}

// Enabled reports whether the hook has a command to run.
func (h *Hook) Enabled() bool {
	return len(h.command) > 0
}

// Run invokes the hook on path.
func (h *Hook) Run(ctx context.Context, path string) error {
	if !h.Enabled() {
		return nil
	}

	args := append(append([]string{}, h.command[1:]...), path)
	h.log.DebugContext(ctx, "Running hook", "hook", h.name, "command", h.command[0], "path", path)

	if err := h.runner.Run(ctx, h.command[0], args...); err != nil {
		return fmt.Errorf("%s hook: %w", h.name, err)
	}

	h.log.InfoContext(ctx, "Hook finished", "hook", h.name, "path", path)
	return nil
}
