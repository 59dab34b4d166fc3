package lint

import (
	"context"
	"os/exec"
)

// Runner executes external tools (git, golangci-lint) in a directory.
type Runner interface {
	// Output returns stdout only.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// CombinedOutput returns stdout and stderr interleaved.
	CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

func (execRunner) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
