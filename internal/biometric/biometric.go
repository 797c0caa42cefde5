// Package biometric wraps the device biometric primitive behind a yes/no
// prompt interface.
package biometric

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Gate answers capability queries and runs the platform biometric prompt.
type Gate interface {
	// Available reports whether biometric hardware is present.
	Available(ctx context.Context) bool

	// Enrolled reports whether the user has enrolled a biometric.
	Enrolled(ctx context.Context) bool

	// Prompt shows the platform biometric check and waits for the result.
	// It returns (false, nil) when the user fails or dismisses the check,
	// and a non-nil error only when the prompt itself could not run.
	Prompt(ctx context.Context, reason string) (bool, error)
}

// HelperGate delegates to an external helper command, the platform-specific
// bridge to Touch ID, fprintd or similar. Protocol: the helper is invoked
// with a subcommand ("available", "enrolled", "prompt <reason>") and answers
// via its exit code: 0 yes, 1 no.
type HelperGate struct {
	command string
}

func NewHelperGate(command string) *HelperGate {
	return &HelperGate{command: command}
}

func (g *HelperGate) Available(ctx context.Context) bool {
	if g.command == "" {
		return false
	}
	if _, err := exec.LookPath(g.command); err != nil {
		return false
	}
	return g.run(ctx, "available") == nil
}

func (g *HelperGate) Enrolled(ctx context.Context) bool {
	return g.command != "" && g.run(ctx, "enrolled") == nil
}

func (g *HelperGate) Prompt(ctx context.Context, reason string) (bool, error) {
	if g.command == "" {
		return false, errors.New("biometric: no helper configured")
	}

	err := g.run(ctx, "prompt", reason)
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}

	return false, fmt.Errorf("biometric: prompt failed: %w", err)
}

func (g *HelperGate) run(ctx context.Context, args ...string) error {
	return exec.CommandContext(ctx, g.command, args...).Run()
}
